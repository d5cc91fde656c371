package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/pkg/script"
)

func TestTick_OrdersByWakeTimeThenFIFO(t *testing.T) {
	s := New()
	base := time.Unix(0, 0)
	fnA, fnB, fnC := script.HashString("a"), script.HashString("b"), script.HashString("c")

	s.Schedule(base.Add(100*time.Millisecond), 0, fnA, script.NilObjectID, nil)
	s.Schedule(base.Add(50*time.Millisecond), 0, fnB, script.NilObjectID, nil)
	s.Schedule(base.Add(200*time.Millisecond), 0, fnC, script.NilObjectID, nil)

	fires := s.Tick(base.Add(150 * time.Millisecond))
	require.Len(t, fires, 2)
	require.Equal(t, fnB, fires[0].Fn)
	require.Equal(t, fnA, fires[1].Fn)

	fires = s.Tick(base.Add(200 * time.Millisecond))
	require.Len(t, fires, 1)
	require.Equal(t, fnC, fires[0].Fn)
}

func TestTick_FIFOTieBreakAtSameInstant(t *testing.T) {
	s := New()
	at := time.Unix(0, 0)
	first := script.HashString("first")
	second := script.HashString("second")

	s.Schedule(at, 0, first, script.NilObjectID, nil)
	s.Schedule(at, 0, second, script.NilObjectID, nil)

	fires := s.Tick(at)
	require.Len(t, fires, 2)
	require.Equal(t, first, fires[0].Fn)
	require.Equal(t, second, fires[1].Fn)
}

func TestCancel_RemovesPendingEvent(t *testing.T) {
	s := New()
	at := time.Unix(0, 0).Add(time.Second)
	id := s.Schedule(at, 0, script.HashString("x"), script.NilObjectID, nil)
	require.Equal(t, 1, s.Pending())

	require.True(t, s.Cancel(id))
	require.Equal(t, 0, s.Pending())

	fires := s.Tick(at)
	require.Empty(t, fires)

	require.False(t, s.Cancel(id), "cancelling twice is a no-op, not an error")
}

func TestTick_RepeatReenqueuesWithoutDrift(t *testing.T) {
	s := New()
	base := time.Unix(0, 0)
	fn := script.HashString("tick")
	s.Schedule(base.Add(100*time.Millisecond), 100*time.Millisecond, fn, script.NilObjectID, nil)

	require.Empty(t, s.Tick(base.Add(50*time.Millisecond)))
	require.Len(t, s.Tick(base.Add(100*time.Millisecond)), 1)
	require.Empty(t, s.Tick(base.Add(150*time.Millisecond)))
	require.Len(t, s.Tick(base.Add(200*time.Millisecond)), 1)
}
