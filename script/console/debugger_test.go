package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/internal/bytecode"
)

func TestBreakpoints_SetClearSortedList(t *testing.T) {
	d := NewDebugger()
	d.SetBreakpoint(10)
	d.SetBreakpoint(3)
	d.SetBreakpoint(7)
	require.Equal(t, []int{3, 7, 10}, d.Breakpoints())

	d.ClearBreakpoint(7)
	require.Equal(t, []int{3, 10}, d.Breakpoints())
}

func TestHooks_PausesAndResumesAtBreakpoint(t *testing.T) {
	d := NewDebugger()
	d.SetBreakpoint(5)
	hooks := d.Hooks()

	done := make(chan bool, 1)
	go func() {
		cont := hooks.BeforeInstr(&bytecode.Block{}, 0, bytecode.Instr{Line: 5})
		done <- cont
	}()

	select {
	case p := <-d.Pauses:
		require.Equal(t, 5, p.Line)
	case <-time.After(time.Second):
		t.Fatal("expected a pause on the armed breakpoint line")
	}

	d.Resume(Resume{Step: false})

	select {
	case cont := <-done:
		require.True(t, cont)
	case <-time.After(time.Second):
		t.Fatal("BeforeInstr never returned after Resume")
	}
}

func TestHooks_SkipsLinesWithoutBreakpoint(t *testing.T) {
	d := NewDebugger()
	hooks := d.Hooks()

	cont := hooks.BeforeInstr(&bytecode.Block{}, 0, bytecode.Instr{Line: 99})
	require.True(t, cont)

	select {
	case <-d.Pauses:
		t.Fatal("should not pause on a line with no breakpoint")
	default:
	}
}
