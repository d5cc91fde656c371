package context_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
	"github.com/tinscript-go/tinscript/script/namespace"
)

func intCell(v int32) script.Cell {
	var p script.Payload
	script.PutInt32(&p, v)
	return script.Cell{Type: script.TypeInt32, Payload: p}
}

// TestExecFunction_NativeRegistration exercises registering a host Go
// function (mul2) and calling it through ExecFunction, the entry point a
// host uses to invoke a native global by name.
func TestExecFunction_NativeRegistration(t *testing.T) {
	ctx := context.New()
	ctx.RegisterNative("mul2", script.TypeInt32, namespace.NativeFunc(
		func(_ script.ObjectID, args []script.Cell) (script.Cell, error) {
			return intCell(script.GetInt32(args[0].Payload) * 2), nil
		},
	))

	res, err := ctx.ExecFunction(script.HashString("mul2"), script.NilObjectID, []script.Cell{intCell(21)})
	require.NoError(t, err)
	require.Equal(t, int32(42), script.GetInt32(res.Value.Payload))
}

// TestObjectLifecycle_CreateSetDestroy covers CBase-style object creation,
// member read/write, and destruction: once an object is destroyed its
// handle must no longer resolve.
func TestObjectLifecycle_CreateSetDestroy(t *testing.T) {
	ctx := context.New()
	classKey := script.HashString("CBase")
	ns := ctx.Namespaces.FindOrCreate(classKey)
	healthName := ns.DefineMember(script.HashString("health"), script.TypeInt32)

	obj := ctx.Objects.CreateScripted(ns, ns.TotalMemberCount())
	obj.SetMember(healthName.Slot, intCell(100))
	require.Equal(t, int32(100), script.GetInt32(obj.Member(healthName.Slot).Payload))

	ctx.Objects.Destroy(obj.ID)
	_, ok := ctx.Objects.Lookup(obj.ID)
	require.False(t, ok, "destroyed object must no longer be resolvable")
}

// TestTick_FiresDueEventsInOrder schedules one one-shot event due at
// 100ms and ticks at 50/100/200ms: it must not fire early, must fire once
// when due, and must not fire again.
func TestTick_FiresDueEventsInOrder(t *testing.T) {
	ctx := context.New()
	var fired []int32

	ctx.RegisterNative("onTick", script.TypeVoid, namespace.NativeFunc(
		func(_ script.ObjectID, args []script.Cell) (script.Cell, error) {
			fired = append(fired, script.GetInt32(args[0].Payload))
			return script.Cell{}, nil
		},
	))
	fnHash := ctx.Strings.Intern("onTick")

	base := epoch()
	ctx.Scheduler.Schedule(base.Add(100*time.Millisecond), 0, fnHash, script.NilObjectID, []script.Cell{intCell(1)})

	require.NoError(t, ctx.Tick(base.Add(50*time.Millisecond)))
	require.Empty(t, fired, "event due at 100ms must not fire at 50ms")

	require.NoError(t, ctx.Tick(base.Add(100*time.Millisecond)))
	require.Equal(t, []int32{1}, fired)

	require.NoError(t, ctx.Tick(base.Add(200*time.Millisecond)))
	require.Equal(t, []int32{1}, fired, "one-shot event must not re-fire")
}

func epoch() time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
}

// TestExecScript_RunsAnonymousBlock covers the host-bridge "run an
// already-compiled command" entry point: ExecScript wraps a bare Block in
// an anonymous void function and runs it once.
func TestExecScript_RunsAnonymousBlock(t *testing.T) {
	ctx := context.New()
	gHash := script.HashString("g")
	ctx.SetGlobal(gHash, script.TypeInt32, intCell(0))

	a := bytecode.NewAssembler()
	a.PushLiteral(script.TypeInt32, 7, -1)
	a.PopToVar(gHash)
	a.Return()

	_, err := ctx.ExecScript(a.Block())
	require.NoError(t, err)

	got, ok := ctx.GetGlobal(gHash)
	require.True(t, ok)
	require.Equal(t, int32(7), script.GetInt32(got.Payload))
}
