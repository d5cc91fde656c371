package namespace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
)

func TestLookupFunction_WalksParentChain(t *testing.T) {
	reg := namespace.New()
	base := reg.FindOrCreate(script.HashString("Base"))
	derived := reg.FindOrCreate(script.HashString("Derived"))
	require.NoError(t, derived.Link(base))

	fn := &namespace.Function{Name: script.HashString("greet"), Kind: namespace.KindNativeGlobal}
	base.DefineFunction(fn)

	got, owner, ok := derived.LookupFunction(script.HashString("greet"))
	require.True(t, ok)
	require.Same(t, fn, got)
	require.Same(t, base, owner)
}

func TestLookupFunction_DerivedOverridesBase(t *testing.T) {
	reg := namespace.New()
	base := reg.FindOrCreate(script.HashString("Base"))
	derived := reg.FindOrCreate(script.HashString("Derived"))
	require.NoError(t, derived.Link(base))

	name := script.HashString("speak")
	base.DefineFunction(&namespace.Function{Name: name, Kind: namespace.KindNativeGlobal})
	override := &namespace.Function{Name: name, Kind: namespace.KindNativeGlobal}
	derived.DefineFunction(override)

	got, owner, ok := derived.LookupFunction(name)
	require.True(t, ok)
	require.Same(t, override, got)
	require.Same(t, derived, owner)
}

func TestLink_RejectsCycle(t *testing.T) {
	reg := namespace.New()
	a := reg.FindOrCreate(script.HashString("A"))
	b := reg.FindOrCreate(script.HashString("B"))
	require.NoError(t, b.Link(a))

	err := a.Link(b)
	require.Error(t, err)
}

func TestGlobals_DefineLookupSetGet(t *testing.T) {
	reg := namespace.New()
	ns := reg.FindOrCreate(script.HashString("Main"))
	name := script.HashString("counter")

	e := ns.DefineGlobal(name, script.TypeInt32)
	require.Equal(t, script.TypeInt32, e.Type)

	lookedUp, owner, ok := ns.LookupGlobal(name)
	require.True(t, ok)
	require.Same(t, ns, owner)
	require.Equal(t, e.Slot, lookedUp.Slot)

	var p script.Payload
	script.PutInt32(&p, 5)
	owner.SetGlobalCell(lookedUp.Slot, script.Cell{Type: script.TypeInt32, Payload: p})
	require.Equal(t, int32(5), script.GetInt32(owner.GlobalCell(lookedUp.Slot).Payload))
}

func TestDefineMember_SlotsStackOnBase(t *testing.T) {
	reg := namespace.New()
	base := reg.FindOrCreate(script.HashString("Base"))
	derived := reg.FindOrCreate(script.HashString("Derived"))
	require.NoError(t, derived.Link(base))

	base.DefineMember(script.HashString("hp"), script.TypeInt32)
	e := derived.DefineMember(script.HashString("mana"), script.TypeInt32)

	require.Equal(t, 1, e.Slot)
	require.Equal(t, 2, derived.TotalMemberCount())
}
