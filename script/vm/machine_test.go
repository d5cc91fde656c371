package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
	"github.com/tinscript-go/tinscript/script/object"
	"github.com/tinscript-go/tinscript/script/stack"
	"github.com/tinscript-go/tinscript/script/strtab"
	"github.com/tinscript-go/tinscript/script/typereg"
	"github.com/tinscript-go/tinscript/script/value"
	"github.com/tinscript-go/tinscript/script/vector3f"
	"github.com/tinscript-go/tinscript/script/vm"
)

func newMachine() (*vm.Machine, *namespace.Registry) {
	types := typereg.New()
	namespaces := namespace.New()
	objects := object.New()
	strings := strtab.New()
	stk := stack.New(strings)
	return vm.New(types, namespaces, objects, strings, stk), namespaces
}

func intCell(v int32) script.Cell {
	var p script.Payload
	script.PutInt32(&p, v)
	return script.Cell{Type: script.TypeInt32, Payload: p}
}

// buildFib assembles: fib(n) = n < 2 ? n : fib(n-1) + fib(n-2), exercising
// recursive OpCall, branching, and the reserved return-value slot.
func buildFib(fibHash, nHash, retHash script.Hash) *namespace.Function {
	a := bytecode.NewAssembler()
	a.PushVar(nHash)
	a.PushLiteral(script.TypeInt32, 2, -1)
	a.Binary(script.OpCompareLess)
	ipBF := a.BranchIfFalse(0)
	a.PushVar(nHash)
	a.PopToVar(retHash)
	ipBranchEnd := a.Branch(0)
	elseTarget := a.Label()
	a.PushVar(nHash)
	a.PushLiteral(script.TypeInt32, 1, -1)
	a.Binary(script.OpSub)
	a.Call(fibHash, 1)
	a.PushVar(nHash)
	a.PushLiteral(script.TypeInt32, 2, -1)
	a.Binary(script.OpSub)
	a.Call(fibHash, 1)
	a.Binary(script.OpAdd)
	a.PopToVar(retHash)
	endTarget := a.Label()
	a.Return()
	a.PatchA(ipBF, elseTarget)
	a.PatchA(ipBranchEnd, endTarget)

	ret := value.NewScalar(retHash, script.TypeInt32, value.StorageStack, 0)
	ret.Flags |= value.FlagReturnSlot
	param := value.NewScalar(nHash, script.TypeInt32, value.StorageStack, 1)
	param.Flags |= value.FlagParam

	return &namespace.Function{
		Name:   fibHash,
		Kind:   namespace.KindScripted,
		Params: []*value.Entry{ret, param},
		Locals: []*value.Entry{ret, param},
		Block:  a.Block(),
	}
}

func TestCall_RecursiveFibonacci(t *testing.T) {
	m, namespaces := newMachine()
	fibHash := script.HashString("fib")
	nHash := script.HashString("n")
	retHash := script.HashString("__ret")

	fn := buildFib(fibHash, nHash, retHash)
	root := namespaces.Root()
	root.DefineFunction(fn)

	res, err := m.Call(fn, root, script.NilObjectID, []script.Cell{intCell(10)})
	require.NoError(t, err)
	require.Equal(t, script.TypeInt32, res.Value.Type)
	require.Equal(t, int32(55), script.GetInt32(res.Value.Payload))
	require.Equal(t, 0, m.Stack.Len(), "stack must balance back to empty after the call")
	require.Equal(t, 0, m.Stack.Depth())
}

func TestCall_StringConcatenation(t *testing.T) {
	m, namespaces := newMachine()
	fnHash := script.HashString("concat")
	retHash := script.HashString("__ret")

	a := bytecode.NewAssembler()
	leftIdx := a.Const("3")
	rightIdx := a.Const("4")
	a.PushLiteral(script.TypeString, 0, leftIdx)
	a.PushLiteral(script.TypeString, 0, rightIdx)
	a.Binary(script.OpAdd)
	a.PopToVar(retHash)
	a.Return()

	ret := value.NewScalar(retHash, script.TypeString, value.StorageStack, 0)
	fn := &namespace.Function{
		Name:   fnHash,
		Kind:   namespace.KindScripted,
		Params: []*value.Entry{ret},
		Locals: []*value.Entry{ret},
		Block:  a.Block(),
	}
	root := namespaces.Root()
	root.DefineFunction(fn)

	res, err := m.Call(fn, root, script.NilObjectID, nil)
	require.NoError(t, err)
	require.Equal(t, script.TypeString, res.Value.Type)
	str, ok := m.Strings.Lookup(script.GetHash(res.Value.Payload))
	require.True(t, ok)
	require.Equal(t, "34", str)
}

func TestCall_DivideByZeroIsRecoverable(t *testing.T) {
	m, namespaces := newMachine()
	fnHash := script.HashString("divzero")
	retHash := script.HashString("__ret")

	a := bytecode.NewAssembler()
	a.PushLiteral(script.TypeInt32, 10, -1)
	a.PushLiteral(script.TypeInt32, 0, -1)
	a.Binary(script.OpDiv)
	a.PopToVar(retHash)
	a.Return()

	ret := value.NewScalar(retHash, script.TypeInt32, value.StorageStack, 0)
	fn := &namespace.Function{Name: fnHash, Kind: namespace.KindScripted, Params: []*value.Entry{ret}, Locals: []*value.Entry{ret}, Block: a.Block()}
	root := namespaces.Root()
	root.DefineFunction(fn)

	res, err := m.Call(fn, root, script.NilObjectID, nil)
	require.NoError(t, err)
	require.Equal(t, int32(0), script.GetInt32(res.Value.Payload))
	require.Len(t, res.Warnings, 1)
}

func TestCall_Vector3fScaleAndInvertedEquality(t *testing.T) {
	types := typereg.New()
	namespaces := namespace.New()
	objects := object.New()
	strings := strtab.New()
	stk := stack.New(strings)
	vector3f.Register(types, namespaces)
	m := vm.New(types, namespaces, objects, strings, stk)

	vecHash := script.HashString("scalev")
	retHash := script.HashString("__ret")

	// A vector3f literal has no int32-bits encoding PushLiteral can carry
	// (12 bytes), so a real compiler lowers a vector3f constructor into
	// PushLiteral(float)x3 + PopPODMember(x/y/z) writes against a variable.
	// This test instead pre-seeds a global with the value directly through
	// the type registry's FromString and reads it back with PushVar.
	lit, ok := types.FromString(script.TypeVector3f, "1 2 3")
	require.True(t, ok)

	root := namespaces.Root()
	g := root.DefineGlobal(vecHash, script.TypeVector3f)
	root.SetGlobalCell(g.Slot, script.Cell{Type: script.TypeVector3f, Payload: lit})

	a := bytecode.NewAssembler()
	a.PushVar(vecHash)
	a.PushLiteral(script.TypeFloat32, int32FromFloat(2), -1)
	a.Binary(script.OpMul)
	a.PopToVar(retHash)
	a.Return()

	ret := value.NewScalar(retHash, script.TypeVector3f, value.StorageStack, 0)
	fn := &namespace.Function{Name: script.HashString("scale"), Kind: namespace.KindScripted, Params: []*value.Entry{ret}, Locals: []*value.Entry{ret}, Block: a.Block()}

	res, err := m.Call(fn, root, script.NilObjectID, nil)
	require.NoError(t, err)
	got := vector3f.FromPayload(res.Value.Payload)
	require.InDelta(t, 2.0, got.X, 1e-6)
	require.InDelta(t, 4.0, got.Y, 1e-6)
	require.InDelta(t, 6.0, got.Z, 1e-6)

	// Equality is inverted by design: equal vectors compare to 0.
	eqFn, ok := types.OpOverride(script.OpCompareEqual, script.TypeVector3f)
	require.True(t, ok)
	_, eqResult, ok := eqFn(script.OpCompareEqual, lit, lit)
	require.True(t, ok)
	require.Equal(t, int32(0), script.GetInt32(eqResult))
}

func int32FromFloat(f float32) int32 {
	var p script.Payload
	script.PutFloat32(&p, f)
	return script.GetInt32(p)
}
