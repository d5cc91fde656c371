package vector3f

import (
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
	"github.com/tinscript-go/tinscript/script/typereg"
)

var memberX = script.HashString("x")
var memberY = script.HashString("y")
var memberZ = script.HashString("z")

// Register installs vector3f's TypeInfo (string conversion, POD member
// table, operator overrides) into types, and its type methods
// (length/normalize/dot/cross/...) into the synthetic type-method
// namespace the VM's OpCallTypeMethod dispatches through.
func Register(types *typereg.Registry, namespaces *namespace.Registry) {
	types.RegisterType(script.TypeVector3f, &typereg.TypeInfo{
		Name: "vector3f",
		Size: 12,
		ToString: func(p typereg.Payload) string {
			return FromPayload(p).String()
		},
		FromString: func(s string) (typereg.Payload, bool) {
			v, ok := ParseString(s)
			if !ok {
				return typereg.Payload{}, false
			}
			return ToPayload(v), true
		},
	})

	types.RegisterPODType(script.TypeVector3f, map[script.Hash]typereg.PODMember{
		memberX: {Type: script.TypeFloat32, Offset: 0},
		memberY: {Type: script.TypeFloat32, Offset: 4},
		memberZ: {Type: script.TypeFloat32, Offset: 8},
	})

	types.RegisterConvert(script.TypeVector3f, script.TypeBool, func(src typereg.Payload) (typereg.Payload, bool) {
		var p typereg.Payload
		script.PutBool(&p, FromPayload(src) != Zero)
		return p, true
	})

	types.RegisterOpOverride(script.OpAdd, script.TypeVector3f, vectorVectorOp)
	types.RegisterOpOverride(script.OpSub, script.TypeVector3f, vectorVectorOp)
	// The inverted equality result (0 == equal) is preserved from the
	// original implementation's Vector3fOpOverrides, not a bug we fixed.
	types.RegisterOpOverride(script.OpCompareEqual, script.TypeVector3f, vectorEqualityOp)
	types.RegisterOpOverride(script.OpCompareNotEqual, script.TypeVector3f, vectorEqualityOp)
	types.RegisterOpOverride(script.OpMul, script.TypeVector3f, ScaleOp)
	types.RegisterOpOverride(script.OpDiv, script.TypeVector3f, ScaleOp)

	registerTypeMethods(namespaces)
}

func vectorVectorOp(op script.Op, left, right typereg.Payload) (script.VarType, typereg.Payload, bool) {
	a, b := FromPayload(left), FromPayload(right)
	var result Vector3f
	switch op {
	case script.OpAdd:
		result = a.Add(b)
	case script.OpSub:
		result = a.Sub(b)
	default:
		return script.TypeVoid, typereg.Payload{}, false
	}
	return script.TypeVector3f, ToPayload(result), true
}

func vectorEqualityOp(op script.Op, left, right typereg.Payload) (script.VarType, typereg.Payload, bool) {
	equal := FromPayload(left) == FromPayload(right)
	var p typereg.Payload
	wantNotEqual := equal
	if op == script.OpCompareNotEqual {
		wantNotEqual = !equal
	}
	if wantNotEqual {
		script.PutInt32(&p, 1)
	}
	return script.TypeInt32, p, true
}

// ScaleOp implements vector3f's Mult/Div against a scalar: the left
// payload is always the vector3f operand and the right payload is always
// the scalar packed as a lone float32, regardless of which side the
// script wrote the vector on. The VM's binary dispatch (script/vm/ops.go)
// special-cases vector*scalar/scalar*vector/vector/scalar before generic
// same-type lookup and always calls this with that normalized shape,
// mirroring Vector3fScale's own val0/val1 swap for everything but
// division (the original never lets a scalar be divided by a vector).
func ScaleOp(op script.Op, left, right typereg.Payload) (script.VarType, typereg.Payload, bool) {
	v := FromPayload(left)
	s := script.GetFloat32(right)
	switch op {
	case script.OpMul:
		return script.TypeVector3f, ToPayload(v.Scale(s)), true
	case script.OpDiv:
		return script.TypeVector3f, ToPayload(v.DivScalar(s)), true
	default:
		return script.TypeVoid, typereg.Payload{}, false
	}
}

func registerTypeMethods(namespaces *namespace.Registry) {
	ns := namespaces.FindOrCreate(namespace.TypeNamespaceKey(script.TypeVector3f))

	ns.DefineFunction(&namespace.Function{
		Name: script.HashString("length"),
		Kind: namespace.KindNativeMethod,
		Native: namespace.NativeFunc(func(_ script.ObjectID, args []script.Cell) (script.Cell, error) {
			v := FromPayload(args[0].Payload)
			var p script.Payload
			script.PutFloat32(&p, v.Length())
			return script.Cell{Type: script.TypeFloat32, Payload: p}, nil
		}),
	})

	ns.DefineFunction(&namespace.Function{
		Name: script.HashString("normalized"),
		Kind: namespace.KindNativeMethod,
		Native: namespace.NativeFunc(func(_ script.ObjectID, args []script.Cell) (script.Cell, error) {
			v := FromPayload(args[0].Payload)
			return script.Cell{Type: script.TypeVector3f, Payload: ToPayload(v.Normalized())}, nil
		}),
	})

	// normalize() returns the pre-normalization length, matching
	// TypeVector3f_Normalize; unlike the original it cannot write the
	// normalized value back into the caller's variable (the VM has no
	// by-reference type-method calling convention), so callers wanting
	// the vector itself should use normalized() instead.
	ns.DefineFunction(&namespace.Function{
		Name: script.HashString("normalize"),
		Kind: namespace.KindNativeMethod,
		Native: namespace.NativeFunc(func(_ script.ObjectID, args []script.Cell) (script.Cell, error) {
			v := FromPayload(args[0].Payload)
			var p script.Payload
			script.PutFloat32(&p, v.Length())
			return script.Cell{Type: script.TypeFloat32, Payload: p}, nil
		}),
	})

	ns.DefineFunction(&namespace.Function{
		Name: script.HashString("dot"),
		Kind: namespace.KindNativeMethod,
		Native: namespace.NativeFunc(func(_ script.ObjectID, args []script.Cell) (script.Cell, error) {
			v := FromPayload(args[0].Payload)
			o := FromPayload(args[1].Payload)
			var p script.Payload
			script.PutFloat32(&p, v.Dot(o))
			return script.Cell{Type: script.TypeFloat32, Payload: p}, nil
		}),
	})

	ns.DefineFunction(&namespace.Function{
		Name: script.HashString("cross"),
		Kind: namespace.KindNativeMethod,
		Native: namespace.NativeFunc(func(_ script.ObjectID, args []script.Cell) (script.Cell, error) {
			v := FromPayload(args[0].Payload)
			o := FromPayload(args[1].Payload)
			return script.Cell{Type: script.TypeVector3f, Payload: ToPayload(v.Cross(o))}, nil
		}),
	})
}
