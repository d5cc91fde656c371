package typereg

import (
	"fmt"
	"strconv"

	"github.com/tinscript-go/tinscript/pkg/script"
)

// registerBuiltins installs TypeInfo for every built-in VarType: their
// to/from-string pair, their cross-conversions, and the default
// arithmetic/comparison op overrides for the two numeric types. String
// concatenation ('+' where either operand is a string) is handled by the
// VM directly rather than as an op override here, since it needs access
// to the string table to intern its result — see doBinary in script/vm.
func registerBuiltins(r *Registry) {
	registerVoid(r)
	registerBool(r)
	registerInt32(r)
	registerFloat32(r)
	registerString(r)
	registerObjectID(r)
	registerHashtable(r)
}

func registerVoid(r *Registry) {
	r.RegisterType(script.TypeVoid, &TypeInfo{
		Name:       "void",
		Size:       0,
		ToString:   func(Payload) string { return "" },
		FromString: func(string) (Payload, bool) { return Payload{}, false },
	})
}

func registerBool(r *Registry) {
	r.RegisterType(script.TypeBool, &TypeInfo{
		Name: "bool",
		Size: 1,
		ToString: func(p Payload) string {
			if script.GetBool(p) {
				return "true"
			}
			return "false"
		},
		FromString: func(s string) (Payload, bool) {
			var p Payload
			switch s {
			case "true", "1":
				script.PutBool(&p, true)
			case "false", "0", "":
				script.PutBool(&p, false)
			default:
				return Payload{}, false
			}
			return p, true
		},
	})
	r.RegisterConvert(script.TypeInt32, script.TypeBool, func(src Payload) (Payload, bool) {
		var p Payload
		script.PutBool(&p, script.GetInt32(src) != 0)
		return p, true
	})
	r.RegisterConvert(script.TypeFloat32, script.TypeBool, func(src Payload) (Payload, bool) {
		var p Payload
		script.PutBool(&p, script.GetFloat32(src) != 0)
		return p, true
	})
	r.RegisterConvert(script.TypeBool, script.TypeInt32, func(src Payload) (Payload, bool) {
		var p Payload
		v := int32(0)
		if script.GetBool(src) {
			v = 1
		}
		script.PutInt32(&p, v)
		return p, true
	})

	boolBinary := func(op script.Op, left, right Payload) (script.VarType, Payload, bool) {
		var p Payload
		l, r := script.GetBool(left), script.GetBool(right)
		switch op {
		case script.OpBoolAnd:
			script.PutBool(&p, l && r)
		case script.OpBoolOr:
			script.PutBool(&p, l || r)
		case script.OpCompareEqual:
			return script.TypeInt32, intResult(l == r), true
		case script.OpCompareNotEqual:
			return script.TypeInt32, intResult(l != r), true
		default:
			return script.TypeVoid, Payload{}, false
		}
		return script.TypeBool, p, true
	}
	r.RegisterOpOverride(script.OpBoolAnd, script.TypeBool, boolBinary)
	r.RegisterOpOverride(script.OpBoolOr, script.TypeBool, boolBinary)
	r.RegisterOpOverride(script.OpCompareEqual, script.TypeBool, boolBinary)
	r.RegisterOpOverride(script.OpCompareNotEqual, script.TypeBool, boolBinary)
	r.RegisterOpOverride(script.OpNot, script.TypeBool, func(op script.Op, left, _ Payload) (script.VarType, Payload, bool) {
		var p Payload
		script.PutBool(&p, !script.GetBool(left))
		return script.TypeBool, p, true
	})
}

func intResult(b bool) Payload {
	var p Payload
	if b {
		script.PutInt32(&p, 1)
	} else {
		script.PutInt32(&p, 0)
	}
	return p
}

func registerInt32(r *Registry) {
	r.RegisterType(script.TypeInt32, &TypeInfo{
		Name: "int32",
		Size: 4,
		ToString: func(p Payload) string {
			return strconv.FormatInt(int64(script.GetInt32(p)), 10)
		},
		FromString: func(s string) (Payload, bool) {
			v, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return Payload{}, false
			}
			var p Payload
			script.PutInt32(&p, int32(v))
			return p, true
		},
	})
	r.RegisterConvert(script.TypeFloat32, script.TypeInt32, func(src Payload) (Payload, bool) {
		var p Payload
		script.PutInt32(&p, int32(script.GetFloat32(src)))
		return p, true
	})
	r.RegisterConvert(script.TypeBool, script.TypeInt32, func(src Payload) (Payload, bool) {
		var p Payload
		v := int32(0)
		if script.GetBool(src) {
			v = 1
		}
		script.PutInt32(&p, v)
		return p, true
	})

	r.RegisterOpOverride(script.OpNeg, script.TypeInt32, func(op script.Op, left, _ Payload) (script.VarType, Payload, bool) {
		var p Payload
		script.PutInt32(&p, -script.GetInt32(left))
		return script.TypeInt32, p, true
	})

	for _, op := range []script.Op{
		script.OpAdd, script.OpSub, script.OpMul, script.OpDiv, script.OpMod,
		script.OpShl, script.OpShr, script.OpAnd, script.OpOr, script.OpXor,
		script.OpCompareEqual, script.OpCompareNotEqual, script.OpCompareLess,
		script.OpCompareLessEqual, script.OpCompareGreater, script.OpCompareGreaterEqual,
	} {
		r.RegisterOpOverride(op, script.TypeInt32, intBinaryOp)
	}
}

// intBinaryOp never reports division/modulo by zero here: that recoverable
// case is the VM's responsibility (it must push a substitute 0 and record
// a RuntimeError, which an OpFunc signature has no room to do).
func intBinaryOp(op script.Op, left, right Payload) (script.VarType, Payload, bool) {
	l, rr := script.GetInt32(left), script.GetInt32(right)
	var p Payload
	switch op {
	case script.OpAdd:
		script.PutInt32(&p, l+rr)
	case script.OpSub:
		script.PutInt32(&p, l-rr)
	case script.OpMul:
		script.PutInt32(&p, l*rr)
	case script.OpDiv:
		if rr == 0 {
			return script.TypeVoid, Payload{}, false
		}
		script.PutInt32(&p, l/rr)
	case script.OpMod:
		if rr == 0 {
			return script.TypeVoid, Payload{}, false
		}
		script.PutInt32(&p, l%rr)
	case script.OpShl:
		script.PutInt32(&p, l<<uint32(rr))
	case script.OpShr:
		script.PutInt32(&p, l>>uint32(rr))
	case script.OpAnd:
		script.PutInt32(&p, l&rr)
	case script.OpOr:
		script.PutInt32(&p, l|rr)
	case script.OpXor:
		script.PutInt32(&p, l^rr)
	case script.OpCompareEqual:
		return script.TypeInt32, intResult(l == rr), true
	case script.OpCompareNotEqual:
		return script.TypeInt32, intResult(l != rr), true
	case script.OpCompareLess:
		return script.TypeInt32, intResult(l < rr), true
	case script.OpCompareLessEqual:
		return script.TypeInt32, intResult(l <= rr), true
	case script.OpCompareGreater:
		return script.TypeInt32, intResult(l > rr), true
	case script.OpCompareGreaterEqual:
		return script.TypeInt32, intResult(l >= rr), true
	default:
		return script.TypeVoid, Payload{}, false
	}
	return script.TypeInt32, p, true
}

func registerFloat32(r *Registry) {
	r.RegisterType(script.TypeFloat32, &TypeInfo{
		Name: "float32",
		Size: 4,
		ToString: func(p Payload) string {
			return strconv.FormatFloat(float64(script.GetFloat32(p)), 'f', 4, 32)
		},
		FromString: func(s string) (Payload, bool) {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return Payload{}, false
			}
			var p Payload
			script.PutFloat32(&p, float32(v))
			return p, true
		},
	})
	r.RegisterConvert(script.TypeInt32, script.TypeFloat32, func(src Payload) (Payload, bool) {
		var p Payload
		script.PutFloat32(&p, float32(script.GetInt32(src)))
		return p, true
	})

	r.RegisterOpOverride(script.OpNeg, script.TypeFloat32, func(op script.Op, left, _ Payload) (script.VarType, Payload, bool) {
		var p Payload
		script.PutFloat32(&p, -script.GetFloat32(left))
		return script.TypeFloat32, p, true
	})

	for _, op := range []script.Op{
		script.OpAdd, script.OpSub, script.OpMul, script.OpDiv,
		script.OpCompareEqual, script.OpCompareNotEqual, script.OpCompareLess,
		script.OpCompareLessEqual, script.OpCompareGreater, script.OpCompareGreaterEqual,
	} {
		r.RegisterOpOverride(op, script.TypeFloat32, floatBinaryOp)
	}
}

// floatBinaryOp lets IEEE division by zero through unchanged (±Inf/NaN),
// per spec §4.6's edge case: float divide by zero is not an error.
func floatBinaryOp(op script.Op, left, right Payload) (script.VarType, Payload, bool) {
	l, rr := script.GetFloat32(left), script.GetFloat32(right)
	var p Payload
	switch op {
	case script.OpAdd:
		script.PutFloat32(&p, l+rr)
	case script.OpSub:
		script.PutFloat32(&p, l-rr)
	case script.OpMul:
		script.PutFloat32(&p, l*rr)
	case script.OpDiv:
		script.PutFloat32(&p, l/rr)
	case script.OpCompareEqual:
		return script.TypeInt32, intResult(l == rr), true
	case script.OpCompareNotEqual:
		return script.TypeInt32, intResult(l != rr), true
	case script.OpCompareLess:
		return script.TypeInt32, intResult(l < rr), true
	case script.OpCompareLessEqual:
		return script.TypeInt32, intResult(l <= rr), true
	case script.OpCompareGreater:
		return script.TypeInt32, intResult(l > rr), true
	case script.OpCompareGreaterEqual:
		return script.TypeInt32, intResult(l >= rr), true
	default:
		return script.TypeVoid, Payload{}, false
	}
	return script.TypeFloat32, p, true
}

// registerString installs a TypeInfo whose ToString renders the Hash stored
// in the payload as "#xxxxxxxx"; no FromString is registered. typereg has
// no string table, so callers that want the text look the Hash up in
// script/strtab themselves.
func registerString(r *Registry) {
	r.RegisterType(script.TypeString, &TypeInfo{
		Name: "string",
		Size: 4,
		ToString: func(p Payload) string {
			return fmt.Sprintf("#%08x", script.GetHash(p))
		},
	})
}

func registerObjectID(r *Registry) {
	r.RegisterType(script.TypeObjectID, &TypeInfo{
		Name: "object_id",
		Size: 4,
		ToString: func(p Payload) string {
			return strconv.FormatUint(uint64(script.GetObjectID(p)), 10)
		},
	})
	r.RegisterOpOverride(script.OpCompareEqual, script.TypeObjectID, func(op script.Op, left, right Payload) (script.VarType, Payload, bool) {
		return script.TypeInt32, intResult(script.GetObjectID(left) == script.GetObjectID(right)), true
	})
	r.RegisterOpOverride(script.OpCompareNotEqual, script.TypeObjectID, func(op script.Op, left, right Payload) (script.VarType, Payload, bool) {
		return script.TypeInt32, intResult(script.GetObjectID(left) != script.GetObjectID(right)), true
	})
}

func registerHashtable(r *Registry) {
	r.RegisterType(script.TypeHashtable, &TypeInfo{
		Name: "hashtable",
		Size: 4,
		ToString: func(p Payload) string {
			return fmt.Sprintf("hashtable#%08x", script.GetHash(p))
		},
	})
}
