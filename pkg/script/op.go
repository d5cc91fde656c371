package script

import "fmt"

// Op enumerates the binary and unary operators that the type registry keys
// its op-override table on. It is shared by the bytecode opcode set (whose
// arithmetic/comparison opcodes each carry one Op) and by every registered
// type's override table, so a POD type's Vector3fOpOverrides-style handler
// and the VM's default-numeric fallback speak the same vocabulary.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpAnd
	OpOr
	OpXor
	OpBoolAnd
	OpBoolOr
	OpNot
	OpNeg
	OpCompareEqual
	OpCompareNotEqual
	OpCompareLess
	OpCompareLessEqual
	OpCompareGreater
	OpCompareGreaterEqual
)

func (o Op) String() string {
	names := [...]string{
		"add", "sub", "mul", "div", "mod", "shl", "shr", "and", "or", "xor",
		"bool_and", "bool_or", "not", "neg",
		"eq", "ne", "lt", "le", "gt", "ge",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// IsComparison reports whether o is one of the six comparison operators,
// which always push an int32 0/1 result regardless of operand type.
func (o Op) IsComparison() bool {
	return o >= OpCompareEqual && o <= OpCompareGreaterEqual
}
