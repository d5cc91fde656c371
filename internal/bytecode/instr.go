// Package bytecode defines the immutable instruction stream a Function
// body points into, the on-disk layout that stream is loaded from, and a
// small Assembler that lets hosts and tests build a Block directly —
// standing in for the compiler this core does not implement (see §1 of
// the spec: the lexer/parser/compiler are external collaborators).
package bytecode

import (
	"fmt"

	"github.com/tinscript-go/tinscript/pkg/script"
)

// Opcode is the closed set of instructions the VM interprets.
type Opcode uint8

const (
	OpNop Opcode = iota

	// Push/Pop
	OpPushLiteral    // push Type/A(int32 bits)/Const(string index)/Hash(object id literal)
	OpPushVar        // push value of Hash resolved in current namespace+locals
	OpPushMember     // push ObjectID(top of stack).member(Hash)
	OpPushElement    // push array element: base var Hash, index from top of stack
	OpPopToVar       // pop top of stack into variable Hash
	OpPopToMember    // pop top of stack into ObjectID(2nd).member(Hash)
	OpPopToElement   // pop top of stack into array element: base Hash, index 2nd-from-top
	OpDup            // duplicate top of stack
	OpPop            // discard top of stack

	// Arithmetic/Logic/Comparison — all carry an Op in A (script.Op)
	OpBinary // pop two, push script.Op(A) applied
	OpUnary  // pop one, push script.Op(A) applied (OpNot/OpNeg)

	// Control
	OpBranch        // unconditional backward/forward jump to A
	OpBranchIfFalse // pop, jump to A if zero/false
	OpJump          // alias of OpBranch; the VM executes both identically
	OpCall          // call global/static function Hash, B = arg count
	OpCallMethod    // call ObjectID(under args).method Hash, B = arg count
	OpReturn        // pop frame, leave parameter-slot-0 cell on stack

	// POD access
	OpPushPODMember // pop POD cell, push member Hash
	OpPopPODMember  // pop value then POD cell, write member Hash, push updated POD

	// Object ops
	OpObjectCreate  // push new ObjectID of class Hash
	OpObjectDestroy // pop ObjectID, destroy
	OpIsA           // pop ObjectID, push int32 0/1: namespace chain contains Hash

	// Type methods — non-hierarchical methods dispatched via a synthetic
	// namespace named for the operand's VarType (e.g. vector3f.length()).
	OpCallTypeMethod // pop receiver + B args, call Hash on synthetic type namespace

	OpHalt // stop execution of the current body cleanly (Assembler.Halt)
)

func (o Opcode) String() string {
	names := [...]string{
		"nop", "push_lit", "push_var", "push_member", "push_elem",
		"pop_var", "pop_member", "pop_elem", "dup", "pop",
		"binary", "unary",
		"branch", "branch_if_false", "jump", "call", "call_method", "return",
		"push_pod_member", "pop_pod_member",
		"object_create", "object_destroy", "is_a",
		"call_type_method", "halt",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// Instr is one bytecode instruction. Not every field is meaningful for
// every Opcode; see the Opcode constant comments above for which fields a
// given instruction reads.
type Instr struct {
	Op    Opcode
	Type  script.VarType
	Hash  script.Hash
	A     int32 // jump target / literal int32 bits / script.Op for OpBinary and OpUnary
	B     int32 // secondary operand, usually an argument count
	Const int32 // index into the owning Block's ConstPool, or -1
	Line  int   // source line, for debugger hooks and error locations
}
