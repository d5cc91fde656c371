package bytecode

import "github.com/tinscript-go/tinscript/pkg/script"

// Assembler builds a Block instruction-by-instruction. It exists because
// this core does not implement the lexer/parser/compiler (spec §1: they
// produce a syntax tree the compiler consumes, and are out of scope); the
// reference host and every test in this module build bytecode directly
// through an Assembler rather than a parser.
type Assembler struct {
	instrs    []Instr
	constPool []string
	line      int
}

// NewAssembler starts an empty instruction stream.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Line sets the source line attributed to subsequently emitted instructions.
func (a *Assembler) Line(n int) *Assembler {
	a.line = n
	return a
}

// Label returns the offset the next emitted instruction will occupy,
// useful for computing branch targets before the branch site is known.
func (a *Assembler) Label() int32 {
	return int32(len(a.instrs))
}

// Const interns s into the constant pool, returning its index.
func (a *Assembler) Const(s string) int32 {
	for i, existing := range a.constPool {
		if existing == s {
			return int32(i)
		}
	}
	a.constPool = append(a.constPool, s)
	return int32(len(a.constPool) - 1)
}

func (a *Assembler) emit(in Instr) int32 {
	in.Line = a.line
	a.instrs = append(a.instrs, in)
	return int32(len(a.instrs) - 1)
}

func (a *Assembler) PushLiteral(t script.VarType, bits int32, constIdx int32) int32 {
	return a.emit(Instr{Op: OpPushLiteral, Type: t, A: bits, Const: constIdx})
}

func (a *Assembler) PushVar(name script.Hash) int32 {
	return a.emit(Instr{Op: OpPushVar, Hash: name})
}

func (a *Assembler) PushMember(member script.Hash) int32 {
	return a.emit(Instr{Op: OpPushMember, Hash: member})
}

func (a *Assembler) PushElement(base script.Hash) int32 {
	return a.emit(Instr{Op: OpPushElement, Hash: base})
}

func (a *Assembler) PopToVar(name script.Hash) int32 {
	return a.emit(Instr{Op: OpPopToVar, Hash: name})
}

func (a *Assembler) PopToMember(member script.Hash) int32 {
	return a.emit(Instr{Op: OpPopToMember, Hash: member})
}

func (a *Assembler) PopToElement(base script.Hash) int32 {
	return a.emit(Instr{Op: OpPopToElement, Hash: base})
}

func (a *Assembler) Dup() int32 { return a.emit(Instr{Op: OpDup}) }
func (a *Assembler) Pop() int32 { return a.emit(Instr{Op: OpPop}) }

func (a *Assembler) Binary(op script.Op) int32 {
	return a.emit(Instr{Op: OpBinary, A: int32(op)})
}

func (a *Assembler) Unary(op script.Op) int32 {
	return a.emit(Instr{Op: OpUnary, A: int32(op)})
}

// Branch emits an unconditional jump to target, patched later via PatchA
// if target isn't known yet.
func (a *Assembler) Branch(target int32) int32 {
	return a.emit(Instr{Op: OpBranch, A: target})
}

func (a *Assembler) BranchIfFalse(target int32) int32 {
	return a.emit(Instr{Op: OpBranchIfFalse, A: target})
}

func (a *Assembler) Jump(target int32) int32 {
	return a.emit(Instr{Op: OpJump, A: target})
}

func (a *Assembler) Call(fn script.Hash, argc int32) int32 {
	return a.emit(Instr{Op: OpCall, Hash: fn, B: argc})
}

func (a *Assembler) CallMethod(method script.Hash, argc int32) int32 {
	return a.emit(Instr{Op: OpCallMethod, Hash: method, B: argc})
}

func (a *Assembler) Return() int32 { return a.emit(Instr{Op: OpReturn}) }

func (a *Assembler) PushPODMember(member script.Hash) int32 {
	return a.emit(Instr{Op: OpPushPODMember, Hash: member})
}

func (a *Assembler) PopPODMember(member script.Hash) int32 {
	return a.emit(Instr{Op: OpPopPODMember, Hash: member})
}

func (a *Assembler) ObjectCreate(class script.Hash) int32 {
	return a.emit(Instr{Op: OpObjectCreate, Hash: class})
}

func (a *Assembler) ObjectDestroy() int32 { return a.emit(Instr{Op: OpObjectDestroy}) }

func (a *Assembler) IsA(class script.Hash) int32 {
	return a.emit(Instr{Op: OpIsA, Hash: class})
}

func (a *Assembler) CallTypeMethod(method script.Hash, argc int32) int32 {
	return a.emit(Instr{Op: OpCallTypeMethod, Hash: method, B: argc})
}

func (a *Assembler) Halt() int32 { return a.emit(Instr{Op: OpHalt}) }

// PatchA rewrites the A operand of the instruction at ip, for back-patching
// forward branches once their target label is known.
func (a *Assembler) PatchA(ip int32, target int32) {
	a.instrs[ip].A = target
}

// Block finalizes the assembled instruction stream into an immutable Block.
func (a *Assembler) Block() *Block {
	instrs := make([]Instr, len(a.instrs))
	copy(instrs, a.instrs)
	pool := make([]string, len(a.constPool))
	copy(pool, a.constPool)
	return NewBlock(instrs, pool)
}
