package bytecode

// Block is an immutable instruction stream plus its companion constant
// pool of literal strings. Multiple Functions may point into one Block at
// different offsets. A Block is reference counted: it lives as long as any
// Function still references it (spec §3's CodeBlock lifecycle).
type Block struct {
	Instrs    []Instr
	ConstPool []string
	refs      int
}

// NewBlock wraps a finished instruction stream and constant pool.
func NewBlock(instrs []Instr, constPool []string) *Block {
	return &Block{Instrs: instrs, ConstPool: constPool}
}

// Retain increments the Block's reference count. Call it whenever a
// Function is registered pointing into this Block.
func (b *Block) Retain() { b.refs++ }

// Release decrements the reference count and reports whether it reached
// zero. Callers that drop the last reference should discard the Block.
func (b *Block) Release() bool {
	if b.refs > 0 {
		b.refs--
	}
	return b.refs == 0
}

// Refs reports the current reference count, mostly useful for tests.
func (b *Block) Refs() int { return b.refs }

// Const returns the constant pool string at index i, or "" if out of range.
func (b *Block) Const(i int32) string {
	if i < 0 || int(i) >= len(b.ConstPool) {
		return ""
	}
	return b.ConstPool[i]
}

// At returns the instruction at offset ip and whether ip was in range.
func (b *Block) At(ip int) (Instr, bool) {
	if ip < 0 || ip >= len(b.Instrs) {
		return Instr{}, false
	}
	return b.Instrs[ip], true
}

// Len is the number of instructions in the block.
func (b *Block) Len() int { return len(b.Instrs) }
