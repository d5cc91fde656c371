package stack

import (
	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
)

// MaxDepth bounds the number of nested call frames. Exceeding it raises
// script.ErrStackOverflow rather than growing forever on unbounded
// recursion (spec §4.5's recursion edge case).
const MaxDepth = 4096

// Releaser drops a reference held by a string cell that's about to be
// discarded. script/context wires this to the string table's RefDec.
type Releaser interface {
	RefDec(h script.Hash)
}

// Frame marks one active function invocation's locals window within the
// shared cell slice, plus the bookkeeping needed to resume the caller.
type Frame struct {
	Base      int // index of local slot 0 (the reserved return-value slot)
	NumLocals int
	Block     *bytecode.Block
	ReturnIP  int
}

// Stack is the VM's shared value stack plus its call-frame stack. It is
// not safe for concurrent use: a Context binds exactly one Stack and
// asserts single-thread access via internal/threadbind.
type Stack struct {
	cells    []script.Cell
	frames   []Frame
	releaser Releaser
}

// New creates an empty Stack. releaser may be nil in tests that don't
// exercise string lifetime.
func New(releaser Releaser) *Stack {
	return &Stack{releaser: releaser}
}

// Push appends a cell to the top of the value stack.
func (s *Stack) Push(c script.Cell) {
	s.cells = append(s.cells, c)
}

// Pop removes and returns the top cell. Popping an empty stack is a VM
// bug, not a recoverable script error, and panics.
func (s *Stack) Pop() script.Cell {
	n := len(s.cells) - 1
	c := s.cells[n]
	s.cells = s.cells[:n]
	return c
}

// Peek returns the top cell without removing it.
func (s *Stack) Peek() script.Cell {
	return s.cells[len(s.cells)-1]
}

// Len reports the number of cells currently on the value stack.
func (s *Stack) Len() int { return len(s.cells) }

// Local returns the cell at frame-relative slot i in the current frame.
func (s *Stack) Local(i int) script.Cell {
	f := s.currentFrame()
	return s.cells[f.Base+i]
}

// SetLocal writes the cell at frame-relative slot i in the current frame,
// releasing any string reference the slot previously held.
func (s *Stack) SetLocal(i int, c script.Cell) {
	f := s.currentFrame()
	idx := f.Base + i
	s.releaseIfString(s.cells[idx])
	s.cells[idx] = c
}

func (s *Stack) currentFrame() *Frame {
	return &s.frames[len(s.frames)-1]
}

// CurrentFrame exposes the active frame for the VM's dispatch loop
// (reading Block/ReturnIP).
func (s *Stack) CurrentFrame() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.currentFrame()
}

// Depth returns the number of active call frames.
func (s *Stack) Depth() int { return len(s.frames) }

// PushFrame reserves numLocals zero-valued cells above the current value
// stack top and opens a new frame over them, returning an error if this
// would exceed MaxDepth.
func (s *Stack) PushFrame(block *bytecode.Block, returnIP, numLocals int) error {
	if len(s.frames) >= MaxDepth {
		return script.ErrStackOverflow
	}
	base := len(s.cells)
	for i := 0; i < numLocals; i++ {
		s.cells = append(s.cells, script.Cell{})
	}
	s.frames = append(s.frames, Frame{Base: base, NumLocals: numLocals, Block: block, ReturnIP: returnIP})
	return nil
}

// PopFrame closes the current frame, releasing any string references its
// locals held and truncating the value stack back to the frame's base.
// It returns the frame's ReturnIP and Block for the caller to resume into.
func (s *Stack) PopFrame() (returnIP int, block *bytecode.Block) {
	f := s.currentFrame()
	for i := 0; i < f.NumLocals; i++ {
		s.releaseIfString(s.cells[f.Base+i])
	}
	returnIP, block = f.ReturnIP, f.Block
	s.cells = s.cells[:f.Base]
	s.frames = s.frames[:len(s.frames)-1]
	return returnIP, block
}

func (s *Stack) releaseIfString(c script.Cell) {
	if s.releaser == nil || c.Type != script.TypeString {
		return
	}
	h := script.GetHash(c.Payload)
	if h != script.NoHash {
		s.releaser.RefDec(h)
	}
}

// Reset discards every frame and value, releasing string references as it
// goes. Used by Context.Halt to recover from a mid-execution panic path.
func (s *Stack) Reset() {
	for len(s.frames) > 0 {
		s.PopFrame()
	}
	for _, c := range s.cells {
		s.releaseIfString(c)
	}
	s.cells = s.cells[:0]
}
