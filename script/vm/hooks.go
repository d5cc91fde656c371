package vm

import (
	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/pkg/script"
)

// Hooks lets a host observe execution for a debugger or REPL breakpoint
// overlay (SPEC_FULL.md §4.6). Every field is optional; a nil
// hook is simply never called.
type Hooks struct {
	// BeforeInstr fires before each instruction executes. Returning false
	// halts execution with script.ErrHostAssert, letting a breakpoint
	// implementation stop the VM mid-script.
	BeforeInstr func(block *bytecode.Block, ip int, in bytecode.Instr) bool
	// OnCall fires when a scripted or native function is entered.
	OnCall func(fn script.Hash, objID script.ObjectID)
	// OnReturn fires when a called function finishes without a hard error:
	// a native call returning, or a scripted body reaching OpReturn or OpHalt.
	OnReturn func(fn script.Hash, result script.Cell)
}

func (h Hooks) beforeInstr(block *bytecode.Block, ip int, in bytecode.Instr) bool {
	if h.BeforeInstr == nil {
		return true
	}
	return h.BeforeInstr(block, ip, in)
}

func (h Hooks) onCall(fn script.Hash, objID script.ObjectID) {
	if h.OnCall != nil {
		h.OnCall(fn, objID)
	}
}

func (h Hooks) onReturn(fn script.Hash, result script.Cell) {
	if h.OnReturn != nil {
		h.OnReturn(fn, result)
	}
}
