package console

import (
	"sync"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/script/vm"
)

// Pause describes the VM state the moment a breakpoint (or a single step)
// suspended execution.
type Pause struct {
	Block *bytecode.Block
	IP    int
	Line  int
	Instr bytecode.Instr
}

// Resume tells a suspended Debugger.Hooks call how to proceed.
type Resume struct {
	Step bool // true: stop again at the very next instruction
}

// Debugger turns vm.Hooks.BeforeInstr into a rendezvous point: execution
// blocks on the goroutine running the Call until the console sends a
// Resume, letting the Bubble Tea event loop stay responsive while a
// scripted call is suspended mid-frame.
//
// Grounded on the nil-checked, optional-hook shape script/vm/hooks.go
// already exposes; Debugger is the one production implementation of a
// hook consumer, matching the doc comment's promise in hooks.go.
type Debugger struct {
	mu          sync.Mutex
	breakpoints map[int]bool
	stepping    bool

	Pauses  chan Pause
	resumes chan Resume
}

// NewDebugger creates a Debugger with no breakpoints set.
func NewDebugger() *Debugger {
	return &Debugger{
		breakpoints: make(map[int]bool),
		Pauses:      make(chan Pause),
		resumes:     make(chan Resume),
	}
}

// SetBreakpoint arms a stop at the given source line.
func (d *Debugger) SetBreakpoint(line int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakpoints[line] = true
}

// ClearBreakpoint disarms a previously set line.
func (d *Debugger) ClearBreakpoint(line int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.breakpoints, line)
}

// Breakpoints lists every currently armed line, sorted ascending.
func (d *Debugger) Breakpoints() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	lines := make([]int, 0, len(d.breakpoints))
	for l := range d.breakpoints {
		lines = append(lines, l)
	}
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && lines[j-1] > lines[j]; j-- {
			lines[j-1], lines[j] = lines[j], lines[j-1]
		}
	}
	return lines
}

// Resume sends r to whichever Call is currently suspended at a breakpoint.
// It is a no-op if nothing is paused.
func (d *Debugger) Resume(r Resume) {
	select {
	case d.resumes <- r:
	default:
	}
}

// Hooks returns the vm.Hooks this Debugger drives. Install it on a
// Machine with ctx.SetHooks(debugger.Hooks()) before attaching a console.
func (d *Debugger) Hooks() vm.Hooks {
	return vm.Hooks{
		BeforeInstr: d.beforeInstr,
	}
}

func (d *Debugger) beforeInstr(block *bytecode.Block, ip int, in bytecode.Instr) bool {
	d.mu.Lock()
	stop := d.stepping || d.breakpoints[in.Line]
	d.mu.Unlock()
	if !stop {
		return true
	}

	d.Pauses <- Pause{Block: block, IP: ip, Line: in.Line, Instr: in}
	r := <-d.resumes

	d.mu.Lock()
	d.stepping = r.Step
	d.mu.Unlock()
	return true
}
