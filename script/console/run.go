package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinscript-go/tinscript/script/context"
)

// Run attaches a console to worker and blocks until the user quits. If
// debugger is non-nil, worker.Context().SetHooks(debugger.Hooks()) should
// already have been called by the caller so breakpoints set from the
// console actually suspend execution.
func Run(worker *context.Worker, debugger *Debugger) error {
	p := tea.NewProgram(NewModel(worker, debugger))
	_, err := p.Run()
	return err
}
