package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
)

// Model is the REPL's Bubble Tea program state: one transcript viewport,
// one command-line text input, and whatever breakpoint pause is currently
// suspending the Context's execution goroutine, if any.
type Model struct {
	worker   *context.Worker
	debugger *Debugger
	keys     KeyMap

	viewport viewport.Model
	input    textinput.Model
	lines    []string

	width, height int
	ready         bool

	paused    bool
	pause     Pause
	lastValue string

	quitting bool
}

// NewModel builds a console bound to worker. debugger may be nil if the
// host doesn't want breakpoint support; pass the same Debugger installed
// via worker.Context().SetHooks(debugger.Hooks()) to let the console
// drive it.
func NewModel(worker *context.Worker, debugger *Debugger) Model {
	ti := textinput.New()
	ti.Placeholder = "call fib 10 | get g | set g int32 5 | :break 12 | :continue | :copy | :quit"
	ti.Focus()
	ti.CharLimit = 256

	return Model{
		worker:   worker,
		debugger: debugger,
		keys:     DefaultKeyMap(),
		input:    ti,
		lines:    []string{mutedStyle.Render("tin console — type :help for commands")},
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.debugger != nil {
		cmds = append(cmds, listenForPause(m.debugger))
	}
	return tea.Batch(cmds...)
}

func (m *Model) appendLine(s string) {
	m.lines = append(m.lines, s)
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// pauseMsg is delivered when the Debugger suspends execution at a
// breakpoint or single-step boundary.
type pauseMsg Pause

// execResultMsg is delivered when an async `call` command finishes.
type execResultMsg struct {
	name string
	cell script.Cell
	str  string
	err  error
}

// clipboardMsg reports the outcome of a :copy command.
type clipboardMsg struct{ err error }

func listenForPause(d *Debugger) tea.Cmd {
	return func() tea.Msg {
		return pauseMsg(<-d.Pauses)
	}
}
