package console

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const inputHeight = 3

// Update handles every Bubble Tea message: window resizes, key presses in
// the command line, and the async messages the console's own commands
// produce (breakpoint pauses, call results, clipboard outcomes).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		vpHeight := msg.Height - inputHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.viewport.SetContent("")
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 2

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case msg.Type == tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			if line != "" {
				m.appendLine(promptStyle.Render("> ") + line)
				if cmd := m.handleCommand(line); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
			return m, tea.Batch(cmds...)
		}

	case pauseMsg:
		m.paused = true
		m.pause = Pause(msg)
		cmds = append(cmds, listenForPause(m.debugger))

	case execResultMsg:
		if msg.err != nil {
			m.appendLine(errStyle.Render(fmt.Sprintf("%s: %v", msg.name, msg.err)))
		} else {
			m.lastValue = msg.str
			m.appendLine(okStyle.Render(fmt.Sprintf("%s -> %s", msg.name, msg.str)))
		}

	case clipboardMsg:
		if msg.err != nil {
			m.appendLine(errStyle.Render("copy failed: " + msg.err.Error()))
		} else {
			m.appendLine(mutedStyle.Render("copied to clipboard"))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

