package console

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View renders the transcript and command line, overlaying a breakpoint
// panel centered on top of both whenever the Context is paused.
func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}
	if m.quitting {
		return ""
	}

	background := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("tin console"),
		transcriptStyle.Width(m.width-2).Render(m.viewport.View()),
		promptStyle.Render("> ")+m.input.View(),
	)

	if m.paused {
		fg := breakpointPanel{pause: m.pause, width: m.width, height: m.height}
		bg := backgroundPanel{rendered: background, width: m.width, height: m.height}
		return overlay.New(fg, bg, overlay.Center, overlay.Center, 0, 0).View()
	}

	return background
}

// breakpointPanel is the small foreground tea.Model the overlay renders
// on top of the console when execution is suspended.
type breakpointPanel struct {
	pause         Pause
	width, height int
}

func (p breakpointPanel) Init() tea.Cmd { return nil }
func (p breakpointPanel) Update(tea.Msg) (tea.Model, tea.Cmd) { return p, nil }

func (p breakpointPanel) View() string {
	body := fmt.Sprintf(
		"breakpoint hit\n\nline %d, ip %d\nop %s\n\n:step or :continue to resume",
		p.pause.Line, p.pause.IP, p.pause.Instr.Op,
	)
	return overlayStyle.Render(body)
}

// backgroundPanel wraps an already-rendered string as the overlay's
// background tea.Model.
type backgroundPanel struct {
	rendered      string
	width, height int
}

func (b backgroundPanel) Init() tea.Cmd { return nil }
func (b backgroundPanel) Update(tea.Msg) (tea.Model, tea.Cmd) { return b, nil }
func (b backgroundPanel) View() string { return b.rendered }
