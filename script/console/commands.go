package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/context"
	"github.com/tinscript-go/tinscript/script/vm"
)

// handleCommand parses one command-line entry and either answers
// synchronously (get/set/:break/:continue/:quit) or kicks off an async
// command: a call that reports back via execResultMsg, or a :copy that
// reports back via clipboardMsg.
func (m *Model) handleCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case ":quit", ":q":
		m.quitting = true
		return tea.Quit

	case ":help":
		m.appendLine(mutedStyle.Render(helpText))
		return nil

	case ":break":
		return m.cmdBreak(fields)
	case ":clear":
		return m.cmdClearBreak(fields)
	case ":continue", ":c":
		return m.cmdResume(Resume{Step: false})
	case ":step", ":s":
		return m.cmdResume(Resume{Step: true})
	case ":copy":
		return m.cmdCopy()

	case "get":
		return m.cmdGet(fields)
	case "set":
		return m.cmdSet(fields)
	case "call":
		return m.cmdCall(fields)

	default:
		m.appendLine(errStyle.Render(fmt.Sprintf("unknown command %q (try :help)", fields[0])))
		return nil
	}
}

const helpText = `commands:
  get <name>                     read a global
  set <name> <type> <value>      write a global (type: int32|float32|bool|string)
  call <name> [args...]          invoke a registered/scripted global function
  :break <line>                  arm a breakpoint
  :clear <line>                  disarm a breakpoint
  :continue | :step              resume a paused call
  :copy                          copy the last inspected value to the clipboard
  :quit`

func (m *Model) cmdBreak(fields []string) tea.Cmd {
	if m.debugger == nil || len(fields) != 2 {
		m.appendLine(errStyle.Render("usage: :break <line>"))
		return nil
	}
	line, err := strconv.Atoi(fields[1])
	if err != nil {
		m.appendLine(errStyle.Render("bad line number: " + fields[1]))
		return nil
	}
	m.debugger.SetBreakpoint(line)
	m.appendLine(okStyle.Render(fmt.Sprintf("breakpoint armed at line %d", line)))
	return nil
}

func (m *Model) cmdClearBreak(fields []string) tea.Cmd {
	if m.debugger == nil || len(fields) != 2 {
		m.appendLine(errStyle.Render("usage: :clear <line>"))
		return nil
	}
	line, err := strconv.Atoi(fields[1])
	if err != nil {
		m.appendLine(errStyle.Render("bad line number: " + fields[1]))
		return nil
	}
	m.debugger.ClearBreakpoint(line)
	m.appendLine(mutedStyle.Render(fmt.Sprintf("breakpoint at line %d cleared", line)))
	return nil
}

func (m *Model) cmdResume(r Resume) tea.Cmd {
	if m.debugger == nil || !m.paused {
		m.appendLine(errStyle.Render("nothing is paused"))
		return nil
	}
	m.paused = false
	// The listener armed when the pauseMsg arrived is still waiting on
	// d.Pauses, so resuming here doesn't need to re-arm one itself.
	m.debugger.Resume(r)
	return nil
}

func (m *Model) cmdCopy() tea.Cmd {
	if m.lastValue == "" {
		m.appendLine(errStyle.Render("nothing to copy yet"))
		return nil
	}
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(m.lastValue)}
	}
}

func (m *Model) cmdGet(fields []string) tea.Cmd {
	if len(fields) != 2 {
		m.appendLine(errStyle.Render("usage: get <name>"))
		return nil
	}
	name := script.HashString(fields[1])
	ctx := m.worker.Context()
	cell, ok := ctx.GetGlobal(name)
	if !ok {
		m.appendLine(errStyle.Render(fmt.Sprintf("no global named %q", fields[1])))
		return nil
	}
	str := renderCell(ctx, cell)
	m.lastValue = str
	m.appendLine(fmt.Sprintf("%s = %s", fields[1], str))
	return nil
}

func (m *Model) cmdSet(fields []string) tea.Cmd {
	if len(fields) != 4 {
		m.appendLine(errStyle.Render("usage: set <name> <type> <value>"))
		return nil
	}
	t, ok := parseVarType(fields[2])
	if !ok {
		m.appendLine(errStyle.Render("unknown type: " + fields[2]))
		return nil
	}
	ctx := m.worker.Context()
	cell := script.Cell{Type: t}
	if t == script.TypeString {
		h := ctx.Strings.Intern(fields[3])
		script.PutHash(&cell.Payload, h)
	} else {
		p, ok := ctx.Types.FromString(t, fields[3])
		if !ok {
			m.appendLine(errStyle.Render(fmt.Sprintf("cannot parse %q as %s", fields[3], fields[2])))
			return nil
		}
		cell.Payload = p
	}
	ctx.SetGlobal(script.HashString(fields[1]), t, cell)
	m.appendLine(okStyle.Render(fmt.Sprintf("%s set", fields[1])))
	return nil
}

func (m *Model) cmdCall(fields []string) tea.Cmd {
	if len(fields) < 2 {
		m.appendLine(errStyle.Render("usage: call <name> [args...]"))
		return nil
	}
	name := fields[1]
	args := make([]script.Cell, 0, len(fields)-2)
	for _, raw := range fields[2:] {
		args = append(args, parseLiteral(m.worker.Context(), raw))
	}
	worker := m.worker
	fnHash := script.HashString(name)
	m.appendLine(mutedStyle.Render(fmt.Sprintf("calling %s(%s)...", name, strings.Join(fields[2:], ", "))))
	return func() tea.Msg {
		var res vm.Result
		var err error
		worker.Do(func(c *context.Context) {
			res, err = c.ExecFunction(fnHash, script.NilObjectID, args)
		})
		if err != nil {
			return execResultMsg{name: name, err: err}
		}
		return execResultMsg{name: name, cell: res.Value, str: renderCell(worker.Context(), res.Value)}
	}
}

func parseVarType(s string) (script.VarType, bool) {
	switch s {
	case "void":
		return script.TypeVoid, true
	case "bool":
		return script.TypeBool, true
	case "int32":
		return script.TypeInt32, true
	case "float32":
		return script.TypeFloat32, true
	case "string":
		return script.TypeString, true
	case "vector3f":
		return script.TypeVector3f, true
	default:
		return script.TypeVoid, false
	}
}

// parseLiteral guesses a call argument's type: int32, then float32, then
// falls back to an interned string. There is no compiler here to carry
// declared parameter types into the console, so this is necessarily a
// best-effort guess, same as a host-language REPL typing untyped literals.
func parseLiteral(ctx *context.Context, raw string) script.Cell {
	if i, err := strconv.ParseInt(raw, 10, 32); err == nil {
		var p script.Payload
		script.PutInt32(&p, int32(i))
		return script.Cell{Type: script.TypeInt32, Payload: p}
	}
	if f, err := strconv.ParseFloat(raw, 32); err == nil {
		var p script.Payload
		script.PutFloat32(&p, float32(f))
		return script.Cell{Type: script.TypeFloat32, Payload: p}
	}
	var p script.Payload
	script.PutHash(&p, ctx.Strings.Intern(raw))
	return script.Cell{Type: script.TypeString, Payload: p}
}

// renderCell prints a cell the way the host would want to read it back:
// interned text for strings, the type registry's ToString otherwise.
func renderCell(ctx *context.Context, c script.Cell) string {
	if c.Type == script.TypeString {
		if s, ok := ctx.Strings.Lookup(script.GetHash(c.Payload)); ok {
			return s
		}
	}
	return ctx.Types.ToString(c.Type, c.Payload)
}
