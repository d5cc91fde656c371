package console

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the REPL's fixed key bindings, outside of whatever text
// is currently in the command line.
type KeyMap struct {
	Quit    key.Binding
	Copy    key.Binding
	Clear   key.Binding
	History key.Binding
}

// DefaultKeyMap returns the console's standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+l")),
		History: key.NewBinding(key.WithKeys("up", "down")),
	}
}
