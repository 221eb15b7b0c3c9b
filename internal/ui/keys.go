package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings the model handles before any layer sees them.
type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}
