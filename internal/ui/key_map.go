package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next      key.Binding
	reset     key.Binding
	reshuffle key.Binding
	history   key.Binding
	importKey key.Binding
	up        key.Binding
	down      key.Binding
	submit    key.Binding
	back      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:      key.NewBinding(key.WithKeys("enter", " ", "space", "n"), key.WithHelp("enter/space", "next")),
		reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		reshuffle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "reshuffle")),
		history:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		importKey: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import menu")),
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "import")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.history, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.reset, k.reshuffle},
		{k.history, k.importKey},
		{k.back, k.quit},
	}
}
