package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	add      key.Binding
	toggle   key.Binding
	note     key.Binding
	delete   key.Binding
	yes      key.Binding
	no       key.Binding
	darkMode key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add course")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		note:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "edit note")),
		delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete course")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		darkMode: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.add, k.toggle, k.note},
		{k.delete, k.darkMode, k.quit},
	}
}
