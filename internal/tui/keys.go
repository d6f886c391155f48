package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	All       key.Binding
	Pending   key.Binding
	Completed key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Add       key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		All:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Pending:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pending")),
		Completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.NextTab, k.Toggle, k.Delete, k.Add}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.All, k.Pending, k.Completed, k.Toggle, k.Delete, k.Add, k.Reload}
}
