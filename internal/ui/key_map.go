package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	search   key.Binding
	genre    key.Binding
	play     key.Binding
	stop     key.Binding
	download key.Binding
	delete   key.Binding
	upload   key.Binding
	logout   key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		play:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "play/pause")),
		stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play, k.stop},
		{k.search, k.genre, k.download, k.delete},
		{k.upload, k.logout, k.back, k.quit},
	}
}
