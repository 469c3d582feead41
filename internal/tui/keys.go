package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
	quit      key.Binding
	prefs     key.Binding
	creds     key.Binding
	signIn    key.Binding
	signOut   key.Binding
	newItem   key.Binding
	edit      key.Binding
	delete    key.Binding
	commit    key.Binding
	resync    key.Binding
	copy      key.Binding
	reveal    key.Binding
	useLocal  key.Binding
	useRemote key.Binding
	merge     key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	prefs:     key.NewBinding(key.WithKeys("1")),
	creds:     key.NewBinding(key.WithKeys("2")),
	signIn:    key.NewBinding(key.WithKeys("i")),
	signOut:   key.NewBinding(key.WithKeys("o")),
	newItem:   key.NewBinding(key.WithKeys("n")),
	edit:      key.NewBinding(key.WithKeys("e")),
	delete:    key.NewBinding(key.WithKeys("ctrl+d")),
	commit:    key.NewBinding(key.WithKeys("ctrl+s")),
	resync:    key.NewBinding(key.WithKeys("s")),
	copy:      key.NewBinding(key.WithKeys("c")),
	reveal:    key.NewBinding(key.WithKeys(" ")),
	useLocal:  key.NewBinding(key.WithKeys("l")),
	useRemote: key.NewBinding(key.WithKeys("r")),
	merge:     key.NewBinding(key.WithKeys("m")),
}
