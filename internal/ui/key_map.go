package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Bindings favour single large keys: arrows, enter, space and letters.
type keyMap struct {
	prev     key.Binding
	next     key.Binding
	play     key.Binding
	back     key.Binding
	yes      key.Binding
	no       key.Binding
	events   key.Binding
	browse   key.Binding
	louder   key.Binding
	quieter  key.Binding
	text     key.Binding
	contrast key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "anterior")),
		next:     key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "siguiente")),
		play:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "reproducir")),
		back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "volver")),
		yes:      key.NewBinding(key.WithKeys("y", "s"), key.WithHelp("s", "sí, quiero ir")),
		no:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "siguiente")),
		events:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "eventos")),
		browse:   key.NewBinding(key.WithKeys("b", "/"), key.WithHelp("b", "ver todo")),
		louder:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "subir volumen")),
		quieter:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "bajar volumen")),
		text:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tamaño de letra")),
		contrast: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "contraste")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.next, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.prev, k.next, k.play, k.back},
		{k.events, k.browse, k.yes, k.no},
		{k.louder, k.quieter, k.text, k.contrast, k.quit},
	}
}
