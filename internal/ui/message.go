package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/grand/internal/hogar"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgItemsLoaded MsgKind = iota
	MsgEventsLoaded
	MsgPlayed
)

type itemsLoaded struct {
	items  []hogar.Item
	source hogar.ItemSource
	err    error
}

type eventsLoaded struct {
	events []hogar.PromptEvent
	err    error
}

type played struct {
	item hogar.Item
	err  error
}

// itemsLoadedMsg is the constructor for [MsgItemsLoaded]
func itemsLoadedMsg(items []hogar.Item, source hogar.ItemSource, err error) Msg {
	return Msg{kind: MsgItemsLoaded, data: itemsLoaded{items, source, err}}
}

// eventsLoadedMsg is the constructor for [MsgEventsLoaded]
func eventsLoadedMsg(events []hogar.PromptEvent, err error) Msg {
	return Msg{kind: MsgEventsLoaded, data: eventsLoaded{events, err}}
}

// playedMsg is the constructor for [MsgPlayed]
func playedMsg(item hogar.Item, err error) Msg {
	return Msg{kind: MsgPlayed, data: played{item, err}}
}
