package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/grand/internal/hogar"
)

var _ list.Item = carouselItem{}

// carouselItem wraps [hogar.Item] to implement [list.Item].
type carouselItem struct {
	item  hogar.Item
	index int
}

func (i carouselItem) FilterValue() string { return i.item.Title }
func (i carouselItem) Title() string       { return i.item.Title }
func (i carouselItem) Description() string {
	desc := i.item.Label()
	if i.item.Duration != "" {
		desc += " • " + i.item.Duration
	}
	return desc
}

func listItems(items []hogar.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = carouselItem{item: it, index: i}
	}
	return out
}
