package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/grand/internal/hogar"
)

var (
	normalStyles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
	highStyles   = NewPalette("#FFFF00", "#00FF00", "#FF5555", "#FFFFFF", "#FFFFFF")
)

// stylesFor picks the palette for the contrast setting.
func stylesFor(c hogar.Contrast) *Palette {
	if c == hogar.ContrastHigh {
		return highStyles
	}
	return normalStyles
}

// Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	card  lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		card:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(1, 4),
	}
}

// On renders s over bg.
func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Render(s)
}

// As renders s in fg.
func (p *Palette) As(s string, fg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Render(s)
}

// headline renders a title. Large text is bold, spaced out and padded so it reads from afar.
func (p *Palette) headline(s string, size hogar.TextSize) string {
	if size == hogar.TextLarge {
		return p.title.Padding(1, 2).Render(spaced(s))
	}
	return p.title.Render(s)
}

// spaced puts a space between letters and widens the gaps between words.
func spaced(s string) string {
	out := make([]rune, 0, len(s)*2)
	for i, r := range []rune(s) {
		if i > 0 {
			out = append(out, ' ')
			if r == ' ' {
				out = append(out, ' ')
			}
		}
		out = append(out, r)
	}
	return string(out)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
