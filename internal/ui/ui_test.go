package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/grand/internal/hogar"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

type opener struct {
	urls []string
	err  error
}

func (o *opener) open(u string) error {
	o.urls = append(o.urls, u)
	return o.err
}

// newModel loads items and events synchronously, the way the program would on start.
func newModel(t *testing.T, plan *models.GeneratedContent) (*Model, *session.Store, *opener) {
	t.Helper()
	ctx := context.Background()
	store := session.New(session.NewMemoryBackend(0), "sala")
	if plan != nil {
		if err := store.SaveContent(ctx, plan); err != nil {
			t.Fatalf("SaveContent() error = %v", err)
		}
	}

	o := &opener{}
	m := NewModel(ctx, store, nil, shared.NewLogger(io.Discard)).WithOpener(o.open)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(m.loadItems()())
	m.Update(m.loadEvents()())
	return m, store, o
}

func samplePlan() *models.GeneratedContent {
	return &models.GeneratedContent{
		Videos:   []models.Video{{Title: "Tango", VideoID: "dQw4w9WgXcQ"}},
		Podcasts: []models.Podcast{{Title: "Radio", URL: "https://open.spotify.com/episode/6pOHgLCS6WkkugeEFZwaIs"}},
	}
}

func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func TestNowPlaying(t *testing.T) {
	t.Run("demo items without content", func(t *testing.T) {
		m, _, _ := newModel(t, nil)
		if m.State() != NowPlayingView {
			t.Fatalf("expected now playing view, got %v", m.State())
		}
		if m.Source() != hogar.SourceDemo || m.Current().Title != "Historias del 900" {
			t.Errorf("unexpected first item %q from %s", m.Current().Title, m.Source())
		}
	})

	t.Run("carousel wraps both ways", func(t *testing.T) {
		m, _, _ := newModel(t, samplePlan())
		if m.Source() != hogar.SourcePlan {
			t.Fatalf("expected plan items, got %s", m.Source())
		}

		press(m, right)
		if m.Current().Title != "Radio" {
			t.Errorf("expected Radio, got %s", m.Current().Title)
		}
		press(m, right)
		if m.Current().Title != "Tango" {
			t.Errorf("expected wrap to Tango, got %s", m.Current().Title)
		}
		press(m, left)
		if m.Current().Title != "Radio" {
			t.Errorf("expected wrap back to Radio, got %s", m.Current().Title)
		}
	})

	t.Run("settings", func(t *testing.T) {
		m, _, _ := newModel(t, nil)
		press(m, runes("t"), runes("c"), runes("+"), runes("+"))

		s := m.Settings()
		if s.TextSize != hogar.TextLarge || s.Contrast != hogar.ContrastHigh || s.Volume != 70 {
			t.Errorf("unexpected settings %+v", s)
		}
		if !strings.Contains(m.View(), "Volumen 70") {
			t.Error("expected the volume in the view")
		}
	})

	t.Run("browse and pick", func(t *testing.T) {
		m, _, _ := newModel(t, nil)
		press(m, runes("b"))
		if m.State() != BrowseView {
			t.Fatalf("expected browse view, got %v", m.State())
		}
		press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, enter)
		if m.State() != NowPlayingView || m.Current().Title != "Recetas de la abuela" {
			t.Errorf("expected the third demo item, got %q in %v", m.Current().Title, m.State())
		}
	})
}

func TestPlay(t *testing.T) {
	t.Run("opens the embed and records the play", func(t *testing.T) {
		m, store, o := newModel(t, samplePlan())

		cmd := press(m, enter)
		if m.State() != PlayerView || m.Player().Kind != models.KindVideo {
			t.Fatalf("expected the video player, got %v %+v", m.State(), m.Player())
		}
		m.Update(cmd())

		if len(o.urls) != 1 || !strings.HasPrefix(o.urls[0], "https://www.youtube.com/embed/dQw4w9WgXcQ") {
			t.Errorf("unexpected opened urls %v", o.urls)
		}
		fb, err := store.Feedback(context.Background())
		if err != nil {
			t.Fatalf("Feedback() error = %v", err)
		}
		if !fb["Tango-0"].Viewed {
			t.Errorf("expected Tango-0 to be viewed, got %+v", fb)
		}

		press(m, esc)
		if m.State() != NowPlayingView {
			t.Errorf("expected to return home, got %v", m.State())
		}
	})

	t.Run("next plays the following item", func(t *testing.T) {
		m, _, o := newModel(t, samplePlan())
		m.Update(press(m, enter)())
		m.Update(press(m, right)())

		if len(o.urls) != 2 || !strings.Contains(o.urls[1], "open.spotify.com/embed/episode/6pOHgLCS6WkkugeEFZwaIs") {
			t.Errorf("unexpected opened urls %v", o.urls)
		}
		if m.Player().Kind != models.KindPodcast {
			t.Errorf("expected the podcast player, got %+v", m.Player())
		}
	})

	t.Run("browser failure shows a status", func(t *testing.T) {
		m, _, o := newModel(t, nil)
		o.err = errors.New("no display")
		m.Update(press(m, enter)())

		if !strings.Contains(m.View(), "No se pudo abrir el reproductor") {
			t.Error("expected the failure in the player view")
		}
	})
}

func TestEvents(t *testing.T) {
	t.Run("no walks to the end and returns home", func(t *testing.T) {
		m, _, _ := newModel(t, nil)
		press(m, runes("e"))
		if m.State() != EventsView || m.Prompt().Current().Title != "Bingo del club" {
			t.Fatalf("expected the first sample event, got %v", m.State())
		}

		press(m, runes("n"), runes("n"), runes("n"))
		if m.State() != EventsView || m.Prompt().Index() != 3 {
			t.Fatalf("expected the last event, got index %d", m.Prompt().Index())
		}
		press(m, runes("n"))
		if m.State() != NowPlayingView || !m.Prompt().Done() {
			t.Errorf("expected to return home after the last event, got %v", m.State())
		}
	})

	t.Run("yes returns home", func(t *testing.T) {
		m, _, _ := newModel(t, nil)
		press(m, runes("e"), runes("n"), runes("s"))
		if m.State() != NowPlayingView {
			t.Fatalf("expected home, got %v", m.State())
		}
		if !strings.Contains(m.View(), "Concierto de tango") {
			t.Error("expected the accepted event in the status")
		}
	})

	t.Run("stored events replace the samples", func(t *testing.T) {
		ctx := context.Background()
		store := session.New(session.NewMemoryBackend(0), "sala")
		events := []models.Event{{Title: "Taller de tejido", Type: "taller", Date: "Lunes", Time: "15:00", Location: "Centro"}}
		if err := store.SaveNearbyEvents(ctx, events); err != nil {
			t.Fatalf("SaveNearbyEvents() error = %v", err)
		}

		m := NewModel(ctx, store, nil, shared.NewLogger(io.Discard))
		m.Update(m.loadItems()())
		m.Update(m.loadEvents()())
		press(m, runes("e"))

		ev := m.Prompt().Current()
		if ev.Title != "Taller de tejido" || ev.Day != "Lunes 15:00" || ev.Emoji != "🧶" {
			t.Errorf("unexpected prompt event %+v", ev)
		}
	})
}
