package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/grand/internal/hogar"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	NowPlayingView
	BrowseView
	PlayerView
	EventsView
)

// Opener shows an embed URL to the user.
type Opener func(rawURL string) error

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	store  *session.Store
	lister hogar.Lister
	open   Opener
	logger *log.Logger

	width    int
	height   int
	carousel *hogar.Carousel
	source   hogar.ItemSource
	events   []hogar.PromptEvent
	prompt   *hogar.EventPrompt
	settings hogar.Settings
	browse   list.Model
	player   hogar.Player
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI for the device behind store. lister may be nil for demo and plan content.
func NewModel(ctx context.Context, store *session.Store, lister hogar.Lister, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Model{
		ctx:      ctx,
		view:     LoadingView,
		store:    store,
		lister:   lister,
		open:     shared.OpenPlayer,
		logger:   shared.WithLogger(logger, "component", "hogar-ui"),
		settings: hogar.DefaultSettings(),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// WithOpener replaces the system browser.
func (m *Model) WithOpener(open Opener) *Model {
	m.open = open
	return m
}

// State is the current view.
func (m *Model) State() ViewState { return m.view }

// Current is the item on the now playing card.
func (m *Model) Current() hogar.Item { return m.carousel.Current() }

func (m *Model) Settings() hogar.Settings { return m.settings }

func (m *Model) Source() hogar.ItemSource { return m.source }

func (m *Model) Player() hogar.Player { return m.player }

func (m *Model) Prompt() *hogar.EventPrompt { return m.prompt }

// Init loads the carousel items and the events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadItems(), m.loadEvents())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.carousel != nil {
			m.browse.SetSize(max(0, msg.Width-4), max(0, msg.Height-8))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && m.view != BrowseView {
			return m, tea.Quit
		}
		switch m.view {
		case NowPlayingView:
			return m.handleNowPlayingKeys(msg)
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		case EventsView:
			return m.handleEventKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgItemsLoaded:
		data := msg.data.(itemsLoaded)
		if data.items == nil {
			m.err = data.err
			return m, tea.Quit
		}
		if data.err != nil {
			m.logger.Warn("backend listing failed, using local content", "error", data.err)
		}
		m.carousel = hogar.NewCarousel(data.items)
		m.source = data.source
		m.browse = list.New(listItems(m.carousel.Items()), list.NewDefaultDelegate(), 0, 0)
		m.browse.Title = "Todo tu contenido"
		m.browse.SetSize(max(0, m.width-4), max(0, m.height-8))
		m.view = NowPlayingView
		return m, nil

	case MsgEventsLoaded:
		data := msg.data.(eventsLoaded)
		if data.err != nil {
			m.logger.Warn("failed to load events", "error", data.err)
		}
		m.events = data.events
		m.prompt = hogar.NewEventPrompt(m.events)
		return m, nil

	case MsgPlayed:
		data := msg.data.(played)
		if data.err != nil {
			m.logger.Error("failed to open player", "title", data.item.Title, "error", data.err)
			m.status = "No se pudo abrir el reproductor"
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleNowPlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.next):
		m.carousel.Next()
	case key.Matches(msg, m.keys.prev):
		m.carousel.Seek(m.carousel.Index() - 1)
	case key.Matches(msg, m.keys.play):
		return m, m.play(m.carousel.Current())
	case key.Matches(msg, m.keys.browse):
		m.browse.Select(m.carousel.Index())
		m.view = BrowseView
	case key.Matches(msg, m.keys.events):
		m.prompt = hogar.NewEventPrompt(m.events)
		m.view = EventsView
	case key.Matches(msg, m.keys.louder):
		m.status = fmt.Sprintf("Volumen %d", m.settings.VolumeUp())
	case key.Matches(msg, m.keys.quieter):
		m.status = fmt.Sprintf("Volumen %d", m.settings.VolumeDown())
	case key.Matches(msg, m.keys.text):
		m.settings.ToggleTextSize()
	case key.Matches(msg, m.keys.contrast):
		m.settings.ToggleContrast()
	}
	return m, nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.browse.FilterState() != list.Filtering {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.view = NowPlayingView
			return m, nil
		case "enter":
			if selected, ok := m.browse.SelectedItem().(carouselItem); ok {
				m.carousel.Seek(selected.index)
			}
			m.view = NowPlayingView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.play):
		m.view = NowPlayingView
	case key.Matches(msg, m.keys.next):
		return m, m.play(m.carousel.Next())
	}
	return m, nil
}

// handleEventKeys answers the prompt. Both a yes and the end of the list lead back home.
func (m *Model) handleEventKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		event := m.prompt.Current()
		m.prompt.Yes()
		m.status = fmt.Sprintf("¡Genial! Te esperamos en %s", event.Title)
		m.view = NowPlayingView
	case key.Matches(msg, m.keys.no):
		if m.prompt.No() {
			m.view = NowPlayingView
		}
	case key.Matches(msg, m.keys.back):
		m.view = NowPlayingView
	}
	return m, nil
}

// play shows the player for item and opens its embed URL. Items from the plan are marked as
// played so the caregiver's activity view reflects it.
func (m *Model) play(item hogar.Item) tea.Cmd {
	target, _ := url.Parse(hogar.PlayerTarget(item))
	m.player = hogar.ResolvePlayer(target.Query())
	m.view = PlayerView

	ctx, store, open, logger := m.ctx, m.store, m.open, m.logger
	return func() tea.Msg {
		if item.FeedbackKey != "" && store != nil {
			if _, err := store.MarkFeedback(ctx, item.FeedbackKey, nil); err != nil {
				logger.Warn("failed to record play", "key", item.FeedbackKey, "error", err)
			}
		}
		embed := hogar.EmbedURL(item)
		if embed == "" {
			return playedMsg(item, fmt.Errorf("%w: nothing to play", shared.ErrInvalidInput))
		}
		return playedMsg(item, open(embed))
	}
}

func (m *Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		items, source, err := hogar.LoadItems(m.ctx, m.store, m.lister)
		return itemsLoadedMsg(items, source, err)
	}
}

func (m *Model) loadEvents() tea.Cmd {
	return func() tea.Msg {
		events, err := hogar.LoadEvents(m.ctx, m.store)
		return eventsLoadedMsg(events, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	styles := stylesFor(m.settings.Contrast)
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPresioná q para salir", m.err))
	}

	switch m.view {
	case LoadingView:
		return styles.help.Render("Cargando tu contenido...")
	case NowPlayingView:
		return m.renderNowPlaying(styles)
	case BrowseView:
		return fmt.Sprintf("%s\n\n%s", m.browse.View(), m.help.ShortHelpView([]key.Binding{m.keys.play, m.keys.back}))
	case PlayerView:
		return m.renderPlayer(styles)
	case EventsView:
		return m.renderEvent(styles)
	default:
		return ""
	}
}

func (m *Model) renderNowPlaying(styles *Palette) string {
	item := m.carousel.Current()
	var b strings.Builder
	b.WriteString(styles.help.Render("Ahora") + "\n")
	b.WriteString(styles.warn.Render(item.Label()) + "\n")
	b.WriteString(styles.headline(item.Title, m.settings.TextSize) + "\n")
	if item.Duration != "" {
		b.WriteString(item.Duration + "\n")
	}
	b.WriteString("\n" + styles.ok.Render("▶ "+item.Action))
	b.WriteString(fmt.Sprintf("\n\n%d de %d", m.carousel.Index()+1, m.carousel.Len()))

	out := styles.card.Render(b.String())
	if m.status != "" {
		out += "\n" + styles.ok.Render(m.status)
	}
	helpKeys := []key.Binding{m.keys.play, m.keys.next, m.keys.events, m.keys.browse, m.keys.text, m.keys.contrast, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", out, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderPlayer(styles *Palette) string {
	title := styles.headline(m.carousel.Current().Title, m.settings.TextSize)
	body := m.player.Message
	if m.player.EmbedURL != "" {
		body += "\n\n" + styles.help.Render(m.player.EmbedURL)
	}
	if m.status != "" {
		body += "\n\n" + styles.err.Render(m.status)
	}
	helpKeys := []key.Binding{m.keys.back, m.keys.next, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, styles.card.Render(body), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderEvent(styles *Palette) string {
	ev := m.prompt.Current()
	var b strings.Builder
	b.WriteString(ev.Emoji + "\n")
	b.WriteString(styles.headline(ev.Title, m.settings.TextSize) + "\n")
	b.WriteString(ev.Day + "\n")
	b.WriteString(ev.Location + "\n\n")
	b.WriteString(ev.Description + "\n\n")
	b.WriteString(styles.warn.Render(hogar.Question))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.back}
	return fmt.Sprintf("%s\n\n%s", styles.card.Render(b.String()), m.help.ShortHelpView(helpKeys))
}
