package hogar

import "github.com/desertthunder/grand/internal/models"

// PromptEvent is an event as the prompt shows it.
type PromptEvent struct {
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Day         string `json:"day"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Prompt texts.
const (
	Question = "¿Querés ir?"
	YesText  = "Sí, quiero ir"
	NoText   = "Siguiente"
)

// SampleEvents are offered when no events were generated.
func SampleEvents() []PromptEvent {
	return []PromptEvent{
		{Emoji: "🎲", Title: "Bingo del club", Day: "Sábado 17:00", Location: "A 5 cuadras", Description: "Bingo mensual con premios y merienda incluida"},
		{Emoji: "🎵", Title: "Concierto de tango", Day: "Domingo 19:00", Location: "Teatro Municipal", Description: "Orquesta típica con cantores invitados"},
		{Emoji: "🌳", Title: "Caminata en el parque", Day: "Miércoles 10:00", Location: "Parque Rodó", Description: "Caminata grupal con desayuno después"},
		{Emoji: "📚", Title: "Club de lectura", Day: "Viernes 16:00", Location: "Biblioteca", Description: "Charla sobre literatura uruguaya"},
	}
}

var typeEmoji = map[string]string{
	"bingo":     "🎲",
	"taller":    "🧶",
	"misa":      "⛪",
	"social":    "🎵",
	"ejercicio": "🌳",
}

// FromEvents converts generated events for the prompt.
func FromEvents(events []models.Event) []PromptEvent {
	out := make([]PromptEvent, 0, len(events))
	for _, e := range events {
		day := e.Date
		if e.Time != "" {
			day += " " + e.Time
		}
		emoji, ok := typeEmoji[e.Type]
		if !ok {
			emoji = "📅"
		}
		desc := e.Description
		if desc == "" {
			desc = e.Reason
		}
		out = append(out, PromptEvent{Emoji: emoji, Title: e.Title, Day: day, Location: e.Location, Description: desc})
	}
	return out
}

// EventPrompt presents events one at a time.
//
// Yes leaves for home. No moves to the next event, or leaves for home after the last one.
type EventPrompt struct {
	events []PromptEvent
	index  int
	done   bool
}

// NewEventPrompt starts at the first event. An empty list falls back to [SampleEvents].
func NewEventPrompt(events []PromptEvent) *EventPrompt {
	if len(events) == 0 {
		events = SampleEvents()
	}
	return &EventPrompt{events: events}
}

// Current is the event being asked about.
func (p *EventPrompt) Current() PromptEvent { return p.events[p.index] }

// Index is the position of the current event.
func (p *EventPrompt) Index() int { return p.index }

// Done reports whether the prompt has finished.
func (p *EventPrompt) Done() bool { return p.done }

// Yes accepts the current event and ends the prompt.
func (p *EventPrompt) Yes() (done bool) {
	p.done = true
	return true
}

// No declines the current event. It reports true when there was nothing left to show.
func (p *EventPrompt) No() (done bool) {
	if p.index < len(p.events)-1 {
		p.index++
		return false
	}
	p.done = true
	return true
}
