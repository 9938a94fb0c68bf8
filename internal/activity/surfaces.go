package activity

import (
	"fmt"
	"time"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

// All is the "todos" option shared by every category filter.
const All = "todos"

// DiscoveryKinds are the categories of the discovery surface.
var DiscoveryKinds = []models.Kind{models.KindPodcast, models.KindVideo, models.KindMusic, models.KindAudiobook}

// EventTypes are the categories of the events surface.
var EventTypes = []string{"bingo", "taller", "misa", "social", "ejercicio"}

// ValidDiscoveryFilter reports whether s is "todos" or a discovery kind.
func ValidDiscoveryFilter(s string) bool {
	if s == All || s == "" {
		return true
	}
	for _, k := range DiscoveryKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// ValidEventFilter reports whether s is "todos" or an event type.
func ValidEventFilter(s string) bool {
	if s == All || s == "" {
		return true
	}
	for _, t := range EventTypes {
		if t == s {
			return true
		}
	}
	return false
}

// FilterDiscovery keeps items whose type equals kind; "todos" keeps everything.
func FilterDiscovery(items []models.DiscoveryItem, kind string) ([]models.DiscoveryItem, error) {
	if !ValidDiscoveryFilter(kind) {
		return nil, fmt.Errorf("%w: unknown content type %q", shared.ErrInvalidArgument, kind)
	}
	if kind == All || kind == "" {
		return items, nil
	}
	var out []models.DiscoveryItem
	for _, item := range items {
		if string(item.Type) == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

// FilterEvents keeps events whose type equals eventType; "todos" keeps everything.
func FilterEvents(events []models.Event, eventType string) ([]models.Event, error) {
	if !ValidEventFilter(eventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", shared.ErrInvalidArgument, eventType)
	}
	if eventType == All || eventType == "" {
		return events, nil
	}
	var out []models.Event
	for _, e := range events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

var shortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

func shortDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), shortMonths[t.Month()-1])
}

// WeekRange returns the Monday-to-Sunday week containing now, moved back weeksBack weeks,
// and its label ("20 oct al 26 oct"). start is Monday 00:00; end is the following Monday 00:00.
func WeekRange(now time.Time, weeksBack int) (start, end time.Time, label string) {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	start = time.Date(y, m, d-offset-7*weeksBack, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 0, 7)
	sunday := start.AddDate(0, 0, 6)
	return start, end, shortDate(start) + " al " + shortDate(sunday)
}
