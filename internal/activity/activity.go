package activity

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

// Status is whether a plan item has been played.
type Status string

const (
	StatusPlayed     Status = "reproducido"
	StatusNotStarted Status = "no-iniciado"
)

// Entry is one row of the activity listing.
type Entry struct {
	Kind         models.Kind `json:"type"`
	Title        string      `json:"title"`
	Key          string      `json:"key"`
	Position     int         `json:"position"`
	Status       Status      `json:"status"`
	Liked        *bool       `json:"liked,omitempty"`
	LastPlayed   string      `json:"lastPlayed,omitempty"`
	LastPlayedAt *time.Time  `json:"lastPlayedAt,omitempty"`
}

// Entries lists the plan in videos, podcasts, events order with status taken from fb.
// An item is played when its feedback record is marked viewed.
func Entries(plan *models.GeneratedContent, fb models.FeedbackMap, now time.Time) []Entry {
	if plan == nil {
		return nil
	}

	items := plan.Items()
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		key := item.FeedbackKey()
		rec := fb[key]

		e := Entry{
			Kind:     item.Kind,
			Title:    item.Title(),
			Key:      key,
			Position: item.Position,
			Status:   StatusNotStarted,
			Liked:    rec.Liked,
		}
		if rec.Viewed {
			e.Status = StatusPlayed
		}
		if rec.LastPlayedAt != nil {
			e.LastPlayedAt = rec.LastPlayedAt
			e.LastPlayed = RelativeDay(*rec.LastPlayedAt, now)
		}
		out = append(out, e)
	}
	return out
}

// RelativeDay renders t relative to now in whole calendar days: "Hoy", "Hace 1 día", "Hace N días".
func RelativeDay(t, now time.Time) string {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)

	days := int(b.Sub(a).Hours() / 24)
	switch {
	case days <= 0:
		return "Hoy"
	case days == 1:
		return "Hace 1 día"
	default:
		return fmt.Sprintf("Hace %d días", days)
	}
}

// Filter selects a content category on the activity surface.
type Filter string

const (
	FilterAll      Filter = "todos"
	FilterVideos   Filter = "videos"
	FilterPodcasts Filter = "podcasts"
	FilterEventos  Filter = "eventos"
)

// ParseFilter accepts the four filter names; "" means [FilterAll].
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterVideos, FilterPodcasts, FilterEventos:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", shared.ErrInvalidArgument, s)
}

// Match reports whether e belongs to the category.
func (f Filter) Match(e Entry) bool {
	switch f {
	case FilterVideos:
		return e.Kind == models.KindVideo
	case FilterPodcasts:
		return e.Kind == models.KindPodcast
	case FilterEventos:
		return e.Kind == models.KindEvent
	default:
		return true
	}
}

// FilterEntries returns the entries matching f, keeping order.
func FilterEntries(entries []Entry, f Filter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortByStatus returns a copy with not-started entries first. Order within a status is kept.
func SortByStatus(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status == StatusNotStarted && out[j].Status == StatusPlayed
	})
	return out
}

// KPIs are the activity counters.
type KPIs struct {
	Programados      int `json:"programados"`
	Reproducidos     int `json:"reproducidos"`
	NoIniciados      int `json:"noIniciados"`
	TasaReproduccion int `json:"tasaReproduccion"`
}

// ComputeKPIs counts entries by status. The play rate is a rounded percentage, 0 when empty.
func ComputeKPIs(entries []Entry) KPIs {
	k := KPIs{Programados: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case StatusPlayed:
			k.Reproducidos++
		case StatusNotStarted:
			k.NoIniciados++
		}
	}
	if k.Programados > 0 {
		k.TasaReproduccion = int(math.Round(float64(k.Reproducidos) / float64(k.Programados) * 100))
	}
	return k
}

// Summarize counts liked, disliked and not viewed items the way the home surface does.
// A viewed item with no answer counts toward the total only.
func Summarize(plan *models.GeneratedContent, fb models.FeedbackMap) models.Summary {
	var s models.Summary
	if plan == nil {
		return s
	}
	for _, item := range plan.Items() {
		s.Total++
		rec, ok := fb[item.FeedbackKey()]
		switch {
		case !ok || !rec.Viewed:
			s.NotViewed++
		case rec.Liked != nil && *rec.Liked:
			s.Liked++
		case rec.Liked != nil:
			s.Disliked++
		}
	}
	return s
}

// Report is the full activity view.
type Report struct {
	Week           string  `json:"week"`
	Filter         Filter  `json:"filter"`
	KPIs           KPIs    `json:"kpis"`
	Items          []Entry `json:"items"`
	Empty          bool    `json:"empty"`
	NoneReproduced bool    `json:"noneReproduced"`
}

// Build assembles the activity view. KPIs cover the whole plan; Items are filtered and sorted.
func Build(plan *models.GeneratedContent, fb models.FeedbackMap, f Filter, now time.Time, weeksBack int) Report {
	entries := Entries(plan, fb, now)
	kpis := ComputeKPIs(entries)
	_, _, label := WeekRange(now, weeksBack)

	return Report{
		Week:           label,
		Filter:         f,
		KPIs:           kpis,
		Items:          SortByStatus(FilterEntries(entries, f)),
		Empty:          len(entries) == 0,
		NoneReproduced: len(entries) > 0 && kpis.Reproducidos == 0,
	}
}
