package hogar

import (
	"net/url"

	"github.com/desertthunder/grand/internal/media"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/session"
)

// PlayerRoute is the simplified player page.
const PlayerRoute = "/hogar-player"

// Item is a playable entry of the now playing card. Exactly one of VideoID and PodcastID is set
// for playable items, matching Kind.
type Item struct {
	Kind        models.Kind       `json:"kind"`
	Title       string            `json:"title"`
	Duration    string            `json:"duration,omitempty"`
	Action      string            `json:"action"`
	VideoID     string            `json:"videoId,omitempty"`
	PodcastID   string            `json:"podcastId,omitempty"`
	SpotifyKind media.SpotifyKind `json:"spotifyKind,omitempty"`
	FeedbackKey string            `json:"feedbackKey,omitempty"`
}

// Label is the type word shown before the title ("Video", "Podcast").
func (i Item) Label() string {
	if i.Kind == models.KindVideo {
		return "Video"
	}
	return "Podcast"
}

// DemoItems are shown when no content is available.
func DemoItems() []Item {
	return []Item{
		{Kind: models.KindPodcast, Title: "Historias del 900", Duration: "18 minutos", Action: "Empezar ahora", PodcastID: "6pOHgLCS6WkkugeEFZwaIs", SpotifyKind: media.SpotifyEpisode},
		{Kind: models.KindVideo, Title: "Tango en el Río de la Plata", Duration: "25 minutos", Action: "Ver ahora", VideoID: "dQw4w9WgXcQ"},
		{Kind: models.KindPodcast, Title: "Recetas de la abuela", Duration: "15 minutos", Action: "Escuchar ahora", PodcastID: "4rOoJ6Egrf8K2IrywzwOMk", SpotifyKind: media.SpotifyEpisode},
		{Kind: models.KindVideo, Title: "Fútbol: Clásicos memorables", Duration: "30 minutos", Action: "Ver ahora", VideoID: "jNQXAC9IVRw"},
	}
}

// FromPlan turns the plan's videos and podcasts into items, resolving ids from raw URLs.
// Items with no resolvable id are skipped; events are not playable.
func FromPlan(plan *models.GeneratedContent) []Item {
	if plan == nil {
		return nil
	}

	var out []Item
	for _, ci := range plan.Items() {
		switch ci.Kind {
		case models.KindVideo:
			id := ci.Video.VideoID
			if id == "" {
				id, _ = media.ExtractYouTubeID(ci.Video.URL)
			}
			if id == "" {
				continue
			}
			out = append(out, Item{Kind: models.KindVideo, Title: ci.Video.Title, Duration: ci.Video.Duration, Action: "Ver ahora", VideoID: id, FeedbackKey: ci.FeedbackKey()})
		case models.KindPodcast:
			kind, id, ok := media.ParseSpotifyURL(ci.Podcast.URL)
			if ci.Podcast.SpotifyID != "" {
				id, ok = ci.Podcast.SpotifyID, true
			}
			if !ok {
				continue
			}
			out = append(out, Item{Kind: models.KindPodcast, Title: ci.Podcast.Title, Duration: ci.Podcast.Duration, Action: "Escuchar ahora", PodcastID: id, SpotifyKind: kind, FeedbackKey: ci.FeedbackKey()})
		}
	}
	return out
}

// FromBackend turns raw backend rows into items by extracting ids from their URLs.
func FromBackend(rows []models.BackendItem) []Item {
	var out []Item
	for _, r := range rows {
		if id, ok := media.ExtractYouTubeID(r.URL); ok {
			out = append(out, Item{Kind: models.KindVideo, Title: r.Titulo, Action: "Ver ahora", VideoID: id})
			continue
		}
		if kind, id, ok := media.ParseSpotifyURL(r.URL); ok {
			out = append(out, Item{Kind: models.KindPodcast, Title: r.Titulo, Action: "Escuchar ahora", PodcastID: id, SpotifyKind: kind})
		}
	}
	return out
}

// Carousel is a cyclic pointer over items.
type Carousel struct {
	items []Item
	index int
}

// NewCarousel starts at the first item. An empty list falls back to [DemoItems].
func NewCarousel(items []Item) *Carousel {
	if len(items) == 0 {
		items = DemoItems()
	}
	return &Carousel{items: items}
}

// Current is the item on the card.
func (c *Carousel) Current() Item { return c.items[c.index] }

// Index is the position of the current item.
func (c *Carousel) Index() int { return c.index }

// Len is the number of items.
func (c *Carousel) Len() int { return len(c.items) }

// Items returns the list being cycled.
func (c *Carousel) Items() []Item { return c.items }

// Next advances, wrapping to the first item after the last.
func (c *Carousel) Next() Item {
	c.index = (c.index + 1) % len(c.items)
	return c.Current()
}

// Seek moves to i modulo the length; negative values count from the end.
func (c *Carousel) Seek(i int) Item {
	n := len(c.items)
	c.index = ((i % n) + n) % n
	return c.Current()
}

// PlayerTarget is the route that plays item. Items from the plan carry their feedback key
// so the player can record the play.
func PlayerTarget(item Item) string {
	q := url.Values{}
	switch {
	case item.VideoID != "":
		q.Set("videoId", item.VideoID)
	case item.PodcastID != "":
		q.Set("podcastId", item.PodcastID)
		if item.SpotifyKind == media.SpotifyTrack {
			q.Set("kind", string(media.SpotifyTrack))
		}
	default:
		return PlayerRoute
	}
	if item.FeedbackKey != "" {
		q.Set("key", item.FeedbackKey)
	}
	return PlayerRoute + "?" + q.Encode()
}

// Player is what the player page shows for a route's query.
type Player struct {
	Kind        models.Kind `json:"kind,omitempty"`
	EmbedURL    string      `json:"embedUrl,omitempty"`
	Message     string      `json:"message"`
	Back        string      `json:"back"`
	FeedbackKey string      `json:"feedbackKey,omitempty"`
}

// ResolvePlayer decodes a player query. A podcast id wins over a video id, as on the player page.
func ResolvePlayer(q url.Values) Player {
	p := Player{Back: session.RouteHogar}
	switch {
	case q.Get("podcastId") != "":
		p.Kind = models.KindPodcast
		p.EmbedURL = media.SpotifyEmbedURL(media.SpotifyKind(q.Get("kind")), q.Get("podcastId"))
		p.Message = "El podcast se está reproduciendo. Usá los controles de Spotify para pausar o ajustar el volumen."
	case q.Get("videoId") != "":
		p.Kind = models.KindVideo
		p.EmbedURL = media.YouTubeEmbedURL(q.Get("videoId"))
		p.Message = "El video se está reproduciendo. Usá los controles del video para pausar o ajustar el volumen."
	default:
		p.Message = "Para pausar, tocá el botón grande del centro"
		return p
	}
	p.FeedbackKey = q.Get("key")
	return p
}

// EmbedURL is the embeddable player for item, or "".
func EmbedURL(item Item) string {
	switch {
	case item.VideoID != "":
		return media.YouTubeEmbedURL(item.VideoID)
	case item.PodcastID != "":
		return media.SpotifyEmbedURL(item.SpotifyKind, item.PodcastID)
	}
	return ""
}
