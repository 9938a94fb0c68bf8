package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/grand/internal/shared"
)

// Source records where a plan came from so surfaces can flag demo content.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Video is a YouTube recommendation.
type Video struct {
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Duration  string `json:"duration"`
	Reason    string `json:"reason"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	VideoID   string `json:"videoId,omitempty"`
}

// Podcast is an audio recommendation, usually a Spotify episode or track.
type Podcast struct {
	Title     string `json:"title"`
	Host      string `json:"host"`
	Duration  string `json:"duration"`
	Reason    string `json:"reason"`
	Platform  string `json:"platform"`
	URL       string `json:"url,omitempty"`
	AlbumArt  string `json:"albumArt,omitempty"`
	SpotifyID string `json:"spotifyId,omitempty"`
}

// Event is a local activity. Generated plans fill Reason; the events surface fills the rest.
type Event struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Location      string `json:"location"`
	Distance      string `json:"distance,omitempty"`
	Reason        string `json:"reason,omitempty"`
	LocationImage string `json:"locationImage,omitempty"`
}

// Bucket names one of the three lists of a [GeneratedContent].
type Bucket string

const (
	BucketVideos   Bucket = "videos"
	BucketPodcasts Bucket = "podcasts"
	BucketEvents   Bucket = "events"
)

// ParseBucket accepts the bucket names plus their singular forms.
func ParseBucket(s string) (Bucket, error) {
	switch s {
	case "videos", "video":
		return BucketVideos, nil
	case "podcasts", "podcast":
		return BucketPodcasts, nil
	case "events", "event", "eventos":
		return BucketEvents, nil
	}
	return "", fmt.Errorf("%w: unknown bucket %q", shared.ErrInvalidArgument, s)
}

// GeneratedContent is the plan shown on the caregiver home and played in simplified mode.
type GeneratedContent struct {
	Videos      []Video   `json:"videos"`
	Podcasts    []Podcast `json:"podcasts"`
	Events      []Event   `json:"events"`
	Source      Source    `json:"source,omitempty"`
	GeneratedAt time.Time `json:"generatedAt,omitzero"`
}

// Len is the total item count across buckets.
func (c *GeneratedContent) Len() int {
	return len(c.Videos) + len(c.Podcasts) + len(c.Events)
}

// IsFallback reports whether the plan is demo content.
func (c *GeneratedContent) IsFallback() bool {
	return c.Source == SourceFallback
}

// Remove deletes the item at index from bucket, keeping the order of the rest.
func (c *GeneratedContent) Remove(bucket Bucket, index int) error {
	var n int
	switch bucket {
	case BucketVideos:
		n = len(c.Videos)
	case BucketPodcasts:
		n = len(c.Podcasts)
	case BucketEvents:
		n = len(c.Events)
	default:
		return fmt.Errorf("%w: unknown bucket %q", shared.ErrInvalidArgument, bucket)
	}

	if index < 0 || index >= n {
		return fmt.Errorf("%w: %s[%d] (len %d)", shared.ErrIndexOutOfRange, bucket, index, n)
	}

	switch bucket {
	case BucketVideos:
		c.Videos = append(c.Videos[:index:index], c.Videos[index+1:]...)
	case BucketPodcasts:
		c.Podcasts = append(c.Podcasts[:index:index], c.Podcasts[index+1:]...)
	case BucketEvents:
		c.Events = append(c.Events[:index:index], c.Events[index+1:]...)
	}
	return nil
}

// Kind is the variant tag of a [ContentItem].
type Kind string

const (
	KindVideo     Kind = "video"
	KindPodcast   Kind = "podcast"
	KindEvent     Kind = "event"
	KindMusic     Kind = "music"
	KindAudiobook Kind = "audiobook"
)

// ContentItem is one entry of a plan. Exactly one of Video, Podcast and Event is set, matching Kind.
//
// Position is the item's index in the flattened videos, podcasts, events order;
// feedback keys are derived from it.
type ContentItem struct {
	Kind     Kind
	Position int
	Bucket   Bucket
	Index    int
	Video    *Video
	Podcast  *Podcast
	Event    *Event
}

// Title returns the display title of whichever variant is set.
func (i ContentItem) Title() string {
	switch {
	case i.Video != nil:
		return i.Video.Title
	case i.Podcast != nil:
		return i.Podcast.Title
	case i.Event != nil:
		return i.Event.Title
	}
	return ""
}

// FeedbackKey is the key this item's feedback is stored under.
func (i ContentItem) FeedbackKey() string {
	return FeedbackKey(i.Title(), i.Position)
}

// Items flattens the plan into videos, then podcasts, then events.
func (c *GeneratedContent) Items() []ContentItem {
	items := make([]ContentItem, 0, c.Len())
	for idx := range c.Videos {
		items = append(items, ContentItem{Kind: KindVideo, Position: len(items), Bucket: BucketVideos, Index: idx, Video: &c.Videos[idx]})
	}
	for idx := range c.Podcasts {
		items = append(items, ContentItem{Kind: KindPodcast, Position: len(items), Bucket: BucketPodcasts, Index: idx, Podcast: &c.Podcasts[idx]})
	}
	for idx := range c.Events {
		items = append(items, ContentItem{Kind: KindEvent, Position: len(items), Bucket: BucketEvents, Index: idx, Event: &c.Events[idx]})
	}
	return items
}

// DiscoveryItem is an AI suggestion on the discovery surface.
type DiscoveryItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        Kind   `json:"type"`
	Duration    string `json:"duration"`
	Relevance   string `json:"relevance"`
}

// BackendItem is one row of the content backend's listing.
type BackendItem struct {
	Titulo     string `json:"titulo"`
	URL        string `json:"url"`
	Plataforma string `json:"plataforma"`
	Artista    string `json:"artista,omitempty"`
}

// Platform values used by the content backend.
const (
	PlatformYouTube = "YouTube"
	PlatformSpotify = "Spotify"
)
