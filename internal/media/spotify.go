package media

import (
	"fmt"
	"regexp"
)

// SpotifyKind is the resource type encoded in a Spotify link.
type SpotifyKind string

const (
	SpotifyTrack   SpotifyKind = "track"
	SpotifyEpisode SpotifyKind = "episode"
)

// Tried in order; tracks win when a link somehow matches both.
var spotifyPatterns = []struct {
	kind SpotifyKind
	re   *regexp.Regexp
}{
	{SpotifyTrack, regexp.MustCompile(`spotify\.com/track/([a-zA-Z0-9]+)`)},
	{SpotifyEpisode, regexp.MustCompile(`spotify\.com/episode/([a-zA-Z0-9]+)`)},
}

// ExtractSpotifyID returns the track or episode id found in rawURL.
func ExtractSpotifyID(rawURL string) (string, bool) {
	_, id, ok := ParseSpotifyURL(rawURL)
	return id, ok
}

// ParseSpotifyURL is [ExtractSpotifyID] that also reports which kind of resource matched.
func ParseSpotifyURL(rawURL string) (SpotifyKind, string, bool) {
	for _, p := range spotifyPatterns {
		if m := p.re.FindStringSubmatch(rawURL); len(m) > 1 {
			return p.kind, m[1], true
		}
	}
	return "", "", false
}

// SpotifyEmbedURL builds the embeddable player URL. Kind defaults to episode.
func SpotifyEmbedURL(kind SpotifyKind, id string) string {
	if kind == "" {
		kind = SpotifyEpisode
	}
	return fmt.Sprintf("https://open.spotify.com/embed/%s/%s?utm_source=generator", kind, id)
}

// SpotifyOpenURL is the public web link for a resource.
func SpotifyOpenURL(kind SpotifyKind, id string) string {
	if kind == "" {
		kind = SpotifyEpisode
	}
	return fmt.Sprintf("https://open.spotify.com/%s/%s", kind, id)
}
