package media

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Quality selects a YouTube thumbnail resolution.
type Quality string

const (
	QualityMaxRes Quality = "maxresdefault"
	QualitySD     Quality = "sddefault"
	QualityHQ     Quality = "hqdefault"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractYouTubeID returns the 11 character video id carried by rawURL.
//
// Recognised forms:
//
//	https://www.youtube.com/watch?v=<id>
//	https://m.youtube.com/watch?v=<id>
//	https://youtube.com/embed/<id>
//	https://youtube.com/shorts/<id>
//	https://youtu.be/<id>
func ExtractYouTubeID(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := pathSegments(u.Path)

	switch {
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if v := u.Query().Get("v"); videoIDPattern.MatchString(v) {
			return v, true
		}
		if len(segments) >= 2 && (segments[0] == "embed" || segments[0] == "shorts") {
			return validID(segments[1])
		}
	case host == "youtu.be":
		if len(segments) >= 1 {
			return validID(segments[0])
		}
	}

	return "", false
}

// YouTubeThumbnail builds the image URL for id at quality q.
func YouTubeThumbnail(id string, q Quality) string {
	if q == "" {
		q = QualityMaxRes
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", id, q)
}

// ThumbnailFallbacks lists thumbnail URLs from best to most available.
// Not every video has a maxres image; clients try each in order.
func ThumbnailFallbacks(id string) []string {
	return []string{
		YouTubeThumbnail(id, QualityMaxRes),
		YouTubeThumbnail(id, QualitySD),
		YouTubeThumbnail(id, QualityHQ),
	}
}

// YouTubeEmbedURL is the autoplaying player URL used by the simplified mode.
func YouTubeEmbedURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1&rel=0&modestbranding=1", url.PathEscape(id))
}

// YouTubeWatchURL is the canonical watch URL for id.
func YouTubeWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

func validID(s string) (string, bool) {
	if videoIDPattern.MatchString(s) {
		return s, true
	}
	return "", false
}

func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
