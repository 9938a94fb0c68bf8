// Spotify Web API metadata lookups
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/grand/internal/media"
	"github.com/desertthunder/grand/internal/shared"
)

const (
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	spotifyBaseURL   = "https://api.spotify.com/v1"
	spotifyCacheSize = 512
	spotifyMarket    = "AR"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	DurationMS int             `json:"duration_ms"`
	Album      struct {
		Name   string         `json:"name"`
		Images []SpotifyImage `json:"images"`
	} `json:"album"`
}

// SpotifyEpisode represents a podcast episode.
type SpotifyEpisode struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	DurationMS int            `json:"duration_ms"`
	Images     []SpotifyImage `json:"images"`
	Show       struct {
		Name      string         `json:"name"`
		Publisher string         `json:"publisher"`
		Images    []SpotifyImage `json:"images"`
	} `json:"show"`
}

// SpotifyService implements [MetadataLookup] with app-only (client credentials) auth.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	cache      *lru.Cache[string, SpotifyMetadata]
}

// NewSpotifyService creates a new Spotify service from client credentials.
//
// The returned client fetches and refreshes app tokens on its own.
func NewSpotifyService(ctx context.Context, conf shared.SpotifyConfig) (*SpotifyService, error) {
	if !conf.Configured() {
		return nil, fmt.Errorf("%w: spotify client id and secret", shared.ErrMissingCredentials)
	}

	tokenURL := conf.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	baseURL := conf.APIURL
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	cc := &clientcredentials.Config{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		TokenURL:     tokenURL,
	}

	cache, err := lru.New[string, SpotifyMetadata](spotifyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &SpotifyService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cc.Client(ctx),
		cache:      cache,
	}, nil
}

// Name returns the service name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Lookup returns metadata for a track or episode, from cache when possible.
func (s *SpotifyService) Lookup(ctx context.Context, kind media.SpotifyKind, id string) (*SpotifyMetadata, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty spotify id", shared.ErrInvalidArgument)
	}
	if kind == "" {
		kind = media.SpotifyEpisode
	}

	key := string(kind) + ":" + id
	if m, ok := s.cache.Get(key); ok {
		return &m, nil
	}

	var meta SpotifyMetadata
	switch kind {
	case media.SpotifyTrack:
		var t SpotifyTrack
		if err := s.doRequest(ctx, "/tracks/"+url.PathEscape(id), &t); err != nil {
			return nil, err
		}
		meta = SpotifyMetadata{Kind: kind, ID: id, Title: t.Name, DurationMS: t.DurationMS, ImageURL: firstImage(t.Album.Images)}
		if len(t.Artists) > 0 {
			meta.Creator = t.Artists[0].Name
		}
	case media.SpotifyEpisode:
		var e SpotifyEpisode
		if err := s.doRequest(ctx, "/episodes/"+url.PathEscape(id), &e); err != nil {
			return nil, err
		}
		meta = SpotifyMetadata{Kind: kind, ID: id, Title: e.Name, DurationMS: e.DurationMS, Creator: e.Show.Name}
		if meta.Creator == "" {
			meta.Creator = e.Show.Publisher
		}
		if meta.ImageURL = firstImage(e.Images); meta.ImageURL == "" {
			meta.ImageURL = firstImage(e.Show.Images)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported spotify kind %q", shared.ErrInvalidArgument, kind)
	}

	s.cache.Add(key, meta)
	return &meta, nil
}

// doRequest performs an authenticated GET against the Web API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint+"?market="+spotifyMarket, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		upstream := &UpstreamError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode), Body: body}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
			upstream.Body, _ = json.Marshal(map[string]string{"error": errResp.Error.Message})
		}
		return upstream
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}

// Spotify lists images largest first.
func firstImage(images []SpotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
