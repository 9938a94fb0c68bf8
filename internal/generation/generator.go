package generation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/grand/internal/media"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/shared"
)

// Item counts requested from the model.
const (
	DiscoveryCount = 12
	SearchCount    = 6
	EventsCount    = 9
	InitialCount   = 5
)

const recommendationsMaxTokens = 2000

// Options tune the completion requests.
type Options struct {
	Model             string
	InitialModel      string
	Temperature       float64
	MaxTokens         int
	RequestsPerMinute int
}

// OptionsFromConfig maps the [ai] config section.
func OptionsFromConfig(c shared.AIConfig) Options {
	return Options{
		Model:             c.Model,
		InitialModel:      c.InitialModel,
		Temperature:       c.Temperature,
		MaxTokens:         c.MaxTokens,
		RequestsPerMinute: c.RequestsPerMinute,
	}
}

// DiscoverRequest is the body of the discovery route.
type DiscoverRequest struct {
	Name        string `json:"name"`
	Interests   string `json:"interests"`
	SearchQuery string `json:"searchQuery,omitempty"`
}

// EventsRequest is the body of the events route.
type EventsRequest struct {
	Name      string `json:"name"`
	Interests string `json:"interests"`
	Mobility  string `json:"mobility"`
	Location  string `json:"location"`
}

// DiscoveryResult is a discovery list and where it came from.
type DiscoveryResult struct {
	Content []models.DiscoveryItem `json:"content"`
	Source  models.Source          `json:"source"`
}

// EventsResult is an events list and where it came from.
type EventsResult struct {
	Events []models.Event `json:"events"`
	Source models.Source  `json:"source"`
}

// Generator wraps a [services.TextGenerator] with prompts, decoding, pacing and fallbacks.
type Generator struct {
	llm     services.TextGenerator
	limiter *rate.Limiter
	opts    Options
	logger  *log.Logger
}

// New creates a Generator. A zero RequestsPerMinute disables pacing.
func New(llm services.TextGenerator, opts Options, logger *log.Logger) *Generator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}

	return &Generator{
		llm:     llm,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
		logger:  shared.WithLogger(logger, "component", "generation"),
	}
}

func (g *Generator) complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: no text generator configured", shared.ErrServiceUnavailable)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	text, err := g.llm.Complete(ctx, req)
	g.logger.Debug("completion finished", "model", req.Model, "duration", time.Since(start), "error", err)
	return text, err
}

// Discover returns content suggestions for a profile, or the sample list when generation fails.
func (g *Generator) Discover(ctx context.Context, req DiscoverRequest) DiscoveryResult {
	text, err := g.complete(ctx, services.CompletionRequest{
		Model:       g.opts.Model,
		Prompt:      discoveryPrompt(req),
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	})

	var out DiscoveryResult
	if err == nil {
		err = Decode(text, &out)
	}
	if err == nil && len(out.Content) == 0 {
		err = fmt.Errorf("%w: no content items", shared.ErrUnparseable)
	}
	if err != nil {
		g.logger.Error("error generating content", "error", err)
		return DiscoveryResult{Content: FallbackDiscovery(), Source: models.SourceFallback}
	}

	for i := range out.Content {
		item := &out.Content[i]
		if item.ID == "" {
			item.ID = strconv.Itoa(i + 1)
		}
		item.Type = models.Kind(strings.ToLower(strings.TrimSpace(string(item.Type))))
	}
	out.Source = models.SourceLive
	return out
}

// Events returns nearby activities, or the sample list when generation fails.
func (g *Generator) Events(ctx context.Context, req EventsRequest) EventsResult {
	text, err := g.complete(ctx, services.CompletionRequest{
		Model:       g.opts.Model,
		Prompt:      eventsPrompt(req),
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	})

	var out EventsResult
	if err == nil {
		err = Decode(text, &out)
	}
	if err == nil && len(out.Events) == 0 {
		err = fmt.Errorf("%w: no events", shared.ErrUnparseable)
	}
	if err != nil {
		g.logger.Error("error generating events", "error", err)
		return EventsResult{Events: FallbackEvents(), Source: models.SourceFallback}
	}

	for i := range out.Events {
		if out.Events[i].ID == "" {
			out.Events[i].ID = strconv.Itoa(i + 1)
		}
	}
	out.Source = models.SourceLive
	return out
}

// Initial produces a first plan (videos, podcasts, events) for p, or the sample plan when generation fails.
//
// Video and podcast URLs are resolved to player ids here so consumers never re-inspect them.
func (g *Generator) Initial(ctx context.Context, p *models.ElderProfile) *models.GeneratedContent {
	model := g.opts.InitialModel
	if model == "" {
		model = g.opts.Model
	}

	text, err := g.complete(ctx, services.CompletionRequest{Model: model, Prompt: initialPrompt(p)})

	var out models.GeneratedContent
	if err == nil {
		err = Decode(text, &out)
	}
	if err == nil && out.Len() == 0 {
		err = fmt.Errorf("%w: empty plan", shared.ErrUnparseable)
	}
	if err != nil {
		g.logger.Error("error generating initial content", "error", err)
		return FallbackInitial()
	}

	Normalize(&out)
	out.Source = models.SourceLive
	out.GeneratedAt = time.Now()
	return &out
}

// Recommendations returns free-text suggestions for p. Errors are returned, not replaced.
func (g *Generator) Recommendations(ctx context.Context, p *models.ElderProfile) (string, error) {
	text, err := g.complete(ctx, services.CompletionRequest{
		Model:       g.opts.Model,
		Prompt:      recommendationsPrompt(p),
		Temperature: g.opts.Temperature,
		MaxTokens:   recommendationsMaxTokens,
	})
	if err != nil {
		g.logger.Error("error generating profile", "error", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Normalize fills derived player fields: YouTube ids and thumbnails, Spotify ids and default art.
func Normalize(c *models.GeneratedContent) {
	for i := range c.Videos {
		v := &c.Videos[i]
		if v.VideoID == "" {
			v.VideoID, _ = media.ExtractYouTubeID(v.URL)
		}
		if v.Thumbnail == "" && v.VideoID != "" {
			v.Thumbnail = media.YouTubeThumbnail(v.VideoID, media.QualityMaxRes)
		}
	}
	for i := range c.Podcasts {
		p := &c.Podcasts[i]
		if p.SpotifyID == "" {
			p.SpotifyID, _ = media.ExtractSpotifyID(p.URL)
		}
		if p.Platform == "" {
			p.Platform = models.PlatformSpotify
		}
		if p.AlbumArt == "" {
			p.AlbumArt = PlaceholderArt
		}
	}
}
