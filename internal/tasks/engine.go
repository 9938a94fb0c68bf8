package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/grand/internal/generation"
	"github.com/desertthunder/grand/internal/media"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
)

// DefaultCredencialID is used when the device never registered with the backend.
const DefaultCredencialID = 1

// DefaultLocation is searched when neither the caller nor the profile names a place.
const DefaultLocation = "Buenos Aires"

// Slot names one persisted generation result. Generations into different slots never race.
type Slot string

const (
	SlotContent   Slot = "generatedContent"
	SlotDiscovery Slot = "discoveredContent"
	SlotEvents    Slot = "nearbyEvents"
)

// Observer is told where every committed generation came from.
type Observer interface {
	ObserveGeneration(slot Slot, source models.Source)
}

// Outcome is a generation result. Stale results were computed but not persisted because a newer
// generation for the same device and slot started in the meantime.
type Outcome[T any] struct {
	Value  T
	Source models.Source
	Token  uint64
	Stale  bool
}

// Err reports [shared.ErrStaleGeneration] for discarded results.
func (o Outcome[T]) Err() error {
	if o.Stale {
		return shared.ErrStaleGeneration
	}
	return nil
}

// RegenerateOptions selects how a plan is rebuilt.
type RegenerateOptions struct {
	// NewInterests rebuilds the plan with the AI generator from the current interests and drops
	// the feedback recorded against the old plan.
	NewInterests bool
}

// ContentEngine builds and stores the plans, suggestions and events each device sees.
type ContentEngine struct {
	backend  services.Backend
	gen      *generation.Generator
	metadata services.MetadataLookup
	observer Observer
	logger   *log.Logger

	mu     sync.Mutex
	tokens map[string]uint64
}

// NewContentEngine creates an engine. gen must not be nil; it answers with fallbacks when no
// text generator is configured.
func NewContentEngine(backend services.Backend, gen *generation.Generator, logger *log.Logger) *ContentEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ContentEngine{
		backend: backend,
		gen:     gen,
		logger:  shared.WithLogger(logger, "component", "engine"),
		tokens:  make(map[string]uint64),
	}
}

// WithMetadata enables Spotify enrichment of backend podcasts.
func (e *ContentEngine) WithMetadata(m services.MetadataLookup) *ContentEngine {
	e.metadata = m
	return e
}

// WithObserver registers o for generation outcomes.
func (e *ContentEngine) WithObserver(o Observer) *ContentEngine {
	e.observer = o
	return e
}

// Generator exposes the AI generator for routes that do not persist their results.
func (e *ContentEngine) Generator() *generation.Generator { return e.gen }

// Backend exposes the content backend.
func (e *ContentEngine) Backend() services.Backend { return e.backend }

func tokenKey(device string, slot Slot) string { return device + "\x00" + string(slot) }

// begin starts a generation and returns its token.
func (e *ContentEngine) begin(device string, slot Slot) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := tokenKey(device, slot)
	e.tokens[k]++
	return e.tokens[k]
}

// commit runs save only while token is still the latest for the slot.
func (e *ContentEngine) commit(device string, slot Slot, token uint64, save func() error) (stale bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tokens[tokenKey(device, slot)] != token {
		return true, nil
	}
	return false, save()
}

func (e *ContentEngine) observe(slot Slot, source models.Source) {
	if e.observer != nil {
		e.observer.ObserveGeneration(slot, source)
	}
}

// Generate rebuilds the device's plan from the content backend.
//
// Upstream failures never surface: the sample plan is stored instead and marked as fallback.
// Only storage errors are returned.
func (e *ContentEngine) Generate(ctx context.Context, store *session.Store, progress chan<- ProgressUpdate) (Outcome[*models.GeneratedContent], error) {
	var out Outcome[*models.GeneratedContent]

	profile, err := store.RequireProfile(ctx)
	if err != nil {
		return out, err
	}
	credID, err := store.CredencialIDOr(ctx, DefaultCredencialID)
	if err != nil {
		return out, err
	}

	out.Token = e.begin(store.Device(), SlotContent)
	logger := e.logger.With("device", store.Device(), "credencial_id", credID)

	sendProgress(progress, fetchContentUpdate(credID))
	plan, err := e.fromBackend(ctx, profile, credID, progress)
	if err != nil {
		logger.Error("failed to fetch content from backend", "error", err)
		sendProgress(progress, fallbackUpdate(err))
		plan = generation.FallbackPlan(profile.Name)
	} else {
		logger.Info("backend content transformed", "videos", len(plan.Videos), "podcasts", len(plan.Podcasts))
	}

	out.Value, out.Source = plan, plan.Source
	out.Stale, err = e.commit(store.Device(), SlotContent, out.Token, func() error {
		return store.SaveContent(ctx, plan)
	})
	if err != nil {
		return out, fmt.Errorf("failed to save plan: %w", err)
	}
	if out.Stale {
		logger.Warn("discarding superseded plan", "token", out.Token)
	} else {
		e.observe(SlotContent, out.Source)
	}
	sendProgress(progress, persistUpdate(plan, out.Stale))
	return out, nil
}

// fromBackend lists the backend rows and turns them into a plan. Rows from other platforms are dropped.
func (e *ContentEngine) fromBackend(ctx context.Context, p *models.ElderProfile, credID int, progress chan<- ProgressUpdate) (*models.GeneratedContent, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: no content backend configured", shared.ErrServiceUnavailable)
	}
	rows, err := e.backend.ListContent(ctx, credID)
	if err != nil {
		return nil, err
	}

	plan := TransformBackend(rows, p.Name)
	sendProgress(progress, transformUpdate(len(plan.Videos), len(plan.Podcasts)))
	e.enrich(ctx, plan, progress)
	return plan, nil
}

// TransformBackend partitions backend rows into videos and podcasts for name's plan.
func TransformBackend(rows []models.BackendItem, name string) *models.GeneratedContent {
	reason := "Contenido personalizado para " + name
	plan := &models.GeneratedContent{
		Videos:      []models.Video{},
		Podcasts:    []models.Podcast{},
		Events:      []models.Event{},
		Source:      models.SourceLive,
		GeneratedAt: time.Now(),
	}

	for _, r := range rows {
		switch r.Plataforma {
		case models.PlatformYouTube:
			v := models.Video{Title: r.Titulo, Channel: "YouTube", Reason: reason, URL: r.URL}
			if id, ok := media.ExtractYouTubeID(r.URL); ok {
				v.VideoID = id
				v.Thumbnail = media.YouTubeThumbnail(id, media.QualityMaxRes)
			}
			plan.Videos = append(plan.Videos, v)
		case models.PlatformSpotify:
			pc := models.Podcast{
				Title:    r.Titulo,
				Host:     "Spotify",
				Reason:   reason,
				Platform: models.PlatformSpotify,
				URL:      r.URL,
				AlbumArt: generation.PlaceholderArt,
			}
			pc.SpotifyID, _ = media.ExtractSpotifyID(r.URL)
			plan.Podcasts = append(plan.Podcasts, pc)
		}
	}
	return plan
}

// enrich fills podcast durations, hosts and art from Spotify. Lookup failures leave the row as is.
func (e *ContentEngine) enrich(ctx context.Context, plan *models.GeneratedContent, progress chan<- ProgressUpdate) {
	if e.metadata == nil {
		return
	}

	total := len(plan.Podcasts)
	for i := range plan.Podcasts {
		pc := &plan.Podcasts[i]
		kind, id, ok := media.ParseSpotifyURL(pc.URL)
		if !ok {
			continue
		}
		sendProgress(progress, enrichUpdate(i+1, total, pc.Title))

		meta, err := e.metadata.Lookup(ctx, kind, id)
		if err != nil {
			e.logger.Debug("spotify lookup failed", "id", id, "error", err)
			continue
		}
		pc.Duration = meta.Duration()
		if meta.Creator != "" {
			pc.Host = meta.Creator
		}
		if meta.ImageURL != "" {
			pc.AlbumArt = meta.ImageURL
		}
	}
}

// TriggerResult is the outcome of one backend generation call.
type TriggerResult struct {
	Name   string
	Result *services.GenerationResult
	Err    error
}

// TriggerBackendGeneration asks the backend to generate YouTube and Spotify content concurrently.
// Individual failures are reported per call; the returned error is only the context's.
func (e *ContentEngine) TriggerBackendGeneration(ctx context.Context, credID int, progress chan<- ProgressUpdate) ([]TriggerResult, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: no content backend configured", shared.ErrServiceUnavailable)
	}

	calls := []struct {
		name string
		fn   func(context.Context, int) (*services.GenerationResult, error)
	}{
		{"youtube", e.backend.GenerateYouTube},
		{"spotify", e.backend.GenerateSpotify},
	}
	results := make([]TriggerResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range calls {
		g.Go(func() error {
			res, err := c.fn(gctx, credID)
			results[i] = TriggerResult{Name: c.name, Result: res, Err: err}
			if err != nil {
				e.logger.Warn("backend generation failed", "call", c.name, "credencial_id", credID, "error", err)
			}
			sendProgress(progress, triggerUpdate(i+1, len(calls), c.name, err))
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

// Regenerate replaces the plan. With NewInterests the AI generator builds it and feedback is cleared.
func (e *ContentEngine) Regenerate(ctx context.Context, store *session.Store, opts RegenerateOptions, progress chan<- ProgressUpdate) (Outcome[*models.GeneratedContent], error) {
	if !opts.NewInterests {
		return e.Generate(ctx, store, progress)
	}

	var out Outcome[*models.GeneratedContent]
	profile, err := store.RequireProfile(ctx)
	if err != nil {
		return out, err
	}

	out.Token = e.begin(store.Device(), SlotContent)
	sendProgress(progress, discoverUpdate(""))
	plan := e.gen.Initial(ctx, profile)
	out.Value, out.Source = plan, plan.Source

	out.Stale, err = e.commit(store.Device(), SlotContent, out.Token, func() error {
		if err := store.SaveContent(ctx, plan); err != nil {
			return err
		}
		return store.ClearFeedback(ctx)
	})
	if err != nil {
		return out, fmt.Errorf("failed to save plan: %w", err)
	}
	if !out.Stale {
		e.observe(SlotContent, out.Source)
	}
	sendProgress(progress, persistUpdate(plan, out.Stale))
	return out, nil
}

// Remove drops one item from the stored plan, keeping the order of the rest. Feedback recorded
// for later items moves with them, since keys carry the flattened position.
func (e *ContentEngine) Remove(ctx context.Context, store *session.Store, bucket models.Bucket, index int) (*models.GeneratedContent, error) {
	plan, err := store.Content(ctx)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: no plan to edit", shared.ErrStateNotFound)
	}
	fb, err := store.Feedback(ctx)
	if err != nil {
		return nil, err
	}

	items := plan.Items()
	removed := slices.IndexFunc(items, func(item models.ContentItem) bool {
		return item.Bucket == bucket && item.Index == index
	})
	rekeyed := fb
	if removed >= 0 {
		rekeyed = fb.AfterRemoval(items, items[removed].Position)
	}

	if err := plan.Remove(bucket, index); err != nil {
		return nil, err
	}
	if err := store.SaveContent(ctx, plan); err != nil {
		return nil, err
	}
	if len(fb) > 0 {
		if err := store.SaveFeedback(ctx, rekeyed); err != nil {
			return nil, fmt.Errorf("failed to move feedback: %w", err)
		}
	}
	return plan, nil
}

// Discover replaces the device's discovery results. An empty query asks for the general mix.
func (e *ContentEngine) Discover(ctx context.Context, store *session.Store, query string, progress chan<- ProgressUpdate) (Outcome[[]models.DiscoveryItem], error) {
	var out Outcome[[]models.DiscoveryItem]
	profile, err := store.RequireProfile(ctx)
	if err != nil {
		return out, err
	}

	out.Token = e.begin(store.Device(), SlotDiscovery)
	sendProgress(progress, discoverUpdate(query))
	res := e.gen.Discover(ctx, generation.DiscoverRequest{
		Name:        profile.Name,
		Interests:   profile.Interests,
		SearchQuery: query,
	})
	out.Value, out.Source = res.Content, res.Source

	out.Stale, err = e.commit(store.Device(), SlotDiscovery, out.Token, func() error {
		return store.SaveDiscovered(ctx, res.Content)
	})
	if err != nil {
		return out, fmt.Errorf("failed to save suggestions: %w", err)
	}
	if !out.Stale {
		e.observe(SlotDiscovery, out.Source)
	}
	sendProgress(progress, persistUpdate(res.Content, out.Stale))
	return out, nil
}

// NearbyEvents replaces the device's events. location falls back to the profile's, then [DefaultLocation].
func (e *ContentEngine) NearbyEvents(ctx context.Context, store *session.Store, location string, progress chan<- ProgressUpdate) (Outcome[[]models.Event], error) {
	var out Outcome[[]models.Event]
	profile, err := store.RequireProfile(ctx)
	if err != nil {
		return out, err
	}
	location = firstNonEmpty(location, profile.Location, DefaultLocation)

	out.Token = e.begin(store.Device(), SlotEvents)
	sendProgress(progress, eventsUpdate(location))
	res := e.gen.Events(ctx, generation.EventsRequest{
		Name:      profile.Name,
		Interests: profile.Interests,
		Mobility:  string(profile.Mobility),
		Location:  location,
	})
	out.Value, out.Source = res.Events, res.Source

	out.Stale, err = e.commit(store.Device(), SlotEvents, out.Token, func() error {
		return store.SaveNearbyEvents(ctx, res.Events)
	})
	if err != nil {
		return out, fmt.Errorf("failed to save events: %w", err)
	}
	if !out.Stale {
		e.observe(SlotEvents, out.Source)
	}
	sendProgress(progress, persistUpdate(res.Events, out.Stale))
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
