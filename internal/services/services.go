package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/grand/internal/media"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

// Backend is the content backend: elder registration, content listing and generation triggers.
type Backend interface {
	RegisterElder(ctx context.Context, req AbueloRequest) (*AbueloResponse, error)
	ListContent(ctx context.Context, credencialID int) ([]models.BackendItem, error)
	GenerateYouTube(ctx context.Context, credencialID int) (*GenerationResult, error)
	GenerateSpotify(ctx context.Context, credencialID int) (*GenerationResult, error)
}

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// MetadataLookup resolves Spotify ids to display metadata.
type MetadataLookup interface {
	Lookup(ctx context.Context, kind media.SpotifyKind, id string) (*SpotifyMetadata, error)
}

// AbueloRequest is the registration payload for POST /backend/abuelos.
type AbueloRequest struct {
	Nombre           string `json:"nombre"`
	Edad             int    `json:"edad"`
	Descripcion      string `json:"descripcion"`
	Movilidad        string `json:"movilidad"`
	FrecuenciaUpdate string `json:"frecuencia_update"`
	CredencialID     int    `json:"credencial_id"`
}

// NewAbueloRequest maps a profile onto the registration payload.
//
// The description carries interests, schedule and preferences so the backend can personalise.
func NewAbueloRequest(p *models.ElderProfile, credencialID int) AbueloRequest {
	age, _ := p.AgeYears()
	desc := "Intereses: " + p.Interests
	if p.Schedule != "" {
		desc += ". Horarios: " + p.Schedule
	}
	if p.Preferences != "" {
		desc += ". Preferencias: " + p.Preferences
	}
	return AbueloRequest{
		Nombre:           p.Name,
		Edad:             age,
		Descripcion:      desc,
		Movilidad:        string(p.Mobility),
		FrecuenciaUpdate: string(p.UpdateFrequency),
		CredencialID:     credencialID,
	}
}

// AbueloResponse is the backend's answer to a registration.
type AbueloResponse struct {
	ID           int    `json:"id,omitempty"`
	Nombre       string `json:"nombre,omitempty"`
	CredencialID int    `json:"credencial_id"`
}

// GeneratedLink is one item produced by a generation trigger.
type GeneratedLink struct {
	Titulo  string `json:"titulo"`
	URL     string `json:"url"`
	Artista string `json:"artista,omitempty"`
}

// GenerationResult wraps the links a generation trigger produced.
type GenerationResult struct {
	Resultados []GeneratedLink `json:"resultados"`
}

// CompletionRequest is a single-turn chat completion.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// SpotifyMetadata is what the player surfaces display for a Spotify item.
type SpotifyMetadata struct {
	Kind       media.SpotifyKind
	ID         string
	Title      string
	Creator    string
	ImageURL   string
	DurationMS int
}

// Duration formats DurationMS as "N min", or "" when unknown.
func (m SpotifyMetadata) Duration() string {
	if m.DurationMS <= 0 {
		return ""
	}
	mins := (m.DurationMS + 59_999) / 60_000
	return fmt.Sprintf("%d min", mins)
}

// UpstreamError is a non-2xx answer from a remote service.
type UpstreamError struct {
	Status     int
	StatusText string
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", shared.ErrUpstream, e.Message())
}

func (e *UpstreamError) Unwrap() error { return shared.ErrUpstream }

// Message picks the most useful text out of the body: its "error" field, then "details",
// then "detail", falling back to "Upstream <status>: <status text>".
func (e *UpstreamError) Message() string {
	var body map[string]any
	if err := json.Unmarshal(e.Body, &body); err == nil {
		for _, k := range []string{"error", "details", "detail"} {
			if s, ok := body[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("Upstream %d: %s", e.Status, e.StatusText)
}
