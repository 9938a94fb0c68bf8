package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/grand/internal/generation"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/tasks"
)

// AIHandler serves the stateless generation routes. Results are returned, never stored.
//
// Generation routes always answer 200, with sample data marked "source": "fallback" when the model
// fails. The recommendations route has no sample text and answers 500 instead.
type AIHandler struct {
	gen     *generation.Generator
	metrics *Metrics
	logger  *log.Logger
}

// NewAIHandler serves gen.
func NewAIHandler(gen *generation.Generator, m *Metrics, logger *log.Logger) *AIHandler {
	return &AIHandler{gen: gen, metrics: m, logger: logger}
}

// Register adds the AI routes to r.
func (h *AIHandler) Register(r *BasicRouter) {
	r.HandleFunc(http.MethodPost, "/api/generate-content", h.GenerateContent)
	r.HandleFunc(http.MethodPost, "/api/generate-events", h.GenerateEvents)
	r.HandleFunc(http.MethodPost, "/api/generate-initial-content", h.GenerateInitialContent)
	r.HandleFunc(http.MethodPost, "/api/generate-profile", h.GenerateProfile)
}

// GenerateContent handles POST /api/generate-content.
func (h *AIHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generation.DiscoverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	res := h.gen.Discover(r.Context(), req)
	h.metrics.ObserveGeneration(tasks.SlotDiscovery, res.Source)
	writeJSON(w, http.StatusOK, res)
}

// GenerateEvents handles POST /api/generate-events.
func (h *AIHandler) GenerateEvents(w http.ResponseWriter, r *http.Request) {
	var req generation.EventsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Location == "" {
		req.Location = tasks.DefaultLocation
	}
	res := h.gen.Events(r.Context(), req)
	h.metrics.ObserveGeneration(tasks.SlotEvents, res.Source)
	writeJSON(w, http.StatusOK, res)
}

// GenerateInitialContent handles POST /api/generate-initial-content with a profile body.
func (h *AIHandler) GenerateInitialContent(w http.ResponseWriter, r *http.Request) {
	var p models.ElderProfile
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, err)
		return
	}
	content := h.gen.Initial(r.Context(), &p)
	h.metrics.ObserveGeneration(tasks.SlotContent, content.Source)
	writeJSON(w, http.StatusOK, map[string]any{"content": content})
}

// GenerateProfile handles POST /api/generate-profile.
func (h *AIHandler) GenerateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.ElderProfile
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, err)
		return
	}
	text, err := h.gen.Recommendations(r.Context(), &p)
	if err != nil {
		h.logger.Error("error generating profile", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate recommendations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": text, "success": true})
}
