package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/grand/internal/services"
)

// ProxyHandler forwards the browser's backend calls so they are made server side.
//
// Two error conventions coexist, as browsers already depend on both:
//   - /api/proxy/* answer upstream failures with the upstream status and {"error"}, and network
//     failures with 502.
//   - /api/register-profile and /api/generate-content-backend answer upstream failures with
//     {"error": "Backend error", "details": body}, and network failures with 500.
type ProxyHandler struct {
	api     *services.APIService
	metrics *Metrics
	logger  *log.Logger
}

// NewProxyHandler forwards to api.
func NewProxyHandler(api *services.APIService, m *Metrics, logger *log.Logger) *ProxyHandler {
	return &ProxyHandler{api: api, metrics: m, logger: logger}
}

// Register adds the proxy routes to r.
func (h *ProxyHandler) Register(r *BasicRouter) {
	r.HandleFunc(http.MethodPost, "/api/proxy/register-elder", h.RegisterElder)
	r.HandleFunc(http.MethodPost, "/api/register-profile", h.RegisterProfile)
	r.HandleFunc(http.MethodGet, "/api/proxy/list-content/{credencialId}", h.ListContent)
	r.HandleFunc(http.MethodGet, "/api/generate-content-backend", h.GenerateContentBackend)
	r.HandleFunc(http.MethodGet, "/api/proxy/generate/{credencialId}", h.Generate)
	r.HandleFunc(http.MethodPost, "/api/proxy/generate/{credencialId}", h.Generate)
	r.HandleFunc(http.MethodPost, "/api/proxy/generate-spotify/{credencialId}", h.GenerateSpotify)
}

// RegisterElder handles POST /api/proxy/register-elder.
func (h *ProxyHandler) RegisterElder(w http.ResponseWriter, r *http.Request) {
	body, err := jsonBody(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.passthrough(w, r, "register-elder", http.MethodPost, services.PathAbuelos, body)
}

// RegisterProfile handles POST /api/register-profile.
func (h *ProxyHandler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	body, err := jsonBody(r)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to register profile", err.Error())
		return
	}
	h.forward(w, r, "register-profile", http.MethodPost, services.PathAbuelos, body, "Failed to register profile")
}

// ListContent handles GET /api/proxy/list-content/{credencialId}. Upstream failures keep their
// status under a generic message.
func (h *ProxyHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	const (
		route   = "list-content"
		failure = "Failed to fetch content from backend"
	)
	path := services.ContentPath(services.PathContenidos, r.PathValue("credencialId"))

	resp, err := h.api.Get(r.Context(), path)
	switch {
	case err != nil:
		h.metrics.ObserveUpstream(route, UpstreamNetworkError)
		h.logger.Error("error fetching content", "error", err)
		writeError(w, http.StatusBadGateway, failure)
	case !resp.OK():
		h.metrics.ObserveUpstream(route, UpstreamError)
		h.logger.Error("backend error", "status", resp.StatusCode, "body", string(resp.Body))
		writeError(w, resp.StatusCode, failure)
	case !resp.IsJSON:
		h.metrics.ObserveUpstream(route, UpstreamError)
		h.logger.Error("backend answered with a non-JSON body", "status", resp.StatusCode)
		writeError(w, http.StatusInternalServerError, failure)
	default:
		h.metrics.ObserveUpstream(route, UpstreamOK)
		writeJSON(w, http.StatusOK, resp.JSONData)
	}
}

// GenerateContentBackend handles GET /api/generate-content-backend?credencial_id=.
func (h *ProxyHandler) GenerateContentBackend(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("credencial_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "credencial_id is required")
		return
	}
	h.forward(w, r, "generate-content-backend", http.MethodGet, services.ContentPath(services.PathGenerar, id), nil, "Failed to generate content")
}

// Generate handles GET and POST /api/proxy/generate/{credencialId}.
func (h *ProxyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("credencialId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "credencial_id is required")
		return
	}

	var body []byte
	if r.Method == http.MethodPost {
		body = []byte("{}")
	}
	h.passthrough(w, r, "generate", r.Method, services.ContentPath(services.PathGenerar, id), body)
}

// GenerateSpotify handles POST /api/proxy/generate-spotify/{credencialId} with an empty object body.
func (h *ProxyHandler) GenerateSpotify(w http.ResponseWriter, r *http.Request) {
	path := services.ContentPath(services.PathGenerarSpotify, r.PathValue("credencialId"))
	h.passthrough(w, r, "generate-spotify", http.MethodPost, path, []byte("{}"))
}

// passthrough relays the upstream JSON (or {"raw": text}) with Cache-Control: no-store.
func (h *ProxyHandler) passthrough(w http.ResponseWriter, r *http.Request, route, method, path string, body []byte) {
	resp, err := h.api.Do(r.Context(), method, path, body)
	if err != nil {
		h.metrics.ObserveUpstream(route, UpstreamNetworkError)
		h.logger.Error("proxy fetch failed", "route", route, "error", err)
		msg := err.Error()
		if msg == "" {
			msg = "Proxy fetch failed"
		}
		writeError(w, http.StatusBadGateway, msg)
		return
	}

	if upErr, ok := resp.Err().(*services.UpstreamError); ok {
		h.metrics.ObserveUpstream(route, UpstreamError)
		h.logger.Warn("upstream error", "route", route, "status", resp.StatusCode)
		writeError(w, resp.StatusCode, upErr.Message())
		return
	}

	h.metrics.ObserveUpstream(route, UpstreamOK)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp.Data())
}

// forward relays upstream JSON, reporting failures as {"error", "details"}.
func (h *ProxyHandler) forward(w http.ResponseWriter, r *http.Request, route, method, path string, body []byte, failure string) {
	resp, err := h.api.Do(r.Context(), method, path, body)
	if err != nil {
		h.metrics.ObserveUpstream(route, UpstreamNetworkError)
		h.logger.Error("backend request failed", "route", route, "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, failure, err.Error())
		return
	}
	if !resp.OK() {
		h.metrics.ObserveUpstream(route, UpstreamError)
		h.logger.Warn("backend error", "route", route, "status", resp.StatusCode)
		writeErrorDetails(w, resp.StatusCode, "Backend error", string(resp.Body))
		return
	}
	if !resp.IsJSON {
		h.metrics.ObserveUpstream(route, UpstreamError)
		writeErrorDetails(w, http.StatusInternalServerError, failure, "backend answered with a non-JSON body")
		return
	}

	h.metrics.ObserveUpstream(route, UpstreamOK)
	writeJSON(w, http.StatusOK, resp.JSONData)
}

// jsonBody reads the request body and re-encodes it, rejecting anything that is not JSON.
func jsonBody(r *http.Request) ([]byte, error) {
	raw, err := readBody(r)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}
