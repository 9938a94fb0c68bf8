package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/grand/internal/activity"
	"github.com/desertthunder/grand/internal/formatter"
	"github.com/desertthunder/grand/internal/hogar"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/desertthunder/grand/internal/tasks"
)

// AppHandler serves the per-device JSON surfaces. Every request works on the store of the device
// resolved by [DeviceMiddleware].
type AppHandler struct {
	state   session.Backend
	engine  *tasks.ContentEngine
	metrics *Metrics
	logger  *log.Logger
	now     func() time.Time
}

// NewAppHandler serves the devices stored in state.
func NewAppHandler(state session.Backend, engine *tasks.ContentEngine, m *Metrics, logger *log.Logger) *AppHandler {
	return &AppHandler{state: state, engine: engine, metrics: m, logger: logger, now: time.Now}
}

// Register adds the surface routes to r.
func (h *AppHandler) Register(r *BasicRouter) {
	r.HandleFunc(http.MethodGet, "/api/session", h.Session)
	r.HandleFunc(http.MethodPost, "/api/session/login", h.Login)
	r.HandleFunc(http.MethodPost, "/api/session/logout", h.Logout)
	r.HandleFunc(http.MethodPost, "/api/session/role", h.Role)
	r.HandleFunc(http.MethodGet, "/api/session/redirect", h.Redirect)
	r.HandleFunc(http.MethodGet, "/api/session/profiles", h.Profiles)
	r.HandleFunc(http.MethodPost, "/api/session/profile", h.SelectProfile)

	r.HandleFunc(http.MethodGet, "/api/profile", h.GetProfile)
	r.HandleFunc(http.MethodPut, "/api/profile", h.PutProfile)
	r.HandleFunc(http.MethodDelete, "/api/profile", h.DeleteProfile)
	r.HandleFunc(http.MethodPost, "/api/profile/interests", h.AddInterest)
	r.HandleFunc(http.MethodDelete, "/api/profile/interests/{interest}", h.RemoveInterest)
	r.HandleFunc(http.MethodPost, "/api/onboarding", h.Onboarding)

	r.HandleFunc(http.MethodGet, "/api/content", h.Content)
	r.HandleFunc(http.MethodPost, "/api/content/generate", h.Generate)
	r.HandleFunc(http.MethodPost, "/api/content/regenerate", h.Regenerate)
	r.HandleFunc(http.MethodDelete, "/api/content/{bucket}/{index}", h.RemoveItem)
	r.HandleFunc(http.MethodGet, "/api/discover", h.Discovered)
	r.HandleFunc(http.MethodPost, "/api/discover", h.Discover)
	r.HandleFunc(http.MethodGet, "/api/events", h.Events)
	r.HandleFunc(http.MethodPost, "/api/events", h.GenerateEvents)
	r.HandleFunc(http.MethodGet, "/api/activity", h.Activity)
	r.HandleFunc(http.MethodGet, "/api/feedback", h.Feedback)
	r.HandleFunc(http.MethodPost, "/api/feedback", h.MarkFeedback)
	r.HandleFunc(http.MethodGet, "/api/export", h.Export)

	r.HandleFunc(http.MethodGet, "/api/hogar/items", h.HogarItems)
	r.HandleFunc(http.MethodGet, "/api/hogar/events", h.HogarEvents)
	r.HandleFunc(http.MethodGet, hogar.PlayerRoute, h.Player)
}

func (h *AppHandler) store(r *http.Request) (*session.Store, error) {
	id := DeviceFromContext(r.Context())
	if id == "" {
		return nil, fmt.Errorf("%w: no device", shared.ErrNotAuthenticated)
	}
	return session.New(h.state, id), nil
}

// withStore resolves the device store or answers 401.
func (h *AppHandler) withStore(fn func(w http.ResponseWriter, r *http.Request, s *session.Store)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.store(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		fn(w, r, s)
	}
}

// Session handles GET /api/session.
func (h *AppHandler) Session(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		state, err := s.AuthState(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"device": s.Device(), "auth": state})
	})(w, r)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Login handles POST /api/session/login. Any non-empty credentials are accepted.
func (h *AppHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		if err := s.Login(r.Context(), req.Email, req.Password, req.Remember); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "next": session.RouteRole})
	})(w, r)
}

// Logout handles POST /api/session/logout.
func (h *AppHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		if err := s.ClearAuth(r.Context()); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "next": session.RouteLogin})
	})(w, r)
}

// Role handles POST /api/session/role with {"role": "familiar" | "hogar"}.
func (h *AppHandler) Role(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var req struct {
			Role string `json:"role"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		role, ok := models.ParseRole(req.Role)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown role %q", req.Role))
			return
		}
		if err := s.SelectRole(r.Context(), role); err != nil {
			writeErr(w, err)
			return
		}
		next := session.RouteOnboarding
		if role == models.RoleHogar {
			next = session.RouteHogar
		}
		writeJSON(w, http.StatusOK, map[string]any{"role": role, "next": next})
	})(w, r)
}

// Redirect handles GET /api/session/redirect?path=. The target is empty when no redirect applies.
func (h *AppHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		state, err := s.AuthState(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		target := session.ShouldRedirect(state, r.URL.Query().Get("path"))
		resp := map[string]string{"redirect": target}
		if target != "" {
			resp["notice"] = session.RedirectNotice(state)
		}
		writeJSON(w, http.StatusOK, resp)
	})(w, r)
}

// Profiles handles GET /api/session/profiles.
func (h *AppHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"profiles": models.MockProfiles})
}

// SelectProfile handles POST /api/session/profile with {"profileId": id} and leads to the caregiver home.
func (h *AppHandler) SelectProfile(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var req struct {
			ProfileID string `json:"profileId"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		opt, err := s.SelectProfile(r.Context(), req.ProfileID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": opt, "next": session.RouteInicio})
	})(w, r)
}

// GetProfile handles GET /api/profile.
func (h *AppHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		p, err := s.RequireProfile(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})(w, r)
}

// PutProfile handles PUT /api/profile. Saving drops the plan derived from the old profile.
func (h *AppHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		p := models.NewElderProfile()
		if err := decodeJSON(r, p); err != nil {
			writeErr(w, err)
			return
		}
		if err := p.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.SaveProfile(r.Context(), p); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})(w, r)
}

// DeleteProfile handles DELETE /api/profile.
func (h *AppHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		if err := s.DeleteProfile(r.Context()); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})(w, r)
}

// AddInterest handles POST /api/profile/interests with {"interest": "..."}.
func (h *AppHandler) AddInterest(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var req struct {
			Interest string `json:"interest"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		h.editInterests(w, r, s, func(p *models.ElderProfile) bool { return p.AddInterest(req.Interest) })
	})(w, r)
}

// RemoveInterest handles DELETE /api/profile/interests/{interest}.
func (h *AppHandler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		interest := r.PathValue("interest")
		h.editInterests(w, r, s, func(p *models.ElderProfile) bool { return p.RemoveInterest(interest) })
	})(w, r)
}

// editInterests saves the profile only when edit changed it, so a no-op keeps the current plan.
func (h *AppHandler) editInterests(w http.ResponseWriter, r *http.Request, s *session.Store, edit func(*models.ElderProfile) bool) {
	p, err := s.RequireProfile(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	changed := edit(p)
	if changed {
		if err := s.SaveProfile(r.Context(), p); err != nil {
			writeErr(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p, "interests": p.InterestList(), "changed": changed})
}

type onboardingRequest struct {
	Variant string               `json:"variant"`
	Profile *models.ElderProfile `json:"profile"`
}

// Onboarding handles POST /api/onboarding. The submitted profile walks every step of the chosen
// flow, so an incomplete step is reported the same way the wizard reports it.
func (h *AppHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		req := onboardingRequest{Profile: models.NewElderProfile()}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		variant, err := tasks.ParseVariant(req.Variant)
		if err != nil {
			writeErr(w, err)
			return
		}

		wiz := tasks.NewWizard(variant, h.engine.Backend(), h.engine.Generator(), h.logger)
		if req.Profile != nil {
			wiz.Profile = req.Profile
		}
		for !wiz.IsLast() {
			if err := wiz.Next(); err != nil {
				writeErr(w, err)
				return
			}
		}

		res, err := wiz.Finish(r.Context(), s, nil)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	})(w, r)
}

// Content handles GET /api/content with the plan and its feedback summary.
func (h *AppHandler) Content(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		plan, err := s.Content(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		if plan == nil {
			writeErr(w, fmt.Errorf("%w: no plan generated yet", shared.ErrStateNotFound))
			return
		}
		fb, err := s.Feedback(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"content": plan, "summary": activity.Summarize(plan, fb)})
	})(w, r)
}

// writeOutcome answers a generation outcome. Stale outcomes answer 409 with the discarded value.
func writeOutcome[T any](w http.ResponseWriter, o tasks.Outcome[T], key string) {
	status := http.StatusOK
	if o.Stale {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]any{key: o.Value, "source": o.Source, "stale": o.Stale})
}

// Generate handles POST /api/content/generate.
func (h *AppHandler) Generate(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		out, err := h.engine.Generate(r.Context(), s, nil)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOutcome(w, out, "content")
	})(w, r)
}

// Regenerate handles POST /api/content/regenerate with {"newInterests": bool}.
func (h *AppHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var opts tasks.RegenerateOptions
		if err := decodeJSON(r, &opts); err != nil {
			writeErr(w, err)
			return
		}
		out, err := h.engine.Regenerate(r.Context(), s, opts, nil)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOutcome(w, out, "content")
	})(w, r)
}

// RemoveItem handles DELETE /api/content/{bucket}/{index}.
func (h *AppHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		bucket, err := models.ParseBucket(r.PathValue("bucket"))
		if err != nil {
			writeErr(w, err)
			return
		}
		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid index %q", r.PathValue("index")))
			return
		}
		plan, err := h.engine.Remove(r.Context(), s, bucket, index)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"content": plan})
	})(w, r)
}

// Discovered handles GET /api/discover?type=.
func (h *AppHandler) Discovered(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		items, err := s.Discovered(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		h.writeDiscovery(w, r, items)
	})(w, r)
}

// Discover handles POST /api/discover with {"searchQuery": "..."}.
func (h *AppHandler) Discover(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var req struct {
			SearchQuery string `json:"searchQuery"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		out, err := h.engine.Discover(r.Context(), s, req.SearchQuery, nil)
		if err != nil {
			writeErr(w, err)
			return
		}
		if out.Stale {
			writeOutcome(w, out, "content")
			return
		}
		h.writeDiscovery(w, r, out.Value)
	})(w, r)
}

func (h *AppHandler) writeDiscovery(w http.ResponseWriter, r *http.Request, items []models.DiscoveryItem) {
	kind := r.URL.Query().Get("type")
	filtered, err := activity.FilterDiscovery(items, kind)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": filtered, "total": len(items)})
}

// Events handles GET /api/events?type=.
func (h *AppHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		events, err := s.NearbyEvents(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		h.writeEvents(w, r, events)
	})(w, r)
}

// GenerateEvents handles POST /api/events with {"location": "..."}.
func (h *AppHandler) GenerateEvents(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var req struct {
			Location string `json:"location"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		out, err := h.engine.NearbyEvents(r.Context(), s, req.Location, nil)
		if err != nil {
			writeErr(w, err)
			return
		}
		if out.Stale {
			writeOutcome(w, out, "events")
			return
		}
		h.writeEvents(w, r, out.Value)
	})(w, r)
}

func (h *AppHandler) writeEvents(w http.ResponseWriter, r *http.Request, events []models.Event) {
	filtered, err := activity.FilterEvents(events, r.URL.Query().Get("type"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": filtered, "total": len(events)})
}

// Activity handles GET /api/activity?filter=&weeksBack=.
func (h *AppHandler) Activity(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		q := r.URL.Query()
		f, err := activity.ParseFilter(q.Get("filter"))
		if err != nil {
			writeErr(w, err)
			return
		}
		weeksBack := 0
		if v := q.Get("weeksBack"); v != "" {
			if weeksBack, err = strconv.Atoi(v); err != nil || weeksBack < 0 {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid weeksBack %q", v))
				return
			}
		}

		plan, err := s.Content(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		fb, err := s.Feedback(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, activity.Build(plan, fb, f, h.now(), weeksBack))
	})(w, r)
}

// Feedback handles GET /api/feedback.
func (h *AppHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		fb, err := s.Feedback(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fb)
	})(w, r)
}

// MarkFeedback handles POST /api/feedback with {"key": "title-index", "liked": bool?}.
func (h *AppHandler) MarkFeedback(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var req struct {
			Key   string `json:"key"`
			Liked *bool  `json:"liked"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, err)
			return
		}
		if req.Key == "" {
			writeError(w, http.StatusBadRequest, "key is required")
			return
		}
		entry, err := s.MarkFeedback(r.Context(), req.Key, req.Liked)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"key": req.Key, "feedback": entry})
	})(w, r)
}

// Export handles GET /api/export?format=csv|markdown|txt|json and answers the rendered document.
func (h *AppHandler) Export(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		ctx := r.Context()
		plan, err := s.Content(ctx)
		if err != nil {
			writeErr(w, err)
			return
		}
		if plan == nil {
			writeErr(w, fmt.Errorf("%w: no plan to export", shared.ErrStateNotFound))
			return
		}
		profile, err := s.Profile(ctx)
		if err != nil {
			writeErr(w, err)
			return
		}
		fb, err := s.Feedback(ctx)
		if err != nil {
			writeErr(w, err)
			return
		}
		report := formatter.Report{Profile: profile, Plan: plan, Feedback: fb, ExportedAt: h.now()}

		var (
			data        []byte
			contentType string
		)
		switch r.URL.Query().Get("format") {
		case tasks.FormatCSV:
			data, err = formatter.ExportToCSV(report)
			contentType = "text/csv; charset=utf-8"
		case tasks.FormatMarkdown:
			data, err = formatter.ExportToMarkdown(report, "")
			contentType = "text/markdown; charset=utf-8"
		case tasks.FormatText:
			data, err = formatter.ExportToText(report)
			contentType = "text/plain; charset=utf-8"
		case tasks.FormatJSON, "":
			writeJSON(w, http.StatusOK, map[string]any{"profile": profile, "content": plan, "feedback": fb})
			return
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", r.URL.Query().Get("format")))
			return
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})(w, r)
}

// HogarItems handles GET /api/hogar/items.
//
// Items come from the backend listing of the device's credencial, then from the stored plan,
// then from the demo list. Each item carries the player route that plays it.
func (h *AppHandler) HogarItems(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		var lister hogar.Lister
		if b := h.engine.Backend(); b != nil {
			lister = b
		}
		items, source, err := hogar.LoadItems(r.Context(), s, lister)
		if items == nil {
			writeErr(w, err)
			return
		}
		if err != nil {
			h.metrics.ObserveUpstream("hogar-items", upstreamOutcome(err))
			h.logger.Warn("hogar listing failed", "device", s.Device(), "error", err)
		}

		type entry struct {
			hogar.Item
			Label  string `json:"label"`
			Player string `json:"player"`
		}
		out := make([]entry, 0, len(items))
		for _, it := range items {
			out = append(out, entry{Item: it, Label: it.Label(), Player: hogar.PlayerTarget(it)})
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": out, "source": source})
	})(w, r)
}

// HogarEvents handles GET /api/hogar/events with the stored nearby events or the samples.
func (h *AppHandler) HogarEvents(w http.ResponseWriter, r *http.Request) {
	h.withStore(func(w http.ResponseWriter, r *http.Request, s *session.Store) {
		prompts, err := hogar.LoadEvents(r.Context(), s)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": prompts})
	})(w, r)
}

// Player handles GET /hogar-player?videoId=|podcastId=[&key=].
//
// A key marks the plan item as played for the device. Failing to record it does not stop playback.
func (h *AppHandler) Player(w http.ResponseWriter, r *http.Request) {
	p := hogar.ResolvePlayer(r.URL.Query())
	if p.FeedbackKey != "" {
		if s, err := h.store(r); err == nil {
			if _, err := s.MarkFeedback(r.Context(), p.FeedbackKey, nil); err != nil {
				h.logger.Warn("failed to record play", "device", s.Device(), "key", p.FeedbackKey, "error", err)
			}
		}
	}
	writeJSON(w, http.StatusOK, p)
}
