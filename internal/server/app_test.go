package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/grand/internal/models"
	tu "github.com/desertthunder/grand/internal/testing"
)

const backendRows = `[
	{"titulo":"Tango","url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","plataforma":"YouTube"},
	{"titulo":"Radio","url":"https://open.spotify.com/episode/6pOHgLCS6WkkugeEFZwaIs","plataforma":"Spotify"}
]`

func onboardingBody(variant string) map[string]any {
	return map[string]any{
		"variant": variant,
		"profile": map[string]any{
			"name":      "Nélida",
			"age":       "78",
			"interests": "tango, cocina",
			"mobility":  "limitada",
		},
	}
}

func TestSessionRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sess := decode[struct {
		Device string           `json:"device"`
		Auth   models.AuthState `json:"auth"`
	}](t, w)
	assert.Equal(t, env.device, sess.Device)
	assert.False(t, sess.Auth.IsLoggedIn)

	w = env.do(t, http.MethodPost, "/api/session/login", map[string]any{"email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "password is required")

	w = env.do(t, http.MethodPost, "/api/session/login", map[string]any{"email": "ana@example.com", "password": "x", "remember": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/role", decode[map[string]any](t, w)["next"])

	w = env.do(t, http.MethodPost, "/api/session/role", map[string]string{"role": "abuela"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/session/role", map[string]string{"role": "hogar"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/hogar", decode[map[string]any](t, w)["next"])

	w = env.do(t, http.MethodGet, "/api/session/redirect?path=/inicio", nil)
	assert.Equal(t, "/hogar", decode[map[string]string](t, w)["redirect"])

	w = env.do(t, http.MethodGet, "/api/session/redirect?path=/hogar", nil)
	assert.Empty(t, decode[map[string]string](t, w)["redirect"])

	w = env.do(t, http.MethodGet, "/api/session/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]models.ProfileOption](t, w)["profiles"], 2)

	w = env.do(t, http.MethodPost, "/api/session/profile", map[string]string{"profileId": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/session/profile", map[string]string{"profileId": "nelida-78"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/inicio", decode[map[string]any](t, w)["next"])

	w = env.do(t, http.MethodPost, "/api/session/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state, err := env.store().AuthState(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsLoggedIn)
	assert.Equal(t, models.RoleNone, state.Role)
}

func TestProfileRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/profile", map[string]string{"name": "Héctor"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "age and interests are required")

	w = env.do(t, http.MethodPut, "/api/profile", map[string]string{"name": "Héctor", "age": "81", "interests": "fútbol"})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[models.ElderProfile](t, w)
	assert.Equal(t, models.FrequencyWeekly, p.UpdateFrequency, "defaults apply")
	assert.False(t, p.CreatedAt.IsZero())

	w = env.do(t, http.MethodPost, "/api/profile/interests", map[string]string{"interest": "truco"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Interests []string `json:"interests"`
		Changed   bool     `json:"changed"`
	}](t, w)
	assert.Equal(t, []string{"fútbol", "truco"}, got.Interests)
	assert.True(t, got.Changed)

	w = env.do(t, http.MethodDelete, "/api/profile/interests/f%C3%BAtbol", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[struct {
		Interests []string `json:"interests"`
		Changed   bool     `json:"changed"`
	}](t, w)
	assert.Equal(t, []string{"truco"}, got.Interests)

	w = env.do(t, http.MethodDelete, "/api/profile", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOnboardingRoute(t *testing.T) {
	t.Run("register variant stores the credencial", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["POST /backend/abuelos"] = tu.Respond(http.StatusCreated, `{"id":3,"nombre":"Nélida","credencial_id":17}`)

		w := env.do(t, http.MethodPost, "/api/onboarding", onboardingBody("register"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		res := decode[map[string]any](t, w)
		assert.Equal(t, float64(17), res["credencialId"])
		assert.Equal(t, true, res["registered"])
		assert.Equal(t, "/inicio", res["next"])

		id, ok, err := env.store().CredencialID(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 17, id)
	})

	t.Run("register failure keeps the profile locally", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["POST /backend/abuelos"] = tu.Respond(http.StatusInternalServerError, `{"detail":"down"}`)

		w := env.do(t, http.MethodPost, "/api/onboarding", onboardingBody("register"))
		require.Equal(t, http.StatusCreated, w.Code)
		res := decode[map[string]any](t, w)
		assert.Equal(t, "Perfil guardado localmente", res["notice"])
		assert.Equal(t, float64(1), res["credencialId"])
	})

	t.Run("incomplete step", func(t *testing.T) {
		env := newTestEnv(t)
		body := onboardingBody("direct")
		body["profile"].(map[string]any)["interests"] = ""

		w := env.do(t, http.MethodPost, "/api/onboarding", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown variant", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/onboarding", onboardingBody("express"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContentRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Routes["POST /backend/abuelos"] = tu.Respond(http.StatusCreated, `{"credencial_id":17}`)
	env.backend.Routes["GET /backend/contenidos/17"] = tu.Respond(http.StatusOK, backendRows)

	w := env.do(t, http.MethodPost, "/api/content/generate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "no profile yet")

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/onboarding", onboardingBody("register")).Code)

	w = env.do(t, http.MethodPost, "/api/content/generate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gen := decode[struct {
		Content models.GeneratedContent `json:"content"`
		Source  models.Source           `json:"source"`
	}](t, w)
	assert.Equal(t, models.SourceLive, gen.Source)
	require.Len(t, gen.Content.Videos, 1)
	require.Len(t, gen.Content.Podcasts, 1)
	assert.Equal(t, "dQw4w9WgXcQ", gen.Content.Videos[0].VideoID)

	t.Run("feedback feeds activity", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/feedback", map[string]any{"key": "Radio-1", "liked": true})
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodPost, "/api/feedback", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodGet, "/api/activity?filter=podcasts", nil)
		require.Equal(t, http.StatusOK, w.Code)
		report := decode[struct {
			KPIs struct {
				Programados      int `json:"programados"`
				Reproducidos     int `json:"reproducidos"`
				TasaReproduccion int `json:"tasaReproduccion"`
			} `json:"kpis"`
			Items []struct {
				Status string `json:"status"`
			} `json:"items"`
		}](t, w)
		assert.Equal(t, 2, report.KPIs.Programados)
		assert.Equal(t, 1, report.KPIs.Reproducidos)
		assert.Equal(t, 50, report.KPIs.TasaReproduccion)
		require.Len(t, report.Items, 1)
		assert.Equal(t, "reproducido", report.Items[0].Status)

		w = env.do(t, http.MethodGet, "/api/activity?filter=audio", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("hogar items come from the backend", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/hogar/items", nil)
		require.Equal(t, http.StatusOK, w.Code)
		items := decode[struct {
			Items []struct {
				Title  string `json:"title"`
				Player string `json:"player"`
			} `json:"items"`
			Source string `json:"source"`
		}](t, w)
		assert.Equal(t, "backend", items.Source)
		require.Len(t, items.Items, 2)
		assert.Equal(t, "/hogar-player?videoId=dQw4w9WgXcQ", items.Items[0].Player)
	})

	t.Run("export", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/export?format=csv", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Body.String(), "Tango")

		w = env.do(t, http.MethodGet, "/api/export?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("player records the play", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/hogar-player?videoId=dQw4w9WgXcQ&key=Tango-0", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Tango-0", decode[map[string]string](t, w)["feedbackKey"])

		fb, err := env.store().Feedback(context.Background())
		require.NoError(t, err)
		require.Contains(t, fb, "Tango-0")
		assert.True(t, fb["Tango-0"].Viewed)
		assert.NotNil(t, fb["Tango-0"].LastPlayedAt)
	})

	t.Run("remove item", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/content/videos/5", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodDelete, "/api/content/canciones/0", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodDelete, "/api/content/videos/0", nil)
		require.Equal(t, http.StatusOK, w.Code)
		plan, err := env.store().Content(context.Background())
		require.NoError(t, err)
		assert.Empty(t, plan.Videos)
		assert.Len(t, plan.Podcasts, 1)
	})

	t.Run("backend failure stores the sample plan", func(t *testing.T) {
		env.backend.Routes["GET /backend/contenidos/17"] = tu.Respond(http.StatusBadGateway, `{"detail":"down"}`)

		w := env.do(t, http.MethodPost, "/api/content/generate", nil)
		require.Equal(t, http.StatusOK, w.Code)
		gen := decode[struct {
			Content models.GeneratedContent `json:"content"`
			Source  models.Source           `json:"source"`
		}](t, w)
		assert.Equal(t, models.SourceFallback, gen.Source)
		assert.Len(t, gen.Content.Videos, 3)

		w = env.do(t, http.MethodGet, "/api/content", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDiscoveryAndEventRoutes(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/profile",
		map[string]string{"name": "Héctor", "age": "81", "interests": "fútbol"}).Code)

	w := env.do(t, http.MethodPost, "/api/discover?type=podcast", map[string]string{"searchQuery": "tango"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	disc := decode[struct {
		Content []models.DiscoveryItem `json:"content"`
		Total   int                    `json:"total"`
	}](t, w)
	assert.Equal(t, 6, disc.Total, "model failure falls back to the samples")
	for _, item := range disc.Content {
		assert.Equal(t, models.KindPodcast, item.Type)
	}

	w = env.do(t, http.MethodGet, "/api/discover", nil)
	assert.Len(t, decode[struct {
		Content []models.DiscoveryItem `json:"content"`
	}](t, w).Content, 6, "results are stored per device")

	w = env.do(t, http.MethodGet, "/api/discover?type=libros", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/events", map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[struct {
		Events []models.Event `json:"events"`
		Total  int            `json:"total"`
	}](t, w)
	assert.Equal(t, 6, events.Total)

	w = env.do(t, http.MethodGet, "/api/hogar/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]any](t, w)["events"], 6)
}

func TestHogarRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/hogar/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[map[string]any](t, w)
	assert.Equal(t, "demo", items["source"])
	assert.Len(t, items["items"], 4)

	w = env.do(t, http.MethodGet, "/hogar-player?podcastId=abc&videoId=dQw4w9WgXcQ", nil)
	require.Equal(t, http.StatusOK, w.Code)
	player := decode[map[string]string](t, w)
	assert.Equal(t, "podcast", player["kind"])
	assert.Equal(t, "/hogar", player["back"])
}
