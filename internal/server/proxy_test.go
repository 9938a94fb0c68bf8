package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/grand/internal/services"
	tu "github.com/desertthunder/grand/internal/testing"
)

func TestProxyPassthrough(t *testing.T) {
	t.Run("relays JSON without caching", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["POST /backend/abuelos"] = tu.Respond(http.StatusCreated, `{"id":4,"credencial_id":9}`)

		w := env.do(t, http.MethodPost, "/api/proxy/register-elder", `{"nombre":"Rosa","edad":78}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if w.Header().Get("Cache-Control") != "no-store" {
			t.Errorf("expected Cache-Control no-store, got %q", w.Header().Get("Cache-Control"))
		}
		got := decode[map[string]any](t, w)
		if got["credencial_id"] != float64(9) {
			t.Errorf("unexpected body %v", got)
		}

		calls := env.backend.Calls()
		if len(calls) != 1 || !strings.Contains(string(calls[0].Body), `"nombre":"Rosa"`) {
			t.Errorf("unexpected upstream calls %+v", calls)
		}
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/proxy/register-elder", `{nombre`)
		if w.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", w.Code)
		}
		if len(env.backend.Calls()) != 0 {
			t.Error("expected no upstream call")
		}
	})

	t.Run("upstream error keeps status", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["GET /backend/contenidos/generar/5"] = tu.Respond(http.StatusNotFound, `{"detail":"credencial inexistente"}`)

		w := env.do(t, http.MethodGet, "/api/proxy/generate/5", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if got := decode[map[string]string](t, w); got["error"] != "credencial inexistente" {
			t.Errorf("unexpected error body %v", got)
		}
	})

	t.Run("generate posts an empty object", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["POST /backend/contenidos/generar/5"] = tu.Respond(http.StatusOK, `{"resultados":[]}`)
		env.backend.Routes["POST /backend/contenidos/generar_spotify/5"] = tu.Respond(http.StatusOK, `{"resultados":[]}`)

		for _, path := range []string{"/api/proxy/generate/5", "/api/proxy/generate-spotify/5"} {
			w := env.do(t, http.MethodPost, path, nil)
			if w.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, w.Code)
			}
		}
		for _, c := range env.backend.Calls() {
			if string(c.Body) != "{}" {
				t.Errorf("%s: expected body {}, got %q", c.Path, c.Body)
			}
		}
	})

	t.Run("non-JSON success is wrapped", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["GET /backend/contenidos/generar/5"] = func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "generando")
		}

		w := env.do(t, http.MethodGet, "/api/proxy/generate/5", nil)
		if got := decode[map[string]string](t, w); got["raw"] != "generando" {
			t.Errorf("expected raw text, got %v", got)
		}
	})
}

func TestProxyForward(t *testing.T) {
	t.Run("list content keeps the upstream status", func(t *testing.T) {
		for _, status := range []int{http.StatusNotFound, http.StatusServiceUnavailable} {
			env := newTestEnv(t)
			env.backend.Routes["GET /backend/contenidos/5"] = tu.Respond(status, `{"detail":"down"}`)

			w := env.do(t, http.MethodGet, "/api/proxy/list-content/5", nil)
			if w.Code != status {
				t.Fatalf("expected %d, got %d", status, w.Code)
			}
			if got := decode[map[string]string](t, w); got["error"] != "Failed to fetch content from backend" {
				t.Errorf("unexpected error %v", got)
			}
		}
	})

	t.Run("list content rejects a non-JSON listing", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["GET /backend/contenidos/5"] = tu.Respond(http.StatusOK, `<html>`)

		w := env.do(t, http.MethodGet, "/api/proxy/list-content/5", nil)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})

	t.Run("list content success", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["GET /backend/contenidos/5"] = tu.Respond(http.StatusOK, `[{"titulo":"Tango","url":"https://youtu.be/dQw4w9WgXcQ","plataforma":"YouTube"}]`)

		w := env.do(t, http.MethodGet, "/api/proxy/list-content/5", nil)
		if got := decode[[]map[string]any](t, w); len(got) != 1 || got[0]["titulo"] != "Tango" {
			t.Errorf("unexpected listing %v", got)
		}
	})

	t.Run("credencial_id is required", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodGet, "/api/generate-content-backend", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if got := decode[map[string]string](t, w); got["error"] != "credencial_id is required" {
			t.Errorf("unexpected error %v", got)
		}
	})

	t.Run("backend error carries details", func(t *testing.T) {
		env := newTestEnv(t)
		env.backend.Routes["GET /backend/contenidos/generar/3"] = tu.Respond(http.StatusUnprocessableEntity, `{"detail":"sin intereses"}`)

		w := env.do(t, http.MethodGet, "/api/generate-content-backend?credencial_id=3", nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		got := decode[map[string]string](t, w)
		if got["error"] != "Backend error" || !strings.Contains(got["details"], "sin intereses") {
			t.Errorf("unexpected body %v", got)
		}
	})

	t.Run("register profile rejects invalid JSON", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/register-profile", `not json`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if got := decode[map[string]string](t, w); got["error"] != "Failed to register profile" || got["details"] == "" {
			t.Errorf("unexpected body %v", got)
		}
	})
}

func TestProxyNetworkFailure(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	r := NewBasicRouter()
	NewProxyHandler(services.NewAPIService(closed.URL, nil), nil, quietLogger()).Register(r)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		errMsg string
	}{
		{"passthrough answers 502", http.MethodPost, "/api/proxy/generate-spotify/1", http.StatusBadGateway, ""},
		{"forward answers 500", http.MethodGet, "/api/generate-content-backend?credencial_id=1", http.StatusInternalServerError, "Failed to generate content"},
		{"list content answers 502", http.MethodGet, "/api/proxy/list-content/1", http.StatusBadGateway, "Failed to fetch content from backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			got := decode[map[string]string](t, w)
			if got["error"] == "" {
				t.Error("expected an error message")
			}
			if tt.errMsg != "" && got["error"] != tt.errMsg {
				t.Errorf("expected error %q, got %q", tt.errMsg, got["error"])
			}
		})
	}
}
