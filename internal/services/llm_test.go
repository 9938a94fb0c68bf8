package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/grand/internal/shared"
)

func TestOpenAIClient(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	t.Run("Complete", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/chat/completions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer sk-test" {
				t.Errorf("missing bearer token")
			}

			var req chatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("bad request body: %v", err)
			}
			if req.Model != "gpt-5-mini" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
				t.Errorf("unexpected request %+v", req)
			}
			if req.Temperature != 0.7 || req.MaxTokens != 3000 {
				t.Errorf("unexpected sampling params %+v", req)
			}

			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"content\":[]}"}}]}`))
		}))
		defer server.Close()

		c := NewOpenAIClient(server.URL+"/v1/", "sk-test", "gpt-5-mini", nil, logger)
		got, err := c.Complete(ctx, CompletionRequest{System: "sys", Prompt: "hola", Temperature: 0.7, MaxTokens: 3000})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != `{"content":[]}` {
			t.Errorf("unexpected completion %q", got)
		}
	})

	t.Run("Missing key", func(t *testing.T) {
		c := NewOpenAIClient("", "", "m", nil, logger)
		if _, err := c.Complete(ctx, CompletionRequest{Prompt: "x"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		}))
		defer server.Close()

		_, err := NewOpenAIClient(server.URL, "k", "m", nil, logger).Complete(ctx, CompletionRequest{Prompt: "x"})
		var upstream *UpstreamError
		if !errors.As(err, &upstream) || upstream.Status != 429 || upstream.Message() != "rate limited" {
			t.Errorf("expected 429 rate limited, got %v", err)
		}
	})

	t.Run("Empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		_, err := NewOpenAIClient(server.URL, "k", "m", nil, logger).Complete(ctx, CompletionRequest{Prompt: "x"})
		if !errors.Is(err, shared.ErrEmptyCompletion) {
			t.Errorf("expected ErrEmptyCompletion, got %v", err)
		}
	})
}
