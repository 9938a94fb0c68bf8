package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/desertthunder/grand/internal/models"
)

// DeviceCookie identifies the browser a request's state belongs to.
const DeviceCookie = "grand_device"

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const (
	deviceKey ctxKey = iota
	requestIDKey
)

// DeviceFromContext returns the device id set by [DeviceMiddleware].
func DeviceFromContext(ctx context.Context) string {
	id, _ := ctx.Value(deviceKey).(string)
	return id
}

// RequestIDFromContext returns the id set by [RequestIDMiddleware].
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// DeviceRegistry records devices as they are first seen.
type DeviceRegistry interface {
	Ensure(id, label string) (*models.Device, error)
	Touch(id string) error
}

// RequestIDMiddleware reuses a valid incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

// DeviceMiddleware assigns every browser a device id kept in [DeviceCookie].
//
// Unknown or malformed cookies are replaced. When registry is set, devices are recorded and touched.
func DeviceMiddleware(registry DeviceRegistry, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(DeviceCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     DeviceCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				if registry != nil {
					if _, err := registry.Ensure(id, "web"); err != nil {
						logger.Warn("failed to record device", "device", id, "error", err)
					}
				}
			} else if registry != nil {
				if err := registry.Touch(id); err != nil {
					if _, err := registry.Ensure(id, "web"); err != nil {
						logger.Debug("failed to touch device", "device", id, "error", err)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), deviceKey, id)))
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs each request and feeds metrics when m is set.
func LoggingMiddleware(logger *log.Logger, m *Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)
			m.ObserveRequest(route, r.Method, rec.status, elapsed)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", elapsed,
				"request_id", RequestIDFromContext(r.Context()),
			}
			switch {
			case rec.status >= 500:
				logger.Error("request", fields...)
			case rec.status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}
