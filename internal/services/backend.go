package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

// Backend endpoints.
const (
	PathAbuelos        = "/backend/abuelos"
	PathContenidos     = "/backend/contenidos/"
	PathGenerar        = "/backend/contenidos/generar/"
	PathGenerarSpotify = "/backend/contenidos/generar_spotify/"
)

// ContentPath builds an endpoint path for credencialID.
func ContentPath(prefix string, credencialID string) string {
	return prefix + url.PathEscape(credencialID)
}

// BackendService implements [Backend] on top of [APIService].
type BackendService struct {
	api    *APIService
	logger *log.Logger
}

// NewBackendService creates a typed client for the content backend.
func NewBackendService(api *APIService, logger *log.Logger) *BackendService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BackendService{api: api, logger: shared.WithLogger(logger, "service", "backend")}
}

// API exposes the raw client for forwarding.
func (b *BackendService) API() *APIService { return b.api }

func (b *BackendService) doRequest(ctx context.Context, method, path string, payload, result any) error {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := b.api.Do(ctx, method, path, data)
	if err != nil {
		b.logger.Error("backend request failed", "method", method, "path", path, "error", err)
		return err
	}

	b.logger.Debug("backend response", "method", method, "path", path, "status", resp.StatusCode)

	if err := resp.Err(); err != nil {
		b.logger.Warn("backend returned error", "path", path, "status", resp.StatusCode, "body", string(resp.Body))
		return err
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
		}
	}
	return nil
}

// RegisterElder creates the elder record and returns the credencial_id the backend assigned.
func (b *BackendService) RegisterElder(ctx context.Context, req AbueloRequest) (*AbueloResponse, error) {
	var resp AbueloResponse
	if err := b.doRequest(ctx, http.MethodPost, PathAbuelos, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListContent returns the content previously generated for credencialID.
func (b *BackendService) ListContent(ctx context.Context, credencialID int) ([]models.BackendItem, error) {
	var items []models.BackendItem
	path := ContentPath(PathContenidos, strconv.Itoa(credencialID))
	if err := b.doRequest(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GenerateYouTube asks the backend to produce YouTube content.
func (b *BackendService) GenerateYouTube(ctx context.Context, credencialID int) (*GenerationResult, error) {
	var result GenerationResult
	path := ContentPath(PathGenerar, strconv.Itoa(credencialID))
	if err := b.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateSpotify asks the backend to produce Spotify content. The backend expects an empty JSON body.
func (b *BackendService) GenerateSpotify(ctx context.Context, credencialID int) (*GenerationResult, error) {
	var result GenerationResult
	path := ContentPath(PathGenerarSpotify, strconv.Itoa(credencialID))
	if err := b.doRequest(ctx, http.MethodPost, path, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
