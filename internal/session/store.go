package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

// Store is the typed view over one device's state.
type Store struct {
	backend Backend
	device  string
}

// New returns the store for deviceID.
func New(backend Backend, deviceID string) *Store {
	return &Store{backend: backend, device: deviceID}
}

// Device is the id every read and write is scoped to.
func (s *Store) Device() string { return s.device }

func (s *Store) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.backend.Get(ctx, s.device, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("%w: %s: %w", shared.ErrCorruptState, key, err)
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.backend.Set(ctx, s.device, key, string(data))
}

func (s *Store) remove(ctx context.Context, keys ...string) error {
	return s.backend.Delete(ctx, s.device, keys...)
}

// AuthState reads the four auth keys.
func (s *Store) AuthState(ctx context.Context) (models.AuthState, error) {
	var state models.AuthState

	loggedIn, _, err := s.backend.Get(ctx, s.device, keyAuthLoggedIn)
	if err != nil {
		return state, err
	}
	role, _, err := s.backend.Get(ctx, s.device, keyAuthRole)
	if err != nil {
		return state, err
	}
	profile, _, err := s.backend.Get(ctx, s.device, keyAuthProfile)
	if err != nil {
		return state, err
	}
	remember, _, err := s.backend.Get(ctx, s.device, keyAuthRemember)
	if err != nil {
		return state, err
	}

	state.IsLoggedIn = loggedIn == "true"
	state.Role, _ = models.ParseRole(role)
	state.ProfileID = profile
	state.RememberOnThisDevice = remember == "true"
	return state, nil
}

// SetLoggedIn records the login flag.
func (s *Store) SetLoggedIn(ctx context.Context, v bool) error {
	return s.backend.Set(ctx, s.device, keyAuthLoggedIn, strconv.FormatBool(v))
}

// SetRole stores role; [models.RoleNone] removes the key.
func (s *Store) SetRole(ctx context.Context, role models.Role) error {
	if role == models.RoleNone {
		return s.remove(ctx, keyAuthRole)
	}
	return s.backend.Set(ctx, s.device, keyAuthRole, string(role))
}

// SetProfileID stores the selected profile; "" removes the key.
func (s *Store) SetProfileID(ctx context.Context, id string) error {
	if id == "" {
		return s.remove(ctx, keyAuthProfile)
	}
	return s.backend.Set(ctx, s.device, keyAuthProfile, id)
}

// SetRememberDevice records the "remember on this device" choice.
func (s *Store) SetRememberDevice(ctx context.Context, v bool) error {
	return s.backend.Set(ctx, s.device, keyAuthRemember, strconv.FormatBool(v))
}

// ClearAuth removes every auth key.
func (s *Store) ClearAuth(ctx context.Context) error {
	return s.remove(ctx, keyAuthLoggedIn, keyAuthRole, keyAuthProfile, keyAuthRemember)
}

// Login accepts any non-empty email and password and marks the device logged in.
func (s *Store) Login(ctx context.Context, email, password string, remember bool) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}
	if err := s.SetLoggedIn(ctx, true); err != nil {
		return err
	}
	return s.SetRememberDevice(ctx, remember)
}

// SelectRole applies the role choice.
//
// Choosing familiar starts a fresh onboarding: the stored profile, plan and feedback are removed.
// Both roles clear the selected profile id.
func (s *Store) SelectRole(ctx context.Context, role models.Role) error {
	if role == models.RoleFamiliar {
		if err := s.ResetForFamiliar(ctx); err != nil {
			return err
		}
	} else if err := s.SetProfileID(ctx, ""); err != nil {
		return err
	}
	return s.SetRole(ctx, role)
}

// SelectProfile picks one of [models.MockProfiles] for the caregiver.
func (s *Store) SelectProfile(ctx context.Context, id string) (models.ProfileOption, error) {
	opt, ok := models.FindProfileOption(id)
	if !ok {
		return opt, fmt.Errorf("%w: unknown profile %q", shared.ErrInvalidInput, id)
	}
	return opt, s.SetProfileID(ctx, id)
}

// ResetForFamiliar removes the profile, plan, feedback and selected profile id.
func (s *Store) ResetForFamiliar(ctx context.Context) error {
	return s.remove(ctx, keyElderProfile, keyGeneratedContent, keyContentFeedback, keyAuthProfile)
}

// Profile returns the stored profile or nil when there is none.
func (s *Store) Profile(ctx context.Context) (*models.ElderProfile, error) {
	var p models.ElderProfile
	ok, err := s.getJSON(ctx, keyElderProfile, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// RequireProfile is [Store.Profile] that reports [shared.ErrNoProfile] when missing.
func (s *Store) RequireProfile(ctx context.Context) (*models.ElderProfile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.ErrNoProfile
	}
	return p, nil
}

// SaveProfile writes p and invalidates the content derived from the previous profile.
func (s *Store) SaveProfile(ctx context.Context, p *models.ElderProfile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if err := s.setJSON(ctx, keyElderProfile, p); err != nil {
		return err
	}
	return s.InvalidateDerived(ctx)
}

// InvalidateDerived drops the weekly plan, discovery results and nearby events.
func (s *Store) InvalidateDerived(ctx context.Context) error {
	return s.remove(ctx, derivedKeys...)
}

// DeleteProfile removes the profile together with everything generated for it.
func (s *Store) DeleteProfile(ctx context.Context) error {
	keys := append([]string{keyElderProfile, keyGeneratedContent, keyContentFeedback}, derivedKeys...)
	return s.remove(ctx, keys...)
}

// Content returns the current plan or nil.
func (s *Store) Content(ctx context.Context) (*models.GeneratedContent, error) {
	var c models.GeneratedContent
	ok, err := s.getJSON(ctx, keyGeneratedContent, &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// SaveContent replaces the plan.
func (s *Store) SaveContent(ctx context.Context, c *models.GeneratedContent) error {
	return s.setJSON(ctx, keyGeneratedContent, c)
}

// Discovered returns the last discovery results.
func (s *Store) Discovered(ctx context.Context) ([]models.DiscoveryItem, error) {
	var items []models.DiscoveryItem
	_, err := s.getJSON(ctx, keyDiscoveredContent, &items)
	return items, err
}

// SaveDiscovered replaces the discovery results.
func (s *Store) SaveDiscovered(ctx context.Context, items []models.DiscoveryItem) error {
	return s.setJSON(ctx, keyDiscoveredContent, items)
}

// NearbyEvents returns the last events search results.
func (s *Store) NearbyEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	_, err := s.getJSON(ctx, keyNearbyEvents, &events)
	return events, err
}

// SaveNearbyEvents replaces the events search results.
func (s *Store) SaveNearbyEvents(ctx context.Context, events []models.Event) error {
	return s.setJSON(ctx, keyNearbyEvents, events)
}

// Feedback returns the feedback map, empty when none was recorded.
func (s *Store) Feedback(ctx context.Context) (models.FeedbackMap, error) {
	fb := models.FeedbackMap{}
	if _, err := s.getJSON(ctx, keyContentFeedback, &fb); err != nil {
		return models.FeedbackMap{}, err
	}
	return fb, nil
}

// SaveFeedback replaces the feedback map.
func (s *Store) SaveFeedback(ctx context.Context, fb models.FeedbackMap) error {
	return s.setJSON(ctx, keyContentFeedback, fb)
}

// MarkFeedback records a play (and optionally a like or dislike) for key.
// A nil liked keeps any previous answer.
func (s *Store) MarkFeedback(ctx context.Context, key string, liked *bool) (models.Feedback, error) {
	fb, err := s.Feedback(ctx)
	if err != nil {
		return models.Feedback{}, err
	}

	now := time.Now()
	entry := fb[key]
	entry.Viewed = true
	entry.LastPlayedAt = &now
	if liked != nil {
		v := *liked
		entry.Liked = &v
	}
	fb[key] = entry

	return entry, s.SaveFeedback(ctx, fb)
}

// ClearFeedback removes all feedback.
func (s *Store) ClearFeedback(ctx context.Context) error {
	return s.remove(ctx, keyContentFeedback)
}

// CredencialID returns the backend identifier captured at registration.
func (s *Store) CredencialID(ctx context.Context) (int, bool, error) {
	raw, ok, err := s.backend.Get(ctx, s.device, keyCredencialID)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s: %w", shared.ErrCorruptState, keyCredencialID, err)
	}
	return id, true, nil
}

// CredencialIDOr returns the stored identifier or def.
func (s *Store) CredencialIDOr(ctx context.Context, def int) (int, error) {
	id, ok, err := s.CredencialID(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return id, nil
}

// SetCredencialID stores the backend identifier.
func (s *Store) SetCredencialID(ctx context.Context, id int) error {
	return s.backend.Set(ctx, s.device, keyCredencialID, strconv.Itoa(id))
}

// Wipe removes every known key for the device.
func (s *Store) Wipe(ctx context.Context) error {
	return s.remove(ctx, AllKeys()...)
}
