package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(NewMemoryBackend(0), "test-device")
}

func fakeProfile(fake faker.Faker) *models.ElderProfile {
	p := models.NewElderProfile()
	p.Name = fake.Person().FirstName()
	p.Age = "78"
	p.Interests = "tango, cocina"
	return p
}

func TestAuthState(t *testing.T) {
	ctx := context.Background()

	t.Run("empty device", func(t *testing.T) {
		state, err := newStore(t).AuthState(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.AuthState{}, state)
	})

	t.Run("Login requires credentials", func(t *testing.T) {
		s := newStore(t)
		err := s.Login(ctx, "", "secret", false)
		assert.True(t, errors.Is(err, shared.ErrMissingArgument))

		require.NoError(t, s.Login(ctx, "ana@example.com", "x", true))
		state, err := s.AuthState(ctx)
		require.NoError(t, err)
		assert.True(t, state.IsLoggedIn)
		assert.True(t, state.RememberOnThisDevice)
	})

	t.Run("SetRole none removes key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetRole(ctx, models.RoleHogar))
		require.NoError(t, s.SetRole(ctx, models.RoleNone))

		state, err := s.AuthState(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.RoleNone, state.Role)
	})

	t.Run("unknown stored role reads as none", func(t *testing.T) {
		backend := NewMemoryBackend(0)
		require.NoError(t, backend.Set(ctx, "d", keyAuthRole, "admin"))
		state, err := New(backend, "d").AuthState(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.RoleNone, state.Role)
	})

	t.Run("ClearAuth", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Login(ctx, "a", "b", true))
		require.NoError(t, s.SetRole(ctx, models.RoleFamiliar))
		require.NoError(t, s.SetProfileID(ctx, "p1"))
		require.NoError(t, s.ClearAuth(ctx))

		state, err := s.AuthState(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.AuthState{}, state)
	})
}

func TestSelectRole(t *testing.T) {
	ctx := context.Background()
	fake := faker.New()

	seed := func(t *testing.T) *Store {
		s := newStore(t)
		require.NoError(t, s.SaveProfile(ctx, fakeProfile(fake)))
		require.NoError(t, s.SaveContent(ctx, &models.GeneratedContent{Videos: []models.Video{{Title: "v"}}}))
		_, err := s.MarkFeedback(ctx, "v-0", nil)
		require.NoError(t, err)
		require.NoError(t, s.SetProfileID(ctx, "p1"))
		return s
	}

	t.Run("familiar starts fresh", func(t *testing.T) {
		s := seed(t)
		require.NoError(t, s.SelectRole(ctx, models.RoleFamiliar))

		p, err := s.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, p)

		c, err := s.Content(ctx)
		require.NoError(t, err)
		assert.Nil(t, c)

		fb, err := s.Feedback(ctx)
		require.NoError(t, err)
		assert.Empty(t, fb)

		state, err := s.AuthState(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.RoleFamiliar, state.Role)
		assert.Empty(t, state.ProfileID)
	})

	t.Run("hogar keeps content", func(t *testing.T) {
		s := seed(t)
		require.NoError(t, s.SelectRole(ctx, models.RoleHogar))

		c, err := s.Content(ctx)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Len(t, c.Videos, 1)

		state, err := s.AuthState(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.RoleHogar, state.Role)
		assert.Empty(t, state.ProfileID)
	})
}

func TestSelectProfile(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	opt, err := s.SelectProfile(ctx, "hector-81")
	require.NoError(t, err)
	assert.Equal(t, "Héctor", opt.Name)

	state, err := s.AuthState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hector-81", state.ProfileID)

	_, err = s.SelectProfile(ctx, "nadie")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := faker.New()

	t.Run("missing profile", func(t *testing.T) {
		s := newStore(t)
		p, err := s.Profile(ctx)
		require.NoError(t, err)
		assert.Nil(t, p)

		_, err = s.RequireProfile(ctx)
		assert.ErrorIs(t, err, shared.ErrNoProfile)
	})

	t.Run("SaveProfile stamps createdAt and invalidates derived content", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveDiscovered(ctx, []models.DiscoveryItem{{ID: "1"}}))
		require.NoError(t, s.SaveNearbyEvents(ctx, []models.Event{{Title: "Bingo"}}))

		p := fakeProfile(fake)
		require.NoError(t, s.SaveProfile(ctx, p))
		assert.False(t, p.CreatedAt.IsZero())

		got, err := s.RequireProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)

		discovered, err := s.Discovered(ctx)
		require.NoError(t, err)
		assert.Empty(t, discovered)

		events, err := s.NearbyEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("DeleteProfile removes plan and feedback", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveProfile(ctx, fakeProfile(fake)))
		require.NoError(t, s.SaveContent(ctx, &models.GeneratedContent{}))
		_, err := s.MarkFeedback(ctx, "x-0", nil)
		require.NoError(t, err)

		require.NoError(t, s.DeleteProfile(ctx))

		p, _ := s.Profile(ctx)
		c, _ := s.Content(ctx)
		fb, _ := s.Feedback(ctx)
		assert.Nil(t, p)
		assert.Nil(t, c)
		assert.Empty(t, fb)
	})

	t.Run("corrupt document", func(t *testing.T) {
		backend := NewMemoryBackend(0)
		require.NoError(t, backend.Set(ctx, "d", keyElderProfile, "{not json"))
		_, err := New(backend, "d").Profile(ctx)
		assert.ErrorIs(t, err, shared.ErrCorruptState)
	})
}

func TestFeedbackAndCredencial(t *testing.T) {
	ctx := context.Background()

	t.Run("MarkFeedback keeps earlier answer when liked is nil", func(t *testing.T) {
		s := newStore(t)
		yes := true
		_, err := s.MarkFeedback(ctx, "Tango-0", &yes)
		require.NoError(t, err)

		entry, err := s.MarkFeedback(ctx, "Tango-0", nil)
		require.NoError(t, err)
		require.NotNil(t, entry.Liked)
		assert.True(t, *entry.Liked)
		assert.True(t, entry.Viewed)
		assert.NotNil(t, entry.LastPlayedAt)

		require.NoError(t, s.ClearFeedback(ctx))
		fb, err := s.Feedback(ctx)
		require.NoError(t, err)
		assert.Empty(t, fb)
	})

	t.Run("CredencialID", func(t *testing.T) {
		s := newStore(t)
		id, err := s.CredencialIDOr(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, id)

		require.NoError(t, s.SetCredencialID(ctx, 42))
		id, ok, err := s.CredencialID(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 42, id)
	})

	t.Run("Wipe", func(t *testing.T) {
		backend := NewMemoryBackend(0)
		s := New(backend, "d")
		require.NoError(t, s.Login(ctx, "a", "b", false))
		require.NoError(t, s.SetCredencialID(ctx, 3))
		require.NoError(t, s.Wipe(ctx))
		assert.Zero(t, backend.Len())
	})
}

func TestMemoryBackendExpiry(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend(20 * time.Millisecond)
	require.NoError(t, backend.Set(ctx, "d", "k", "v"))

	_, ok, err := backend.Get(ctx, "d", "k")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok, err = backend.Get(ctx, "d", "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShouldRedirect(t *testing.T) {
	familiar := models.AuthState{IsLoggedIn: true, Role: models.RoleFamiliar}
	hogar := models.AuthState{IsLoggedIn: true, Role: models.RoleHogar}
	none := models.AuthState{}

	tt := []struct {
		name  string
		state models.AuthState
		path  string
		want  string
	}{
		{"public login", none, "/login", ""},
		{"public role", none, "/role", ""},
		{"public hogar", none, "/hogar", ""},
		{"protected without role", none, "/inicio", "/login"},
		{"nested path is not guarded", none, "/actividad/semana", ""},
		{"hogar device on caregiver page", hogar, "/descubrir", "/hogar"},
		{"familiar allowed", familiar, "/eventos", ""},
		{"unknown route", none, "/perfil", ""},
		{"prefix lookalike", none, "/inicios", ""},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldRedirect(tc.state, tc.path))
		})
	}
}

func TestRedirectNotice(t *testing.T) {
	assert.Equal(t, "Necesitás iniciar sesión", RedirectNotice(models.AuthState{}))
	assert.Equal(t, "Elegí un rol para continuar", RedirectNotice(models.AuthState{IsLoggedIn: true}))
	assert.Equal(t, "Seleccioná un perfil para continuar", RedirectNotice(models.AuthState{IsLoggedIn: true, Role: models.RoleFamiliar}))
	assert.Empty(t, RedirectNotice(models.AuthState{IsLoggedIn: true, Role: models.RoleHogar}))
}
