package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin marks the device logged in. Credentials are not checked beyond being present.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	if err := s.Login(ctx, cmd.String("email"), cmd.String("password"), cmd.Bool("remember")); err != nil {
		return err
	}
	r.logger.Info("logged in", "device", s.Device())
	return r.writePlain("✓ Logged in. Next: grand auth role familiar|hogar\n")
}

// AuthLogout clears the session keys of the device.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	if err := s.ClearAuth(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthRole applies the role choice. Choosing familiar starts a fresh onboarding.
func (r *Runner) AuthRole(ctx context.Context, cmd *cli.Command) error {
	role, ok := models.ParseRole(cmd.StringArg("role"))
	if !ok {
		return fmt.Errorf("%w: role must be familiar or hogar", shared.ErrInvalidArgument)
	}

	s, err := r.store()
	if err != nil {
		return err
	}
	if err := s.SelectRole(ctx, role); err != nil {
		return err
	}

	if role == models.RoleHogar {
		return r.writePlain("✓ Role: hogar. Next: grand hogar\n")
	}
	return r.writePlain("✓ Role: familiar. Next: grand profile onboard\n")
}

// AuthProfiles lists the profiles a caregiver can pick.
func (r *Runner) AuthProfiles(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(models.MockProfiles, cmd.Bool("pretty"))
	}
	r.writePlainHeader("Perfiles")
	for _, p := range models.MockProfiles {
		r.writePlain("(%s) %s, %d años  [%s]\n", p.Initials, p.Name, p.Age, p.ID)
	}
	return nil
}

// AuthSelect stores the picked profile id.
func (r *Runner) AuthSelect(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	opt, err := s.SelectProfile(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Selected %s (%d)\n", opt.Name, opt.Age)
}

type authStatus struct {
	Device  string           `json:"device"`
	Auth    models.AuthState `json:"auth"`
	Profile string           `json:"profile,omitempty"`
	Backend string           `json:"backend"`
	Healthy bool             `json:"healthy"`
}

// AuthStatus shows the session state and checks the backend's /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	state, err := s.AuthState(ctx)
	if err != nil {
		return err
	}

	status := authStatus{Device: s.Device(), Auth: state, Backend: r.api.BaseURL()}
	if p, err := s.Profile(ctx); err != nil {
		r.logger.Warn("failed to read profile", "error", err)
	} else if p != nil {
		status.Profile = p.Name
	}

	if resp, err := r.api.Get(ctx, "/health"); err != nil {
		r.logger.Warn("backend unreachable", "error", err)
	} else {
		status.Healthy = resp.OK()
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Session")
	r.writePlain("Device:    %s\n", status.Device)
	r.writePlain("Logged in: %v\n", state.IsLoggedIn)
	r.writePlain("Role:      %s\n", roleLabel(state.Role))
	if state.ProfileID != "" {
		r.writePlain("Picked:    %s\n", state.ProfileID)
	}
	if status.Profile != "" {
		r.writePlain("Profile:   %s\n", status.Profile)
	}
	if status.Healthy {
		return r.writePlain("Backend:   %s ✓\n", status.Backend)
	}
	return r.writePlain("Backend:   %s ✗\n", status.Backend)
}

// AuthRedirect prints where the route guard sends path for the current session, if anywhere.
func (r *Runner) AuthRedirect(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	s, err := r.store()
	if err != nil {
		return err
	}
	state, err := s.AuthState(ctx)
	if err != nil {
		return err
	}

	target := session.ShouldRedirect(state, path)
	if target == "" {
		return r.writePlain("%s: allowed\n", path)
	}
	r.writePlain("%s → %s\n", path, target)
	if notice := session.RedirectNotice(state); notice != "" {
		r.writePlain("%s\n", notice)
	}
	return nil
}

func roleLabel(role models.Role) string {
	if role == models.RoleNone {
		return "(none)"
	}
	return string(role)
}
