package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
)

// LocalOnlyNotice is shown when the backend could not register the profile.
const LocalOnlyNotice = "Perfil guardado localmente"

// Variant selects the onboarding flow.
type Variant int

const (
	// VariantDirect asks three steps and writes recommendations with the AI generator.
	VariantDirect Variant = iota
	// VariantRegister adds a confirmation step and registers the profile with the backend.
	VariantRegister
)

var stepTitles = map[Variant][]string{
	VariantDirect:   {"Información básica", "Intereses y gustos", "Preferencias y horarios"},
	VariantRegister: {"Información básica", "Intereses y gustos", "Frecuencia y registro", "Confirmación"},
}

// ParseVariant accepts "direct" and "register".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return VariantDirect, nil
	case "register":
		return VariantRegister, nil
	}
	return 0, fmt.Errorf("%w: unknown onboarding variant %q", shared.ErrInvalidArgument, s)
}

// Steps is the number of steps in the flow.
func (v Variant) Steps() int { return len(stepTitles[v]) }

func (v Variant) String() string {
	if v == VariantRegister {
		return "register"
	}
	return "direct"
}

// Registrar registers profiles with the content backend.
type Registrar interface {
	RegisterElder(ctx context.Context, req services.AbueloRequest) (*services.AbueloResponse, error)
}

// Recommender writes free-text recommendations for a profile.
type Recommender interface {
	Recommendations(ctx context.Context, p *models.ElderProfile) (string, error)
}

// Wizard walks a caregiver through creating a profile, one step at a time.
type Wizard struct {
	Profile *models.ElderProfile

	variant Variant
	step    int
	reg     Registrar
	rec     Recommender
	logger  *log.Logger
}

// FinishResult describes a completed onboarding.
type FinishResult struct {
	Profile      *models.ElderProfile `json:"profile"`
	CredencialID int                  `json:"credencialId"`
	Registered   bool                 `json:"registered"`
	Notice       string               `json:"notice,omitempty"`
	Next         string               `json:"next"`
}

// NewWizard starts at step 1 with an empty profile. reg and rec may be nil.
func NewWizard(v Variant, reg Registrar, rec Recommender, logger *log.Logger) *Wizard {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Wizard{
		Profile: models.NewElderProfile(),
		variant: v,
		step:    1,
		reg:     reg,
		rec:     rec,
		logger:  shared.WithLogger(logger, "component", "onboarding"),
	}
}

// Variant is the flow being walked.
func (w *Wizard) Variant() Variant { return w.variant }

// Step is the current step, starting at 1.
func (w *Wizard) Step() int { return w.step }

// Steps is the number of steps.
func (w *Wizard) Steps() int { return w.variant.Steps() }

// Title names the current step.
func (w *Wizard) Title() string { return stepTitles[w.variant][w.step-1] }

// IsLast reports whether the current step is the final one.
func (w *Wizard) IsLast() bool { return w.step == w.Steps() }

// CanProceed reports whether the current step's required fields are filled.
func (w *Wizard) CanProceed() bool {
	switch w.step {
	case 1:
		return strings.TrimSpace(w.Profile.Name) != "" && strings.TrimSpace(w.Profile.Age) != ""
	case 2:
		return strings.TrimSpace(w.Profile.Interests) != ""
	}
	return true
}

// Next advances one step.
func (w *Wizard) Next() error {
	if !w.CanProceed() {
		return fmt.Errorf("%w: step %d (%s) is incomplete", shared.ErrCannotProceed, w.step, w.Title())
	}
	if w.IsLast() {
		return fmt.Errorf("%w: already on the last step", shared.ErrCannotProceed)
	}
	w.step++
	return nil
}

// Back goes back one step, never before the first.
func (w *Wizard) Back() {
	if w.step > 1 {
		w.step--
	}
}

// Finish saves the profile to store and leads to the home route.
//
// Backend and generator failures never fail the onboarding: registration falls back to the
// default credencial with [LocalOnlyNotice], and missing recommendations are left empty.
// Only an incomplete wizard or a storage failure is returned as an error.
func (w *Wizard) Finish(ctx context.Context, store *session.Store, progress chan<- ProgressUpdate) (*FinishResult, error) {
	if !w.IsLast() {
		return nil, fmt.Errorf("%w: finish is only available on step %d", shared.ErrCannotProceed, w.Steps())
	}
	if err := w.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrCannotProceed, err)
	}

	res := &FinishResult{Profile: w.Profile, Next: session.RouteInicio}
	logger := w.logger.With("device", store.Device(), "variant", w.variant)

	switch w.variant {
	case VariantRegister:
		credID, err := store.CredencialIDOr(ctx, DefaultCredencialID)
		if err != nil {
			return nil, err
		}
		sendProgress(progress, registerUpdate(w.Profile.Name))
		res.CredencialID, res.Registered = w.register(ctx, credID)
		if !res.Registered {
			res.Notice = LocalOnlyNotice
		}
		id := res.CredencialID
		w.Profile.CredencialID = &id
		if err := store.SetCredencialID(ctx, id); err != nil {
			return nil, err
		}
	case VariantDirect:
		if w.rec != nil {
			sendProgress(progress, recommendUpdate(w.Profile.Name))
			text, err := w.rec.Recommendations(ctx, w.Profile)
			if err != nil {
				logger.Warn("continuing without recommendations", "error", err)
			}
			w.Profile.Recommendations = text
		}
	}

	if err := store.SaveProfile(ctx, w.Profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	logger.Info("onboarding finished", "name", w.Profile.Name, "registered", res.Registered)
	return res, nil
}

// register returns the backend's credencial, or [DefaultCredencialID] and false on any failure.
func (w *Wizard) register(ctx context.Context, credID int) (int, bool) {
	if w.reg == nil {
		return DefaultCredencialID, false
	}
	resp, err := w.reg.RegisterElder(ctx, services.NewAbueloRequest(w.Profile, credID))
	if err != nil {
		w.logger.Error("error registering profile", "error", err)
		return DefaultCredencialID, false
	}
	if resp.CredencialID > 0 {
		return resp.CredencialID, true
	}
	return credID, true
}
