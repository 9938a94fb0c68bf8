package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/desertthunder/grand/internal/tasks"
	"github.com/urfave/cli/v3"
)

// applyProfileFlags copies the profile flags that were set onto p.
func applyProfileFlags(cmd *cli.Command, p *models.ElderProfile) {
	set := func(name string, dst *string) {
		if cmd.IsSet(name) {
			*dst = strings.TrimSpace(cmd.String(name))
		}
	}
	set("name", &p.Name)
	set("age", &p.Age)
	set("interests", &p.Interests)
	set("schedule", &p.Schedule)
	set("preferences", &p.Preferences)
	set("location", &p.Location)
	if cmd.IsSet("mobility") {
		p.Mobility = models.Mobility(cmd.String("mobility"))
	}
	if cmd.IsSet("frequency") {
		p.UpdateFrequency = models.UpdateFrequency(cmd.String("frequency"))
	}
}

// ProfileOnboard walks the wizard with the values given as flags, then registers the elder and
// stores the profile with its first plan.
func (r *Runner) ProfileOnboard(ctx context.Context, cmd *cli.Command) error {
	variant, err := tasks.ParseVariant(cmd.String("variant"))
	if err != nil {
		return err
	}

	s, err := r.store()
	if err != nil {
		return err
	}

	wiz := tasks.NewWizard(variant, r.engine.Backend(), r.engine.Generator(), r.logger)
	applyProfileFlags(cmd, wiz.Profile)
	if err := wiz.Profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	for !wiz.IsLast() {
		r.writePlain("✓ %d/%d %s\n", wiz.Step(), wiz.Steps(), wiz.Title())
		if err := wiz.Next(); err != nil {
			return fmt.Errorf("step %q: %w", wiz.Title(), err)
		}
	}
	r.writePlain("✓ %d/%d %s\n", wiz.Step(), wiz.Steps(), wiz.Title())

	var res *tasks.FinishResult
	err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		res, err = wiz.Finish(ctx, s, progress)
		return err
	})
	if err != nil {
		return err
	}

	r.writePlainln("Perfil de %s creado", res.Profile.Name)
	if res.Registered {
		r.writePlain("Registrado en el backend (credencial %d)\n", res.CredencialID)
	}
	if res.Notice != "" {
		r.writePlain("%s\n", res.Notice)
	}
	return r.writePlain("Next: grand content generate\n")
}

// ProfileShow prints the stored profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	p, err := s.RequireProfile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}

	r.writePlainHeader(p.Name)
	r.writePlain("Edad:         %s\n", p.Age)
	r.writePlain("Intereses:    %s\n", strings.Join(p.InterestList(), ", "))
	r.writePlain("Movilidad:    %s\n", p.Mobility)
	r.writePlain("Frecuencia:   %s\n", p.UpdateFrequency)
	if p.Schedule != "" {
		r.writePlain("Horarios:     %s\n", p.Schedule)
	}
	if p.Preferences != "" {
		r.writePlain("Preferencias: %s\n", p.Preferences)
	}
	if p.Location != "" {
		r.writePlain("Ubicación:    %s\n", p.Location)
	}
	if p.CredencialID != nil {
		r.writePlain("Credencial:   %d\n", *p.CredencialID)
	}
	if p.Recommendations != "" {
		r.writePlainln("%s", p.Recommendations)
	}
	return nil
}

// ProfileEdit changes the fields given as flags. Saving clears derived suggestions and events.
func (r *Runner) ProfileEdit(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	p, err := s.RequireProfile(ctx)
	if err != nil {
		return err
	}

	applyProfileFlags(cmd, p)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if err := s.SaveProfile(ctx, p); err != nil {
		return err
	}
	return r.writePlain("✓ Perfil de %s actualizado\n", p.Name)
}

// ProfileDelete removes the profile with its plan, suggestions and feedback.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	if err := s.DeleteProfile(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Perfil eliminado\n")
}

// ProfileInterests lists interests, or adds and removes them. With --regenerate a changed list
// rebuilds the plan and clears the feedback of the old one.
func (r *Runner) ProfileInterests(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	p, err := s.RequireProfile(ctx)
	if err != nil {
		return err
	}

	changed := false
	for _, interest := range cmd.StringSlice("add") {
		changed = p.AddInterest(interest) || changed
	}
	for _, interest := range cmd.StringSlice("remove") {
		changed = p.RemoveInterest(interest) || changed
	}

	if changed {
		if err := s.SaveProfile(ctx, p); err != nil {
			return err
		}
	}

	r.writePlainHeader("Intereses")
	for _, interest := range p.InterestList() {
		r.writePlain("• %s\n", interest)
	}

	if !changed || !cmd.Bool("regenerate") {
		return nil
	}

	r.writePlainln("Regenerando contenido...")
	var out tasks.Outcome[*models.GeneratedContent]
	err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		out, err = r.engine.Regenerate(ctx, s, tasks.RegenerateOptions{NewInterests: true}, progress)
		return err
	})
	if err != nil {
		return err
	}
	if err := out.Err(); err != nil {
		return err
	}
	return r.writePlain("✓ %d elementos (%s)\n", out.Value.Len(), out.Source)
}
