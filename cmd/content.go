package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/desertthunder/grand/internal/activity"
	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/desertthunder/grand/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ContentGenerate builds the plan from the backend and stores it.
func (r *Runner) ContentGenerate(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}

	var out tasks.Outcome[*models.GeneratedContent]
	err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		out, err = r.engine.Generate(ctx, s, progress)
		return err
	})
	if err != nil {
		return err
	}
	if err := out.Err(); err != nil {
		return err
	}
	return r.printPlan(cmd, out.Value, nil)
}

// ContentRegenerate rebuilds the plan for the stored profile.
func (r *Runner) ContentRegenerate(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}

	opts := tasks.RegenerateOptions{NewInterests: cmd.Bool("new-interests")}
	var out tasks.Outcome[*models.GeneratedContent]
	err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		out, err = r.engine.Regenerate(ctx, s, opts, progress)
		return err
	})
	if err != nil {
		return err
	}
	if err := out.Err(); err != nil {
		return err
	}
	return r.printPlan(cmd, out.Value, nil)
}

// ContentTrigger asks the backend to generate YouTube and Spotify content for the elder.
func (r *Runner) ContentTrigger(ctx context.Context, cmd *cli.Command) error {
	credID := cmd.Int("credencial")
	if credID <= 0 {
		s, err := r.store()
		if err != nil {
			return err
		}
		if credID, err = s.CredencialIDOr(ctx, r.config.Backend.DefaultCredencialID); err != nil {
			return err
		}
	}

	var results []tasks.TriggerResult
	err := r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		results, err = r.engine.TriggerBackendGeneration(ctx, credID, progress)
		return err
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			r.writePlain("✗ %s: %v\n", res.Name, res.Err)
			continue
		}
		r.writePlain("✓ %s: %d links\n", res.Name, len(res.Result.Resultados))
	}
	if failed == len(results) && failed > 0 {
		return fmt.Errorf("%w: every generation call failed", shared.ErrUpstream)
	}
	return nil
}

// ContentList prints the stored plan with the feedback recorded against it.
func (r *Runner) ContentList(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	plan, err := s.Content(ctx)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("%w: no plan generated yet, run grand content generate", shared.ErrStateNotFound)
	}
	fb, err := s.Feedback(ctx)
	if err != nil {
		return err
	}
	return r.printPlan(cmd, plan, fb)
}

// ContentRemove drops one item of the plan by bucket and index.
func (r *Runner) ContentRemove(ctx context.Context, cmd *cli.Command) error {
	bucket, err := models.ParseBucket(cmd.StringArg("bucket"))
	if err != nil {
		return err
	}

	s, err := r.store()
	if err != nil {
		return err
	}
	plan, err := r.engine.Remove(ctx, s, bucket, cmd.IntArg("index"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Removed. %d items left\n", plan.Len())
}

// printPlan writes plan as JSON or as a listing. fb marks played and liked items when given.
func (r *Runner) printPlan(cmd *cli.Command, plan *models.GeneratedContent, fb models.FeedbackMap) error {
	if cmd.Bool("json") {
		return r.writeJSON(plan, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Plan (%s)", plan.Source))
	var last models.Bucket
	for _, item := range plan.Items() {
		if item.Bucket != last {
			r.writePlain("\n%s\n", item.Bucket)
			last = item.Bucket
		}
		r.writePlain("  [%d] %s%s\n", item.Index, item.Title(), feedbackMark(fb, item.FeedbackKey()))
		switch {
		case item.Video != nil && item.Video.URL != "":
			r.writePlain("      %s\n", item.Video.URL)
		case item.Podcast != nil && item.Podcast.URL != "":
			r.writePlain("      %s\n", item.Podcast.URL)
		case item.Event != nil:
			r.writePlain("      %s %s, %s\n", item.Event.Date, item.Event.Time, item.Event.Location)
		}
	}
	if fb != nil {
		sum := activity.Summarize(plan, fb)
		r.writePlainln("👍 %d  👎 %d  sin ver %d  total %d", sum.Liked, sum.Disliked, sum.NotViewed, sum.Total)
	}
	return nil
}

func feedbackMark(fb models.FeedbackMap, key string) string {
	rec, ok := fb[key]
	if !ok {
		return ""
	}
	mark := ""
	if rec.Viewed {
		mark = " ✓"
	}
	if rec.Liked != nil {
		if *rec.Liked {
			mark += " 👍"
		} else {
			mark += " 👎"
		}
	}
	return mark
}

// ContentDiscover generates suggestions for the profile, or shows the stored ones with --stored.
func (r *Runner) ContentDiscover(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.String("type")
	if !activity.ValidDiscoveryFilter(kind) {
		return fmt.Errorf("%w: unknown content type %q", shared.ErrInvalidArgument, kind)
	}

	s, err := r.store()
	if err != nil {
		return err
	}

	var items []models.DiscoveryItem
	if cmd.Bool("stored") {
		if items, err = s.Discovered(ctx); err != nil {
			return err
		}
	} else {
		var out tasks.Outcome[[]models.DiscoveryItem]
		err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
			var err error
			out, err = r.engine.Discover(ctx, s, cmd.String("query"), progress)
			return err
		})
		if err != nil {
			return err
		}
		if err := out.Err(); err != nil {
			return err
		}
		items = out.Value
	}

	items, err = activity.FilterDiscovery(items, kind)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Descubrir (%d)", len(items)))
	for _, item := range items {
		r.writePlain("• [%s] %s (%s)\n", item.Type, item.Title, item.Duration)
		r.writePlain("  %s\n", item.Description)
		if item.Relevance != "" {
			r.writePlain("  %s\n", item.Relevance)
		}
	}
	return nil
}

// ContentEvents generates events near the elder, or shows the stored ones with --stored.
func (r *Runner) ContentEvents(ctx context.Context, cmd *cli.Command) error {
	eventType := cmd.String("type")
	if !activity.ValidEventFilter(eventType) {
		return fmt.Errorf("%w: unknown event type %q", shared.ErrInvalidArgument, eventType)
	}

	s, err := r.store()
	if err != nil {
		return err
	}

	var events []models.Event
	if cmd.Bool("stored") {
		if events, err = s.NearbyEvents(ctx); err != nil {
			return err
		}
	} else {
		var out tasks.Outcome[[]models.Event]
		err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
			var err error
			out, err = r.engine.NearbyEvents(ctx, s, cmd.String("location"), progress)
			return err
		})
		if err != nil {
			return err
		}
		if err := out.Err(); err != nil {
			return err
		}
		events = out.Value
	}

	events, err = activity.FilterEvents(events, eventType)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(events, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Eventos (%d)", len(events)))
	for _, e := range events {
		r.writePlain("• [%s] %s\n", e.Type, e.Title)
		r.writePlain("  %s %s, %s", e.Date, e.Time, e.Location)
		if e.Distance != "" {
			r.writePlain(" (%s)", e.Distance)
		}
		r.writePlain("\n")
		if e.Description != "" {
			r.writePlain("  %s\n", e.Description)
		}
	}
	return nil
}

// ContentExport writes the stored plans of the selected devices to disk.
func (r *Runner) ContentExport(ctx context.Context, cmd *cli.Command) error {
	state, err := r.stateBackend()
	if err != nil {
		return err
	}

	deviceIDs := cmd.StringSlice("devices")
	if cmd.Bool("all") {
		if r.devices == nil {
			return fmt.Errorf("%w: --all needs the database", shared.ErrInvalidArgument)
		}
		devices, err := r.devices.List(nil)
		if err != nil {
			return err
		}
		deviceIDs = nil
		for _, d := range devices {
			deviceIDs = append(deviceIDs, d.ID())
		}
	}
	if len(deviceIDs) == 0 {
		deviceIDs = []string{r.device}
	}

	opts := tasks.ExportOpts{
		Format:      cmd.String("format"),
		OutputDir:   cmd.String("output"),
		NumWorkers:  cmd.Int("workers"),
		DownloadArt: cmd.Bool("art"),
	}
	switch opts.Format {
	case tasks.FormatJSON, tasks.FormatCSV, tasks.FormatMarkdown, tasks.FormatText:
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, opts.Format)
	}

	var result *tasks.ExportResult
	err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		result, err = tasks.NewExporter(state).Export(ctx, progress, deviceIDs, opts)
		return err
	})
	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Format: %s\n", result.Format)
	r.writePlain("Devices: %d/%d exported\n", result.SuccessfulExports, result.TotalDevices)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}

// Activity prints the week's KPIs and the filtered plan items.
func (r *Runner) Activity(ctx context.Context, cmd *cli.Command) error {
	filter, err := activity.ParseFilter(cmd.String("filter"))
	if err != nil {
		return err
	}

	s, err := r.store()
	if err != nil {
		return err
	}
	plan, err := s.Content(ctx)
	if err != nil {
		return err
	}
	fb, err := s.Feedback(ctx)
	if err != nil {
		return err
	}

	report := activity.Build(plan, fb, filter, time.Now(), cmd.Int("weeks-back"))
	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Actividad: " + report.Week)
	if report.Empty {
		return r.writePlain("Todavía no hay contenido programado\n")
	}
	k := report.KPIs
	r.writePlain("Programados: %d  Reproducidos: %d  No iniciados: %d  Tasa: %d%%\n\n",
		k.Programados, k.Reproducidos, k.NoIniciados, k.TasaReproduccion)
	for _, e := range report.Items {
		line := fmt.Sprintf("[%s] %s", e.Kind, e.Title)
		if e.Status == activity.StatusPlayed {
			line += " ✓ " + e.LastPlayed
		}
		r.writePlain("%s\n", line)
	}
	if report.NoneReproduced {
		r.writePlainln("Aún no se reprodujo nada esta semana")
	}
	return nil
}

// FeedbackMark records a play of key, with an optional like or dislike.
func (r *Runner) FeedbackMark(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	if key == "" {
		return fmt.Errorf("%w: key", shared.ErrMissingArgument)
	}
	if cmd.Bool("like") && cmd.Bool("dislike") {
		return fmt.Errorf("%w: --like and --dislike are exclusive", shared.ErrInvalidArgument)
	}

	var liked *bool
	switch {
	case cmd.Bool("like"):
		liked = new(bool)
		*liked = true
	case cmd.Bool("dislike"):
		liked = new(bool)
	}

	s, err := r.store()
	if err != nil {
		return err
	}
	rec, err := s.MarkFeedback(ctx, key, liked)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s%s\n", key, feedbackMark(models.FeedbackMap{key: rec}, key))
}

// FeedbackList prints the recorded feedback.
func (r *Runner) FeedbackList(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}
	fb, err := s.Feedback(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(fb, cmd.Bool("pretty"))
	}
	for _, key := range slices.Sorted(maps.Keys(fb)) {
		r.writePlain("%s%s\n", key, feedbackMark(fb, key))
	}
	return nil
}
