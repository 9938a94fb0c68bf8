package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
)

// DefaultRefreshSchedule checks for stale plans every day at 06:00.
const DefaultRefreshSchedule = "0 6 * * *"

// DeviceLister lists known devices.
type DeviceLister interface {
	List(criteria map[string]any) ([]*models.Device, error)
}

// writeClock is implemented by state backends that record when a key was written.
type writeClock interface {
	UpdatedAt(ctx context.Context, deviceID, key string) (time.Time, error)
}

// RefreshReport summarises one pass over the devices.
type RefreshReport struct {
	Checked   int
	Refreshed []string
	Skipped   int
	Failed    map[string]error
}

// Refresher regenerates plans whose profile's update frequency has elapsed.
type Refresher struct {
	engine  *ContentEngine
	devices DeviceLister
	state   session.Backend
	limiter *rate.Limiter
	logger  *log.Logger
	now     func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewRefresher creates a refresher that paces regenerations one per second.
func NewRefresher(engine *ContentEngine, devices DeviceLister, state session.Backend, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Refresher{
		engine:  engine,
		devices: devices,
		state:   state,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  shared.WithLogger(logger, "component", "refresh"),
		now:     time.Now,
	}
}

// WithPace changes the minimum gap between two regenerations. Zero removes pacing.
func (r *Refresher) WithPace(d time.Duration) *Refresher {
	if d <= 0 {
		r.limiter = rate.NewLimiter(rate.Inf, 1)
	} else {
		r.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
	return r
}

// Start runs [Refresher.RunOnce] on schedule (standard five-field cron syntax) until ctx ends or
// [Refresher.Stop] is called. A pass still running when the next one is due is skipped.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return fmt.Errorf("%w: refresher already started", shared.ErrInvalidInput)
	}
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := c.AddFunc(schedule, func() {
		report, err := r.RunOnce(runCtx, nil)
		if err != nil {
			r.logger.Error("refresh pass failed", "error", err)
			return
		}
		r.logger.Info("refresh pass finished", "checked", report.Checked, "refreshed", len(report.Refreshed), "failed", len(report.Failed))
	}); err != nil {
		cancel()
		return fmt.Errorf("%w: schedule %q: %w", shared.ErrInvalidConfig, schedule, err)
	}

	c.Start()
	r.cron, r.cancel = c, cancel
	r.logger.Info("refresher started", "schedule", schedule)

	go func() {
		<-runCtx.Done()
		r.stop(c)
	}()
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.mu.Unlock()
	r.stop(c)
}

// stop halts c if it is still the active schedule.
func (r *Refresher) stop(c *cron.Cron) {
	r.mu.Lock()
	if c == nil || r.cron != c {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	r.logger.Info("refresher stopped")
}

// Due reports whether store's plan is missing or older than its profile's update frequency.
// Devices without a profile are never due.
func (r *Refresher) Due(ctx context.Context, store *session.Store) (bool, error) {
	profile, err := store.Profile(ctx)
	if err != nil || profile == nil {
		return false, err
	}
	plan, err := store.Content(ctx)
	if err != nil {
		return false, err
	}
	if plan == nil {
		return true, nil
	}

	generatedAt := plan.GeneratedAt
	if generatedAt.IsZero() {
		clock, ok := r.state.(writeClock)
		if !ok {
			return true, nil
		}
		generatedAt, err = clock.UpdatedAt(ctx, store.Device(), session.ContentKey)
		if errors.Is(err, shared.ErrStateNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
	}
	return r.now().Sub(generatedAt) >= profile.UpdateFrequency.Interval(), nil
}

// RunOnce checks every device and regenerates the plans that are due.
func (r *Refresher) RunOnce(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshReport, error) {
	devices, err := r.devices.List(nil)
	if err != nil {
		return nil, err
	}

	report := &RefreshReport{Failed: map[string]error{}}
	for i, d := range devices {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++
		store := session.New(r.state, d.ID())

		due, err := r.Due(ctx, store)
		if err != nil {
			report.Failed[d.ID()] = err
			sendProgress(progress, refreshUpdate(i+1, len(devices), d.ID(), err))
			continue
		}
		if !due {
			report.Skipped++
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return report, err
		}
		if _, err := r.engine.Generate(ctx, store, nil); err != nil {
			report.Failed[d.ID()] = err
			sendProgress(progress, refreshUpdate(i+1, len(devices), d.ID(), err))
			continue
		}
		report.Refreshed = append(report.Refreshed, d.ID())
		sendProgress(progress, refreshUpdate(i+1, len(devices), d.ID(), nil))
	}
	return report, nil
}
