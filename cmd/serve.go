package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/grand/internal/server"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/desertthunder/grand/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server until interrupted. With --refresh or refresh.enabled, due plans are
// regenerated on the configured schedule while it runs.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, err := r.stateBackend()
	if err != nil {
		return err
	}

	deps := server.Deps{API: r.api, Engine: r.engine, State: state, Logger: r.logger}
	if r.devices != nil {
		deps.Devices = r.devices
	}
	srv, err := server.New(deps)
	if err != nil {
		return err
	}

	if cmd.Bool("refresh") || r.config.Refresh.Enabled {
		refresher, err := r.refresher()
		if err != nil {
			return err
		}
		if err := refresher.Start(ctx, r.config.Refresh.Schedule); err != nil {
			return err
		}
		defer refresher.Stop()
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}
	r.logger.Info("serving", "addr", addr, "backend", r.api.BaseURL(), "device_state", stateKind(r.config))
	return srv.ListenAndServe(ctx, addr)
}

// Refresh regenerates the plans that are due once and reports the pass.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.stateBackend(); err != nil {
		return err
	}
	refresher, err := r.refresher()
	if err != nil {
		return err
	}

	var report *tasks.RefreshReport
	err = r.track(cmd, func(progress chan<- tasks.ProgressUpdate) error {
		var err error
		report, err = refresher.RunOnce(ctx, progress)
		return err
	})
	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Refresh Complete!")
	r.writePlain("Checked: %d\n", report.Checked)
	r.writePlain("Refreshed: %d\n", len(report.Refreshed))
	r.writePlain("Skipped: %d\n", report.Skipped)
	for id, err := range report.Failed {
		r.writePlain("✗ %s: %v\n", id, err)
	}
	return nil
}

// refresher needs the device table, so it is unavailable for ephemeral state.
func (r *Runner) refresher() (*tasks.Refresher, error) {
	if r.devices == nil {
		return nil, fmt.Errorf("%w: refreshing needs the database, not ephemeral state", shared.ErrInvalidConfig)
	}
	return tasks.NewRefresher(r.engine, r.devices, r.state, r.logger), nil
}

func stateKind(c *shared.Config) string {
	if c.Session.Ephemeral {
		return "memory"
	}
	return c.Database.Path
}
