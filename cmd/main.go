package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/grand/internal/shared"
	"github.com/urfave/cli/v3"
)

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "grand",
		Usage:   "Personalized content for elders, curated by their family",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("GRAND_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "device",
				Usage:   "Device whose state the command uses (default: session.device)",
				Value:   defaultDevice,
				Sources: cli.EnvVars("GRAND_DEVICE"),
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep device state in memory only",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
