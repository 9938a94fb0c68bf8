package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/desertthunder/grand/internal/ui"
	"github.com/urfave/cli/v3"
)

// Hogar launches the simplified mode for the elder in the terminal.
func (r *Runner) Hogar(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	if err := os.MkdirAll("tmp", 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	fileLogger, f, err := shared.NewFileLogger(filepath.Join("tmp", "grand-hogar.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	r.SetLogger(fileLogger)

	backend := services.NewBackendService(r.api, fileLogger)
	model := ui.NewModel(ctx, s, backend, fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
