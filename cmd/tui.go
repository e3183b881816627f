package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/desertthunder/breakfast/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI. Each run is its own session unless --session is given.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	dataDir, err := r.config.DataDir()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(dataDir, "breakfast-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if r.sessionID == "" {
		r.sessionID = shared.GenerateID()
	}

	if err := r.open(ctx); err != nil {
		return err
	}
	defer r.close(ctx)

	model := ui.NewModel(ctx, r.session, r.menu)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
