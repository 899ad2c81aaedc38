package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"coursetrack/internal/models"
	"coursetrack/internal/shared"
	"coursetrack/internal/tasks"
	"coursetrack/internal/ui"
)

// TUI launches the interactive course player. A missing API key still
// allows browsing; ingestion reports the configuration error in-app.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/coursetrack-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	// First launch seeds the stored display preference from config.toml.
	if _, found, err := library.Prefs(); err == nil && !found && r.config.Player.DarkMode {
		if err := library.SetPrefs(models.DisplayPrefs{DarkMode: true}); err != nil {
			return err
		}
	}

	var cat tasks.Catalog
	client, err := r.catalogClient()
	if err != nil && !errors.Is(err, shared.ErrMissingCredentials) {
		return err
	}
	if err == nil {
		cat = client
	}
	engine := tasks.NewCourseEngine(cat, library)

	model := ui.NewModel(ctx, library, engine)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
