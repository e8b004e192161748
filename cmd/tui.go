package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saishagoel27/scribbly/internal/session"
	"github.com/saishagoel27/scribbly/internal/shared"
	"github.com/saishagoel27/scribbly/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive study wizard, resuming the latest session
// unless --new or --session says otherwise.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	return r.launchWizard(ctx, cmd.String("session"), cmd.Bool("new"))
}

// SessionResume reopens a saved session in the wizard at its persisted stage.
func (r *Runner) SessionResume(ctx context.Context, cmd *cli.Command) error {
	return r.launchWizard(ctx, cmd.String("id"), false)
}

func (r *Runner) launchWizard(ctx context.Context, id string, fresh bool) error {
	if r.scribbly == nil {
		return fmt.Errorf("%w: backend service not initialized", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: processing engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/scribbly-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	var store *session.Store
	if fresh {
		store, err = r.newStore(db)
	} else {
		store, err = r.restoreOrNewStore(db, id)
	}
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, store, r.scribbly, r.engine, r.config)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
