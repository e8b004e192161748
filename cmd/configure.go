package main

import (
	"context"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/urfave/cli/v3"
)

// Configure records the study configuration for a session at the configure stage.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")

	cfg := models.StudyConfig{
		Mode:       models.StudyMode(cmd.String("mode")),
		Difficulty: models.Difficulty(cmd.String("difficulty")),
		NumCards:   cmd.Int("cards"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.restoreStore(db, sessionID)
	if err != nil {
		return err
	}

	if err := store.SetConfig(cfg); err != nil {
		return err
	}

	r.logger.Info("session configured", "session", store.Session().ID(), "mode", cfg.Mode, "difficulty", cfg.Difficulty)

	r.writePlain("✓ Session %s configured\n\n", store.Session().ID())
	r.writePlain("Mode: %s\n", cfg.Mode)
	r.writePlain("Difficulty: %s\n", cfg.Difficulty)
	if cfg.Mode.WantsCards() {
		r.writePlain("Flashcards: %d\n", cfg.NumCards)
	}
	r.writePlainln("Next: scribbly process")
	return nil
}
