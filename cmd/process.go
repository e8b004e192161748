package main

import (
	"context"
	"fmt"
	"time"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/shared"
	"github.com/saishagoel27/scribbly/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Process runs the full generation pipeline for a session at the process stage.
func (r *Runner) Process(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.restoreStore(db, sessionID)
	if err != nil {
		return err
	}

	sess := store.Session()
	file := sess.File()
	if file == nil {
		return fmt.Errorf("%w: no document uploaded yet", shared.ErrStageIncomplete)
	}
	cfg := sess.Config()

	r.logger.Info("starting processing", "session", sess.ID(), "file", file.Filename, "mode", cfg.Mode)
	r.writePlain("Processing %s...\n", file.Filename)
	r.writePlain("Estimated time: %s\n\n", models.EstimateProcessing(file, cfg).Round(time.Second))

	if err := store.BeginProcessing(); err != nil {
		return err
	}

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.ExtractText:
				r.writePlain("📄 %s\n", update.Message)
			case tasks.AnalyzeContent:
				r.writePlain("🧠 %s\n", update.Message)
			case tasks.GenerateCards:
				if update.Step == 0 {
					r.writePlain("\n🃏 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.Finalize:
				r.writePlain("\n📦 %s\n", update.Message)
			}
		}
	}()

	// Run the engine operation
	result, err := r.engine.Run(ctx, progressCh, file.Filename, cfg)
	close(progressCh)

	if err != nil {
		if failErr := store.FailProcessing(err); failErr != nil {
			r.logger.Warn("failed to record processing failure", "error", failErr)
		}
		return err
	}

	if err := store.FinishProcessing(result); err != nil {
		return err
	}

	// Output summary
	r.writePlain("\n")
	r.writePlainHeader("Processing Complete!")
	if cfg.Mode.WantsSummary() && result.Summary != nil {
		r.writePlain("Summary: %d words analyzed (%s quality)\n", result.Summary.WordCount, result.Summary.Quality)
		r.writePlain("Key concepts: %d\n", len(result.Summary.KeyPhrases))
	}
	if cfg.Mode.WantsCards() {
		r.writePlain("Flashcards: %d\n", len(result.Flashcards))
	}
	if result.FallbackUsed {
		r.writePlain("\nNote: AI services were unavailable, local fallback generation was used.\n")
	}
	r.writePlainln("Next: scribbly study, or scribbly export")
	return nil
}
