package main

import (
	"context"
	"time"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/repositories"
	"github.com/urfave/cli/v3"
)

// sessionSummary is the JSON shape for session listing output.
type sessionSummary struct {
	ID         string             `json:"id"`
	Stage      string             `json:"stage"`
	File       string             `json:"file,omitempty"`
	Mode       string             `json:"studyMode"`
	Difficulty string             `json:"difficulty"`
	NumCards   int                `json:"numFlashcards"`
	Processing bool               `json:"processing"`
	Stats      models.StudyStats  `json:"stats"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func summarize(sess *models.Session) sessionSummary {
	summary := sessionSummary{
		ID:         sess.ID(),
		Stage:      sess.Stage().String(),
		Mode:       string(sess.Config().Mode),
		Difficulty: string(sess.Config().Difficulty),
		NumCards:   sess.Config().NumCards,
		Processing: sess.Processing(),
		Stats:      sess.Stats(),
		CreatedAt:  sess.CreatedAt(),
		UpdatedAt:  sess.UpdatedAt(),
	}
	if file := sess.File(); file != nil {
		summary.File = file.Filename
	}
	return summary
}

// SessionList lists saved sessions in creation order.
func (r *Runner) SessionList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := repositories.NewSessionRepository(db).List(nil)
	if err != nil {
		return err
	}

	if useJSON {
		summaries := make([]sessionSummary, len(sessions))
		for i, sess := range sessions {
			summaries[i] = summarize(sess)
		}
		return r.writeJSON(summaries, true)
	}

	if len(sessions) == 0 {
		r.writePlain("No saved sessions. Run 'scribbly upload <file>' to start one.\n")
		return nil
	}

	r.writePlainHeader("Study Sessions")
	for _, sess := range sessions {
		filename := "(no file)"
		if file := sess.File(); file != nil {
			filename = file.Filename
		}
		r.writePlain("%s  %-10s %s\n", sess.ID(), sess.Stage(), filename)
	}
	return nil
}

// SessionShow prints a session's stage, configuration and study stats.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	useJSON := cmd.Bool("json")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.restoreStore(db, id)
	if err != nil {
		return err
	}

	sess := store.Session()
	if useJSON {
		return r.writeJSON(summarize(sess), true)
	}

	r.writePlainHeader("Session " + sess.ID())
	r.writePlain("Stage: %s\n", sess.Stage())
	if file := sess.File(); file != nil {
		r.writePlain("File: %s (~%d pages, %s complexity)\n", file.Filename, file.Pages, file.Complexity)
	}
	cfg := sess.Config()
	r.writePlain("Mode: %s\n", cfg.Mode)
	r.writePlain("Difficulty: %s\n", cfg.Difficulty)
	if cfg.Mode.WantsCards() {
		r.writePlain("Flashcards: %d\n", cfg.NumCards)
	}

	if sess.HasResults() {
		stats := sess.Stats()
		counts := store.ProgressCounts()
		r.writePlainln("Study progress:")
		r.writePlain("  Answered: %d (%.1f%% accuracy)\n", stats.Total(), stats.Accuracy())
		r.writePlain("  Mastered: %d  Learning: %d  Unseen: %d\n",
			counts[models.ProgressMastered], counts[models.ProgressLearning], counts[models.ProgressUnseen])
	}
	return nil
}

// SessionReset deletes a session and its flashcards and starts a fresh one.
func (r *Runner) SessionReset(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := r.restoreStore(db, id)
	if err != nil {
		return err
	}

	old := store.Session().ID()
	if err := store.Reset(); err != nil {
		return err
	}

	r.logger.Info("session reset", "old", old, "new", store.Session().ID())
	r.writePlain("✓ Session %s deleted, fresh session %s created\n", old, store.Session().ID())
	return nil
}
