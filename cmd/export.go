package main

import (
	"context"
	"fmt"

	"github.com/saishagoel27/scribbly/internal/formatter"
	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/session"
	"github.com/saishagoel27/scribbly/internal/shared"
	"github.com/urfave/cli/v3"
)

// ExportSummary writes the generated summary as text or markdown.
func (r *Runner) ExportSummary(ctx context.Context, cmd *cli.Command) error {
	store, closeDB, err := r.exportStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	sess := store.Session()
	summary := sess.Summary()
	if summary == nil || summary.Best == "" {
		return fmt.Errorf("%w: session has no summary", shared.ErrNoResults)
	}

	title := "Study Summary"
	if file := sess.File(); file != nil {
		title = file.Filename
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "markdown", "md":
		data, err = formatter.SummaryToMarkdown(summary, title)
	case "text", "txt":
		data, err = formatter.SummaryToText(summary)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	return r.writeExport(cmd.String("output"), data)
}

// ExportFlashcards writes the generated flashcards as text or markdown.
func (r *Runner) ExportFlashcards(ctx context.Context, cmd *cli.Command) error {
	store, closeDB, err := r.exportStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	cards := cardList(store)
	if len(cards) == 0 {
		return fmt.Errorf("%w: session has no flashcards", shared.ErrNoResults)
	}

	title := "Flashcards"
	if file := store.Session().File(); file != nil {
		title = "Flashcards: " + file.Filename
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "markdown", "md":
		data, err = formatter.FlashcardsToMarkdown(cards, title)
	case "text", "txt":
		data, err = formatter.FlashcardsToText(cards)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	return r.writeExport(cmd.String("output"), data)
}

// ExportJSON writes the full processing results as JSON.
func (r *Runner) ExportJSON(ctx context.Context, cmd *cli.Command) error {
	store, closeDB, err := r.exportStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	sess := store.Session()
	if !sess.HasResults() {
		return fmt.Errorf("%w: session has not been processed", shared.ErrNoResults)
	}

	results := &models.ProcessingResults{
		Summary:      sess.Summary(),
		Flashcards:   cardList(store),
		FallbackUsed: sess.FallbackUsed(),
		GeneratedAt:  sess.UpdatedAt(),
	}

	data, err := formatter.ResultsToJSON(results)
	if err != nil {
		return err
	}

	return r.writeExport(cmd.String("output"), data)
}

// exportStore opens the database and restores the session named by --session.
func (r *Runner) exportStore(cmd *cli.Command) (*session.Store, func(), error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}

	store, err := r.restoreStore(db, cmd.String("session"))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

func cardList(store *session.Store) []models.Flashcard {
	persisted := store.Cards()
	cards := make([]models.Flashcard, len(persisted))
	for i, card := range persisted {
		cards[i] = card.Card()
	}
	return cards
}

func (r *Runner) writeExport(path string, data []byte) error {
	if path == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteExport(path, data); err != nil {
		return err
	}
	r.writePlain("✓ Exported to %s\n", path)
	return nil
}
