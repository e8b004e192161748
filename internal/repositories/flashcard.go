package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/shared"
)

// FlashcardRepository implements models.Repository[*models.PersistedFlashcard] for flashcard storage.
//
// Handles flashcard CRUD operations with soft delete support and session-scoped lookups.
type FlashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository with the given database connection
func NewFlashcardRepository(db *sql.DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// Create inserts a new flashcard into the database with generated ID and sequence
func (r *FlashcardRepository) Create(card *models.PersistedFlashcard) error {
	sequence, err := NextSequence(r.db, "flashcards")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	card.SetID(id)
	card.SetSequence(sequence)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO flashcards (id, sequence, session_id, position, question, answer, concept, difficulty, progress, streak, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var concept any = card.Concept()
	if card.Concept() == "" {
		concept = nil
	}

	_, err = r.db.Exec(query,
		id,
		sequence,
		card.SessionID(),
		card.Position(),
		card.Question(),
		card.Answer(),
		concept,
		card.Difficulty(),
		string(card.Progress()),
		card.Streak(),
		card.CreatedAt(),
		card.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert flashcard: %w", err)
	}

	return nil
}

// CreateBatch inserts all cards for a session inside a single transaction.
//
// Used when a processing run completes: either every generated card is
// persisted or none are.
func (r *FlashcardRepository) CreateBatch(sessionID string, cards []models.Flashcard) ([]*models.PersistedFlashcard, error) {
	persisted := make([]*models.PersistedFlashcard, 0, len(cards))

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO flashcards (id, sequence, session_id, position, question, answer, concept, difficulty, progress, streak, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, card := range cards {
		sequence, err := nextSequenceTx(tx, "flashcards")
		if err != nil {
			return nil, fmt.Errorf("failed to generate sequence: %w", err)
		}

		pc := models.NewPersistedFlashcard(sessionID, i, card)
		pc.SetID(shared.GenerateID())
		pc.SetSequence(sequence)

		if err := pc.Validate(); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		var concept any = pc.Concept()
		if pc.Concept() == "" {
			concept = nil
		}

		_, err = tx.Exec(query,
			pc.ID(), sequence, pc.SessionID(), pc.Position(), pc.Question(), pc.Answer(),
			concept, pc.Difficulty(), string(pc.Progress()), pc.Streak(), pc.CreatedAt(), pc.UpdatedAt(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert flashcard: %w", err)
		}

		persisted = append(persisted, pc)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit flashcard batch: %w", err)
	}

	return persisted, nil
}

// Get retrieves a flashcard by ID, excluding soft-deleted flashcards
func (r *FlashcardRepository) Get(id string) (*models.PersistedFlashcard, error) {
	query := flashcardSelect + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing flashcard in the database
func (r *FlashcardRepository) Update(card *models.PersistedFlashcard) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	card.SetUpdatedAt(now)

	query := `
		UPDATE flashcards
		SET position = ?, progress = ?, streak = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		card.Position(),
		string(card.Progress()),
		card.Streak(),
		now,
		card.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update flashcard: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("flashcard not found or already deleted: %s", card.ID())
	}

	return nil
}

// Delete soft-deletes a flashcard by ID
func (r *FlashcardRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE flashcards
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("flashcard not found or already deleted: %s", id)
	}

	return nil
}

// DeleteBySession soft-deletes every flashcard belonging to a session.
func (r *FlashcardRepository) DeleteBySession(sessionID string) error {
	query := `
		UPDATE flashcards
		SET deleted_at = ?
		WHERE session_id = ? AND deleted_at IS NULL
	`

	if _, err := r.db.Exec(query, time.Now(), sessionID); err != nil {
		return fmt.Errorf("failed to delete session flashcards: %w", err)
	}

	return nil
}

// List retrieves all flashcards matching the given criteria, excluding soft-deleted flashcards
func (r *FlashcardRepository) List(criteria map[string]any) ([]*models.PersistedFlashcard, error) {
	query := flashcardSelect + ` WHERE deleted_at IS NULL`
	args := []any{}

	if sessionID, ok := criteria["session_id"].(string); ok && sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	if progress, ok := criteria["progress"].(string); ok && progress != "" {
		query += " AND progress = ?"
		args = append(args, progress)
	}

	query += " ORDER BY position ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer rows.Close()

	var cards []*models.PersistedFlashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cards, nil
}

const flashcardSelect = `
	SELECT id, sequence, session_id, position, question, answer, concept, difficulty, progress, streak, created_at, updated_at, deleted_at
	FROM flashcards
`

func (r *FlashcardRepository) scanOne(row *sql.Row) (*models.PersistedFlashcard, error) {
	card, err := scanFlashcard(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("flashcard not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan flashcard: %w", err)
	}
	return card, nil
}

func scanFlashcard(s scanner) (*models.PersistedFlashcard, error) {
	var (
		id         string
		sequence   int
		sessionID  string
		position   int
		question   string
		answer     string
		concept    sql.NullString
		difficulty string
		progress   string
		streak     int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := s.Scan(&id, &sequence, &sessionID, &position, &question, &answer, &concept, &difficulty, &progress, &streak, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	card := models.Flashcard{
		Question:   question,
		Answer:     answer,
		Concept:    concept.String,
		Difficulty: difficulty,
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreFlashcard(id, sequence, sessionID, position, card, models.CardProgress(progress), streak, createdAt, updatedAt, deleted), nil
}
