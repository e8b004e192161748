package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/shared"
)

// SessionRepository implements models.Repository[*models.Session] for wizard sessions.
//
// Handles session CRUD operations with soft delete support. Key phrases are
// stored as a JSON array in a TEXT column.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session into the database with generated ID and sequence
func (r *SessionRepository) Create(session *models.Session) error {
	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	session.SetID(id)
	session.SetSequence(sequence)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (
			id, sequence, stage, study_mode, difficulty, num_cards,
			file_name, file_size, file_ext, estimated_pages, reading_time, complexity,
			processing, summary, abstract, key_phrases, word_count, quality, fallback_used,
			correct, incorrect, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	cols, err := sessionColumns(session)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(query,
		id,
		sequence,
		int(session.Stage()),
		string(session.Config().Mode),
		string(session.Config().Difficulty),
		session.Config().NumCards,
		cols.fileName,
		cols.fileSize,
		cols.fileExt,
		cols.pages,
		cols.readingTime,
		cols.complexity,
		session.Processing(),
		cols.summary,
		cols.abstract,
		cols.keyPhrases,
		cols.wordCount,
		cols.quality,
		session.FallbackUsed(),
		session.Stats().Correct,
		session.Stats().Incorrect,
		session.CreatedAt(),
		session.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID, excluding soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := sessionSelect + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// Latest retrieves the most recently updated session, or ErrSessionNotFound when none exist.
func (r *SessionRepository) Latest() (*models.Session, error) {
	query := sessionSelect + ` WHERE deleted_at IS NULL ORDER BY updated_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRow(query))
}

// Update modifies an existing session in the database
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	cols, err := sessionColumns(session)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET stage = ?, study_mode = ?, difficulty = ?, num_cards = ?,
			file_name = ?, file_size = ?, file_ext = ?, estimated_pages = ?, reading_time = ?, complexity = ?,
			processing = ?, summary = ?, abstract = ?, key_phrases = ?, word_count = ?, quality = ?, fallback_used = ?,
			correct = ?, incorrect = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		int(session.Stage()),
		string(session.Config().Mode),
		string(session.Config().Difficulty),
		session.Config().NumCards,
		cols.fileName,
		cols.fileSize,
		cols.fileExt,
		cols.pages,
		cols.readingTime,
		cols.complexity,
		session.Processing(),
		cols.summary,
		cols.abstract,
		cols.keyPhrases,
		cols.wordCount,
		cols.quality,
		session.FallbackUsed(),
		session.Stats().Correct,
		session.Stats().Incorrect,
		now,
		session.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, session.ID())
	}

	return nil
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE sessions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}

	return nil
}

// List retrieves all sessions matching the given criteria, excluding soft-deleted sessions
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	query := sessionSelect + ` WHERE deleted_at IS NULL`
	args := []any{}

	if stage, ok := criteria["stage"].(models.Stage); ok && stage > 0 {
		query += " AND stage = ?"
		args = append(args, int(stage))
	}

	if mode, ok := criteria["study_mode"].(string); ok && mode != "" {
		query += " AND study_mode = ?"
		args = append(args, mode)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

const sessionSelect = `
	SELECT id, sequence, stage, study_mode, difficulty, num_cards,
		file_name, file_size, file_ext, estimated_pages, reading_time, complexity,
		processing, summary, abstract, key_phrases, word_count, quality, fallback_used,
		correct, incorrect, created_at, updated_at, deleted_at
	FROM sessions
`

// sessionCols holds nullable column values for insert/update statements.
type sessionCols struct {
	fileName    any
	fileSize    int64
	fileExt     any
	pages       int
	readingTime any
	complexity  any
	summary     any
	abstract    any
	keyPhrases  any
	wordCount   int
	quality     any
}

func sessionColumns(session *models.Session) (*sessionCols, error) {
	cols := &sessionCols{}

	if file := session.File(); file != nil {
		cols.fileName = file.Filename
		cols.fileSize = file.SizeBytes
		cols.fileExt = file.Extension
		cols.pages = file.Pages
		cols.readingTime = file.ReadingTime
		cols.complexity = file.Complexity
	}

	if summary := session.Summary(); summary != nil {
		cols.summary = summary.Best
		if summary.Abstract != "" {
			cols.abstract = summary.Abstract
		}
		phrases, err := json.Marshal(summary.KeyPhrases)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key phrases: %w", err)
		}
		cols.keyPhrases = string(phrases)
		cols.wordCount = summary.WordCount
		cols.quality = summary.Quality
	}

	return cols, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scanning logic.
type scanner interface {
	Scan(dest ...any) error
}

func (r *SessionRepository) scanOne(row *sql.Row) (*models.Session, error) {
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) scanRow(rows *sql.Rows) (*models.Session, error) {
	session, err := scanSession(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	return session, nil
}

func scanSession(s scanner) (*models.Session, error) {
	var (
		id          string
		sequence    int
		stage       int
		mode        string
		difficulty  string
		numCards    int
		fileName    sql.NullString
		fileSize    int64
		fileExt     sql.NullString
		pages       int
		readingTime sql.NullString
		complexity  sql.NullString
		processing  bool
		summary     sql.NullString
		abstract    sql.NullString
		keyPhrases  sql.NullString
		wordCount   int
		quality     sql.NullString
		fallback    bool
		correct     int
		incorrect   int
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(
		&id, &sequence, &stage, &mode, &difficulty, &numCards,
		&fileName, &fileSize, &fileExt, &pages, &readingTime, &complexity,
		&processing, &summary, &abstract, &keyPhrases, &wordCount, &quality, &fallback,
		&correct, &incorrect, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	config := models.StudyConfig{
		Mode:       models.StudyMode(mode),
		Difficulty: models.Difficulty(difficulty),
		NumCards:   numCards,
	}

	var file *models.FileMetadata
	if fileName.Valid && fileName.String != "" {
		file = &models.FileMetadata{
			Filename:    fileName.String,
			SizeBytes:   fileSize,
			Extension:   fileExt.String,
			Pages:       pages,
			ReadingTime: readingTime.String,
			Complexity:  complexity.String,
		}
	}

	var result *models.SummaryResult
	if summary.Valid {
		result = &models.SummaryResult{
			Best:      summary.String,
			Abstract:  abstract.String,
			WordCount: wordCount,
			Quality:   quality.String,
		}
		if keyPhrases.Valid && keyPhrases.String != "" {
			if err := json.Unmarshal([]byte(keyPhrases.String), &result.KeyPhrases); err != nil {
				return nil, fmt.Errorf("failed to decode key phrases: %w", err)
			}
		}
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	stats := models.StudyStats{Correct: correct, Incorrect: incorrect}

	return models.RestoreSession(
		id, sequence, models.Stage(stage), config, file, processing,
		result, fallback, stats, createdAt, updatedAt, deleted,
	), nil
}
