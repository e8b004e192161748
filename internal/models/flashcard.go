package models

import (
	"fmt"
	"time"

	"github.com/saishagoel27/scribbly/internal/shared"
)

// Flashcard is a generated question/answer pair as returned by the backend.
type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Concept    string `json:"concept,omitempty"`
	Difficulty string `json:"difficulty"` // easy, medium, hard
}

// CardProgress is the spaced-repetition-like tag tracked per card.
type CardProgress string

const (
	ProgressUnseen   CardProgress = "unseen"
	ProgressLearning CardProgress = "learning"
	ProgressMastered CardProgress = "mastered"
)

// Valid reports whether the progress tag is one of the known values.
func (p CardProgress) Valid() bool {
	return p == ProgressUnseen || p == ProgressLearning || p == ProgressMastered
}

// masteryStreak is the number of consecutive correct answers that promotes a card to mastered.
const masteryStreak = 2

// PersistedFlashcard is a database-backed flashcard carrying per-card study progress.
type PersistedFlashcard struct {
	id        string
	sequence  int
	sessionID string
	position  int
	card      Flashcard
	progress  CardProgress
	streak    int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedFlashcard wraps a generated card for persistence under the given session.
func NewPersistedFlashcard(sessionID string, position int, card Flashcard) *PersistedFlashcard {
	now := time.Now()
	return &PersistedFlashcard{
		sessionID: sessionID,
		position:  position,
		card:      card,
		progress:  ProgressUnseen,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreFlashcard rebuilds a persisted flashcard from database columns.
func RestoreFlashcard(id string, sequence int, sessionID string, position int, card Flashcard, progress CardProgress, streak int, createdAt, updatedAt time.Time, deletedAt *time.Time) *PersistedFlashcard {
	return &PersistedFlashcard{
		id:        id,
		sequence:  sequence,
		sessionID: sessionID,
		position:  position,
		card:      card,
		progress:  progress,
		streak:    streak,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (f *PersistedFlashcard) ID() string           { return f.id }
func (f *PersistedFlashcard) Sequence() int        { return f.sequence }
func (f *PersistedFlashcard) SessionID() string    { return f.sessionID }
func (f *PersistedFlashcard) Position() int        { return f.position }
func (f *PersistedFlashcard) Card() Flashcard      { return f.card }
func (f *PersistedFlashcard) Question() string     { return f.card.Question }
func (f *PersistedFlashcard) Answer() string       { return f.card.Answer }
func (f *PersistedFlashcard) Concept() string      { return f.card.Concept }
func (f *PersistedFlashcard) Difficulty() string   { return f.card.Difficulty }
func (f *PersistedFlashcard) Progress() CardProgress { return f.progress }
func (f *PersistedFlashcard) Streak() int          { return f.streak }
func (f *PersistedFlashcard) CreatedAt() time.Time { return f.createdAt }
func (f *PersistedFlashcard) UpdatedAt() time.Time { return f.updatedAt }

func (f *PersistedFlashcard) SetID(id string)            { f.id = id }
func (f *PersistedFlashcard) SetSequence(seq int)        { f.sequence = seq }
func (f *PersistedFlashcard) SetPosition(p int)          { f.position = p; f.touch() }
func (f *PersistedFlashcard) SetUpdatedAt(t time.Time)   { f.updatedAt = t }

func (f *PersistedFlashcard) touch() { f.updatedAt = time.Now() }

// Reveal marks an unseen card as learning. Revealing the answer counts as
// studying the card even when no correctness is recorded.
func (f *PersistedFlashcard) Reveal() {
	if f.progress == ProgressUnseen {
		f.progress = ProgressLearning
		f.touch()
	}
}

// Record applies an answer outcome to the card's progress tag.
//
// Two consecutive correct answers promote a card to mastered; an incorrect
// answer resets the streak and drops a mastered card back to learning.
func (f *PersistedFlashcard) Record(correct bool) {
	if correct {
		f.streak++
		if f.streak >= masteryStreak {
			f.progress = ProgressMastered
		} else if f.progress == ProgressUnseen {
			f.progress = ProgressLearning
		}
	} else {
		f.streak = 0
		f.progress = ProgressLearning
	}
	f.touch()
}

// Validate checks if the flashcard's data is valid.
func (f *PersistedFlashcard) Validate() error {
	if f.sessionID == "" {
		return fmt.Errorf("%w: flashcard session ID is required", shared.ErrInvalidInput)
	}
	if f.card.Question == "" {
		return fmt.Errorf("%w: flashcard question is required", shared.ErrInvalidInput)
	}
	if f.card.Answer == "" {
		return fmt.Errorf("%w: flashcard answer is required", shared.ErrInvalidInput)
	}
	if !f.progress.Valid() {
		return fmt.Errorf("%w: flashcard progress %q", shared.ErrInvalidInput, f.progress)
	}
	return nil
}
