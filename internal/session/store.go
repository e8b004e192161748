// Package session implements the wizard's multi-step session state machine.
//
// The wizard progresses strictly linearly through upload → configure →
// process → study. [Store] owns the active [models.Session] and its
// flashcards, enforces the progression rules (forward one stage at a time,
// backward only to already-completed stages), and persists every transition
// through the repository layer so an interrupted session can be restored.
package session

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/shared"
)

// SessionRepository is the subset of repository operations the store needs.
type SessionRepository interface {
	Create(session *models.Session) error
	Update(session *models.Session) error
	Get(id string) (*models.Session, error)
	Latest() (*models.Session, error)
	Delete(id string) error
}

// FlashcardRepository persists generated cards and their study progress.
type FlashcardRepository interface {
	CreateBatch(sessionID string, cards []models.Flashcard) ([]*models.PersistedFlashcard, error)
	Update(card *models.PersistedFlashcard) error
	List(criteria map[string]any) ([]*models.PersistedFlashcard, error)
	DeleteBySession(sessionID string) error
}

// Store drives a single wizard session.
type Store struct {
	mu       sync.Mutex
	session  *models.Session
	cards    []*models.PersistedFlashcard
	sessions SessionRepository
	cardRepo FlashcardRepository
	logger   *log.Logger
}

// NewStore creates a store with a fresh session persisted immediately.
func NewStore(sessions SessionRepository, cards FlashcardRepository, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	session := models.NewSession()
	if err := sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Store{
		session:  session,
		sessions: sessions,
		cardRepo: cards,
		logger:   logger,
	}, nil
}

// Restore loads a previously persisted session and its flashcards.
//
// A restored session whose processing flag is still set was interrupted
// mid-run: the flag is cleared and the session is moved back to the
// configure stage so processing can be retried cleanly.
func Restore(sessions SessionRepository, cards FlashcardRepository, logger *log.Logger, id string) (*Store, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var session *models.Session
	var err error
	if id == "" {
		session, err = sessions.Latest()
	} else {
		session, err = sessions.Get(id)
	}
	if err != nil {
		return nil, err
	}

	store := &Store{
		session:  session,
		sessions: sessions,
		cardRepo: cards,
		logger:   logger,
	}

	if session.Processing() {
		logger.Warn("restored session was interrupted mid-processing, resetting to configure", "session", session.ID())
		session.SetProcessing(false)
		session.SetStage(models.StageConfigure)
		if err := sessions.Update(session); err != nil {
			return nil, fmt.Errorf("failed to reset interrupted session: %w", err)
		}
	}

	if cards != nil {
		persisted, err := cards.List(map[string]any{"session_id": session.ID()})
		if err != nil {
			return nil, fmt.Errorf("failed to load flashcards: %w", err)
		}
		store.cards = persisted
	}

	return store, nil
}

// Session returns the active session.
func (s *Store) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Stage returns the wizard's current stage.
func (s *Store) Stage() models.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Stage()
}

// Cards returns the session's flashcards in study order.
func (s *Store) Cards() []*models.PersistedFlashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards
}

// CompletedStages lists the stages whose work is done.
func (s *Store) CompletedStages() []models.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completed []models.Stage
	for stage := models.StageUpload; stage <= models.StageStudy; stage++ {
		if s.session.StageComplete(stage) {
			completed = append(completed, stage)
		}
	}
	return completed
}

// CanGoTo reports whether backward navigation to the given stage is allowed:
// the target must precede the current stage and be already completed.
func (s *Store) CanGoTo(stage models.Stage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canGoTo(stage)
}

func (s *Store) canGoTo(stage models.Stage) bool {
	if stage >= s.session.Stage() {
		return false
	}
	return s.session.StageComplete(stage)
}

// Advance moves the wizard forward one stage once the current stage's work is complete.
func (s *Store) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.session.Stage()
	if current >= models.StageStudy {
		return fmt.Errorf("%w: already at final stage", shared.ErrInvalidStage)
	}
	if s.session.Processing() {
		return shared.ErrProcessingRunning
	}
	if !s.session.StageComplete(current) {
		return fmt.Errorf("%w: %s", shared.ErrStageIncomplete, current)
	}

	s.session.SetStage(current + 1)
	return s.save()
}

// GoBack navigates to an earlier, already-completed stage.
func (s *Store) GoBack(stage models.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Processing() {
		return shared.ErrProcessingRunning
	}
	if !s.canGoTo(stage) {
		return fmt.Errorf("%w: cannot go back to %s from %s", shared.ErrInvalidStage, stage, s.session.Stage())
	}

	s.session.SetStage(stage)
	return s.save()
}

// SetFile records uploaded-file metadata and completes the upload stage.
func (s *Store) SetFile(meta *models.FileMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Stage() != models.StageUpload {
		return fmt.Errorf("%w: file upload only allowed at the upload stage", shared.ErrInvalidStage)
	}

	s.session.SetFile(meta)
	s.session.SetStage(models.StageConfigure)
	return s.save()
}

// SetConfig records the study configuration and completes the configure stage.
func (s *Store) SetConfig(cfg models.StudyConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if s.session.Stage() != models.StageConfigure {
		return fmt.Errorf("%w: configuration only allowed at the configure stage", shared.ErrInvalidStage)
	}

	s.session.SetConfig(cfg)
	s.session.SetStage(models.StageProcess)
	return s.save()
}

// BeginProcessing marks the session as processing. The flag is persisted so
// a crash mid-run is detectable on restore.
func (s *Store) BeginProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Stage() != models.StageProcess {
		return fmt.Errorf("%w: processing only allowed at the process stage", shared.ErrInvalidStage)
	}
	if s.session.Processing() {
		return shared.ErrProcessingRunning
	}

	s.session.SetProcessing(true)
	return s.save()
}

// FinishProcessing stores a successful run's results, persists the generated
// flashcards, and advances the session to the study stage.
func (s *Store) FinishProcessing(results *models.ProcessingResults) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Processing() {
		return fmt.Errorf("%w: no processing run in flight", shared.ErrInvalidStage)
	}
	if results == nil || results.Summary == nil {
		return shared.ErrNoResults
	}

	// Persist the cards before touching the session: a failed batch must
	// leave the session retryable at the process stage, not half-advanced.
	if s.cardRepo != nil && len(results.Flashcards) > 0 {
		// Replace cards from any previous run; progress tags start over.
		if err := s.cardRepo.DeleteBySession(s.session.ID()); err != nil {
			s.session.SetProcessing(false)
			return err
		}
		persisted, err := s.cardRepo.CreateBatch(s.session.ID(), results.Flashcards)
		if err != nil {
			s.session.SetProcessing(false)
			return err
		}
		s.cards = persisted
	}

	s.session.SetProcessing(false)
	s.session.SetSummary(results.Summary, results.FallbackUsed)
	s.session.SetStage(models.StageStudy)

	return s.save()
}

// FailProcessing clears the in-progress flag after a failed run. The session
// stays at the process stage so the run can be retried.
func (s *Store) FailProcessing(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Processing() {
		return nil
	}

	s.logger.Error("processing run failed", "session", s.session.ID(), "err", cause)
	s.session.SetProcessing(false)
	return s.save()
}

// RevealCard marks the card at index as revealed, persisting any progress change.
func (s *Store) RevealCard(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.cardAt(index)
	if err != nil {
		return err
	}

	before := card.Progress()
	card.Reveal()
	if card.Progress() == before {
		return nil
	}
	return s.cardRepo.Update(card)
}

// RecordAnswer applies an answer outcome to the card at index and updates
// both the card's progress tag and the session's aggregate stats.
func (s *Store) RecordAnswer(index int, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.cardAt(index)
	if err != nil {
		return err
	}

	card.Record(correct)
	if err := s.cardRepo.Update(card); err != nil {
		return err
	}

	s.session.RecordAnswer(correct)
	return s.save()
}

// Shuffle randomizes study order. Card progress tags are untouched; only
// positions change.
func (s *Store) Shuffle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rand.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})

	for i, card := range s.cards {
		card.SetPosition(i)
		if err := s.cardRepo.Update(card); err != nil {
			return err
		}
	}
	return nil
}

// RestartStudy clears aggregate stats for a fresh pass over the cards.
func (s *Store) RestartStudy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ResetStats()
	return s.save()
}

// ProgressCounts tallies cards by progress tag.
func (s *Store) ProgressCounts() map[models.CardProgress]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[models.CardProgress]int{}
	for _, card := range s.cards {
		counts[card.Progress()]++
	}
	return counts
}

// Reset abandons the current session and starts a fresh one at the upload stage.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cardRepo != nil && s.session.ID() != "" {
		if err := s.cardRepo.DeleteBySession(s.session.ID()); err != nil {
			return err
		}
	}
	if s.session.ID() != "" {
		if err := s.sessions.Delete(s.session.ID()); err != nil {
			return err
		}
	}

	session := models.NewSession()
	if err := s.sessions.Create(session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	s.session = session
	s.cards = nil
	return nil
}

func (s *Store) cardAt(index int) (*models.PersistedFlashcard, error) {
	if index < 0 || index >= len(s.cards) {
		return nil, fmt.Errorf("%w: card index %d out of range", shared.ErrInvalidInput, index)
	}
	return s.cards[index], nil
}

// save persists the session. Callers must hold s.mu.
func (s *Store) save() error {
	if err := s.sessions.Update(s.session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
