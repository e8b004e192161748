package models

import (
	"fmt"
	"time"

	"github.com/saishagoel27/scribbly/internal/shared"
)

// Session is a database-backed wizard session.
//
// It tracks the current stage, the uploaded file's metadata, the chosen study
// configuration, summary results, aggregate study stats, and whether a
// processing run is in flight.
type Session struct {
	id         string
	sequence   int
	stage      Stage
	config     StudyConfig
	file       *FileMetadata
	processing bool
	summary    *SummaryResult
	fallback   bool
	stats      StudyStats
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewSession creates a fresh session at the upload stage with default configuration.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		stage:     StageUpload,
		config:    DefaultStudyConfig(),
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreSession rebuilds a session from database columns.
func RestoreSession(id string, sequence int, stage Stage, config StudyConfig, file *FileMetadata, processing bool, summary *SummaryResult, fallback bool, stats StudyStats, createdAt, updatedAt time.Time, deletedAt *time.Time) *Session {
	return &Session{
		id:         id,
		sequence:   sequence,
		stage:      stage,
		config:     config,
		file:       file,
		processing: processing,
		summary:    summary,
		fallback:   fallback,
		stats:      stats,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		deletedAt:  deletedAt,
	}
}

func (s *Session) ID() string             { return s.id }
func (s *Session) Sequence() int          { return s.sequence }
func (s *Session) Stage() Stage           { return s.stage }
func (s *Session) Config() StudyConfig    { return s.config }
func (s *Session) File() *FileMetadata    { return s.file }
func (s *Session) Processing() bool       { return s.processing }
func (s *Session) Summary() *SummaryResult { return s.summary }
func (s *Session) FallbackUsed() bool     { return s.fallback }
func (s *Session) Stats() StudyStats      { return s.stats }
func (s *Session) CreatedAt() time.Time   { return s.createdAt }
func (s *Session) UpdatedAt() time.Time   { return s.updatedAt }

func (s *Session) SetID(id string)          { s.id = id }
func (s *Session) SetSequence(seq int)      { s.sequence = seq }
func (s *Session) SetUpdatedAt(t time.Time) { s.updatedAt = t }

func (s *Session) touch() { s.updatedAt = time.Now() }

// SetFile records the uploaded file's metadata, completing the upload stage.
func (s *Session) SetFile(meta *FileMetadata) {
	s.file = meta
	s.touch()
}

// SetConfig records the study configuration chosen at the configure stage.
func (s *Session) SetConfig(cfg StudyConfig) {
	s.config = cfg
	s.touch()
}

// SetProcessing flips the processing-in-progress flag.
func (s *Session) SetProcessing(v bool) {
	s.processing = v
	s.touch()
}

// SetSummary stores the processing run's summary output.
func (s *Session) SetSummary(summary *SummaryResult, fallback bool) {
	s.summary = summary
	s.fallback = fallback
	s.touch()
}

// SetStage moves the session to the given stage without transition checks.
// Callers are expected to go through a session store which enforces the
// wizard's linear progression.
func (s *Session) SetStage(stage Stage) {
	s.stage = stage
	s.touch()
}

// RecordAnswer updates the aggregate study stats.
func (s *Session) RecordAnswer(correct bool) {
	if correct {
		s.stats.Correct++
	} else {
		s.stats.Incorrect++
	}
	s.touch()
}

// ResetStats clears the aggregate study stats for a fresh study run.
func (s *Session) ResetStats() {
	s.stats = StudyStats{}
	s.touch()
}

// FileUploaded reports whether the upload stage has completed.
func (s *Session) FileUploaded() bool {
	return s.file != nil && s.file.Filename != ""
}

// HasResults reports whether the process stage produced output.
func (s *Session) HasResults() bool {
	return s.summary != nil
}

// StageComplete reports whether the given stage's work is done, which gates
// forward navigation and determines where backward navigation may land.
func (s *Session) StageComplete(stage Stage) bool {
	switch stage {
	case StageUpload:
		return s.FileUploaded()
	case StageConfigure:
		return s.FileUploaded() && s.config.Validate() == nil
	case StageProcess:
		return s.HasResults()
	case StageStudy:
		return false
	default:
		return false
	}
}

// Validate checks if the session's data is valid.
func (s *Session) Validate() error {
	if s.stage < StageUpload || s.stage > StageStudy {
		return fmt.Errorf("%w: session stage %d", shared.ErrInvalidInput, s.stage)
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.stage > StageUpload && !s.FileUploaded() {
		return fmt.Errorf("%w: session past upload without file metadata", shared.ErrInvalidInput)
	}
	return nil
}
