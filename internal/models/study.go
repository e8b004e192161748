package models

import (
	"fmt"
	"time"

	"github.com/saishagoel27/scribbly/internal/shared"
)

// Stage enumerates the wizard's linear steps.
type Stage int

const (
	StageUpload Stage = iota + 1
	StageConfigure
	StageProcess
	StageStudy
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageConfigure:
		return "configure"
	case StageProcess:
		return "process"
	case StageStudy:
		return "study"
	default:
		return "unknown"
	}
}

// ParseStage converts a stage name back to a Stage.
func ParseStage(name string) (Stage, error) {
	switch name {
	case "upload":
		return StageUpload, nil
	case "configure":
		return StageConfigure, nil
	case "process":
		return StageProcess, nil
	case "study":
		return StageStudy, nil
	default:
		return 0, fmt.Errorf("%w: unknown stage %q", shared.ErrInvalidInput, name)
	}
}

// StudyMode selects what the backend generates.
type StudyMode string

const (
	FlashcardsOnly  StudyMode = "flashcards_only"
	SummaryOnly     StudyMode = "summary_only"
	CompletePackage StudyMode = "complete_package"
)

// WantsCards reports whether the mode includes flashcard generation.
func (m StudyMode) WantsCards() bool {
	return m == FlashcardsOnly || m == CompletePackage
}

// WantsSummary reports whether the mode includes summary analysis.
func (m StudyMode) WantsSummary() bool {
	return m == SummaryOnly || m == CompletePackage
}

// Valid reports whether the mode is one of the known values.
func (m StudyMode) Valid() bool {
	return m == FlashcardsOnly || m == SummaryOnly || m == CompletePackage
}

// Difficulty is the flashcard difficulty focus chosen at configure time.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

// Valid reports whether the difficulty is one of the known values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return true
	}
	return false
}

// StudyConfig holds the options collected during the configure stage.
type StudyConfig struct {
	Mode       StudyMode  `json:"studyMode"`
	Difficulty Difficulty `json:"difficulty"`
	NumCards   int        `json:"numFlashcards"`
}

// DefaultStudyConfig returns the configuration preselected in the wizard.
func DefaultStudyConfig() StudyConfig {
	return StudyConfig{
		Mode:       CompletePackage,
		Difficulty: DifficultyMixed,
		NumCards:   10,
	}
}

// Validate checks the configuration against generation limits.
func (c StudyConfig) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: study mode %q", shared.ErrInvalidInput, c.Mode)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", shared.ErrInvalidInput, c.Difficulty)
	}
	if c.NumCards < 1 || c.NumCards > 20 {
		return fmt.Errorf("%w: flashcard count %d must be between 1 and 20", shared.ErrInvalidInput, c.NumCards)
	}
	return nil
}

// FileMetadata is the extracted metadata returned by the upload endpoint.
type FileMetadata struct {
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"file_size_bytes"`
	Extension   string `json:"file_extension"`
	Pages       int    `json:"estimated_pages"`
	ReadingTime string `json:"estimated_reading_time"`
	Complexity  string `json:"processing_complexity"` // low, medium, high
}

// EstimateProcessing derives an expected processing duration from the
// document's complexity and page count plus the chosen study mode. Summary
// analysis and flashcard generation each add their own share.
func EstimateProcessing(meta *FileMetadata, cfg StudyConfig) time.Duration {
	base := 5 * time.Second
	if meta != nil {
		perPage := 2 * time.Second
		switch meta.Complexity {
		case "low":
			perPage = time.Second
		case "high":
			perPage = 4 * time.Second
		}
		pages := meta.Pages
		if pages < 1 {
			pages = 1
		}
		base += time.Duration(pages) * perPage
	}

	estimate := base
	if cfg.Mode.WantsSummary() {
		estimate += base / 2
	}
	if cfg.Mode.WantsCards() {
		estimate += base/2 + time.Duration(cfg.NumCards)*time.Second/2
	}
	return estimate
}

// SummaryResult holds the language analysis produced by the backend (or the
// local fallback when the backend analysis is unavailable).
type SummaryResult struct {
	Best       string   `json:"best"`
	Abstract   string   `json:"abstractive,omitempty"`
	KeyPhrases []string `json:"key_phrases"`
	WordCount  int      `json:"word_count"`
	Quality    string   `json:"overall_quality"` // basic, good, excellent
}

// ProcessingResults is everything a processing run produces.
type ProcessingResults struct {
	Summary      *SummaryResult `json:"summary,omitempty"`
	Flashcards   []Flashcard    `json:"flashcards,omitempty"`
	FallbackUsed bool           `json:"fallback_used"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// StudyStats aggregates answers across a study run.
type StudyStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Total returns the number of recorded answers.
func (s StudyStats) Total() int {
	return s.Correct + s.Incorrect
}

// Accuracy returns the fraction of correct answers as a percentage, or 0 when nothing has been answered.
func (s StudyStats) Accuracy() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total()) * 100
}
