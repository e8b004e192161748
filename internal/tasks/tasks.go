// package tasks implements the study-material processing pipeline.
//
// The core abstraction is StudyEngine, which drives a four-phase run against
// the backend: extract text, analyze content, generate flashcards, finalize.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers. When the backend's analyze or flashcard
// endpoints fail, the engine degrades to local fallback generation rather
// than failing the run; only extraction failures are fatal.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/services"
	"github.com/saishagoel27/scribbly/internal/shared"
)

// defaultMinTextLength is the smallest extracted text that can produce study materials.
const defaultMinTextLength = 50

// Engine defines the processing pipeline operations.
type Engine interface {
	// Run performs a full processing run for the uploaded file using the given configuration.
	Run(ctx context.Context, progress chan<- ProgressUpdate, filename string, cfg models.StudyConfig) (*models.ProcessingResults, error)
}

// StudyEngine implements Engine against a backend Service.
type StudyEngine struct {
	svc     services.Service
	minText int
}

// NewStudyEngine creates a new StudyEngine with the provided backend service.
// minTextLength is the extraction threshold below which a run fails; zero or
// negative falls back to the default.
func NewStudyEngine(svc services.Service, minTextLength int) *StudyEngine {
	if minTextLength <= 0 {
		minTextLength = defaultMinTextLength
	}
	return &StudyEngine{svc: svc, minText: minTextLength}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *StudyEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs a full processing run.
//
// The study mode gates the middle phases: summary_only skips flashcard
// generation and flashcards_only skips the summary analysis (key phrases are
// still extracted locally so card generation has concepts to anchor on).
func (e *StudyEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, filename string, cfg models.StudyConfig) (*models.ProcessingResults, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: backend service not initialized", shared.ErrServiceUnavailable)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := &models.ProcessingResults{}

	e.sendProgress(progress, extractingUpdate())

	extract, err := e.svc.Extract(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: text extraction failed: %v", shared.ErrProcessingFailed, err)
	}
	if len(strings.TrimSpace(extract.Text)) < e.minText {
		return nil, shared.ErrInsufficientText
	}

	e.sendProgress(progress, extractedUpdate(shared.WordCount(extract.Text)))

	var summary *models.SummaryResult
	if cfg.Mode.WantsSummary() {
		e.sendProgress(progress, analyzingUpdate())

		summary, err = e.svc.Analyze(ctx, extract.Text)
		if err != nil || summary == nil || summary.Best == "" {
			e.sendProgress(progress, analyzeFallbackUpdate())
			summary = fallbackSummary(extract.Text)
			results.FallbackUsed = true
		}
		results.Summary = summary
	}

	if cfg.Mode.WantsCards() {
		e.sendProgress(progress, generatingUpdate(cfg.NumCards))

		opts := services.CardOptions{
			NumCards:   cfg.NumCards,
			Difficulty: string(cfg.Difficulty),
		}
		if summary != nil {
			opts.KeyPhrases = summary.KeyPhrases
		} else {
			opts.KeyPhrases = extractKeyPhrases(extract.Text, 15)
		}

		cards, err := e.svc.GenerateCards(ctx, extract.Text, opts)
		if err != nil || len(cards) == 0 {
			e.sendProgress(progress, cardsFallbackUpdate())
			cards = fallbackFlashcards(extract.Text, cfg.NumCards)
			results.FallbackUsed = true
		}
		if len(cards) > cfg.NumCards {
			cards = cards[:cfg.NumCards]
		}
		results.Flashcards = cards

		e.sendProgress(progress, cardsCreatedUpdate(len(cards)))
	}

	// Summary-only runs still need a stored summary for the study stage;
	// flashcards-only runs store the analysis produced for key phrases.
	if results.Summary == nil {
		results.Summary = fallbackSummary(extract.Text)
		results.Summary.Best = ""
	}

	results.GeneratedAt = time.Now()
	e.sendProgress(progress, finalizeUpdate())

	return results, nil
}
