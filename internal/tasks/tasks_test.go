package tasks

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/services"
	"github.com/saishagoel27/scribbly/internal/shared"
	tu "github.com/saishagoel27/scribbly/internal/testing"
)

const sampleText = `Spaced repetition is a learning technique built on reviewing material
at increasing intervals. The method exploits the spacing effect described by Hermann
Ebbinghaus in his research on memory. Flashcards are a natural vehicle for spaced
repetition because each card can be scheduled independently. Active recall strengthens
memory more than passive rereading of notes. Combining active recall with spaced
repetition produces durable long term retention for students.`

func extractOK(text string) func(context.Context, string) (*services.ExtractResult, error) {
	return func(ctx context.Context, filename string) (*services.ExtractResult, error) {
		return &services.ExtractResult{Text: text, WordCount: len(strings.Fields(text))}, nil
	}
}

func TestStudyEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("complete package produces summary and cards", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				return &models.SummaryResult{Best: "backend summary", KeyPhrases: []string{"repetition"}, Quality: "good"}, nil
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				cards := make([]models.Flashcard, opts.NumCards)
				for i := range cards {
					cards[i] = models.Flashcard{Question: "Q", Answer: "A", Concept: "C", Difficulty: "easy"}
				}
				return cards, nil
			},
		}

		engine := NewStudyEngine(svc, 0)
		cfg := models.DefaultStudyConfig()

		results, err := engine.Run(ctx, nil, "notes.txt", cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if results.Summary == nil || results.Summary.Best != "backend summary" {
			t.Error("expected backend summary")
		}
		if len(results.Flashcards) != cfg.NumCards {
			t.Errorf("expected %d cards, got %d", cfg.NumCards, len(results.Flashcards))
		}
		if results.FallbackUsed {
			t.Error("expected no fallback with healthy backend")
		}
		if results.GeneratedAt.IsZero() {
			t.Error("expected GeneratedAt to be set")
		}
	})

	t.Run("summary only skips card generation", func(t *testing.T) {
		generateCalled := false
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				return &models.SummaryResult{Best: "summary"}, nil
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				generateCalled = true
				return nil, nil
			},
		}

		cfg := models.DefaultStudyConfig()
		cfg.Mode = models.SummaryOnly

		results, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if generateCalled {
			t.Error("expected card generation to be skipped")
		}
		if len(results.Flashcards) != 0 {
			t.Errorf("expected no cards, got %d", len(results.Flashcards))
		}
	})

	t.Run("flashcards only skips backend analysis", func(t *testing.T) {
		analyzeCalled := false
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				analyzeCalled = true
				return nil, nil
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				if len(opts.KeyPhrases) == 0 {
					t.Error("expected locally extracted key phrases for card generation")
				}
				return []models.Flashcard{{Question: "Q", Answer: "A"}}, nil
			},
		}

		cfg := models.DefaultStudyConfig()
		cfg.Mode = models.FlashcardsOnly

		results, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if analyzeCalled {
			t.Error("expected backend analysis to be skipped")
		}
		// the stored summary exists for persistence but carries no display text
		if results.Summary == nil || results.Summary.Best != "" {
			t.Error("expected empty display summary for flashcards_only")
		}
	})

	t.Run("extraction failure is fatal", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: func(ctx context.Context, filename string) (*services.ExtractResult, error) {
				return nil, errors.New("unreadable file")
			},
		}

		_, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", models.DefaultStudyConfig())
		if !errors.Is(err, shared.ErrProcessingFailed) {
			t.Errorf("expected ErrProcessingFailed, got %v", err)
		}
	})

	t.Run("unreachable backend fails the run", func(t *testing.T) {
		transport := tu.NewMockRoundTripper(nil, errors.New("connection refused"))
		svc := services.NewScribblyService(services.ScribblyOpts{
			HTTPClient: &http.Client{Transport: transport},
		})

		_, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", models.DefaultStudyConfig())
		if !errors.Is(err, shared.ErrProcessingFailed) {
			t.Errorf("expected ErrProcessingFailed, got %v", err)
		}
	})

	t.Run("too little text is fatal", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK("tiny"),
		}

		_, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", models.DefaultStudyConfig())
		if !errors.Is(err, shared.ErrInsufficientText) {
			t.Errorf("expected ErrInsufficientText, got %v", err)
		}
	})

	t.Run("configured minimum text length is honored", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				return &models.SummaryResult{Best: "summary"}, nil
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				return []models.Flashcard{{Question: "Q", Answer: "A"}}, nil
			},
		}

		strict := NewStudyEngine(svc, len(sampleText)+1)
		if _, err := strict.Run(ctx, nil, "notes.txt", models.DefaultStudyConfig()); !errors.Is(err, shared.ErrInsufficientText) {
			t.Errorf("expected ErrInsufficientText under a raised threshold, got %v", err)
		}

		lenient := NewStudyEngine(svc, 10)
		if _, err := lenient.Run(ctx, nil, "notes.txt", models.DefaultStudyConfig()); err != nil {
			t.Errorf("expected run to pass a lowered threshold, got %v", err)
		}
	})

	t.Run("analyze failure falls back locally", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				return nil, errors.New("AI service down")
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				return []models.Flashcard{{Question: "Q", Answer: "A"}}, nil
			},
		}

		results, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", models.DefaultStudyConfig())
		if err != nil {
			t.Fatalf("expected fallback, not failure, got %v", err)
		}

		if !results.FallbackUsed {
			t.Error("expected fallback flag set")
		}
		if results.Summary == nil || results.Summary.Quality != "basic" {
			t.Error("expected basic-quality fallback summary")
		}
		if results.Summary.Best == "" {
			t.Error("expected extractive fallback summary text")
		}
	})

	t.Run("card generation failure falls back locally", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				return &models.SummaryResult{Best: "summary", KeyPhrases: []string{"repetition"}}, nil
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				return nil, errors.New("AI service down")
			},
		}

		results, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", models.DefaultStudyConfig())
		if err != nil {
			t.Fatalf("expected fallback, not failure, got %v", err)
		}

		if !results.FallbackUsed {
			t.Error("expected fallback flag set")
		}
		if len(results.Flashcards) == 0 {
			t.Error("expected fallback flashcards")
		}
	})

	t.Run("card count capped at configuration", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				return &models.SummaryResult{Best: "summary"}, nil
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				cards := make([]models.Flashcard, 30)
				for i := range cards {
					cards[i] = models.Flashcard{Question: "Q", Answer: "A"}
				}
				return cards, nil
			},
		}

		cfg := models.DefaultStudyConfig()
		cfg.NumCards = 5

		results, err := NewStudyEngine(svc, 0).Run(ctx, nil, "notes.txt", cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results.Flashcards) != 5 {
			t.Errorf("expected 5 cards, got %d", len(results.Flashcards))
		}
	})

	t.Run("progress updates flow through channel", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
			AnalyzeFn: func(ctx context.Context, text string) (*models.SummaryResult, error) {
				return &models.SummaryResult{Best: "summary"}, nil
			},
			GenerateFn: func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
				return []models.Flashcard{{Question: "Q", Answer: "A"}}, nil
			},
		}

		progress := make(chan ProgressUpdate, 50)
		if _, err := NewStudyEngine(svc, 0).Run(ctx, progress, "notes.txt", models.DefaultStudyConfig()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		seen := map[Phase]bool{}
		for update := range progress {
			seen[update.Phase] = true
		}
		for _, phase := range []Phase{ExtractText, AnalyzeContent, GenerateCards, Finalize} {
			if !seen[phase] {
				t.Errorf("expected a %s update", phase)
			}
		}
	})

	t.Run("full progress channel never blocks", func(t *testing.T) {
		svc := &tu.MockService{
			ExtractFn: extractOK(sampleText),
		}

		// unbuffered channel with no reader
		progress := make(chan ProgressUpdate)
		cfg := models.DefaultStudyConfig()
		cfg.Mode = models.SummaryOnly

		if _, err := NewStudyEngine(svc, 0).Run(ctx, progress, "notes.txt", cfg); err != nil {
			t.Fatalf("expected run to complete without a reader, got %v", err)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := models.DefaultStudyConfig()
		cfg.NumCards = 0

		_, err := NewStudyEngine(&tu.MockService{}, 0).Run(ctx, nil, "notes.txt", cfg)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("nil service rejected", func(t *testing.T) {
		_, err := NewStudyEngine(nil, 0).Run(ctx, nil, "notes.txt", models.DefaultStudyConfig())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestFallbackGeneration(t *testing.T) {
	t.Run("extractKeyPhrases ranks by frequency", func(t *testing.T) {
		text := "golang golang golang channels channels syntax the the the with"
		phrases := extractKeyPhrases(text, 2)

		if len(phrases) != 2 {
			t.Fatalf("expected 2 phrases, got %d", len(phrases))
		}
		if phrases[0] != "golang" {
			t.Errorf("expected golang first, got %q", phrases[0])
		}
		if phrases[1] != "channels" {
			t.Errorf("expected channels second, got %q", phrases[1])
		}
	})

	t.Run("extractKeyPhrases skips stop words and short words", func(t *testing.T) {
		phrases := extractKeyPhrases("the and with for cat dog", 10)
		if len(phrases) != 0 {
			t.Errorf("expected no phrases from stop words and short words, got %v", phrases)
		}
	})

	t.Run("fallbackSummary is basic quality with key topics", func(t *testing.T) {
		summary := fallbackSummary(sampleText)

		if summary.Quality != "basic" {
			t.Errorf("expected basic quality, got %q", summary.Quality)
		}
		if summary.Best == "" {
			t.Error("expected extractive summary text")
		}
		if !strings.HasPrefix(summary.Abstract, "Key topics:") {
			t.Errorf("expected key-topics abstract, got %q", summary.Abstract)
		}
		if summary.WordCount != len(strings.Fields(sampleText)) {
			t.Errorf("expected word count %d, got %d", len(strings.Fields(sampleText)), summary.WordCount)
		}
	})

	t.Run("fallbackFlashcards respects the card limit", func(t *testing.T) {
		cards := fallbackFlashcards(sampleText, 3)

		if len(cards) == 0 || len(cards) > 3 {
			t.Fatalf("expected between 1 and 3 cards, got %d", len(cards))
		}
		for _, card := range cards {
			if card.Question == "" || card.Answer == "" {
				t.Error("expected non-empty question and answer")
			}
		}
	})

	t.Run("fallbackFlashcards builds definition cards from capitalized terms", func(t *testing.T) {
		cards := fallbackFlashcards("Ebbinghaus pioneered the experimental study of memory and forgetting", 5)

		if len(cards) != 1 {
			t.Fatalf("expected 1 card, got %d", len(cards))
		}
		if !strings.Contains(cards[0].Question, "Ebbinghaus") {
			t.Errorf("expected definition question, got %q", cards[0].Question)
		}
	})

	t.Run("fallbackFlashcards always produces at least one card", func(t *testing.T) {
		cards := fallbackFlashcards("short text", 5)

		if len(cards) != 1 {
			t.Fatalf("expected the main-topic card, got %d cards", len(cards))
		}
		if cards[0].Concept != "Main Topic" {
			t.Errorf("expected main-topic card, got %q", cards[0].Concept)
		}
	})
}

func TestPhase(t *testing.T) {
	t.Run("Fraction is monotonic", func(t *testing.T) {
		phases := []Phase{ExtractText, AnalyzeContent, GenerateCards, Finalize}
		for i := 1; i < len(phases); i++ {
			if phases[i].Fraction() <= phases[i-1].Fraction() {
				t.Errorf("expected %s fraction above %s", phases[i], phases[i-1])
			}
		}
		if Finalize.Fraction() != 1.0 {
			t.Errorf("expected finalize at 1.0, got %f", Finalize.Fraction())
		}
	})
}
