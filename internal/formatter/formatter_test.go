package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/saishagoel27/scribbly/internal/models"
)

func sampleSummary() *models.SummaryResult {
	return &models.SummaryResult{
		Best:       "Spaced repetition schedules reviews at increasing intervals.",
		Abstract:   "Key topics: repetition, recall",
		KeyPhrases: []string{"repetition", "recall"},
		WordCount:  120,
		Quality:    "good",
	}
}

func sampleCards() []models.Flashcard {
	return []models.Flashcard{
		{Question: "What is spaced repetition?", Answer: "A review scheduling technique.", Concept: "Repetition", Difficulty: "easy"},
		{Question: "What is active recall?", Answer: "Retrieving information from memory.", Concept: "Recall", Difficulty: "medium"},
	}
}

func TestSummaryExport(t *testing.T) {
	t.Run("text layout has summary and key concepts", func(t *testing.T) {
		data, err := SummaryToText(sampleSummary())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		text := string(data)
		if !strings.HasPrefix(text, "SUMMARY:\n") {
			t.Error("expected SUMMARY header")
		}
		if !strings.Contains(text, "KEY CONCEPTS:") {
			t.Error("expected KEY CONCEPTS section")
		}
		if !strings.Contains(text, "• repetition") {
			t.Error("expected bulleted key phrase")
		}
	})

	t.Run("nil summary rejected", func(t *testing.T) {
		if _, err := SummaryToText(nil); err == nil {
			t.Error("expected error for nil summary")
		}
		if _, err := SummaryToMarkdown(nil, ""); err == nil {
			t.Error("expected error for nil summary")
		}
	})

	t.Run("markdown uses given title", func(t *testing.T) {
		data, err := SummaryToMarkdown(sampleSummary(), "biology-notes.pdf")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		md := string(data)
		if !strings.HasPrefix(md, "# biology-notes.pdf\n") {
			t.Errorf("expected title heading, got %q", strings.SplitN(md, "\n", 2)[0])
		}
		if !strings.Contains(md, "## Key Concepts") {
			t.Error("expected key concepts section")
		}
		if !strings.Contains(md, "- repetition") {
			t.Error("expected key phrase list item")
		}
		if !strings.Contains(md, "**Content quality**: Good") {
			t.Error("expected capitalized quality line")
		}
	})

	t.Run("markdown falls back to default title", func(t *testing.T) {
		data, err := SummaryToMarkdown(sampleSummary(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(string(data), "# Study Summary\n") {
			t.Error("expected default title")
		}
	})
}

func TestFlashcardExport(t *testing.T) {
	t.Run("text layout separates cards", func(t *testing.T) {
		data, err := FlashcardsToText(sampleCards())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		text := string(data)
		if strings.Count(text, "Q: ") != 2 || strings.Count(text, "A: ") != 2 {
			t.Error("expected two Q/A pairs")
		}
		if strings.Count(text, "---") != 2 {
			t.Error("expected separator after each card")
		}
	})

	t.Run("empty card list rejected", func(t *testing.T) {
		if _, err := FlashcardsToText(nil); err == nil {
			t.Error("expected error for empty cards")
		}
		if _, err := FlashcardsToMarkdown(nil, ""); err == nil {
			t.Error("expected error for empty cards")
		}
	})

	t.Run("markdown includes concepts and difficulty", func(t *testing.T) {
		data, err := FlashcardsToMarkdown(sampleCards(), "Biology")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		md := string(data)
		if !strings.Contains(md, "# Biology") {
			t.Error("expected title heading")
		}
		if !strings.Contains(md, "**Cards**: 2") {
			t.Error("expected card count")
		}
		if !strings.Contains(md, "Card 1: Repetition") {
			t.Error("expected concept in card heading")
		}
		if !strings.Contains(md, "*Difficulty: medium*") {
			t.Error("expected difficulty line")
		}
	})
}

func TestResultsToJSON(t *testing.T) {
	t.Run("round trips through JSON", func(t *testing.T) {
		results := &models.ProcessingResults{
			Summary:      sampleSummary(),
			Flashcards:   sampleCards(),
			FallbackUsed: true,
			GeneratedAt:  time.Now(),
		}

		data, err := ResultsToJSON(results)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded models.ProcessingResults
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if decoded.Summary.Best != results.Summary.Best {
			t.Error("expected summary to survive the round trip")
		}
		if len(decoded.Flashcards) != 2 {
			t.Errorf("expected 2 cards, got %d", len(decoded.Flashcards))
		}
		if !decoded.FallbackUsed {
			t.Error("expected fallback flag to survive the round trip")
		}
	})

	t.Run("nil results rejected", func(t *testing.T) {
		if _, err := ResultsToJSON(nil); err == nil {
			t.Error("expected error for nil results")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.txt")
		if err := WriteExport(path, []byte("hello")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected file to exist, got %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("expected written contents, got %q", data)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "nested", "cards.md")
		if err := WriteExport(path, []byte("# Cards")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected nested file to exist, got %v", err)
		}
	})
}
