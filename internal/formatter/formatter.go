// package formatter provides functions to export study materials to various formats (JSON, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/saishagoel27/scribbly/internal/models"
)

// SummaryToText converts a SummaryResult to the plain-text layout used by the download button.
func SummaryToText(summary *models.SummaryResult) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("no summary provided")
	}

	var buf bytes.Buffer
	buf.WriteString("SUMMARY:\n")
	buf.WriteString(summary.Best)
	buf.WriteString("\n\nKEY CONCEPTS:\n")
	for _, phrase := range summary.KeyPhrases {
		buf.WriteString(fmt.Sprintf("• %s\n", phrase))
	}

	return buf.Bytes(), nil
}

// SummaryToMarkdown converts a SummaryResult to Markdown with content analysis metrics.
func SummaryToMarkdown(summary *models.SummaryResult, title string) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("no summary provided")
	}

	var buf bytes.Buffer
	if title == "" {
		title = "Study Summary"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("%s\n\n", summary.Best))

	if summary.Abstract != "" {
		buf.WriteString(fmt.Sprintf("> %s\n\n", summary.Abstract))
	}

	if len(summary.KeyPhrases) > 0 {
		buf.WriteString("## Key Concepts\n\n")
		for _, phrase := range summary.KeyPhrases {
			buf.WriteString(fmt.Sprintf("- %s\n", phrase))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(fmt.Sprintf("**Words**: %d\n", summary.WordCount))
	if summary.Quality != "" {
		buf.WriteString(fmt.Sprintf("**Content quality**: %s\n", capitalize(summary.Quality)))
	}

	return buf.Bytes(), nil
}

// FlashcardsToText converts flashcards to the Q/A text layout used by the download button.
func FlashcardsToText(cards []models.Flashcard) ([]byte, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("no flashcards provided")
	}

	var buf bytes.Buffer
	for _, card := range cards {
		buf.WriteString(fmt.Sprintf("Q: %s\nA: %s\n---\n", card.Question, card.Answer))
	}

	return buf.Bytes(), nil
}

// FlashcardsToMarkdown converts flashcards to a Markdown study sheet grouped by concept.
func FlashcardsToMarkdown(cards []models.Flashcard, title string) ([]byte, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("no flashcards provided")
	}

	var buf bytes.Buffer
	if title == "" {
		title = "Flashcards"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Cards**: %d\n\n", len(cards)))

	for i, card := range cards {
		heading := fmt.Sprintf("Card %d", i+1)
		if card.Concept != "" {
			heading = fmt.Sprintf("%s: %s", heading, card.Concept)
		}
		buf.WriteString(fmt.Sprintf("## %s\n\n", heading))
		buf.WriteString(fmt.Sprintf("**Q**: %s\n\n", card.Question))
		buf.WriteString(fmt.Sprintf("**A**: %s\n\n", card.Answer))
		if card.Difficulty != "" {
			buf.WriteString(fmt.Sprintf("*Difficulty: %s*\n\n", card.Difficulty))
		}
	}

	return buf.Bytes(), nil
}

// ResultsToJSON converts a full set of processing results to indented JSON.
func ResultsToJSON(results *models.ProcessingResults) ([]byte, error) {
	if results == nil {
		return nil, fmt.Errorf("no results provided")
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}
	return data, nil
}

// capitalize upper-cases the first character of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// WriteExport writes exported bytes to path, creating parent directories as needed.
func WriteExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
