// package services defines interface Service for interacting with the Scribbly processing API
package services

import (
	"context"

	"github.com/saishagoel27/scribbly/internal/models"
)

// Service defines the interface for a study-material generation backend
// that can ingest documents and produce summaries and flashcards.
type Service interface {
	// Upload posts a document to the backend and returns the extracted metadata.
	Upload(ctx context.Context, filename string, content []byte) (*models.FileMetadata, error)

	// Extract returns the text extracted from a previously uploaded document.
	Extract(ctx context.Context, filename string) (*ExtractResult, error)

	// Analyze runs language analysis over extracted text, producing summaries and key phrases.
	Analyze(ctx context.Context, text string) (*models.SummaryResult, error)

	// GenerateCards produces flashcards from extracted text.
	GenerateCards(ctx context.Context, text string, opts CardOptions) ([]models.Flashcard, error)

	// Health checks whether the backend and its AI services are reachable.
	Health(ctx context.Context) (*HealthStatus, error)

	// Name returns the name of the service (e.g., "Scribbly")
	Name() string
}

// ExtractResult is the output of document text extraction.
type ExtractResult struct {
	Text      string `json:"extracted_text"`
	WordCount int    `json:"word_count"`
	Pages     int    `json:"page_count"`
}

// CardOptions carries flashcard generation parameters to the backend.
type CardOptions struct {
	NumCards   int      `json:"num_flashcards"`
	Difficulty string   `json:"difficulty_focus"`
	KeyPhrases []string `json:"key_phrases,omitempty"`
}

// HealthStatus reports backend availability per upstream AI service.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}
