// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/services"
)

// MockService is a configurable test double for [services.Service].
//
// Each hook, when set, overrides the zero-value behavior of returning empty results.
type MockService struct {
	UploadFn    func(ctx context.Context, filename string, content []byte) (*models.FileMetadata, error)
	ExtractFn   func(ctx context.Context, filename string) (*services.ExtractResult, error)
	AnalyzeFn   func(ctx context.Context, text string) (*models.SummaryResult, error)
	GenerateFn  func(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error)
	HealthFn    func(ctx context.Context) (*services.HealthStatus, error)
	ServiceName string
}

func (m *MockService) Upload(ctx context.Context, filename string, content []byte) (*models.FileMetadata, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, filename, content)
	}
	return &models.FileMetadata{Filename: filename, SizeBytes: int64(len(content))}, nil
}

func (m *MockService) Extract(ctx context.Context, filename string) (*services.ExtractResult, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, filename)
	}
	return &services.ExtractResult{}, nil
}

func (m *MockService) Analyze(ctx context.Context, text string) (*models.SummaryResult, error) {
	if m.AnalyzeFn != nil {
		return m.AnalyzeFn(ctx, text)
	}
	return &models.SummaryResult{}, nil
}

func (m *MockService) GenerateCards(ctx context.Context, text string, opts services.CardOptions) ([]models.Flashcard, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, text, opts)
	}
	return []models.Flashcard{}, nil
}

func (m *MockService) Health(ctx context.Context) (*services.HealthStatus, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return &services.HealthStatus{Status: "healthy"}, nil
}

func (m *MockService) Name() string {
	if m.ServiceName != "" {
		return m.ServiceName
	}
	return "mock"
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
