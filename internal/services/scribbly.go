// Scribbly API implementation of [Service]
//
// Communicates with the FastAPI backend wrapping Azure Document Intelligence,
// Azure Language, and the flashcard generator.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// contextWithClient injects the given client into ctx so the oauth2 token
// source uses it for token requests.
func contextWithClient(ctx context.Context, c *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c)
}

const defaultScribblyBaseURL string = "http://localhost:8000"

// ScribblyOpts configures a ScribblyService.
type ScribblyOpts struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 means 5
	HTTPClient *http.Client

	// OAuth2 client-credentials settings. When TokenURL is set the service
	// authenticates with bearer tokens minted by the token endpoint instead
	// of the X-API-Key header.
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// ScribblyService implements the Service interface for the Scribbly backend.
type ScribblyService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewScribblyService creates a new Scribbly service instance.
func NewScribblyService(opts ScribblyOpts) *ScribblyService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultScribblyBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}

	if opts.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			Scopes:       opts.Scopes,
		}
		ctx := context.Background()
		// Reuse the configured client as the token-fetching transport so
		// timeouts apply to token requests too.
		authed := cc.Client(contextWithClient(ctx, client))
		authed.Timeout = client.Timeout
		client = authed
	}

	return &ScribblyService{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// Name returns the service name.
func (s *ScribblyService) Name() string {
	return "Scribbly"
}

// Upload posts a document to /api/upload as multipart form data and returns
// the backend's extracted metadata.
func (s *ScribblyService) Upload(ctx context.Context, filename string, content []byte) (*models.FileMetadata, error) {
	if len(content) == 0 {
		return nil, shared.ErrEmptyFile
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var payload struct {
		Status   string              `json:"status"`
		Metadata models.FileMetadata `json:"metadata"`
	}
	if err := s.do(ctx, req, &payload); err != nil {
		return nil, err
	}

	return &payload.Metadata, nil
}

// Extract returns the text extracted from a previously uploaded document.
func (s *ScribblyService) Extract(ctx context.Context, filename string) (*ExtractResult, error) {
	body := map[string]string{"filename": filename}

	var result ExtractResult
	if err := s.postJSON(ctx, "/api/extract", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Analyze runs language analysis over extracted text.
func (s *ScribblyService) Analyze(ctx context.Context, text string) (*models.SummaryResult, error) {
	body := map[string]string{"text": text}

	var result models.SummaryResult
	if err := s.postJSON(ctx, "/api/analyze", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GenerateCards produces flashcards from extracted text.
func (s *ScribblyService) GenerateCards(ctx context.Context, text string, opts CardOptions) ([]models.Flashcard, error) {
	body := struct {
		Text string `json:"text"`
		CardOptions
	}{Text: text, CardOptions: opts}

	var result struct {
		Flashcards []models.Flashcard `json:"flashcards"`
	}
	if err := s.postJSON(ctx, "/api/flashcards", body, &result); err != nil {
		return nil, err
	}

	return result.Flashcards, nil
}

// Health checks whether the backend and its AI services are reachable.
func (s *ScribblyService) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var status HealthStatus
	if err := s.do(ctx, req, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// postJSON marshals body, posts it to path, and decodes the JSON response into out.
func (s *ScribblyService) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(ctx, req, out)
}

// do executes a request under the rate limiter, maps error status codes to
// sentinel errors, and decodes the response body into out when non-nil.
func (s *ScribblyService) do(ctx context.Context, req *http.Request, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", shared.ErrFileTooLarge, detail(body))
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return fmt.Errorf("%w: %s", shared.ErrUnsupportedFile, detail(body))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", shared.ErrNotAuthenticated, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", shared.ErrServiceUnavailable, resp.StatusCode, detail(body))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, detail(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// detail extracts FastAPI's {"detail": "..."} error message, falling back to the raw body.
func detail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return string(body)
}
