package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
)

// ErrMissingAPIKey is returned by every call when no key is configured.
var ErrMissingAPIKey = errors.New("gemini: api key not configured")

type Client struct {
	models      *genai.Models
	model       string
	temperature float32
	log         *logger.Logger
}

type settings struct {
	baseURL     string
	httpClient  *http.Client
	temperature float32
}

// Option configures a Client.
type Option func(*settings)

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(s *settings) { s.httpClient = h }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(s *settings) { s.temperature = t }
}

// New builds a Gemini API client. An empty apiKey yields a client whose
// calls all fail with ErrMissingAPIKey.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	s := settings{
		httpClient:  &http.Client{Timeout: 90 * time.Second},
		temperature: 0.9,
	}
	for _, opt := range opts {
		opt(&s)
	}

	c := &Client{
		model:       model,
		temperature: s.temperature,
		log:         logger.Default().WithPrefix("gemini"),
	}
	if apiKey == "" {
		return c, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  s.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: s.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.models = gc.Models
	return c, nil
}

// GenerateConcepts sends prompt with the puzzle-list response schema and
// returns the decoded concepts. Any transport, status or schema problem is an error.
func (c *Client) GenerateConcepts(ctx context.Context, prompt string) ([]models.PuzzleConcept, error) {
	log := logger.FromContext(ctx).WithPrefix("gemini").WithField("model", c.model)
	if c.models == nil {
		return nil, ErrMissingAPIKey
	}

	log.Debug("requesting concepts (%d byte prompt)", len(prompt))
	start := time.Now()

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   PuzzleListSchema(),
		Temperature:      genai.Ptr(c.temperature),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			log.Error("generateContent failed: status=%d, message=%s", apiErr.Code, apiErr.Message)
			return nil, fmt.Errorf("gemini status %d: %s", apiErr.Code, apiErr.Message)
		}
		log.Error("generateContent request failed: %v", err)
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	log.Debug("response received in %v", time.Since(start))

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}

	concepts, err := ParseConcepts([]byte(resp.Text()))
	if err != nil {
		log.Error("rejecting batch: %v", err)
		return nil, err
	}
	log.Info("received %d concepts", len(concepts))
	return concepts, nil
}
