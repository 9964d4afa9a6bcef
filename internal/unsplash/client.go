package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vytor/rebux/internal/logger"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.unsplash.com"
	// querySuffix steers results towards clean single-subject photos.
	querySuffix = "minimalist isolated single object"
)

// ErrMissingAPIKey is returned by every call when no key is configured.
var ErrMissingAPIKey = errors.New("unsplash: api key not configured")

// ErrNoResults means the search succeeded but found nothing.
var ErrNoResults = errors.New("unsplash: no results")

// Client looks up one photo per search term. Calls are paced by a shared
// limiter with burst 1, so successive requests are at least interval apart
// regardless of how many goroutines use the client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func New(apiKey string, interval time.Duration, opts ...Option) *Client {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(limit, 1),
		log:        logger.Default().WithPrefix("unsplash"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResp struct {
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchImage returns the "regular" URL of the first result for term.
func (c *Client) SearchImage(ctx context.Context, term string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("unsplash").WithField("term", term)
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("unsplash pacing: %w", err)
	}

	q := url.Values{}
	q.Set("query", strings.TrimSpace(term)+" "+querySuffix)
	q.Set("per_page", "1")
	q.Set("content_filter", "high")
	endpoint := c.baseURL + "/search/photos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return "", err
	}
	req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	req.Header.Set("Accept-Version", "v1")

	log.Debug("searching photos")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("search request failed: %v", err)
		return "", fmt.Errorf("unsplash request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("search response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("search failed: status=%d, body=%s", resp.StatusCode, string(body))
		return "", fmt.Errorf("unsplash status %d: %s", resp.StatusCode, string(body))
	}

	var out searchResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode search response: %v", err)
		return "", fmt.Errorf("unsplash decode: %w", err)
	}
	if len(out.Results) == 0 || out.Results[0].URLs.Regular == "" {
		log.Info("no photo found")
		return "", ErrNoResults
	}
	return out.Results[0].URLs.Regular, nil
}
