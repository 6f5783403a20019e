// Package tavily implements ports.Searcher against the Tavily search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/careerpath/pkg/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "https://api.tavily.com/search"
	// DefaultRate is the sustained request rate allowed per client.
	DefaultRate  = 5
	DefaultBurst = 5
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("tavily: API key is required")

// Client calls the Tavily search endpoint. It is safe for concurrent use;
// all callers share one rate limiter.
type Client struct {
	apiKey        string
	endpoint      string
	depth         string
	httpClient    *http.Client
	limiter       *rate.Limiter
	includeAnswer bool
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the API URL (used by tests and proxies).
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the sustained requests per second and burst size.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithSearchDepth selects "basic" or "advanced" search.
func WithSearchDepth(depth string) Option {
	return func(c *Client) {
		c.depth = depth
	}
}

// New creates a Tavily client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:        apiKey,
		endpoint:      DefaultEndpoint,
		depth:         "advanced",
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		includeAnswer: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type searchRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth,omitempty"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

type errorResponse struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

// Search implements ports.Searcher.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("tavily: rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(searchRequest{
		Query:         query,
		MaxResults:    maxResults,
		SearchDepth:   c.depth,
		IncludeAnswer: c.includeAnswer,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("tavily: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.Unmarshal(raw, &er); err == nil && er.Detail.Error != "" {
			return nil, fmt.Errorf("tavily API error (%d): %s", resp.StatusCode, er.Detail.Error)
		}
		return nil, fmt.Errorf("tavily API error (%d): %s", resp.StatusCode, string(raw))
	}

	var sr searchResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}

	out := make([]domain.SearchResult, 0, len(sr.Results)+1)
	if sr.Answer != "" {
		out = append(out, domain.SearchResult{Title: "Summary", Content: sr.Answer})
	}
	for _, r := range sr.Results {
		out = append(out, domain.SearchResult{Title: r.Title, URL: r.URL, Content: r.Content, Score: r.Score})
	}
	// The answer counts toward maxResults.
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}
