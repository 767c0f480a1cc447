package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danmuck/markview/internal/observability"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "markview/0.0.1"

	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

// Client fetches JSON from the marking backend. It never retries; callers
// render a fallback page on error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	node       string
}

type Option func(*Client)

// NewClient builds a client rooted at baseURL, e.g. "http://localhost:5000".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		node:       "markview",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		copied := *c.httpClient
		copied.Timeout = timeout
		c.httpClient = &copied
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithNode sets the node label attached to fetch metrics.
func WithNode(node string) Option {
	return func(c *Client) {
		c.node = node
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Subjects returns every subject, ordered by name.
func (c *Client) Subjects(ctx context.Context) ([]Subject, error) {
	var out []Subject
	if err := c.fetch(ctx, "/api/subjects", "/api/subjects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EssaysBySubject returns the subject name and its essays.
func (c *Client) EssaysBySubject(ctx context.Context, subjectID string) (EssayListing, error) {
	id, err := pathID(subjectID)
	if err != nil {
		return EssayListing{}, err
	}
	var out EssayListing
	if err := c.fetch(ctx, "/api/essays/subject/:id", "/api/essays/subject/"+id, &out); err != nil {
		return EssayListing{}, err
	}
	return out, nil
}

// Essay returns one essay with every student response and its highlights.
func (c *Client) Essay(ctx context.Context, essayID string) (EssayDetail, error) {
	id, err := pathID(essayID)
	if err != nil {
		return EssayDetail{}, err
	}
	var out EssayDetail
	if err := c.fetch(ctx, "/api/essays/:id", "/api/essays/"+id, &out); err != nil {
		return EssayDetail{}, err
	}
	return out, nil
}

// FetchJSON GETs path relative to the base URL and decodes the body into out.
func (c *Client) FetchJSON(ctx context.Context, path string, out any) error {
	return c.fetch(ctx, path, path, out)
}

func (c *Client) fetch(ctx context.Context, endpoint, path string, out any) error {
	start := time.Now()
	target := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		observability.RecordBackendFetch(c.node, endpoint, 0, time.Since(start), false)
		return fmt.Errorf("api: build request %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().
			Str("url", target).
			Err(err).
			Msg("backend_fetch_failed")
		observability.RecordBackendFetch(c.node, endpoint, 0, time.Since(start), false)
		return fmt.Errorf("api: fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := parseStatusError(resp, target)
		log.Warn().
			Str("url", target).
			Int("status", resp.StatusCode).
			Str("message", statusErr.Message).
			Msg("backend_fetch_status")
		observability.RecordBackendFetch(c.node, endpoint, resp.StatusCode, time.Since(start), false)
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error().
			Str("url", target).
			Err(err).
			Msg("backend_decode_failed")
		observability.RecordBackendFetch(c.node, endpoint, resp.StatusCode, time.Since(start), false)
		return fmt.Errorf("api: decode %s: %w", target, err)
	}

	log.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend_fetch")
	observability.RecordBackendFetch(c.node, endpoint, resp.StatusCode, time.Since(start), true)
	return nil
}

func parseStatusError(resp *http.Response, target string) *StatusError {
	statusErr := &StatusError{Code: resp.StatusCode, URL: target}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return statusErr
	}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		statusErr.Message = strings.TrimSpace(parsed.Error)
	}
	return statusErr
}

func pathID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrEmptyID
	}
	return url.PathEscape(id), nil
}
