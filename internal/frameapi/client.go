// Package frameapi is a client for the media backend that extracts video
// metadata and serves downloads.
package frameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ErrNotConfigured is returned when no backend base URL was provided.
	ErrNotConfigured = errors.New("backend URL not configured")
	// ErrTooLarge is returned when a download exceeds the configured limit.
	ErrTooLarge = errors.New("download exceeds size limit")
)

// APIError is a non-success response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return e.Detail
}

const maxErrorBody = 16 * 1024

var stripTags = bluemonday.StrictPolicy()

type Client struct {
	baseURL string
	http    *http.Client
	maxSize int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the request timeout. It works on a copy of the HTTP
// client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			h := *c.http
			h.Timeout = d
			c.http = &h
		}
	}
}

// WithMaxSize rejects downloads whose declared length exceeds n bytes.
func WithMaxSize(n int64) Option {
	return func(c *Client) {
		c.maxSize = n
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Info calls POST /api/video/info.
func (c *Client) Info(ctx context.Context, videoURL string) (*VideoInfo, error) {
	resp, err := c.postJSON(ctx, "/api/video/info", map[string]string{"url": videoURL})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out VideoInfo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode video info: %w", err)
	}
	return &out, nil
}

// Download calls POST /api/video/download. On success the returned Payload
// owns the response body.
func (c *Client) Download(ctx context.Context, req DownloadRequest) (*Payload, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid download request: %w", err)
	}

	resp, err := c.postJSON(ctx, "/api/video/download", req)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	if c.maxSize > 0 && resp.ContentLength > c.maxSize {
		resp.Body.Close()
		return nil, ErrTooLarge
	}

	p := &Payload{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			p.Filename = params["filename"]
		}
	}
	return p, nil
}

// Platforms calls GET /api/platforms.
func (c *Client) Platforms(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, "/api/platforms")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out struct {
		Platforms []string `json:"platforms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	return out.Platforms, nil
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.get(ctx, "/api/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return checkStatus(resp)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("backend request", "method", req.Method, "url", req.URL.String())
	return c.http.Do(req)
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// checkStatus converts a non-2xx response into an *APIError. The detail comes
// from a JSON {"detail": ...} body; a body that is not JSON yields
// "HTTP <code> <text>" and a JSON body without detail leaves it empty.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Detail = strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(body.Detail)))
	} else {
		apiErr.Detail = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return apiErr
}
