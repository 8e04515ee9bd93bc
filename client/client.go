// Package client provides a Go client for a remote batchwatch instance via
// its HTTP API.
//
// Usage:
//
//	c, err := client.New("http://batchwatch.internal:8080")
//
//	// Failed text recognition jobs from the last day.
//	jobs, err := c.ListJobs(ctx, client.ListOptions{
//	    Criteria: query.Criteria{
//	        Statuses:   []record.Status{record.StatusFailed},
//	        TaskTypes:  []string{record.TaskTypeTextRecognition},
//	        SinceHours: 24,
//	    },
//	})
//
//	// Push an event.
//	receipt, err := c.PublishEvent(ctx, payload)
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/ingest"
)

const defaultTimeout = 30 * time.Second

// ErrUnexpectedStatus is returned for responses whose status has no domain
// meaning. The concrete error is an *APIError.
var ErrUnexpectedStatus = errors.New("batchwatch/client: unexpected status")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("batchwatch/client: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("batchwatch/client: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code back to the domain error the server derived
// it from, so callers can use errors.Is against batchwatch sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return batchwatch.ErrRecordNotFound
	case http.StatusBadRequest:
		return ingest.ErrInvalidEvent
	case http.StatusServiceUnavailable:
		return batchwatch.ErrConnectivity
	default:
		return ErrUnexpectedStatus
	}
}

// Client talks to a remote batchwatch server.
type Client struct {
	base   *url.URL
	http   *http.Client
	header http.Header
	logger *slog.Logger
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("batchwatch/client: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("batchwatch/client: base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: defaultTimeout},
		header: make(http.Header),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Healthy reports whether the server and its store are reachable.
func (c *Client) Healthy(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, "")
	if err != nil {
		return err
	}
	return drain(resp)
}

// do sends a request and returns the response for 2xx statuses. Any other
// status is consumed and turned into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("batchwatch/client: build request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("batchwatch/client: %s %s: %w", method, path, err)
	}
	c.logger.Debug("batchwatch request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if json.NewDecoder(resp.Body).Decode(&payload) == nil {
		apiErr.Message = payload.Error
	}
	return nil, apiErr
}

// getJSON issues a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, q, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("batchwatch/client: decode %s: %w", path, err)
	}
	return nil
}

func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, err := io.Copy(io.Discard, resp.Body)
	return err
}
