package client

import (
	"log/slog"
	"net/http"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Defaults to a client with
// a 30 second timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHeader adds a header sent on every request, e.g. an Authorization
// header expected by a fronting proxy.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Add(key, value) }
}
