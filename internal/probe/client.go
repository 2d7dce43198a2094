package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// connection pooling limits to prevent resource exhaustion when probing many codes
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second // conservative: matches common ALB defaults
)

// Response holds the result of an HTTP request made by [Client].
//
// Only the status line matters to langprobe, so Response carries the status
// code, timing, and any transport error. Bodies are never retained.
type Response struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration

	// Error contains any error that occurred during the request.
	// nil indicates the request completed (though status may indicate an error).
	Error error
}

// Client is an HTTP client wrapper optimized for status-only checks.
//
// Client uses per-request timeouts via context rather than a global timeout.
// Response bodies are drained and discarded: the classification depends only
// on the status code, and draining lets the connection be reused.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new probing [Client].
//
// The client is configured with connection pooling limits so that a large
// batch against a single documentation host reuses a small set of
// connections. Timeouts are applied per-request via the context parameter
// in [Client.Fetch], not as a global client timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
				DisableKeepAlives:   false, // explicitly enable connection reuse
			},
		},
	}
}

// Fetch performs a GET request and returns a structured [Response].
//
// The timeout is applied via context cancellation. The response body is
// drained and discarded.
//
// Fetch always returns a Response; errors are captured in the Error field
// rather than returned separately. This simplifies handling in the batch
// runner, where a transport failure is just another classification input.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) Response {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// drain so the transport can reuse the connection; the content is irrelevant
	_, _ = io.Copy(io.Discard, resp.Body)

	return Response{
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Close closes all idle connections in the client's connection pool.
//
// This should be called when the client is no longer needed to release
// resources immediately rather than waiting for the idle connection timeout.
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
