package probe

import (
	"context"
	"strings"
	"time"
)

// Classification is the outcome category of a single probe.
type Classification string

const (
	// Supported indicates the documentation site answered 200 for the code.
	Supported Classification = "supported"

	// Unsupported indicates any other outcome: a non-200 status or a
	// transport failure (timeout, DNS failure, connection refused).
	Unsupported Classification = "unsupported"
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	return string(c)
}

// Item is one language code to probe.
//
// Items are immutable; uniqueness of ID is assumed but not enforced.
// Duplicate IDs in the input are probed independently and produce
// independent result lines.
type Item struct {
	// ID is the language code, e.g. "en" or "zh_CN".
	ID string

	// DisplayName is the human-readable language name, e.g. "English".
	DisplayName string
}

// Result holds the outcome of probing a single language code.
//
// Result is immutable after creation. A Result exists for every probed
// Item, whether or not the request succeeded at the transport level.
type Result struct {
	// Item is the language code that was probed.
	Item Item

	// URL is the documentation URL that was checked.
	URL string

	// StatusCode is the HTTP status code returned by the site.
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Classification is Supported iff StatusCode == 200.
	Classification Classification

	// Latency is the time taken to complete the HTTP request.
	Latency time.Duration

	// Err contains any transport error that occurred during the probe.
	// nil indicates the request completed (though the code may still be
	// classified Unsupported based on the status).
	Err error
}

// Prober builds documentation URLs for language codes and classifies the
// responses.
//
// Prober is safe for concurrent use: the underlying [Client] is a thin
// wrapper over net/http, and Check shares no mutable state between calls.
type Prober struct {
	client  *Client
	baseURL string
	timeout time.Duration
}

// NewProber creates a [Prober] checking against the given documentation
// root with the given per-probe timeout.
//
// A trailing slash on baseURL is tolerated and stripped.
func NewProber(baseURL string, timeout time.Duration) *Prober {
	return &Prober{
		client:  NewClient(),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// URLFor returns the documentation URL probed for an item.
//
// The path shape is fixed by the site being checked: the language code
// segment followed by "/cloud/".
func (p *Prober) URLFor(item Item) string {
	return p.baseURL + "/" + item.ID + "/cloud/"
}

// Check probes a single language code and returns the classified result.
//
// Check never returns an error: transport failures are classified
// Unsupported with StatusCode zero and the error preserved in [Result.Err]
// for diagnostic logging. One item's failure is fully isolated from the
// rest of the batch.
func (p *Prober) Check(ctx context.Context, item Item) Result {
	url := p.URLFor(item)
	resp := p.client.Fetch(ctx, url, p.timeout)

	result := Result{
		Item:       item,
		URL:        url,
		StatusCode: resp.StatusCode,
		Latency:    resp.Latency,
		Err:        resp.Error,
	}

	if resp.Error == nil && resp.StatusCode == 200 {
		result.Classification = Supported
	} else {
		result.Classification = Unsupported
	}

	return result
}

// Close releases the prober's idle connections.
//
// Safe to call multiple times; the prober remains usable afterwards.
func (p *Prober) Close() {
	p.client.Close()
}
