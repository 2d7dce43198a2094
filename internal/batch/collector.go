package batch

import (
	"fmt"
	"sync"

	"github.com/jpalmerr/langprobe/internal/probe"
)

// Collector partitions probe results into supported and unsupported lines.
//
// Collector is safe for concurrent use by many workers. Each recorded
// result lands in exactly one partition, formatted as a complete line;
// concurrent Record calls never interleave mid-line. Inter-line order is
// whatever order workers happened to finish in.
//
// Collector also implements a publish-subscribe mechanism for live
// progress. Subscribers receive each recorded result via buffered channels
// (buffer size 100). Updates are sent non-blocking; if a subscriber's
// buffer is full, the update is dropped for that subscriber rather than
// blocking the recording worker.
type Collector struct {
	mu          sync.Mutex
	supported   []string
	unsupported []string

	subMu       sync.RWMutex
	subscribers map[chan probe.Result]struct{}
}

// NewCollector creates an empty [Collector].
//
// Both partitions start empty. The collector is immediately ready for use.
func NewCollector() *Collector {
	return &Collector{
		subscribers: make(map[chan probe.Result]struct{}),
	}
}

// FormatLine renders a result the way it appears in the output partitions.
//
// Supported results render as "displayName (id): url". Unsupported results
// carry the observed status code in brackets, or "[error]" when the probe
// failed at the transport level and no status was received.
func FormatLine(r probe.Result) string {
	if r.Classification == probe.Supported {
		return fmt.Sprintf("%s (%s): %s", r.Item.DisplayName, r.Item.ID, r.URL)
	}
	if r.StatusCode == 0 {
		return fmt.Sprintf("%s (%s): %s [error]", r.Item.DisplayName, r.Item.ID, r.URL)
	}
	return fmt.Sprintf("%s (%s): %s [%d]", r.Item.DisplayName, r.Item.ID, r.URL, r.StatusCode)
}

// Record appends a result's formatted line to the matching partition and
// notifies all subscribers.
//
// Record is the only write path into the partitions. It is safe under
// concurrent invocation from many workers simultaneously.
func (c *Collector) Record(r probe.Result) {
	line := FormatLine(r)

	c.mu.Lock()
	if r.Classification == probe.Supported {
		c.supported = append(c.supported, line)
	} else {
		c.unsupported = append(c.unsupported, line)
	}
	c.mu.Unlock()

	c.notifySubscribers(r)
}

// Counts returns the current number of lines in each partition.
//
// Safe to call while workers are still recording; the counts are a
// consistent snapshot taken under the partition lock.
func (c *Collector) Counts() (supported, unsupported int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.supported), len(c.unsupported)
}

// Supported returns a copy of the supported partition.
//
// The returned slice is a snapshot; modifications do not affect the
// collector. Callers normally read it only after the batch completes,
// when the partitions are frozen.
func (c *Collector) Supported() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.supported))
	copy(out, c.supported)
	return out
}

// Unsupported returns a copy of the unsupported partition.
func (c *Collector) Unsupported() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.unsupported))
	copy(out, c.unsupported)
	return out
}

// Subscribe creates a new subscription and returns a channel receiving
// every subsequently recorded result.
//
// The returned channel has a buffer of 100 messages. If the buffer fills
// (slow consumer), new results are dropped for this subscriber.
//
// Caller must call [Collector.Unsubscribe] when done to prevent resource leaks.
func (c *Collector) Subscribe() <-chan probe.Result {
	ch := make(chan probe.Result, 100)

	c.subMu.Lock()
	c.subscribers[ch] = struct{}{}
	c.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// After calling Unsubscribe, the channel will be closed and no further
// results will be sent. Safe to call multiple times or with an unknown channel.
func (c *Collector) Unsubscribe(ch <-chan probe.Result) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for subCh := range c.subscribers {
		if subCh == ch {
			delete(c.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the result to all active subscribers.
//
// This is non-blocking: if a subscriber's channel buffer is full, the
// message is dropped for that subscriber rather than blocking the worker.
func (c *Collector) notifySubscribers(r probe.Result) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for ch := range c.subscribers {
		select {
		case ch <- r:
		default:
			// subscriber is slow, drop the message
		}
	}
}
