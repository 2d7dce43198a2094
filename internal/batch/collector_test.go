package batch

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jpalmerr/langprobe/internal/probe"
)

func supportedResult(id, name string) probe.Result {
	return probe.Result{
		Item:           probe.Item{ID: id, DisplayName: name},
		URL:            "https://docs.example.com/" + id + "/cloud/",
		StatusCode:     200,
		Classification: probe.Supported,
	}
}

func unsupportedResult(id, name string, code int) probe.Result {
	return probe.Result{
		Item:           probe.Item{ID: id, DisplayName: name},
		URL:            "https://docs.example.com/" + id + "/cloud/",
		StatusCode:     code,
		Classification: probe.Unsupported,
	}
}

// TestFormatLine verifies the exact partition line formats, including the
// [error] marker for transport failures that never received a status.
func TestFormatLine(t *testing.T) {
	tests := []struct {
		name   string
		result probe.Result
		want   string
	}{
		{
			name:   "supported",
			result: supportedResult("en", "English"),
			want:   "English (en): https://docs.example.com/en/cloud/",
		},
		{
			name:   "unsupported with status",
			result: unsupportedResult("xx", "Nonexistent", 404),
			want:   "Nonexistent (xx): https://docs.example.com/xx/cloud/ [404]",
		},
		{
			name:   "unsupported transport failure",
			result: unsupportedResult("yy", "Unreachable", 0),
			want:   "Unreachable (yy): https://docs.example.com/yy/cloud/ [error]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.result); got != tt.want {
				t.Errorf("FormatLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestCollector_Record verifies each result lands in exactly one partition.
func TestCollector_Record(t *testing.T) {
	c := NewCollector()

	c.Record(supportedResult("en", "English"))
	c.Record(unsupportedResult("xx", "Nonexistent", 404))

	supported, unsupported := c.Counts()
	if supported != 1 || unsupported != 1 {
		t.Errorf("Counts() = (%d, %d), want (1, 1)", supported, unsupported)
	}

	if got := c.Supported(); len(got) != 1 || !strings.Contains(got[0], "English (en)") {
		t.Errorf("Supported() = %v, want one English line", got)
	}
	if got := c.Unsupported(); len(got) != 1 || !strings.Contains(got[0], "[404]") {
		t.Errorf("Unsupported() = %v, want one [404] line", got)
	}
}

// TestCollector_ConcurrentRecord verifies the conservation invariant under
// heavy concurrent recording: every Record call produces exactly one intact
// line in exactly one partition. Run with: go test -race ./internal/batch/...
func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector()

	const workers = 50
	const perWorker = 20

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("l%d-%d", w, i)
				if i%2 == 0 {
					c.Record(supportedResult(id, "Lang "+id))
				} else {
					c.Record(unsupportedResult(id, "Lang "+id, 404))
				}
			}
		}(w)
	}
	wg.Wait()

	supported, unsupported := c.Counts()
	if supported+unsupported != workers*perWorker {
		t.Errorf("recorded %d results, want %d (lost or duplicated records)",
			supported+unsupported, workers*perWorker)
	}
	if supported != workers*perWorker/2 {
		t.Errorf("supported = %d, want %d", supported, workers*perWorker/2)
	}

	// every line must be intact: no mid-line interleaving
	for _, line := range append(c.Supported(), c.Unsupported()...) {
		if !strings.Contains(line, "): https://docs.example.com/") {
			t.Errorf("corrupt line: %q", line)
		}
	}
}

// TestCollector_SnapshotsAreCopies verifies the partition accessors return
// copies that cannot mutate collector state.
func TestCollector_SnapshotsAreCopies(t *testing.T) {
	c := NewCollector()
	c.Record(supportedResult("en", "English"))

	snapshot := c.Supported()
	snapshot[0] = "tampered"

	if got := c.Supported(); got[0] == "tampered" {
		t.Error("Supported() returned a shared slice, want a copy")
	}
}

// TestCollector_Subscribe verifies subscribers receive recorded results.
func TestCollector_Subscribe(t *testing.T) {
	c := NewCollector()
	ch := c.Subscribe()

	c.Record(supportedResult("en", "English"))

	select {
	case r := <-ch:
		if r.Item.ID != "en" {
			t.Errorf("received result for %q, want %q", r.Item.ID, "en")
		}
	default:
		t.Error("subscriber received nothing after Record")
	}

	c.Unsubscribe(ch)

	// channel must be closed after Unsubscribe
	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after Unsubscribe")
	}
}

// TestCollector_SlowSubscriberDoesNotBlock verifies that a subscriber that
// never drains cannot stall recording workers.
func TestCollector_SlowSubscriberDoesNotBlock(t *testing.T) {
	c := NewCollector()
	ch := c.Subscribe() // never read

	// more results than the subscription buffer holds
	for i := 0; i < 250; i++ {
		c.Record(supportedResult(fmt.Sprintf("l%d", i), "Lang"))
	}

	supported, _ := c.Counts()
	if supported != 250 {
		t.Errorf("supported = %d, want 250", supported)
	}

	c.Unsubscribe(ch)
}

// TestCollector_UnsubscribeUnknownChannel verifies Unsubscribe is safe with
// a channel the collector has never seen.
func TestCollector_UnsubscribeUnknownChannel(t *testing.T) {
	c := NewCollector()
	ch := make(chan probe.Result)

	// must not panic
	c.Unsubscribe(ch)
}
