// Package history keeps the per-session record of past analyses.
package history

import (
	"sync"
	"time"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

// Entry is one recorded analysis. Never mutated after creation.
type Entry struct {
	text       string
	label      domain.Label
	confidence float64
	at         time.Time
}

// NewEntry records the original text together with its result.
func NewEntry(text string, r domain.Result) Entry {
	return Entry{
		text:       text,
		label:      r.Label(),
		confidence: r.Confidence(),
		at:         r.AnalyzedAt(),
	}
}

// Text returns the original, non-normalized input.
func (e Entry) Text() string { return e.text }

// Label returns the recorded label.
func (e Entry) Label() domain.Label { return e.label }

// Confidence returns the recorded confidence percentage.
func (e Entry) Confidence() float64 { return e.confidence }

// Time returns when the analysis ran.
func (e Entry) Time() time.Time { return e.at }

// Timestamp returns the analysis time formatted as YYYY-MM-DD HH:MM:SS.
func (e Entry) Timestamp() string { return e.at.Format(domain.TimestampLayout) }

// History is an append-only, unbounded log owned by a single session.
// The zero value is ready to use.
type History struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty History.
func New() *History {
	return &History{}
}

// Append records an entry at the end of the log.
func (h *History) Append(e Entry) {
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Entries returns a snapshot with the most recent entry first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Entry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}

// Latest returns at most n entries, most recent first. n <= 0 returns all.
func (h *History) Latest(n int) []Entry {
	all := h.Entries()
	if n > 0 && n < len(all) {
		return all[:n]
	}
	return all
}
