package history

import (
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

func entryAt(text string, label domain.Label, sec int) Entry {
	at := time.Date(2024, 5, 1, 12, 0, sec, 0, time.UTC)
	return NewEntry(text, domain.NewResult(label, 75.5, at))
}

func TestHistory_EmptyZeroValue(t *testing.T) {
	var h History
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
	if got := h.Entries(); len(got) != 0 {
		t.Errorf("Entries() = %v, want empty", got)
	}
}

func TestHistory_MostRecentFirst(t *testing.T) {
	h := New()
	h.Append(entryAt("I love this!", domain.Positive, 1))
	h.Append(entryAt("This is terrible.", domain.Negative, 2))

	got := h.Entries()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Text() != "This is terrible." || got[0].Label() != domain.Negative {
		t.Errorf("first entry = %q/%s, want the terrible entry", got[0].Text(), got[0].Label())
	}
	if got[1].Text() != "I love this!" {
		t.Errorf("second entry = %q, want the love entry", got[1].Text())
	}
}

func TestHistory_NoDeduplication(t *testing.T) {
	h := New()
	for i := 0; i < 3; i++ {
		h.Append(entryAt("same", domain.Positive, i))
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
}

func TestHistory_SnapshotIsolated(t *testing.T) {
	h := New()
	h.Append(entryAt("a", domain.Positive, 1))

	snap := h.Entries()
	h.Append(entryAt("b", domain.Negative, 2))

	if len(snap) != 1 {
		t.Errorf("snapshot changed after append: len=%d", len(snap))
	}
}

func TestHistory_Latest(t *testing.T) {
	h := New()
	for i := 0; i < 5; i++ {
		h.Append(entryAt(string(rune('a'+i)), domain.Positive, i))
	}

	got := h.Latest(2)
	if len(got) != 2 || got[0].Text() != "e" || got[1].Text() != "d" {
		t.Errorf("Latest(2) = %v", got)
	}
	if len(h.Latest(0)) != 5 {
		t.Error("Latest(0) must return all entries")
	}
	if len(h.Latest(10)) != 5 {
		t.Error("Latest(10) must return all entries")
	}
}

func TestEntry_Timestamp(t *testing.T) {
	e := entryAt("x", domain.Positive, 7)
	if e.Timestamp() != "2024-05-01 12:00:07" {
		t.Errorf("Timestamp() = %q", e.Timestamp())
	}
	if e.Confidence() != 75.5 {
		t.Errorf("Confidence() = %f", e.Confidence())
	}
}

func TestHistory_ConcurrentAppend(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Append(entryAt("x", domain.Positive, i%60))
		}(i)
	}
	wg.Wait()

	if h.Len() != 50 {
		t.Errorf("Len() = %d, want 50", h.Len())
	}
}
