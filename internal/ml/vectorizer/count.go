package vectorizer

import (
	"context"
	"fmt"
	"math"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

// Count maps text onto term counts over a fixed vocabulary, optionally
// weighted by inverse document frequency.
type Count struct {
	analyzer    *Analyzer
	vocabulary  map[string]int
	dim         int
	binary      bool
	idf         []float64
	sublinearTF bool
	norm        Norm
}

var _ domain.Vectorizer = (*Count)(nil)

// CountConfig describes a vocabulary-based vectorizer.
type CountConfig struct {
	Vocabulary  map[string]int
	Binary      bool
	IDF         []float64 // nil for raw counts
	SublinearTF bool
	Norm        Norm
}

// NewCount validates the vocabulary and builds the vectorizer.
func NewCount(analyzer *Analyzer, cfg CountConfig) (*Count, error) {
	if len(cfg.Vocabulary) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	dim := len(cfg.Vocabulary)
	seen := make([]bool, dim)
	for term, idx := range cfg.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("term %q has index %d outside [0,%d)", term, idx, dim)
		}
		if seen[idx] {
			return nil, fmt.Errorf("index %d assigned to more than one term", idx)
		}
		seen[idx] = true
	}

	if cfg.IDF != nil && len(cfg.IDF) != dim {
		return nil, fmt.Errorf("idf has %d weights for %d terms", len(cfg.IDF), dim)
	}

	norm := cfg.Norm
	if norm == "" {
		norm = NormNone
	}

	return &Count{
		analyzer:    analyzer,
		vocabulary:  cfg.Vocabulary,
		dim:         dim,
		binary:      cfg.Binary,
		idf:         cfg.IDF,
		sublinearTF: cfg.SublinearTF,
		norm:        norm,
	}, nil
}

// Dimension returns the vocabulary size.
func (c *Count) Dimension() int { return c.dim }

// Transform counts vocabulary terms in text. Unknown terms are ignored.
func (c *Count) Transform(_ context.Context, text string) (domain.FeatureVector, error) {
	entries := make(map[int]float64)
	for _, term := range c.analyzer.Terms(text) {
		if idx, ok := c.vocabulary[term]; ok {
			entries[idx]++
		}
	}

	for idx, tf := range entries {
		if c.binary {
			tf = 1
		}
		if c.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		if c.idf != nil {
			tf *= c.idf[idx]
		}
		entries[idx] = tf
	}

	normalize(entries, c.norm)
	return domain.NewSparseVector(c.dim, entries), nil
}
