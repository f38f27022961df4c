package vectorizer

import (
	"context"
	"fmt"
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

// Hashing maps terms into a fixed number of buckets the way scikit-learn's
// HashingVectorizer does: signed murmurhash3_32 with seed 0, bucket abs(h) % n,
// and with alternate sign the term counts -1 when h is negative.
type Hashing struct {
	analyzer      *Analyzer
	features      int
	binary        bool
	alternateSign bool
	norm          Norm
}

var _ domain.Vectorizer = (*Hashing)(nil)

// HashingConfig holds the fitted HashingVectorizer parameters.
type HashingConfig struct {
	Features      int
	Binary        bool
	AlternateSign bool
	Norm          Norm
}

// NewHashing builds a hashing vectorizer with the given bucket count.
func NewHashing(analyzer *Analyzer, cfg HashingConfig) (*Hashing, error) {
	if cfg.Features <= 0 {
		return nil, fmt.Errorf("n_features must be positive, got %d", cfg.Features)
	}
	if cfg.Norm == "" {
		cfg.Norm = NormNone
	}
	return &Hashing{
		analyzer:      analyzer,
		features:      cfg.Features,
		binary:        cfg.Binary,
		alternateSign: cfg.AlternateSign,
		norm:          cfg.Norm,
	}, nil
}

// Dimension returns the bucket count.
func (h *Hashing) Dimension() int { return h.features }

// Transform hashes every term of text into its bucket.
func (h *Hashing) Transform(_ context.Context, text string) (domain.FeatureVector, error) {
	entries := make(map[int]float64)
	for _, term := range h.analyzer.Terms(text) {
		idx, sign := h.bucket(term)
		entries[idx] += sign
	}
	if h.binary {
		for i := range entries {
			entries[i] = 1
		}
	}
	normalize(entries, h.norm)
	return domain.NewSparseVector(h.features, entries), nil
}

// bucket returns the column and the signed increment for term.
func (h *Hashing) bucket(term string) (int, float64) {
	hv := int32(murmur3.Sum32WithSeed([]byte(term), 0)) //nolint:gosec // reinterpret as signed
	sign := 1.0
	if h.alternateSign && hv < 0 {
		sign = -1
	}
	if hv == math.MinInt32 {
		return (math.MaxInt32 - (h.features - 1)) % h.features, sign
	}
	if hv < 0 {
		hv = -hv
	}
	return int(hv) % h.features, sign
}
