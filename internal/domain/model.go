package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Vectorizer turns cleaned text into a fixed-dimension feature vector.
type Vectorizer interface {
	Transform(ctx context.Context, text string) (FeatureVector, error)
	Dimension() int
}

// Classifier predicts a class and a full probability distribution for a feature vector.
type Classifier interface {
	Predict(vec FeatureVector) (Prediction, error)
	Classes() []ClassID
	Features() int
}

// HealthChecker verifies availability of a remote model component.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Prediction is the raw classifier output. Probabilities are aligned with Classes().
type Prediction struct {
	Class         ClassID
	Probabilities []float64
}

// ClassID identifies a classifier class. Artifacts may encode classes as JSON
// numbers or strings; both decode to the same textual form.
type ClassID string

// UnmarshalJSON accepts `1`, `1.0` style numbers as well as `"pos"` style strings.
func (c *ClassID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("class id: %w", err)
		}
		*c = ClassID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("class id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*c = ClassID(fmt.Sprintf("%d", i))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("class id: %w", err)
	}
	if f == float64(int64(f)) {
		*c = ClassID(fmt.Sprintf("%d", int64(f)))
		return nil
	}
	*c = ClassID(n.String())
	return nil
}

// FeatureVector is a sparse numeric vector of fixed dimension.
// Indices are strictly increasing and shorter than Dim.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NewDenseVector wraps a dense slice. Zero entries are dropped.
func NewDenseVector(values []float64) FeatureVector {
	v := FeatureVector{Dim: len(values)}
	for i, x := range values {
		if x != 0 {
			v.Indices = append(v.Indices, i)
			v.Values = append(v.Values, x)
		}
	}
	return v
}

// NewSparseVector builds a vector from index -> value pairs.
func NewSparseVector(dim int, entries map[int]float64) FeatureVector {
	idx := make([]int, 0, len(entries))
	for i, x := range entries {
		if x != 0 && i >= 0 && i < dim {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)

	vals := make([]float64, len(idx))
	for k, i := range idx {
		vals[k] = entries[i]
	}
	return FeatureVector{Dim: dim, Indices: idx, Values: vals}
}

// NNZ returns the number of stored non-zero entries.
func (v FeatureVector) NNZ() int { return len(v.Indices) }

// Dot returns the inner product with a dense weight row.
func (v FeatureVector) Dot(weights []float64) float64 {
	var sum float64
	for k, i := range v.Indices {
		if i < len(weights) {
			sum += v.Values[k] * weights[i]
		}
	}
	return sum
}

// Dense expands the vector into a dense slice.
func (v FeatureVector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for k, i := range v.Indices {
		out[i] = v.Values[k]
	}
	return out
}
