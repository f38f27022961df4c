package domain

import (
	"math"
	"time"
)

// TimestampLayout is the wall-clock format recorded with every analysis.
const TimestampLayout = "2006-01-02 15:04:05"

// Label is the sentiment assigned to a text.
type Label string

const (
	// Positive sentiment.
	Positive Label = "Positive"
	// Negative sentiment.
	Negative Label = "Negative"
)

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	return l == Positive || l == Negative
}

// Result is the outcome of one analysis. Immutable after creation.
type Result struct {
	label      Label
	confidence float64
	analyzedAt time.Time
}

// NewResult creates a Result. confidence is clamped to [0, 100].
func NewResult(label Label, confidence float64, analyzedAt time.Time) Result {
	switch {
	case math.IsNaN(confidence) || confidence < 0:
		confidence = 0
	case confidence > 100:
		confidence = 100
	}
	return Result{label: label, confidence: confidence, analyzedAt: analyzedAt}
}

// Label returns the sentiment label.
func (r Result) Label() Label { return r.label }

// Confidence returns the confidence percentage in [0, 100].
func (r Result) Confidence() float64 { return r.confidence }

// AnalyzedAt returns when the analysis ran.
func (r Result) AnalyzedAt() time.Time { return r.analyzedAt }

// Confidence converts the highest class probability into a percentage
// rounded to two decimal places.
func Confidence(probabilities []float64) float64 {
	best := 0.0
	for _, p := range probabilities {
		if p > best {
			best = p
		}
	}
	pct := math.Round(best*100*100) / 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
