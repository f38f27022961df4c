package sentimentd

import (
	"time"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	"github.com/kailas-cloud/sentimentd/internal/domain/history"
)

// Model building blocks, shared with the server.
type (
	// Vectorizer turns cleaned text into a feature vector.
	Vectorizer = domain.Vectorizer
	// Classifier predicts a class distribution for a feature vector.
	Classifier = domain.Classifier
	// FeatureVector is a sparse vector of fixed dimension.
	FeatureVector = domain.FeatureVector
	// Prediction is a raw classifier output.
	Prediction = domain.Prediction
	// ClassID identifies a classifier class.
	ClassID = domain.ClassID
	// Label is Positive or Negative.
	Label = domain.Label
)

// Sentiment labels.
const (
	Positive = domain.Positive
	Negative = domain.Negative
)

// TimestampLayout formats Result.AnalyzedAt the way the web UI shows it.
const TimestampLayout = domain.TimestampLayout

// Result is the outcome of one analysis.
type Result struct {
	Label      Label
	Confidence float64 // percentage in [0, 100], two decimals
	AnalyzedAt time.Time
}

// HistoryEntry is one recorded analysis.
type HistoryEntry struct {
	Text       string
	Label      Label
	Confidence float64
	AnalyzedAt time.Time
}

func resultFromDomain(r domain.Result) Result {
	return Result{
		Label:      r.Label(),
		Confidence: r.Confidence(),
		AnalyzedAt: r.AnalyzedAt(),
	}
}

func entryFromDomain(e history.Entry) HistoryEntry {
	return HistoryEntry{
		Text:       e.Text(),
		Label:      e.Label(),
		Confidence: e.Confidence(),
		AnalyzedAt: e.Time(),
	}
}
