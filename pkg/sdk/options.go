package sentimentd

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	vectorizerPath string
	classifierPath string
	positiveClass  ClassID

	vectorizer Vectorizer
	classifier Classifier

	clock func() time.Time

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithArtifacts loads the vectorizer and classifier from JSON artifacts.
// Defaults: models/vectorizer.json and models/model.json.
func WithArtifacts(vectorizerPath, classifierPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorizerPath = vectorizerPath
		c.classifierPath = classifierPath
	})
}

// WithModel uses an already constructed vectorizer and classifier instead of artifacts.
func WithModel(v Vectorizer, clf Classifier) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorizer = v
		c.classifier = clf
	})
}

// WithPositiveClass sets the classifier class reported as Positive. Default: "1".
func WithPositiveClass(id ClassID) Option {
	return optionFunc(func(c *clientConfig) {
		c.positiveClass = id
	})
}

// WithClock overrides the clock used for analysis timestamps.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.clock = now
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
