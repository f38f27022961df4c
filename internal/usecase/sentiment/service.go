package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	"github.com/kailas-cloud/sentimentd/internal/domain/history"
	"github.com/kailas-cloud/sentimentd/internal/domain/text"
	logpkg "github.com/kailas-cloud/sentimentd/internal/logger"
)

// Service runs the normalize -> vectorize -> classify pipeline.
// The vectorizer and classifier are read-only after construction.
type Service struct {
	vectorizer domain.Vectorizer
	classifier domain.Classifier
	positive   domain.ClassID
	now        func() time.Time
	metrics    Metrics
	logger     *zap.Logger
}

// New creates a Service. positive is the classifier class reported as Positive.
func New(
	vec domain.Vectorizer,
	clf domain.Classifier,
	positive domain.ClassID,
	m Metrics,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		vectorizer: vec,
		classifier: clf,
		positive:   positive,
		now:        time.Now,
		metrics:    m,
		logger:     logger,
	}
}

// WithClock overrides the wall clock used for history timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PositiveClass returns the class id reported as Positive.
func (s *Service) PositiveClass() domain.ClassID { return s.positive }

// Normalize returns the cleaned form of raw text.
func (s *Service) Normalize(raw string) string {
	return text.Normalize(raw)
}

// Analyze classifies raw text and appends the result to rec.
// Blank input returns domain.ErrEmptyInput and records nothing.
func (s *Service) Analyze(ctx context.Context, rec HistoryRecorder, raw string) (domain.Result, error) {
	log := logpkg.FromContextOr(ctx, s.logger)

	if strings.TrimSpace(raw) == "" {
		if s.metrics.EmptyInputs != nil {
			s.metrics.EmptyInputs.Inc()
		}
		log.Debug("Rejected empty input")
		return domain.Result{}, domain.ErrEmptyInput
	}

	start := time.Now()
	cleaned := text.Normalize(raw)

	vec, err := s.vectorizer.Transform(ctx, cleaned)
	if err != nil {
		return domain.Result{}, fmt.Errorf("vectorize: %w", err)
	}

	pred, err := s.classifier.Predict(vec)
	if err != nil {
		return domain.Result{}, fmt.Errorf("classify: %w", err)
	}

	label := domain.Negative
	if pred.Class == s.positive {
		label = domain.Positive
	}
	res := domain.NewResult(label, domain.Confidence(pred.Probabilities), s.now())

	if rec != nil {
		rec.Append(history.NewEntry(raw, res))
	}

	duration := time.Since(start)
	if s.metrics.Predictions != nil {
		s.metrics.Predictions.WithLabelValues(string(label)).Inc()
	}
	if s.metrics.Duration != nil {
		s.metrics.Duration.Observe(duration.Seconds())
	}

	log.Debug("Analysis complete",
		zap.String("label", string(label)),
		zap.Float64("confidence", res.Confidence()),
		zap.String("class", string(pred.Class)),
		zap.Int("features", vec.NNZ()),
		zap.Duration("duration", duration),
	)
	return res, nil
}
