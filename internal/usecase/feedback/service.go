// Package feedback accepts free-text comments about the analyzer.
package feedback

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	logpkg "github.com/kailas-cloud/sentimentd/internal/logger"
)

// maxLoggedRunes caps how much of a comment ends up in the log line.
const maxLoggedRunes = 2000

// Service records feedback in the structured log. Nothing is persisted.
type Service struct {
	total  *prometheus.CounterVec
	logger *zap.Logger
}

// New creates a Service. total counts submissions by "status" and may be nil.
func New(total *prometheus.CounterVec, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{total: total, logger: logger}
}

// Submit accepts a comment. Blank text returns domain.ErrEmptyFeedback.
func (s *Service) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		s.count("empty")
		return domain.ErrEmptyFeedback
	}

	s.count("accepted")
	logpkg.FromContextOr(ctx, s.logger).Info("Feedback received",
		zap.String("feedback", truncate(text, maxLoggedRunes)),
		zap.Int("length", utf8.RuneCountInString(text)),
	)
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (s *Service) count(status string) {
	if s.total != nil {
		s.total.WithLabelValues(status).Inc()
	}
}
