package chi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	feedbackuc "github.com/kailas-cloud/sentimentd/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/sentimentd/internal/usecase/health"
	sentimentuc "github.com/kailas-cloud/sentimentd/internal/usecase/sentiment"
	sessionuc "github.com/kailas-cloud/sentimentd/internal/usecase/session"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// mockVectorizer puts "love" on feature 0 and everything else on feature 1.
// Text containing "outage" fails like an unreachable remote vectorizer.
type mockVectorizer struct{}

func (mockVectorizer) Transform(_ context.Context, text string) (domain.FeatureVector, error) {
	if strings.Contains(text, "outage") {
		return domain.FeatureVector{}, fmt.Errorf("embedding request failed: %w", domain.ErrVectorizer)
	}
	if strings.Contains(text, "love") {
		return domain.NewDenseVector([]float64{1, 0}), nil
	}
	return domain.NewDenseVector([]float64{0, 1}), nil
}

func (mockVectorizer) Dimension() int { return 2 }

type mockClassifier struct{}

func (mockClassifier) Predict(vec domain.FeatureVector) (domain.Prediction, error) {
	if vec.Dot([]float64{1, 0}) > 0 {
		return domain.Prediction{Class: "1", Probabilities: []float64{0.1234, 0.8766}}, nil
	}
	return domain.Prediction{Class: "0", Probabilities: []float64{0.8, 0.2}}, nil
}

func (mockClassifier) Classes() []domain.ClassID { return []domain.ClassID{"0", "1"} }
func (mockClassifier) Features() int             { return 2 }

type testDeps struct {
	sentiment *sentimentuc.Service
	sessions  *sessionuc.Store
	feedback  *feedbackuc.Service
	health    *healthuc.Service
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	logger := zap.NewNop()
	return testDeps{
		sentiment: sentimentuc.New(mockVectorizer{}, mockClassifier{}, "1", sentimentuc.Metrics{}, logger).
			WithClock(func() time.Time { return fixedTime }),
		sessions: sessionuc.New(time.Hour, nil, logger),
		feedback: feedbackuc.New(nil, logger),
		health:   healthuc.New(mockClassifier{}, nil, nil),
	}
}

func newTestRouter(t *testing.T) (http.Handler, testDeps) {
	t.Helper()
	deps := newTestDeps(t)
	logger := zap.NewNop()

	api := NewServer(deps.sentiment, deps.sessions, deps.feedback, deps.health, logger)
	web, err := NewWebHandler(deps.sentiment, deps.sessions, deps.feedback, "sentimentd_session", logger)
	if err != nil {
		t.Fatalf("NewWebHandler: %v", err)
	}
	return NewRouter(api, web, logger), deps
}
