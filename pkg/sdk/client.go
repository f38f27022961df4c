package sentimentd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	"github.com/kailas-cloud/sentimentd/internal/domain/history"
	"github.com/kailas-cloud/sentimentd/internal/repository/artifact"
	sentimentuc "github.com/kailas-cloud/sentimentd/internal/usecase/sentiment"
)

const (
	defaultVectorizerPath = "models/vectorizer.json"
	defaultClassifierPath = "models/model.json"
	defaultPositiveClass  = ClassID("1")
)

// Internal interface for substitution in tests.
type sentimentUseCase interface {
	Normalize(raw string) string
	Analyze(ctx context.Context, rec sentimentuc.HistoryRecorder, raw string) (domain.Result, error)
}

// Client is the sentimentd SDK entry point. Safe for concurrent use.
type Client struct {
	svc sentimentUseCase
	obs *observer
}

// New loads the model and returns a ready Client.
// Artifact failures are returned as *ArtifactError.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorizerPath: defaultVectorizerPath,
		classifierPath: defaultClassifierPath,
		positiveClass:  defaultPositiveClass,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	vec, clf, err := loadModel(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	svc := sentimentuc.New(vec, clf, cfg.positiveClass, sentimentuc.Metrics{}, zap.NewNop())
	if cfg.clock != nil {
		svc = svc.WithClock(cfg.clock)
	}
	return &Client{svc: svc, obs: obs}, nil
}

func loadModel(cfg *clientConfig) (Vectorizer, Classifier, error) {
	if cfg.vectorizer != nil || cfg.classifier != nil {
		if cfg.vectorizer == nil || cfg.classifier == nil {
			return nil, nil, errors.New("sentimentd: WithModel needs both a vectorizer and a classifier")
		}
		if err := artifact.CheckCompatible(cfg.vectorizer, cfg.classifier, cfg.positiveClass); err != nil {
			return nil, nil, fmt.Errorf("sentimentd: %w", err)
		}
		return cfg.vectorizer, cfg.classifier, nil
	}

	bundle, err := artifact.Load(cfg.vectorizerPath, cfg.classifierPath, cfg.positiveClass)
	if err != nil {
		return nil, nil, fmt.Errorf("sentimentd: %w", err)
	}
	return bundle.Vectorizer, bundle.Classifier, nil
}

// Normalize returns the cleaned form of text exactly as the classifier sees it.
func (c *Client) Normalize(text string) string {
	return c.svc.Normalize(text)
}

// NewSession starts a session with an empty history.
func (c *Client) NewSession() *Session {
	return &Session{id: uuid.NewString(), history: history.New(), client: c}
}

// Session owns one analysis history. Safe for concurrent use.
type Session struct {
	id      string
	history *history.History
	client  *Client
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Analyze classifies text and records the result in this session's history.
// Blank text returns ErrEmptyInput and records nothing.
func (s *Session) Analyze(ctx context.Context, text string) (res Result, err error) {
	start := time.Now()
	defer func() { s.client.obs.observe("analyze", start, err) }()

	r, err := s.client.svc.Analyze(ctx, s.history, text)
	if err != nil {
		return Result{}, fmt.Errorf("sentimentd: %w", err)
	}
	s.client.obs.prediction(r.Label())
	return resultFromDomain(r), nil
}

// History returns the recorded analyses, most recent first.
func (s *Session) History() []HistoryEntry {
	entries := s.history.Entries()
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = entryFromDomain(e)
	}
	return out
}

// Len returns the number of recorded analyses.
func (s *Session) Len() int { return s.history.Len() }
