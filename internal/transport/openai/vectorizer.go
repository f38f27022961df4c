// Package openai provides a Vectorizer backed by an OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	"github.com/kailas-cloud/sentimentd/internal/metrics"
)

// Vectorizer produces dense feature vectors from remote embeddings.
type Vectorizer struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	logger     *zap.Logger
}

// Config holds the embeddings endpoint settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	User       string
	Logger     *zap.Logger
}

// NewVectorizer creates a remote vectorizer. Dimensions must match the classifier's feature count.
func NewVectorizer(cfg *Config) *Vectorizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Vectorizer{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		logger:     logger,
	}
}

// Dimension returns the configured embedding size.
func (v *Vectorizer) Dimension() int { return v.dimensions }

// Transform implements domain.Vectorizer.
func (v *Vectorizer) Transform(ctx context.Context, text string) (domain.FeatureVector, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          v.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           v.user,
	}
	if v.dimensions > 0 {
		req.Dimensions = v.dimensions
	}

	model := string(v.model)
	start := time.Now()

	resp, err := v.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.RemoteVectorizerRequestsTotal.WithLabelValues(model, "error").Inc()
		v.logger.Warn("Embedding request failed", zap.String("model", model), zap.Error(err))
		return domain.FeatureVector{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.RemoteVectorizerRequestsTotal.WithLabelValues(model, "error").Inc()
		return domain.FeatureVector{}, fmt.Errorf("empty embedding response: %w", domain.ErrVectorizer)
	}

	emb := resp.Data[0].Embedding
	if v.dimensions > 0 && len(emb) != v.dimensions {
		metrics.RemoteVectorizerRequestsTotal.WithLabelValues(model, "error").Inc()
		return domain.FeatureVector{}, fmt.Errorf("embedding has %d dimensions, want %d: %w",
			len(emb), v.dimensions, domain.ErrVectorizer)
	}

	metrics.RemoteVectorizerRequestsTotal.WithLabelValues(model, "success").Inc()
	metrics.RemoteVectorizerDuration.WithLabelValues(model).Observe(duration.Seconds())

	dense := make([]float64, len(emb))
	for i, f := range emb {
		dense[i] = float64(f)
	}
	return domain.NewDenseVector(dense), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (v *Vectorizer) HealthCheck(ctx context.Context) error {
	if _, err := v.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrVectorizer for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrVectorizer

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("embedding request: %w: %w", err, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
