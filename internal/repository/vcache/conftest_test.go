package vcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/db"
	"github.com/kailas-cloud/sentimentd/internal/domain"
)

type mockVectorizer struct {
	result domain.FeatureVector
	err    error
	dim    int
	calls  int
}

func (m *mockVectorizer) Transform(_ context.Context, _ string) (domain.FeatureVector, error) {
	m.calls++
	return m.result, m.err
}

func (m *mockVectorizer) Dimension() int { return m.dim }

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedVectorizer(t *testing.T, inner *mockVectorizer) (*CachedVectorizer, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cv := New(inner, "count", ms, time.Hour, nil, zap.NewNop())
	return cv, ms
}
