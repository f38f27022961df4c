// Package vcache caches feature vectors produced by an expensive vectorizer.
package vcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/db"
	"github.com/kailas-cloud/sentimentd/internal/domain"
)

const cacheKeyPrefix = "sentimentd:vec:"

// store is the consumer interface for the vector cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedVectorizer caches vectors in a key-value store.
type CachedVectorizer struct {
	inner      domain.Vectorizer
	name       string
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// name scopes keys so two vectorizers never share entries.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Vectorizer,
	name string,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedVectorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedVectorizer{
		inner:      inner,
		name:       name,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Dimension delegates to the wrapped vectorizer.
func (c *CachedVectorizer) Dimension() int { return c.inner.Dimension() }

// HealthCheck delegates when the wrapped vectorizer supports it.
func (c *CachedVectorizer) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Transform returns a cached vector or calls the inner vectorizer.
func (c *CachedVectorizer) Transform(ctx context.Context, text string) (domain.FeatureVector, error) {
	key := c.cacheKey(text)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return vec, nil
	}

	c.incCache("miss")

	vec, err := c.inner.Transform(ctx, text)
	if err != nil {
		return domain.FeatureVector{}, fmt.Errorf("transform text: %w", err)
	}

	c.putToCache(ctx, key, vec)
	return vec, nil
}

func (c *CachedVectorizer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedVectorizer) cacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(c.name))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedVectorizer) getFromCache(ctx context.Context, key string) (domain.FeatureVector, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached vector", zap.String("key", key), zap.Error(err))
		}
		return domain.FeatureVector{}, false
	}
	if len(data) == 0 {
		return domain.FeatureVector{}, false
	}

	vec, err := decodeVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached vector", zap.String("key", key), zap.Error(err))
		return domain.FeatureVector{}, false
	}
	if dim := c.inner.Dimension(); dim > 0 && vec.Dim != dim {
		c.logger.Warn("Cached vector has stale dimension",
			zap.String("key", key), zap.Int("cached", vec.Dim), zap.Int("expected", dim))
		return domain.FeatureVector{}, false
	}

	return vec, true
}

func (c *CachedVectorizer) putToCache(ctx context.Context, key string, vec domain.FeatureVector) {
	if err := c.store.SetWithTTL(ctx, key, encodeVector(vec), c.ttl); err != nil {
		c.logger.Warn("Failed to cache vector", zap.String("key", key), zap.Error(err))
	}
}

// Layout (little endian): dim u32, nnz u32, then nnz pairs of index u32 + value f64.
const (
	headerSize = 8
	entrySize  = 12
)

func encodeVector(v domain.FeatureVector) []byte {
	buf := make([]byte, headerSize+len(v.Indices)*entrySize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(v.Dim))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(v.Indices)))
	off := headerSize
	for k, i := range v.Indices {
		binary.LittleEndian.PutUint32(buf[off:], uint32(i))
		binary.LittleEndian.PutUint64(buf[off+4:], math.Float64bits(v.Values[k]))
		off += entrySize
	}
	return buf
}

func decodeVector(data []byte) (domain.FeatureVector, error) {
	if len(data) < headerSize {
		return domain.FeatureVector{}, fmt.Errorf("invalid vector cache data: len=%d", len(data))
	}
	dim := int(binary.LittleEndian.Uint32(data[0:]))
	nnz := int(binary.LittleEndian.Uint32(data[4:]))
	if len(data) != headerSize+nnz*entrySize {
		return domain.FeatureVector{}, fmt.Errorf("invalid vector cache data: len=%d nnz=%d", len(data), nnz)
	}

	v := domain.FeatureVector{Dim: dim}
	if nnz > 0 {
		v.Indices = make([]int, nnz)
		v.Values = make([]float64, nnz)
	}
	off := headerSize
	prev := -1
	for k := 0; k < nnz; k++ {
		i := int(binary.LittleEndian.Uint32(data[off:]))
		if i <= prev || i >= dim {
			return domain.FeatureVector{}, fmt.Errorf("invalid vector cache data: index %d out of order", i)
		}
		v.Indices[k] = i
		v.Values[k] = math.Float64frombits(binary.LittleEndian.Uint64(data[off+4:]))
		prev = i
		off += entrySize
	}
	return v, nil
}
