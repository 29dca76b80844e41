// Package embcache caches computed dense+sparse embedding pairs in a
// key-value store, keyed by the case-folded query text.
package embcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/db"
	"github.com/askcast/askcast/internal/domain"
)

// asyncStoreTimeout bounds the detached write-through; it runs on its own
// context because the request context may already be gone.
const asyncStoreTimeout = 5 * time.Second

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is the embedding pair cache. Expiry is store-managed via TTL.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an embedding cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Lookup returns the cached pair for the query. Any store error or
// deserialization failure is reported as a miss: the pipeline recomputes and
// never fails a request on cache trouble.
func (c *Cache) Lookup(ctx context.Context, q domain.Query) (domain.EmbeddingPair, bool) {
	key := q.CacheKey()

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embeddings", zap.Error(err))
		}
		c.incCache("miss")
		return domain.EmbeddingPair{}, false
	}

	var pair domain.EmbeddingPair
	if err := json.Unmarshal(data, &pair); err != nil {
		c.logger.Warn("Failed to parse cached embeddings", zap.Error(err))
		c.incCache("miss")
		return domain.EmbeddingPair{}, false
	}
	// Trust the entry only when both parts are present and consistent.
	if len(pair.Dense) == 0 || pair.Sparse.IsZero() {
		c.incCache("miss")
		return domain.EmbeddingPair{}, false
	}
	if err := pair.Validate(0); err != nil {
		c.logger.Warn("Discarding inconsistent cached embeddings", zap.Error(err))
		c.incCache("miss")
		return domain.EmbeddingPair{}, false
	}

	c.incCache("hit")
	return pair, true
}

// Store writes the pair through with the configured TTL.
func (c *Cache) Store(ctx context.Context, q domain.Query, pair domain.EmbeddingPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal embedding pair: %w", err)
	}
	if err := c.store.SetWithTTL(ctx, q.CacheKey(), data, c.ttl); err != nil {
		return fmt.Errorf("cache embeddings: %w", err)
	}
	return nil
}

// StoreAsync schedules the write-through as detached work. It never blocks
// the response path and its failure never reaches the request.
func (c *Cache) StoreAsync(q domain.Query, pair domain.EmbeddingPair) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("Panic in async cache store", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), asyncStoreTimeout)
		defer cancel()

		if err := c.Store(ctx, q, pair); err != nil {
			c.logger.Warn("Async cache store failed", zap.Error(err))
		}
	}()
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
