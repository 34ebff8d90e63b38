package redis

import (
	"context"
	"errors"
	"time"

	"github.com/edupulse/edupulse-backend/internal/domain/prediction"
)

// ══════════════════════════════════════════════════════════════════════════════
// PREDICTION CACHE
// ══════════════════════════════════════════════════════════════════════════════

// PredictionCache adapts the general-purpose Cache to the prediction.Cache
// port. Keys arrive already namespaced ("prediction:<student>[:<course>]"), so
// the adapter stores them as-is and only translates the miss sentinel.
type PredictionCache struct {
	cache *Cache
}

// NewPredictionCache creates a prediction cache backed by the given client.
func NewPredictionCache(cache *Cache) *PredictionCache {
	return &PredictionCache{cache: cache}
}

// Get returns the cached prediction for the key, or prediction.ErrCacheMiss
// when the key is absent or expired.
func (pc *PredictionCache) Get(ctx context.Context, key string) (*prediction.Prediction, error) {
	var p prediction.Prediction
	if err := pc.cache.Get(ctx, key, &p); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, prediction.ErrCacheMiss
		}
		return nil, err
	}
	return &p, nil
}

// Set stores the prediction under the key for the given TTL.
func (pc *PredictionCache) Set(ctx context.Context, key string, p *prediction.Prediction, ttl time.Duration) error {
	if p == nil {
		return ErrCacheNilValue
	}
	return pc.cache.Set(ctx, key, p, ttl)
}

// Delete removes the cached prediction. Deleting an absent key is not an
// error.
func (pc *PredictionCache) Delete(ctx context.Context, key string) error {
	return pc.cache.Delete(ctx, key)
}
