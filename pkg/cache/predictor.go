package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// PredictionCache is a specialized cache for predictor facade outputs (§4.B)
// and demand forecasts (§4.F), keyed by model kind plus a hash of the model's
// inputs so repeated requests with identical inputs skip recomputation.
type PredictionCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedPrediction is a cached predictor or demand-forecast output.
type CachedPrediction struct {
	ModelKind  string          `json:"model_kind"`
	Value      json.RawMessage `json:"value"`
	Confidence float64         `json:"confidence"`
	ComputedAt time.Time       `json:"computed_at"`
}

// NewPredictionCache wraps cache with a default TTL used when callers don't
// specify one explicitly.
func NewPredictionCache(cache Cache, defaultTTL time.Duration) *PredictionCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &PredictionCache{cache: cache, defaultTTL: defaultTTL}
}

func predictionKey(modelKind, inputHash string) string {
	return CanonicalKey("predict", modelKind, inputHash)
}

// Get returns the cached prediction for the given model kind and input hash,
// or ok=false if nothing is cached (or the cached value was unparseable).
func (pc *PredictionCache) Get(ctx context.Context, modelKind, inputHash string) (*CachedPrediction, bool, error) {
	key := predictionKey(modelKind, inputHash)

	data, err := pc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedPrediction
	if err := json.Unmarshal(data, &result); err != nil {
		// Corrupted entry: drop it and treat as a miss. Deletion is best
		// effort; a stale entry will simply expire on its own TTL otherwise.
		_ = pc.cache.Delete(ctx, key)
		return nil, false, nil
	}

	return &result, true, nil
}

// Set stores a prediction value under the given model kind and input hash.
func (pc *PredictionCache) Set(ctx context.Context, modelKind, inputHash string, value any, confidence float64, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = pc.defaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	result := CachedPrediction{
		ModelKind:  modelKind,
		Value:      raw,
		Confidence: confidence,
		ComputedAt: time.Now(),
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return pc.cache.Set(ctx, predictionKey(modelKind, inputHash), data, ttl)
}

// Invalidate drops every cached prediction for a given model kind, used when
// the underlying model is retrained or the cache TTL policy changes mid-run.
func (pc *PredictionCache) Invalidate(ctx context.Context, modelKind string) (int64, error) {
	pattern := fmt.Sprintf("predict:%s:*", modelKind)
	return pc.cache.DeleteByPattern(ctx, pattern)
}

// InvalidateAll drops every cached prediction regardless of model kind.
func (pc *PredictionCache) InvalidateAll(ctx context.Context) (int64, error) {
	return pc.cache.DeleteByPattern(ctx, "predict:*")
}
