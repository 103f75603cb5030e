// Package predictor wraps five trained models (demand, supply, driver
// behavior, price, network efficiency) behind a single predict operation,
// adding cache-key derivation, LRU/TTL caching, and confidence scoring.
// The underlying models are treated as black-box external collaborators
// per spec §1; this package owns only the façade around them.
package predictor

import (
	"context"
	"encoding/json"
	"time"

	"freightengine/internal/domain"
	"freightengine/pkg/apperror"
	"freightengine/pkg/cache"
	"freightengine/pkg/logger"
	"freightengine/pkg/metrics"
)

// Model is the black-box interface a trained model implements. Kind
// identifies which of PredictInput's variants the model consumes.
type Model interface {
	Kind() domain.ModelKind
	Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error)
	Version() string
}

// DefaultConfidenceThreshold is the minimum confidence below which a
// result is still returned but flagged for the caller (spec §4.B step 5).
const DefaultConfidenceThreshold = 0.7

// DefaultCacheTTL is the predictor cache entry lifetime (spec §6).
const DefaultCacheTTL = 5 * time.Minute

// Facade is the uniform predict(kind, input, options) -> output entry point.
type Facade struct {
	models              map[domain.ModelKind]Model
	cache               *cache.PredictionCache
	useCache            bool
	confidenceThreshold float64
	cacheTTL            time.Duration
}

// Options tunes a single Predict call.
type Options struct {
	// SkipCache forces recomputation even when caching is enabled globally.
	SkipCache bool
}

// New constructs a Facade over the given models.
func New(models []Model, predCache *cache.PredictionCache, useCache bool, confidenceThreshold float64) *Facade {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	byKind := make(map[domain.ModelKind]Model, len(models))
	for _, m := range models {
		byKind[m.Kind()] = m
	}
	return &Facade{
		models:              byKind,
		cache:               predCache,
		useCache:            useCache,
		confidenceThreshold: confidenceThreshold,
		cacheTTL:            DefaultCacheTTL,
	}
}

// ConfidenceThreshold returns the configured minimum confidence.
func (f *Facade) ConfidenceThreshold() float64 { return f.confidenceThreshold }

// Predict runs kind's model against input, consulting the cache first.
func (f *Facade) Predict(ctx context.Context, input domain.PredictInput, opts Options) (domain.PredictOutput, error) {
	model, ok := f.models[input.Kind]
	if !ok {
		return domain.PredictOutput{}, apperror.New(apperror.CodeInvalidPredictorKind, "unknown predictor kind").
			WithField("kind").WithDetails("kind", string(input.Kind))
	}

	useCache := f.useCache && !opts.SkipCache && f.cache != nil
	inputHash, err := cacheKeyFor(cacheKeyInput{Kind: input.Kind, Version: model.Version(), Input: input})
	if err != nil {
		return domain.PredictOutput{}, apperror.Wrap(err, apperror.CodeInvalidConstraint, "failed to derive predictor cache key")
	}

	if useCache {
		if cached, hit, err := f.cache.Get(ctx, string(input.Kind), inputHash); err == nil && hit {
			var out domain.PredictOutput
			if err := json.Unmarshal(cached.Value, &out); err == nil {
				out.ConfidenceScore = cached.Confidence
				metrics.Get().RecordPrediction(string(input.Kind), true, out.ConfidenceScore)
				return out, nil
			}
		}
	}

	preprocessed := preprocess(input)

	out, err := model.Predict(ctx, preprocessed)
	if err != nil {
		return domain.PredictOutput{}, apperror.Wrap(err, apperror.CodePredictorUnavailable, "predictor model unavailable").
			WithSeverity(apperror.SeverityError)
	}

	out = postprocess(out)
	out.ConfidenceScore = confidenceFor(out)

	if useCache {
		payload, err := json.Marshal(out)
		if err == nil {
			if err := f.cache.Set(ctx, string(input.Kind), inputHash, out, out.ConfidenceScore, f.cacheTTL); err != nil {
				logger.Log.Warn("predictor cache set failed", "kind", input.Kind, "error", err)
			}
			_ = payload
		}
	}

	metrics.Get().RecordPrediction(string(input.Kind), false, out.ConfidenceScore)
	return out, nil
}
