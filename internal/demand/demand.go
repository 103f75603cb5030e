// Package demand implements the demand predictor (spec §4.F): a thin
// stateful layer over the predictor façade offering regional, location,
// lane, hotspot, and trend operations, each with its own cache keyed on
// method name plus parameters.
package demand

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/predictor"
	"freightengine/pkg/cache"
)

// Predictor wraps a predictor façade with the demand-specific operations.
type Predictor struct {
	facade *predictor.Facade
	cache  *cache.PredictionCache
	ttl    time.Duration
}

// New constructs a Predictor. predCache may be nil to disable the
// method-level cache (the façade's own per-model cache still applies).
func New(facade *predictor.Facade, predCache *cache.PredictionCache, ttl time.Duration) *Predictor {
	if ttl <= 0 {
		ttl = predictor.DefaultCacheTTL
	}
	return &Predictor{facade: facade, cache: predCache, ttl: ttl}
}

// Regional forecasts demand for an entire region.
func (p *Predictor) Regional(ctx context.Context, region string, horizon string, asOf time.Time) (domain.DemandForecast, error) {
	methodKey := cache.CanonicalKey("regional", region, horizon, asOf.Format(time.RFC3339))
	if cached, ok := p.getCached(ctx, "regional", methodKey); ok {
		return cached, nil
	}

	out, err := p.facade.Predict(ctx, domain.PredictInput{
		Kind: domain.ModelDemand,
		Demand: &domain.DemandInput{
			Region:  region,
			AsOf:    asOf,
			Horizon: horizon,
		},
	}, predictor.Options{})
	if err != nil {
		return domain.DemandForecast{}, err
	}

	forecast := toForecast(region, nil, out, horizon)
	p.setCached(ctx, "regional", methodKey, forecast)
	return forecast, nil
}

// Location forecasts demand within radiusMi of a point.
func (p *Predictor) Location(ctx context.Context, loc geo.Point, radiusMi float64, horizon string, asOf time.Time) (domain.DemandForecast, error) {
	methodKey := cache.CanonicalKey("location", cache.HashFloats(loc.Lat, loc.Lon, radiusMi), horizon, asOf.Format(time.RFC3339))
	if cached, ok := p.getCached(ctx, "location", methodKey); ok {
		return cached, nil
	}

	pos := domain.Position{Lat: loc.Lat, Lon: loc.Lon}
	out, err := p.facade.Predict(ctx, domain.PredictInput{
		Kind: domain.ModelDemand,
		Demand: &domain.DemandInput{
			Location: &pos,
			RadiusMi: radiusMi,
			AsOf:     asOf,
			Horizon:  horizon,
		},
	}, predictor.Options{})
	if err != nil {
		return domain.DemandForecast{}, err
	}

	forecast := toForecast("", &pos, out, horizon)
	p.setCached(ctx, "location", methodKey, forecast)
	return forecast, nil
}

// Lane forecasts demand for an origin-region -> destination-region pair by
// combining the origin's regional forecast with the destination's, using
// the destination's predicted volume as the binding constraint (a lane
// can't move more freight than the destination can absorb).
func (p *Predictor) Lane(ctx context.Context, originRegion, destRegion, horizon string, asOf time.Time) (domain.DemandForecast, error) {
	methodKey := cache.CanonicalKey("lane", originRegion, destRegion, horizon, asOf.Format(time.RFC3339))
	if cached, ok := p.getCached(ctx, "lane", methodKey); ok {
		return cached, nil
	}

	origin, err := p.Regional(ctx, originRegion, horizon, asOf)
	if err != nil {
		return domain.DemandForecast{}, err
	}
	dest, err := p.Regional(ctx, destRegion, horizon, asOf)
	if err != nil {
		return domain.DemandForecast{}, err
	}

	volume := origin.PredictedVolume
	if dest.PredictedVolume < volume {
		volume = dest.PredictedVolume
	}
	confidence := origin.Confidence
	if dest.Confidence < confidence {
		confidence = dest.Confidence
	}

	forecast := domain.DemandForecast{
		Region:          fmt.Sprintf("%s->%s", originRegion, destRegion),
		PredictedVolume: volume,
		Confidence:      confidence,
		Horizon:         horizon,
	}
	p.setCached(ctx, "lane", methodKey, forecast)
	return forecast, nil
}

func toForecast(region string, loc *domain.Position, out domain.PredictOutput, horizon string) domain.DemandForecast {
	f := domain.DemandForecast{
		Region:     region,
		Location:   loc,
		Confidence: out.ConfidenceScore,
		Horizon:    horizon,
	}
	if out.Demand != nil {
		f.PredictedVolume = out.Demand.PredictedVolume
	}
	return f
}

func (p *Predictor) getCached(ctx context.Context, method, key string) (domain.DemandForecast, bool) {
	if p.cache == nil {
		return domain.DemandForecast{}, false
	}
	cached, hit, err := p.cache.Get(ctx, method, key)
	if err != nil || !hit {
		return domain.DemandForecast{}, false
	}
	var out domain.DemandForecast
	if err := json.Unmarshal(cached.Value, &out); err != nil {
		return domain.DemandForecast{}, false
	}
	return out, true
}

func (p *Predictor) setCached(ctx context.Context, method, key string, forecast domain.DemandForecast) {
	if p.cache == nil {
		return
	}
	_ = p.cache.Set(ctx, method, key, forecast, forecast.Confidence, p.ttl)
}
