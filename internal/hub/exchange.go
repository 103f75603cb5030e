package hub

import (
	"context"
	"sort"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/pkg/apperror"
)

// ExchangeParams tunes exchange-point selection (spec §4.C).
type ExchangeParams struct {
	MaxSegmentDistanceMi  float64
	MaxSegmentDuration    float64 // hours
	SpeedMph              float64
}

// DefaultExchangeParams returns the spec-documented defaults.
func DefaultExchangeParams() ExchangeParams {
	return ExchangeParams{
		MaxSegmentDistanceMi: 500,
		MaxSegmentDuration:   8,
		SpeedMph:             55,
	}
}

// ExchangeCandidate is one ranked hub candidate for an exchange point.
type ExchangeCandidate struct {
	Hub             domain.Hub
	Segment1Miles   float64
	Segment2Miles   float64
	TotalDeviation  float64
}

// SelectExchangePoint finds hubs suitable as an exchange point between
// route (o1->d1) and route (o2->d2), ranked by total deviation from the
// original routes ascending (spec §4.C "Optimal exchange-point selection").
func (s *Selector) SelectExchangePoint(ctx context.Context, o1, d1, o2, d2 geo.Point, params ExchangeParams) ([]ExchangeCandidate, error) {
	if params.MaxSegmentDistanceMi <= 0 {
		params.MaxSegmentDistanceMi = 500
	}
	if params.MaxSegmentDuration <= 0 {
		params.MaxSegmentDuration = 8
	}
	if params.SpeedMph <= 0 {
		params.SpeedMph = 55
	}

	route1Len := geo.Distance(o1, d1, geo.Miles)
	route2Len := geo.Distance(o2, d2, geo.Miles)
	avgRouteLen := (route1Len + route2Len) / 2

	mid1 := geo.Midpoint(o1, d1)
	mid2 := geo.Midpoint(o2, d2)
	searchCenter := geo.Midpoint(mid1, mid2)

	searchRadius := avgRouteLen * 0.20
	nearby, err := s.repo.Nearest(ctx, searchCenter, searchRadius, Filters{RequireActive: true})
	if err != nil {
		return nil, err
	}

	var candidates []ExchangeCandidate
	for _, h := range nearby {
		hp := geo.Point{Lat: h.Location.Lat, Lon: h.Location.Lon}

		seg1 := geo.Distance(o1, hp, geo.Miles) + geo.Distance(hp, d1, geo.Miles)
		seg2 := geo.Distance(o2, hp, geo.Miles) + geo.Distance(hp, d2, geo.Miles)

		if seg1 > params.MaxSegmentDistanceMi || seg2 > params.MaxSegmentDistanceMi {
			continue
		}
		if seg1/params.SpeedMph > params.MaxSegmentDuration || seg2/params.SpeedMph > params.MaxSegmentDuration {
			continue
		}

		deviation := (seg1 - route1Len) + (seg2 - route2Len)

		// Small bonuses for amenities and capacity reduce effective deviation.
		amenityBonus := amenityCoverage(h) * 10
		capacityBonus := clampScore(float64(h.Capacity)/50) * 5
		deviation -= amenityBonus + capacityBonus

		candidates = append(candidates, ExchangeCandidate{
			Hub:            h,
			Segment1Miles:  seg1,
			Segment2Miles:  seg2,
			TotalDeviation: deviation,
		})
	}

	if len(candidates) == 0 {
		return nil, apperror.New(apperror.CodeHubNotFound, "no hub satisfies exchange-point constraints")
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].TotalDeviation < candidates[j].TotalDeviation })
	return candidates, nil
}
