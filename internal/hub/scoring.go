package hub

import (
	"freightengine/internal/domain"
	"freightengine/internal/geo"
)

// ScoringInput is the network-state evidence the hub scorer weighs.
type ScoringInput struct {
	Hub domain.Hub

	// TrafficDensity is points-per-square-mile near the hub, comparable to
	// Cluster.Density.
	TrafficDensity float64

	// HistoricalRoutes used to compute the fraction passing within 10mi of
	// the hub (route-pattern match).
	HistoricalRoutes []RoutePoints

	// ExistingHubs other than the one being scored, for the
	// proximity-penalty term.
	ExistingHubs []domain.Hub

	// EmptyMilesReductionPotential is a caller-supplied estimate in [0,1] of
	// how much empty mileage this hub could eliminate network-wide.
	EmptyMilesReductionPotential float64
}

// RoutePoints is one historical route's origin and destination.
type RoutePoints struct {
	Origin, Destination geo.Point
}

// ScoreWeights are the weighted-sum coefficients from spec §4.C.
type ScoreWeights struct {
	TrafficDensity    float64
	RoutePatternMatch float64
	Proximity         float64
	Amenities         float64
	EmptyMilesReduction float64
}

// DefaultScoreWeights sums to 1.0 across the five scoring terms.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		TrafficDensity:      0.25,
		RoutePatternMatch:   0.25,
		Proximity:           0.15,
		Amenities:           0.15,
		EmptyMilesReduction: 0.20,
	}
}

// Score computes the hub's weighted-sum score against network state,
// normalized to [0,100] (spec §4.C "Hub scoring").
func Score(input ScoringInput, weights ScoreWeights) float64 {
	hubPoint := geo.Point{Lat: input.Hub.Location.Lat, Lon: input.Hub.Location.Lon}

	trafficTerm := clampScore(input.TrafficDensity / 10.0)
	routeTerm := routePatternMatch(hubPoint, input.HistoricalRoutes)
	proximityTerm := proximityScore(hubPoint, input.ExistingHubs)
	amenityTerm := amenityCoverage(input.Hub)
	emptyMilesTerm := clampScore(input.EmptyMilesReductionPotential)

	weighted := trafficTerm*weights.TrafficDensity +
		routeTerm*weights.RoutePatternMatch +
		proximityTerm*weights.Proximity +
		amenityTerm*weights.Amenities +
		emptyMilesTerm*weights.EmptyMilesReduction

	return clampScore(weighted) * 100
}

// routePatternMatch is the fraction of historical routes passing within
// 10mi of the hub.
func routePatternMatch(hubPoint geo.Point, routes []RoutePoints) float64 {
	if len(routes) == 0 {
		return 0
	}
	matched := 0
	for _, r := range routes {
		if geo.PointToSegmentDistance(hubPoint, r.Origin, r.Destination, geo.Miles) <= 10 {
			matched++
		}
	}
	return float64(matched) / float64(len(routes))
}

// proximityScore penalizes a hub that is very close to another existing
// hub (redundant coverage) while rewarding moderate spacing.
func proximityScore(hubPoint geo.Point, existing []domain.Hub) float64 {
	if len(existing) == 0 {
		return 1
	}
	nearest := -1.0
	for _, h := range existing {
		d := geo.Distance(hubPoint, geo.Point{Lat: h.Location.Lat, Lon: h.Location.Lon}, geo.Miles)
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}
	// Saturates at 1.0 once the nearest existing hub is 100mi+ away.
	return clampScore(nearest / 100.0)
}

// amenityCoverage is the amenity-weighted sum of offered amenities.
func amenityCoverage(h domain.Hub) float64 {
	var total float64
	for amenity, weight := range domain.DefaultAmenityWeights {
		if h.HasAmenity(amenity) {
			total += weight
		}
	}
	return clampScore(total)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
