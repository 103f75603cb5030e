package hub

import (
	"context"
	"sort"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
)

// DiscoveryParams tunes a potential-hub discovery run (spec §4.C).
type DiscoveryParams struct {
	EpsilonMi            float64
	MinPoints            int
	MinHubDistanceMiles  float64
	MaxResults           int
}

// DefaultDiscoveryParams returns the spec-documented defaults.
func DefaultDiscoveryParams() DiscoveryParams {
	return DiscoveryParams{
		EpsilonMi:           DefaultClusterEpsilonMiles,
		MinPoints:           DefaultClusterMinPoints,
		MinHubDistanceMiles: 50.0,
		MaxResults:          10,
	}
}

// Selector discovers, scores, and selects exchange points over a Repository.
type Selector struct {
	repo Repository
}

// NewSelector constructs a Selector over repo.
func NewSelector(repo Repository) *Selector {
	return &Selector{repo: repo}
}

// Discover clusters historical route points with DBSCAN, rejects clusters
// too close to an existing hub, scores the remainder, and returns the top
// MaxResults candidates ranked by score descending (spec §4.C steps 1-4).
func (s *Selector) Discover(ctx context.Context, routePoints []geo.Point, params DiscoveryParams) ([]domain.HubRecommendation, error) {
	if params.EpsilonMi <= 0 {
		params.EpsilonMi = DefaultClusterEpsilonMiles
	}
	if params.MinPoints <= 0 {
		params.MinPoints = DefaultClusterMinPoints
	}
	if params.MinHubDistanceMiles <= 0 {
		params.MinHubDistanceMiles = 50.0
	}
	if params.MaxResults <= 0 {
		params.MaxResults = 10
	}

	clusters := DBSCAN(routePoints, params.EpsilonMi, params.MinPoints)

	existing, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.HubRecommendation, 0, len(clusters))
	for _, c := range clusters {
		tooClose := false
		for _, h := range existing {
			d := geo.Distance(c.Centroid, geo.Point{Lat: h.Location.Lat, Lon: h.Location.Lon}, geo.Miles)
			if d < params.MinHubDistanceMiles {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		score := c.Density*50 + float64(len(c.Points))/10
		candidates = append(candidates, domain.HubRecommendation{
			Location:       domain.Position{Lat: c.Centroid.Lat, Lon: c.Centroid.Lon},
			Score:          score,
			IsNewDiscovery: true,
			ClusterSize:    len(c.Points),
			ClusterDensity: c.Density,
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if len(candidates) > params.MaxResults {
		candidates = candidates[:params.MaxResults]
	}
	return candidates, nil
}
