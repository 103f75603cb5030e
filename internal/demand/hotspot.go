package demand

import (
	"context"
	"time"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/hub"
)

// HotspotThreshold is the minimum regional predicted volume that qualifies
// a region for a follow-up location-based scan (spec §4.F hotspot step).
const HotspotThreshold = 50.0

// Hotspots runs regional predictions across regions, drills into
// location-based forecasts for the regions clearing HotspotThreshold, then
// clusters the resulting high-demand points with DBSCAN (spec §4.F).
func (p *Predictor) Hotspots(ctx context.Context, regions []string, regionCenters map[string]geo.Point, radiusMi float64, horizon string, asOf time.Time) ([]domain.HubRecommendation, error) {
	var highDemandPoints []geo.Point

	for _, region := range regions {
		forecast, err := p.Regional(ctx, region, horizon, asOf)
		if err != nil {
			return nil, err
		}
		if forecast.PredictedVolume < HotspotThreshold {
			continue
		}

		center, ok := regionCenters[region]
		if !ok {
			continue
		}
		loc, err := p.Location(ctx, center, radiusMi, horizon, asOf)
		if err != nil {
			return nil, err
		}
		if loc.PredictedVolume >= HotspotThreshold {
			highDemandPoints = append(highDemandPoints, center)
		}
	}

	if len(highDemandPoints) == 0 {
		return nil, nil
	}

	clusters := hub.DBSCAN(highDemandPoints, 25.0, 2)
	recs := make([]domain.HubRecommendation, 0, len(clusters))
	for _, c := range clusters {
		recs = append(recs, domain.HubRecommendation{
			Location:       domain.Position{Lat: c.Centroid.Lat, Lon: c.Centroid.Lon},
			ClusterSize:    len(c.Points),
			ClusterDensity: c.Density,
			IsNewDiscovery: true,
		})
	}
	return recs, nil
}
