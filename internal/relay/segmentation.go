package relay

import (
	"context"
	"sort"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/hub"
)

// corridorHub is a hub candidate annotated with its progress along the
// O->D route, used to walk the corridor greedily (spec §4.E step 2).
type corridorHub struct {
	Hub              domain.Hub
	ProgressMiles    float64 // distance from O measured via PointToSegmentDistance projection
	DeviationMiles   float64 // perpendicular distance off the direct route
}

// selectCorridorHubs queries the repository around the midpoint of O->D and
// keeps hubs lying close enough to the direct route, ordered by progress
// from the origin.
func selectCorridorHubs(ctx context.Context, repo hub.Repository, o, d geo.Point, routeMiles float64) ([]corridorHub, error) {
	mid := geo.Midpoint(o, d)
	searchRadius := routeMiles/2*1.2 + 25 // pad by 20% of route length plus a floor

	candidates, err := repo.Nearest(ctx, mid, searchRadius, hub.Filters{RequireActive: true})
	if err != nil {
		return nil, err
	}

	corridorWidthMi := routeMiles * 0.20
	var out []corridorHub
	for _, h := range candidates {
		p := geo.Point{Lat: h.Location.Lat, Lon: h.Location.Lon}
		deviation := geo.PointToSegmentDistance(p, o, d, geo.Miles)
		if deviation > corridorWidthMi {
			continue
		}
		progress := progressAlong(p, o, d)
		out = append(out, corridorHub{Hub: h, ProgressMiles: progress, DeviationMiles: deviation})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ProgressMiles < out[j].ProgressMiles })
	return out, nil
}

// progressAlong estimates how far p's projection onto segment o-d sits from
// o, in miles, by combining the great-circle distance to the foot of the
// perpendicular with a sign determined by which endpoint it's nearer.
func progressAlong(p, o, d geo.Point) float64 {
	total := geo.Distance(o, d, geo.Miles)
	if total <= 0 {
		return 0
	}
	distFromO := geo.Distance(o, p, geo.Miles)
	distFromD := geo.Distance(d, p, geo.Miles)
	// Law-of-cosines style projection: clamp within [0, total].
	cosAngle := (distFromO*distFromO + total*total - distFromD*distFromD) / (2 * distFromO * total)
	if distFromO == 0 {
		return 0
	}
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	progress := distFromO * cosAngle
	if progress < 0 {
		progress = 0
	}
	if progress > total {
		progress = total
	}
	return progress
}

// waypoints picks up to maxSegments-1 corridor hubs as segment boundaries,
// walking greedily along progress and skipping any hub whose step from the
// previous boundary would exceed maxStepMi (spec §4.E step 2-3).
func waypoints(candidates []corridorHub, routeMiles float64, maxSegments int, maxStepMi float64) []corridorHub {
	if maxSegments < 2 || len(candidates) == 0 {
		return nil
	}
	maxWaypoints := maxSegments - 1

	var chosen []corridorHub
	lastProgress := 0.0
	for _, c := range candidates {
		if len(chosen) >= maxWaypoints {
			break
		}
		if c.ProgressMiles-lastProgress > maxStepMi {
			continue
		}
		if routeMiles-c.ProgressMiles < maxStepMi*0.05 {
			// Too close to the destination to form a meaningful final leg.
			continue
		}
		chosen = append(chosen, c)
		lastProgress = c.ProgressMiles
	}
	return chosen
}
