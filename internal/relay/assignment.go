package relay

import (
	"sort"
	"time"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
)

// segmentSpec is a planned leg before a driver has been assigned.
type segmentSpec struct {
	Start, End       geo.Point
	DistanceMiles    float64
	Duration         time.Duration
}

func buildSegmentSpecs(o, d geo.Point, boundaries []corridorHub, p Params) []segmentSpec {
	points := []geo.Point{o}
	for _, b := range boundaries {
		points = append(points, geo.Point{Lat: b.Hub.Location.Lat, Lon: b.Hub.Location.Lon})
	}
	points = append(points, d)

	specs := make([]segmentSpec, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		dist := geo.Distance(points[i], points[i+1], geo.Miles)
		hrs := dist / p.SegmentSpeedMph * (1 + p.SegmentBufferFraction)
		specs = append(specs, segmentSpec{
			Start: points[i], End: points[i+1],
			DistanceMiles: dist,
			Duration:      time.Duration(hrs * float64(time.Hour)),
		})
	}
	return specs
}

// assignDrivers solves the segments-to-drivers bipartite scoring problem
// (spec §4.E step 4) with a greedy pass by descending score, matching the
// heuristic used by the network optimizer for the same kind of problem.
func assignDrivers(specs []segmentSpec, drivers []domain.Driver, p Params) []domain.Driver {
	type pair struct {
		segIdx, driverIdx int
		score             float64
	}

	var pairs []pair
	for si, seg := range specs {
		for di, drv := range drivers {
			toStart := geo.Distance(geo.Point{Lat: drv.CurrentPosition.Lat, Lon: drv.CurrentPosition.Lon}, seg.Start, geo.Miles)
			endToHome := geo.Distance(seg.End, geo.Point{Lat: drv.HomeBase.Lat, Lon: drv.HomeBase.Lon}, geo.Miles)

			hosOK := 0.0
			minutesNeeded := seg.Duration.Minutes()
			if float64(drv.RemainingDrivingMinutes) >= minutesNeeded {
				hosOK = 1.0
			}

			score := p.Alpha*clampRatio(1-toStart/500) +
				p.Beta*clampRatio(1-endToHome/500) +
				p.Gamma*hosOK

			pairs = append(pairs, pair{segIdx: si, driverIdx: di, score: score})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })

	assigned := make([]domain.Driver, len(specs))
	segDone := make([]bool, len(specs))
	driverDone := make([]bool, len(drivers))
	filled := 0

	for _, pr := range pairs {
		if segDone[pr.segIdx] || driverDone[pr.driverIdx] {
			continue
		}
		assigned[pr.segIdx] = drivers[pr.driverIdx]
		segDone[pr.segIdx] = true
		driverDone[pr.driverIdx] = true
		filled++
		if filled == len(specs) {
			break
		}
	}
	return assigned
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
