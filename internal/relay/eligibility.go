package relay

import (
	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/pkg/apperror"
)

// checkEligibility applies spec §4.E step 1: a load qualifies for relay
// planning only if the haul exceeds both a distance and a duration floor.
// Equality at the distance threshold is explicitly non-eligible (spec §8
// boundary behavior).
func checkEligibility(pickup, delivery geo.Point, p Params) (distanceMi, durationHrs float64, err error) {
	distanceMi = geo.Distance(pickup, delivery, geo.Miles)
	durationHrs = distanceMi / p.SegmentSpeedMph

	if distanceMi <= p.RelayMinDistanceMi || durationHrs < p.RelayMinDurationHrs {
		return distanceMi, durationHrs, apperror.ErrNotApplicable
	}
	return distanceMi, durationHrs, nil
}

func toPoint(pos domain.Position) geo.Point {
	return geo.Point{Lat: pos.Lat, Lon: pos.Lon}
}
