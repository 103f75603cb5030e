// Package optimizer implements the network-wide load-to-driver assignment
// (spec §4.D): builds a compatibility matrix over candidate (driver, load)
// pairs subject to hard constraints, scores each pair with the weighted
// objective, and solves for the assignment maximizing total score.
package optimizer

import (
	"time"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
)

// DefaultWeights are used when a job's parameters don't override them.
func DefaultWeights() domain.FactorWeights {
	return domain.FactorWeights{Empty: 0.6, Network: 0.2, Pref: 0.1, HOS: 0.1}
}

// pairScore is the per-factor breakdown and total weight for one
// (driver, load) candidate pair (spec §4.D objective).
type pairScore struct {
	total               float64
	emptyMiles          float64
	loadedMiles         float64
	networkContribution float64
	preferenceBonus     float64
	hosHeadroomBonus    float64
	breakdown           map[string]float64
}

// scorePair computes the weighted efficiency score for pairing driver d
// with load l. Returns ok=false when a hard constraint disqualifies the
// pair (x_{d,l} forced to 0 per spec §4.D constraints 3-6).
func scorePair(d domain.Driver, l domain.Load, weights domain.FactorWeights, speedMph float64, now time.Time) (pairScore, bool) {
	if !d.HasEquipment(l.RequiredEquipment) {
		return pairScore{}, false
	}

	driverPos := geo.Point{Lat: d.CurrentPosition.Lat, Lon: d.CurrentPosition.Lon}
	pickup := geo.Point{Lat: l.PickupLocation.Lat, Lon: l.PickupLocation.Lon}
	delivery := geo.Point{Lat: l.DeliveryLocation.Lat, Lon: l.DeliveryLocation.Lon}

	emptyMiles := geo.Distance(driverPos, pickup, geo.Miles)
	loadedMiles := geo.Distance(pickup, delivery, geo.Miles)

	if speedMph <= 0 {
		speedMph = 55
	}

	minutesToPickup := emptyMiles / speedMph * 60
	minutesToDeliver := minutesToPickup + loadedMiles/speedMph*60

	// Hours compatibility (constraint 3).
	if float64(d.RemainingDrivingMinutes) < minutesToDeliver {
		return pairScore{}, false
	}

	// Time window (constraint 5): driver must arrive before the latest
	// pickup/delivery times given the speed factor.
	arriveAtPickup := now.Add(time.Duration(minutesToPickup) * time.Minute)
	arriveAtDelivery := now.Add(time.Duration(minutesToDeliver) * time.Minute)
	if !l.PickupWindow.Latest.IsZero() && arriveAtPickup.After(l.PickupWindow.Latest) {
		return pairScore{}, false
	}
	if !l.DeliveryWindow.Latest.IsZero() && arriveAtDelivery.After(l.DeliveryWindow.Latest) {
		return pairScore{}, false
	}

	totalMiles := emptyMiles + loadedMiles
	emptyRatio := 0.0
	if totalMiles > 0 {
		emptyRatio = 1 - emptyMiles/totalMiles
	}

	networkContribution := networkContributionScore(d, l)
	prefBonus := preferenceBonus(d, l)
	hosHeadroom := hosHeadroomBonus(d, minutesToDeliver)

	total := emptyRatio*weights.Empty +
		networkContribution*weights.Network +
		prefBonus*weights.Pref +
		hosHeadroom*weights.HOS

	return pairScore{
		total:               total,
		emptyMiles:          emptyMiles,
		loadedMiles:         loadedMiles,
		networkContribution: networkContribution,
		preferenceBonus:     prefBonus,
		hosHeadroomBonus:    hosHeadroom,
		breakdown: map[string]float64{
			"empty":   emptyRatio * weights.Empty,
			"network": networkContribution * weights.Network,
			"pref":    prefBonus * weights.Pref,
			"hos":     hosHeadroom * weights.HOS,
		},
	}, true
}

// networkContributionScore rewards pairs that reduce overall deadheading
// relative to the load's size; a simple proxy is the inverse of loaded
// miles (shorter, well-matched loads contribute more efficiently per
// assignment) bounded to [0,1].
func networkContributionScore(d domain.Driver, l domain.Load) float64 {
	loaded := geo.Distance(
		geo.Point{Lat: l.PickupLocation.Lat, Lon: l.PickupLocation.Lon},
		geo.Point{Lat: l.DeliveryLocation.Lat, Lon: l.DeliveryLocation.Lon},
		geo.Miles,
	)
	if loaded <= 0 {
		return 0
	}
	score := 300 / loaded
	if score > 1 {
		score = 1
	}
	return score
}

// preferenceBonus rewards a load whose delivery region is in the driver's
// preferred set.
func preferenceBonus(d domain.Driver, l domain.Load) float64 {
	if d.PrefersRegion(l.DeliveryLocation.Source) {
		return 1
	}
	return 0.3
}

// hosHeadroomBonus rewards drivers with more slack beyond the minutes this
// load would consume.
func hosHeadroomBonus(d domain.Driver, minutesRequired float64) float64 {
	headroom := float64(d.RemainingDrivingMinutes) - minutesRequired
	if headroom < 0 {
		return 0
	}
	score := headroom / 600 // 10 hours of slack saturates the bonus
	if score > 1 {
		score = 1
	}
	return score
}
