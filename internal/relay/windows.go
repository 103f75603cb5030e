package relay

import (
	"time"

	"freightengine/pkg/apperror"
)

// handoffWindow is the feasible scheduling interval for one handoff.
type handoffWindow struct {
	Earliest time.Time
	Latest   time.Time
}

// computeHandoffWindow implements spec §4.E step 5: the intersection of
// both drivers' earliest-arrival-plus-buffer and the remaining schedule's
// slack before the load's delivery deadline.
func computeHandoffWindow(earliestOutgoing, earliestIncoming time.Time, deliveryLatest time.Time, remainingDuration time.Duration) (handoffWindow, error) {
	earliest := earliestOutgoing
	if earliestIncoming.After(earliest) {
		earliest = earliestIncoming
	}
	earliest = earliest.Add(15 * time.Minute)

	latest := deliveryLatest.Add(-remainingDuration).Add(-30 * time.Minute)

	if !latest.After(earliest) {
		return handoffWindow{}, apperror.ErrNoExchangeWindow
	}
	return handoffWindow{Earliest: earliest, Latest: latest}, nil
}
