package domain

import "time"

// LoadStatus is the lifecycle state of a load.
type LoadStatus string

const (
	LoadPending    LoadStatus = "PENDING"
	LoadAvailable  LoadStatus = "AVAILABLE"
	LoadAssigned   LoadStatus = "ASSIGNED"
	LoadInTransit  LoadStatus = "IN_TRANSIT"
	LoadDelivered  LoadStatus = "DELIVERED"
	LoadCompleted  LoadStatus = "COMPLETED"
	LoadCancelled  LoadStatus = "CANCELLED"
)

// TimeWindow is a half-open interval [Earliest, Latest) a location must be
// reached within.
type TimeWindow struct {
	Earliest time.Time
	Latest   time.Time
}

// Load is a shipment with a pickup and delivery location, each with its own
// time window, and a lifecycle status.
type Load struct {
	ID string

	PickupLocation   Position
	PickupWindow     TimeWindow
	DeliveryLocation Position
	DeliveryWindow   TimeWindow

	WeightLbs         float64
	RequiredEquipment EquipmentType
	Status            LoadStatus
}

// LongHaulThresholdMiles is the relay-eligibility cutoff from spec §4.E and
// the long-haul pickup rule in §4.I's load-status table. Equality is
// non-eligible; the spec's boundary test treats exactly 400 mi as non-relay.
const LongHaulThresholdMiles = 400.0

// Assignment records the driver behind an AVAILABLE -> ASSIGNED load
// transition, satisfying the invariant that every such transition
// references exactly one driver whose equipment matches the load.
type Assignment struct {
	LoadID   string
	DriverID string
}
