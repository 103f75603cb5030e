package domain

// EquipmentType tags the trailer/equipment a driver operates or a load requires.
type EquipmentType string

const (
	EquipmentTractor   EquipmentType = "TRACTOR"
	EquipmentFlatbed   EquipmentType = "FLATBED"
	EquipmentReefer    EquipmentType = "REEFER"
	EquipmentTanker    EquipmentType = "TANKER"
	EquipmentContainer EquipmentType = "CONTAINER"
)

// Driver is a dispatchable resource: a current position, a home base to
// return to, remaining hours-of-service, and equipment/region preferences.
type Driver struct {
	ID   string
	Name string

	CurrentPosition Position
	HomeBase        Position

	// RemainingDrivingMinutes is a monotonically decreasing quantity,
	// replenished by rest and consumed read-only by the engine.
	RemainingDrivingMinutes int

	PreferredRegions []string
	Equipment        EquipmentType
}

// HasEquipment reports whether the driver's equipment satisfies the requirement.
func (d Driver) HasEquipment(required EquipmentType) bool {
	return d.Equipment == required
}

// PrefersRegion reports whether region is in the driver's preferred set.
func (d Driver) PrefersRegion(region string) bool {
	for _, r := range d.PreferredRegions {
		if r == region {
			return true
		}
	}
	return false
}
