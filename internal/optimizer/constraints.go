package optimizer

import (
	"strconv"

	"freightengine/internal/domain"
)

// applyHardConstraints filters the driver and load pools against every hard
// constraint in params before scoring begins (spec §4.D constraint 6: hard
// driver/load preferences force x_{d,l}=0 for every pair touching the
// excluded entity). Soft constraints are left for scorePair's weighted
// pricing and are not applied here.
func applyHardConstraints(drivers []domain.Driver, loads []domain.Load, constraints []domain.OptimizationConstraint) ([]domain.Driver, []domain.Load) {
	for _, c := range constraints {
		if !c.Hard {
			continue
		}
		switch c.Kind {
		case domain.ConstraintMaxWeight:
			if max, err := strconv.ParseFloat(c.Value, 64); err == nil {
				loads = filterLoads(loads, func(l domain.Load) bool { return l.WeightLbs <= max })
			}
		case domain.ConstraintMinHours:
			if min, err := strconv.Atoi(c.Value); err == nil {
				drivers = filterDrivers(drivers, func(d domain.Driver) bool { return d.RemainingDrivingMinutes >= min })
			}
		case domain.ConstraintEquipmentType:
			want := domain.EquipmentType(c.Value)
			drivers = filterDrivers(drivers, func(d domain.Driver) bool { return d.Equipment == want })
		case domain.ConstraintRegion:
			drivers = filterDrivers(drivers, func(d domain.Driver) bool { return d.PrefersRegion(c.Value) })
		}
	}
	return drivers, loads
}

func filterDrivers(drivers []domain.Driver, keep func(domain.Driver) bool) []domain.Driver {
	out := drivers[:0:0]
	for _, d := range drivers {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func filterLoads(loads []domain.Load, keep func(domain.Load) bool) []domain.Load {
	out := loads[:0:0]
	for _, l := range loads {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
