// Package relay implements the relay-haul planner (spec §4.E): splits a
// long load across hub-anchored segments, assigns a driver to each
// segment, schedules handoff windows, and scores the plan against a
// direct haul.
package relay

// Params bundles the planner's tunables; zero-valued fields fall back to
// DefaultParams' values.
type Params struct {
	MaxSegments            int
	SegmentSpeedMph        float64
	SegmentBufferFraction  float64
	MaxSegmentDistanceMi   float64
	MaxSegmentDurationHrs  float64
	RelayMinDistanceMi     float64
	RelayMinDurationHrs    float64

	// AssignmentWeights are the α, β, γ weights of the segment-to-driver
	// scoring function (spec §4.E step 4).
	Alpha, Beta, Gamma float64

	CostPerMile float64
	CO2KgPerMile float64
}

// DefaultParams mirrors spec §6's configuration table.
func DefaultParams() Params {
	return Params{
		MaxSegments:           3,
		SegmentSpeedMph:       55,
		SegmentBufferFraction: 0.15,
		MaxSegmentDistanceMi:  500,
		MaxSegmentDurationHrs: 8,
		RelayMinDistanceMi:    400,
		RelayMinDurationHrs:   6,
		Alpha:                 0.4,
		Beta:                  0.3,
		Gamma:                 0.3,
		CostPerMile:           1.80,
		CO2KgPerMile:          0.5,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.MaxSegments <= 0 {
		p.MaxSegments = d.MaxSegments
	}
	if p.SegmentSpeedMph <= 0 {
		p.SegmentSpeedMph = d.SegmentSpeedMph
	}
	if p.SegmentBufferFraction <= 0 {
		p.SegmentBufferFraction = d.SegmentBufferFraction
	}
	if p.MaxSegmentDistanceMi <= 0 {
		p.MaxSegmentDistanceMi = d.MaxSegmentDistanceMi
	}
	if p.MaxSegmentDurationHrs <= 0 {
		p.MaxSegmentDurationHrs = d.MaxSegmentDurationHrs
	}
	if p.RelayMinDistanceMi <= 0 {
		p.RelayMinDistanceMi = d.RelayMinDistanceMi
	}
	if p.RelayMinDurationHrs <= 0 {
		p.RelayMinDurationHrs = d.RelayMinDurationHrs
	}
	if p.Alpha == 0 && p.Beta == 0 && p.Gamma == 0 {
		p.Alpha, p.Beta, p.Gamma = d.Alpha, d.Beta, d.Gamma
	}
	if p.CostPerMile <= 0 {
		p.CostPerMile = d.CostPerMile
	}
	if p.CO2KgPerMile <= 0 {
		p.CO2KgPerMile = d.CO2KgPerMile
	}
	return p
}
