package relay

import (
	"context"
	"time"

	"freightengine/internal/domain"
	"freightengine/internal/geo"
	"freightengine/internal/hub"
	"freightengine/pkg/apperror"
)

// Planner plans relay hauls for long loads against the hub catalogue.
type Planner struct {
	hubs hub.Repository
}

// NewPlanner constructs a Planner backed by the given hub repository.
func NewPlanner(hubs hub.Repository) *Planner {
	return &Planner{hubs: hubs}
}

// Plan executes spec §4.E end to end: eligibility, corridor hub selection,
// segmentation, driver assignment, handoff scheduling, validation, and
// efficiency scoring. now anchors the plan's start time.
func (pl *Planner) Plan(ctx context.Context, load domain.Load, drivers []domain.Driver, params Params, now time.Time) (domain.RelayPlan, error) {
	params = params.withDefaults()

	o := toPoint(load.PickupLocation)
	d := toPoint(load.DeliveryLocation)

	routeMiles, _, err := checkEligibility(o, d, params)
	if err != nil {
		return domain.RelayPlan{}, err
	}

	corridorCandidates, err := selectCorridorHubs(ctx, pl.hubs, o, d, routeMiles)
	if err != nil {
		return domain.RelayPlan{}, err
	}

	boundaries := waypoints(corridorCandidates, routeMiles, params.MaxSegments, params.MaxSegmentDistanceMi)
	specs := buildSegmentSpecs(o, d, boundaries, params)

	for _, s := range specs {
		if s.DistanceMiles > params.MaxSegmentDistanceMi {
			return domain.RelayPlan{}, apperror.ErrSolverInfeasible
		}
	}

	assignedDrivers := assignDrivers(specs, drivers, params)
	for _, d := range assignedDrivers {
		if d.ID == "" {
			return domain.RelayPlan{}, apperror.ErrSolverInfeasible
		}
	}

	segments, handoffs, err := scheduleSegments(specs, boundaries, assignedDrivers, load, now)
	if err != nil {
		return domain.RelayPlan{}, err
	}

	if err := validatePlan(segments, handoffs, load); err != nil {
		return domain.RelayPlan{}, err
	}

	efficiency := computeEfficiency(segments, routeMiles, assignedDrivers, params)

	return domain.RelayPlan{
		LoadID:     load.ID,
		Status:     domain.RelayProposed,
		Segments:   segments,
		Handoffs:   handoffs,
		Efficiency: efficiency,
	}, nil
}

// scheduleSegments walks the segment chain in order, assigning planned
// start/end times and, between consecutive segments, a handoff window
// (spec §4.E step 5).
func scheduleSegments(specs []segmentSpec, boundaries []corridorHub, drivers []domain.Driver, load domain.Load, now time.Time) ([]domain.RelaySegment, []domain.RelayHandoff, error) {
	start := load.PickupWindow.Earliest
	if start.IsZero() {
		start = now
	}

	segments := make([]domain.RelaySegment, len(specs))
	cursor := start
	for i, s := range specs {
		end := cursor.Add(s.Duration)
		segments[i] = domain.RelaySegment{
			StartLocation:          domain.Position{Lat: s.Start.Lat, Lon: s.Start.Lon},
			EndLocation:            domain.Position{Lat: s.End.Lat, Lon: s.End.Lon},
			EstimatedDistanceMiles: s.DistanceMiles,
			EstimatedDuration:      s.Duration,
			PlannedStart:           cursor,
			PlannedEnd:             end,
			DriverID:               drivers[i].ID,
			Status:                 domain.SegmentPlanned,
		}
		cursor = end
	}

	handoffs := make([]domain.RelayHandoff, 0, len(segments)-1)
	deliveryLatest := load.DeliveryWindow.Latest
	if deliveryLatest.IsZero() {
		deliveryLatest = segments[len(segments)-1].PlannedEnd.Add(24 * time.Hour)
	}

	for i := 0; i < len(segments)-1; i++ {
		remaining := segments[len(segments)-1].PlannedEnd.Sub(segments[i+1].PlannedStart)
		win, err := computeHandoffWindow(segments[i].PlannedEnd, segments[i].PlannedEnd, deliveryLatest, remaining)
		if err != nil {
			return nil, nil, err
		}

		bh := boundaries[i].Hub
		handoffs = append(handoffs, domain.RelayHandoff{
			Hub: domain.HubSnapshot{
				HubID:    bh.ID,
				Name:     bh.Name,
				Location: bh.Location,
			},
			ScheduledTime:    win.Earliest,
			OutgoingDriverID: segments[i].DriverID,
			IncomingDriverID: segments[i+1].DriverID,
			Status:           domain.HandoffScheduled,
		})
	}

	return segments, handoffs, nil
}

// validatePlan applies spec §4.E step 6: reject plans whose timing breaches
// HOS headroom (already filtered during assignment), the handoff
// invariants, or the load's own windows.
func validatePlan(segments []domain.RelaySegment, handoffs []domain.RelayHandoff, load domain.Load) error {
	if len(handoffs) != len(segments)-1 {
		return apperror.ErrSolverInfeasible
	}
	for i, h := range handoffs {
		if h.Hub.Location != segments[i].EndLocation || h.Hub.Location != segments[i+1].StartLocation {
			return apperror.ErrSolverInfeasible
		}
	}
	for i := 0; i < len(segments); i++ {
		if !segments[i].PlannedEnd.After(segments[i].PlannedStart) {
			return apperror.ErrSolverInfeasible
		}
		if i > 0 && segments[i].PlannedStart.Before(segments[i-1].PlannedEnd) {
			return apperror.ErrSolverInfeasible
		}
	}
	if !load.DeliveryWindow.Latest.IsZero() && segments[len(segments)-1].PlannedEnd.After(load.DeliveryWindow.Latest) {
		return apperror.ErrSolverInfeasible
	}
	return nil
}

// computeEfficiency implements spec §4.E step 7.
func computeEfficiency(segments []domain.RelaySegment, directHaulMiles float64, drivers []domain.Driver, params Params) domain.RelayEfficiency {
	var totalMiles float64
	for _, s := range segments {
		totalMiles += s.EstimatedDistanceMiles
	}

	emptyReduction := 0.0
	if directHaulMiles > 0 {
		emptyReduction = (directHaulMiles - totalMiles) / directHaulMiles * 100
	}

	var homeTimeImprovement float64
	for i, s := range segments {
		home := geo.Point{Lat: drivers[i].HomeBase.Lat, Lon: drivers[i].HomeBase.Lon}
		current := geo.Point{Lat: drivers[i].CurrentPosition.Lat, Lon: drivers[i].CurrentPosition.Lon}
		end := geo.Point{Lat: s.EndLocation.Lat, Lon: s.EndLocation.Lon}
		homeTimeImprovement += (geo.Distance(current, home, geo.Miles) - geo.Distance(end, home, geo.Miles)) / params.SegmentSpeedMph * 60
	}

	costSavings := (directHaulMiles - totalMiles) * params.CostPerMile
	co2Reduction := (directHaulMiles - totalMiles) * params.CO2KgPerMile

	overall := emptyReduction*0.4 + clampRatio(homeTimeImprovement/480)*100*0.3 + clampRatio(costSavings/500)*100*0.3
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	return domain.RelayEfficiency{
		EmptyMilesReductionPct:    emptyReduction,
		DriverHomeTimeImprovement: homeTimeImprovement,
		CostSavingsUSD:            costSavings,
		CO2ReductionKg:            co2Reduction,
		TotalDistanceMiles:        totalMiles,
		DirectHaulDistanceMiles:   directHaulMiles,
		OverallScore:              overall,
	}
}
