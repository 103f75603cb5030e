package domain

import "time"

// RelayPlanStatus is the lifecycle state of a relay plan.
type RelayPlanStatus string

const (
	RelayProposed RelayPlanStatus = "PROPOSED"
	RelayAccepted RelayPlanStatus = "ACCEPTED"
	RelayInProgress RelayPlanStatus = "IN_PROGRESS"
	RelayCompleted  RelayPlanStatus = "COMPLETED"
	RelayAborted    RelayPlanStatus = "ABORTED"
)

// SegmentStatus is the lifecycle state of one relay segment.
type SegmentStatus string

const (
	SegmentPlanned    SegmentStatus = "PLANNED"
	SegmentInProgress SegmentStatus = "IN_PROGRESS"
	SegmentCompleted  SegmentStatus = "COMPLETED"
)

// RelaySegment is one driver-sized leg of a relay haul.
type RelaySegment struct {
	StartLocation Position
	EndLocation   Position

	EstimatedDistanceMiles float64
	EstimatedDuration      time.Duration

	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time

	DriverID string
	Status   SegmentStatus
}

// HandoffStatus is the lifecycle state of one relay handoff.
type HandoffStatus string

const (
	HandoffScheduled HandoffStatus = "SCHEDULED"
	HandoffCompleted HandoffStatus = "COMPLETED"
	HandoffMissed    HandoffStatus = "MISSED"
)

// HubSnapshot freezes the {id, name, location} of a hub at plan-creation
// time, per spec §9's guidance against embedding full hub records.
type HubSnapshot struct {
	HubID    string
	Name     string
	Location Position
}

// RelayHandoff is the exchange event between two consecutive segments.
type RelayHandoff struct {
	Hub HubSnapshot

	ScheduledTime time.Time
	ActualTime    *time.Time

	OutgoingDriverID string
	IncomingDriverID string

	Status HandoffStatus
}

// RelayEfficiency holds the comparison metrics of a relay plan against a
// direct haul (spec §4.E step 7).
type RelayEfficiency struct {
	EmptyMilesReductionPct     float64
	DriverHomeTimeImprovement  float64 // minutes, positive is an improvement
	CostSavingsUSD             float64
	CO2ReductionKg             float64
	TotalDistanceMiles         float64
	DirectHaulDistanceMiles    float64
	OverallScore               float64 // [0,100]
}

// RelayPlan splits one long load across multiple drivers with coordinated
// hub handoffs. Invariant: len(Handoffs) == len(Segments)-1, and
// Handoffs[i].Hub == Segments[i].EndLocation == Segments[i+1].StartLocation.
type RelayPlan struct {
	ID     string
	LoadID string
	Status RelayPlanStatus

	Segments []RelaySegment
	Handoffs []RelayHandoff

	Efficiency RelayEfficiency
}
