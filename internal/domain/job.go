package domain

import "time"

// JobKind is the algorithm a job routes to.
type JobKind string

const (
	JobLoadMatching          JobKind = "LOAD_MATCHING"
	JobSmartHubIdentification JobKind = "SMART_HUB_IDENTIFICATION"
	JobRelayPlanning         JobKind = "RELAY_PLANNING"
	JobNetworkOptimization   JobKind = "NETWORK_OPTIMIZATION"
	JobDemandPrediction      JobKind = "DEMAND_PREDICTION"
)

// JobStatus is the lifecycle state of an optimization job.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
	JobCancelled  JobStatus = "CANCELLED"
)

// FactorWeights are the per-factor weights of the matching/relay objective
// functions (spec §4.D, §4.E); zero-valued fields fall back to the
// component's documented defaults.
type FactorWeights struct {
	Empty   float64
	Network float64
	Pref    float64
	HOS     float64
}

// JobParameters carries the job's scope: region, time window, constraints,
// weights, and an iteration cap the algorithm must respect.
type JobParameters struct {
	Region      string
	Window      TimeWindow
	Constraints []OptimizationConstraint
	Weights     FactorWeights
	MaxIterations int

	// LoadID is set for job kinds that operate on a single load (relay
	// planning); DriverPoolIDs optionally restricts the candidate pool.
	LoadID        string
	DriverPoolIDs []string
}

// JobError captures a failed job's classified error.
type JobError struct {
	Message string
	Stack   string
}

// OptimizationJob is a durable unit of scheduled algorithmic work.
type OptimizationJob struct {
	ID         string
	Kind       JobKind
	Parameters JobParameters
	Priority   int // [1,10], higher preferred
	Status     JobStatus
	Progress   int // [0,100]

	ResultID string
	Error    *JobError

	CreatedBy string

	CreatedAt         time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
	LastProgressAt    time.Time
	ProcessingTimeMs  int64
}

// IsTerminal reports whether the job has reached a terminal status.
func (j OptimizationJob) IsTerminal() bool {
	switch j.Status {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	default:
		return false
	}
}
