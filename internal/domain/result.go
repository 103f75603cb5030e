package domain

// LoadMatch is one (driver, load) assignment produced by the network
// optimizer, with its compatibility breakdown (spec §4.D).
type LoadMatch struct {
	DriverID string
	LoadID   string

	Score               float64
	EmptyMilesSaved     float64
	NetworkContribution float64
	EstimatedEarnings   float64

	// CompatibilityBreakdown maps factor name (empty, network, pref, hos) to
	// its contribution to Score.
	CompatibilityBreakdown map[string]float64
}

// HubRecommendation is a scored candidate hub produced by the selector,
// either a newly discovered location or an existing hub re-scored against
// current network state.
type HubRecommendation struct {
	HubID          string
	Name           string
	Location       Position
	Score          float64
	IsNewDiscovery bool
	ClusterSize    int
	ClusterDensity float64
}

// DemandForecast is one predicted demand point from the demand predictor.
type DemandForecast struct {
	Region          string
	Location        *Position
	PredictedVolume float64
	Confidence      float64
	Horizon         string // e.g. "24h", "7d"
}

// NetworkMetricsSummary aggregates the outcome of a network optimization run.
type NetworkMetricsSummary struct {
	TotalLoads      int
	MatchedLoads    int
	TotalDrivers    int
	MatchedDrivers  int
	TotalMiles      float64
	LoadedMiles     float64
	EmptyMiles      float64
	EmptyMilesPct   float64
	EfficiencyScore float64
}

// OptimizationResult is the write-once artifact of a completed job.
type OptimizationResult struct {
	ID    string
	JobID string
	Kind  JobKind

	LoadMatches         []LoadMatch
	HubRecommendations  []HubRecommendation
	RelayPlans          []RelayPlan
	DemandForecasts     []DemandForecast
	NetworkMetrics      NetworkMetricsSummary
}
