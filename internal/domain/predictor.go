package domain

import "time"

// ModelKind enumerates the five trained models the predictor façade fronts.
type ModelKind string

const (
	ModelDemand          ModelKind = "DEMAND"
	ModelSupply          ModelKind = "SUPPLY"
	ModelDriverBehavior  ModelKind = "DRIVER_BEHAVIOR"
	ModelPrice           ModelKind = "PRICE"
	ModelNetworkEfficiency ModelKind = "NETWORK_EFFICIENCY"
)

// PredictInput is the tagged union of per-model inputs. Exactly the field
// matching Kind is populated; spec §9 requires this re-architecting of the
// source's dynamic options bag into statically typed variants.
type PredictInput struct {
	Kind ModelKind

	Demand          *DemandInput
	Supply          *SupplyInput
	DriverBehavior  *DriverBehaviorInput
	Price           *PriceInput
	NetworkEfficiency *NetworkEfficiencyInput
}

// DemandInput requests a demand forecast for a region or a point.
type DemandInput struct {
	Region   string
	Location *Position
	RadiusMi float64
	AsOf     time.Time
	Horizon  string
}

// SupplyInput requests a supply (available-driver) forecast for a region.
type SupplyInput struct {
	Region string
	AsOf   time.Time
}

// DriverBehaviorInput requests a behavior prediction for a specific driver.
type DriverBehaviorInput struct {
	DriverID string
	AsOf     time.Time
}

// PriceInput requests a rate prediction for a lane.
type PriceInput struct {
	OriginRegion      string
	DestinationRegion string
	EquipmentType     EquipmentType
	AsOf              time.Time
}

// NetworkEfficiencyInput requests a network-wide efficiency projection.
type NetworkEfficiencyInput struct {
	Region string
	AsOf   time.Time
}

// PredictOutput is the tagged union of per-model outputs, always carrying a
// confidence score the façade computes per spec §4.B step 4.
type PredictOutput struct {
	Kind             ModelKind
	ConfidenceScore  float64

	Demand          *DemandOutput
	Supply          *SupplyOutput
	DriverBehavior  *DriverBehaviorOutput
	Price           *PriceOutput
	NetworkEfficiency *NetworkEfficiencyOutput
}

// DemandOutput is the demand model's prediction.
type DemandOutput struct {
	PredictedVolume float64
	TrendDirection  string // increasing, stable, decreasing
}

// SupplyOutput is the supply model's prediction.
type SupplyOutput struct {
	AvailableDrivers int
	UtilizationRate  float64
}

// DriverBehaviorOutput is the driver-behavior model's prediction.
type DriverBehaviorOutput struct {
	LikelyAcceptRate   float64
	PreferredLaneBias  float64
}

// PriceOutput is the pricing model's prediction, including the probability
// band the façade's heuristic confidence scorer consumes (spec §4.B: price
// confidence derives from range width / base rate).
type PriceOutput struct {
	BaseRateUSD float64
	LowUSD      float64
	HighUSD     float64
}

// NetworkEfficiencyOutput is the network-efficiency model's projection.
type NetworkEfficiencyOutput struct {
	ProjectedEfficiencyScore float64
	ProbabilityVector        []float64
}
