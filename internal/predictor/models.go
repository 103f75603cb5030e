package predictor

import (
	"context"

	"freightengine/internal/domain"
)

// BaselineModels is the engine's default, in-process set of predictor
// Models: deterministic heuristics standing in for the trained models spec
// §4.B fronts. Real model serving (ONNX/TF runtime, a model registry) is an
// external dependency the façade is built to accept but that this module
// does not itself train or host; see DESIGN.md's Open Question resolution.

// demandModel projects demand from a flat seasonal baseline.
type demandModel struct{ baselineVolume float64 }

func NewDemandModel(baselineVolume float64) Model { return &demandModel{baselineVolume: baselineVolume} }

func (m *demandModel) Kind() domain.ModelKind { return domain.ModelDemand }
func (m *demandModel) Version() string        { return "baseline-v1" }

func (m *demandModel) Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error) {
	return domain.PredictOutput{
		Kind:   domain.ModelDemand,
		Demand: &domain.DemandOutput{PredictedVolume: m.baselineVolume, TrendDirection: "stable"},
	}, nil
}

// supplyModel projects available-driver counts from a flat baseline.
type supplyModel struct{ baselineDrivers int }

func NewSupplyModel(baselineDrivers int) Model { return &supplyModel{baselineDrivers: baselineDrivers} }

func (m *supplyModel) Kind() domain.ModelKind { return domain.ModelSupply }
func (m *supplyModel) Version() string        { return "baseline-v1" }

func (m *supplyModel) Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error) {
	return domain.PredictOutput{
		Kind:   domain.ModelSupply,
		Supply: &domain.SupplyOutput{AvailableDrivers: m.baselineDrivers, UtilizationRate: 0.6},
	}, nil
}

// driverBehaviorModel assumes a flat load-acceptance rate.
type driverBehaviorModel struct{ acceptRate float64 }

func NewDriverBehaviorModel(acceptRate float64) Model {
	return &driverBehaviorModel{acceptRate: acceptRate}
}

func (m *driverBehaviorModel) Kind() domain.ModelKind { return domain.ModelDriverBehavior }
func (m *driverBehaviorModel) Version() string        { return "baseline-v1" }

func (m *driverBehaviorModel) Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error) {
	return domain.PredictOutput{
		Kind:           domain.ModelDriverBehavior,
		DriverBehavior: &domain.DriverBehaviorOutput{LikelyAcceptRate: m.acceptRate, PreferredLaneBias: 0.5},
	}, nil
}

// priceModel quotes a flat base rate with a fixed spread band.
type priceModel struct{ baseRateUSD, spreadFraction float64 }

func NewPriceModel(baseRateUSD, spreadFraction float64) Model {
	return &priceModel{baseRateUSD: baseRateUSD, spreadFraction: spreadFraction}
}

func (m *priceModel) Kind() domain.ModelKind { return domain.ModelPrice }
func (m *priceModel) Version() string        { return "baseline-v1" }

func (m *priceModel) Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error) {
	spread := m.baseRateUSD * m.spreadFraction
	return domain.PredictOutput{
		Kind: domain.ModelPrice,
		Price: &domain.PriceOutput{
			BaseRateUSD: m.baseRateUSD,
			LowUSD:      m.baseRateUSD - spread,
			HighUSD:     m.baseRateUSD + spread,
		},
	}, nil
}

// networkEfficiencyModel projects a flat efficiency score.
type networkEfficiencyModel struct{ score float64 }

func NewNetworkEfficiencyModel(score float64) Model { return &networkEfficiencyModel{score: score} }

func (m *networkEfficiencyModel) Kind() domain.ModelKind { return domain.ModelNetworkEfficiency }
func (m *networkEfficiencyModel) Version() string        { return "baseline-v1" }

func (m *networkEfficiencyModel) Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error) {
	return domain.PredictOutput{
		Kind: domain.ModelNetworkEfficiency,
		NetworkEfficiency: &domain.NetworkEfficiencyOutput{
			ProjectedEfficiencyScore: m.score,
			ProbabilityVector:        []float64{m.score, 1 - m.score},
		},
	}, nil
}
