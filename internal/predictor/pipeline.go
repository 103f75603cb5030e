package predictor

import (
	"strings"

	"freightengine/internal/domain"
)

// preprocess applies model-specific input reshaping before the underlying
// model call. Most kinds pass through unchanged; price requests are
// normalized to a canonical equipment tag so the model's lane cache keys
// stay stable regardless of caller casing.
func preprocess(input domain.PredictInput) domain.PredictInput {
	if input.Kind == domain.ModelPrice && input.Price != nil {
		normalized := *input.Price
		normalized.EquipmentType = domain.EquipmentType(strings.ToUpper(string(normalized.EquipmentType)))
		input.Price = &normalized
	}
	return input
}

// postprocess extracts and coerces the model's raw output into the output
// contract. With typed PredictOutput variants already enforced by the
// Model interface, this stage mainly clamps values into their documented
// ranges so a misbehaving model can't violate the façade's contract.
func postprocess(out domain.PredictOutput) domain.PredictOutput {
	switch out.Kind {
	case domain.ModelSupply:
		if out.Supply != nil {
			out.Supply.UtilizationRate = clamp01(out.Supply.UtilizationRate)
		}
	case domain.ModelNetworkEfficiency:
		if out.NetworkEfficiency != nil {
			if out.NetworkEfficiency.ProjectedEfficiencyScore < 0 {
				out.NetworkEfficiency.ProjectedEfficiencyScore = 0
			}
			if out.NetworkEfficiency.ProjectedEfficiencyScore > 100 {
				out.NetworkEfficiency.ProjectedEfficiencyScore = 100
			}
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
