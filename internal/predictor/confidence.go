package predictor

import "freightengine/internal/domain"

// confidenceFor computes a [0,1] confidence score per spec §4.B step 4:
// (a) a model-provided score when the model already set one, (b) derived
// from a probability vector when present, or (c) a kind-specific
// heuristic — here the price model's range-width-over-base-rate.
func confidenceFor(out domain.PredictOutput) float64 {
	if out.ConfidenceScore > 0 {
		return clamp01(out.ConfidenceScore)
	}

	if out.NetworkEfficiency != nil && len(out.NetworkEfficiency.ProbabilityVector) > 0 {
		return clamp01(maxOf(out.NetworkEfficiency.ProbabilityVector))
	}

	if out.Price != nil && out.Price.BaseRateUSD > 0 {
		width := out.Price.HighUSD - out.Price.LowUSD
		if width < 0 {
			width = 0
		}
		return clamp01(1 - width/out.Price.BaseRateUSD)
	}

	// No model-provided signal at all; treat as moderate confidence rather
	// than zero so callers don't reflexively discard every cold-start result.
	return 0.5
}

func maxOf(vals []float64) float64 {
	max := vals[0]
	for _, v := range vals[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
