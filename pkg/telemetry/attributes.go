package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard attribute keys used across spans.
const (
	// Job (§4.G)
	AttrJobID       = "job.id"
	AttrJobPriority = "job.priority"
	AttrJobTrigger  = "job.trigger"
	AttrJobStatus   = "job.status"

	// Optimization run (§4.D)
	AttrDriversConsidered = "optimization.drivers_considered"
	AttrLoadsConsidered   = "optimization.loads_considered"
	AttrMatchedPairs      = "optimization.matched_pairs"
	AttrTotalWeight       = "optimization.total_weight"

	// Relay plan (§4.E)
	AttrRelaySegments   = "relay.segment_count"
	AttrRelayEfficiency = "relay.efficiency_score"

	// Predictor (§4.B)
	AttrModelKind  = "predictor.model_kind"
	AttrCacheHit   = "predictor.cache_hit"
	AttrConfidence = "predictor.confidence"

	// Hub discovery (§4.C)
	AttrHubsFound       = "hub.discovered_count"
	AttrClusterEpsilon  = "hub.cluster_epsilon_miles"
	AttrClusterMinPoint = "hub.cluster_min_points"
)

// JobAttributes returns attributes describing an optimization job.
func JobAttributes(jobID, trigger string, priority int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrJobID, jobID),
		attribute.String(AttrJobTrigger, trigger),
		attribute.Int(AttrJobPriority, priority),
	}
}

// OptimizationAttributes returns attributes describing a network optimization run.
func OptimizationAttributes(driversConsidered, loadsConsidered, matchedPairs int, totalWeight float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrDriversConsidered, driversConsidered),
		attribute.Int(AttrLoadsConsidered, loadsConsidered),
		attribute.Int(AttrMatchedPairs, matchedPairs),
		attribute.Float64(AttrTotalWeight, totalWeight),
	}
}

// RelayAttributes returns attributes describing a generated relay plan.
func RelayAttributes(segments int, efficiency float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrRelaySegments, segments),
		attribute.Float64(AttrRelayEfficiency, efficiency),
	}
}

// PredictorAttributes returns attributes describing a predictor facade call.
func PredictorAttributes(modelKind string, cacheHit bool, confidence float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrModelKind, modelKind),
		attribute.Bool(AttrCacheHit, cacheHit),
		attribute.Float64(AttrConfidence, confidence),
	}
}

// HubDiscoveryAttributes returns attributes describing a DBSCAN clustering run.
func HubDiscoveryAttributes(hubsFound int, epsilon float64, minPoints int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrHubsFound, hubsFound),
		attribute.Float64(AttrClusterEpsilon, epsilon),
		attribute.Int(AttrClusterMinPoint, minPoints),
	}
}
