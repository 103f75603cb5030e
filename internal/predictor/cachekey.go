package predictor

import (
	"encoding/json"

	"freightengine/internal/domain"
	"freightengine/pkg/cache"
)

// cacheKeyInput is (kind, model_version, normalized_input) from spec §4.B
// step 2, serialized together so the resulting hash changes whenever any
// of the three changes.
type cacheKeyInput struct {
	Kind    domain.ModelKind
	Version string
	Input   domain.PredictInput
}

// cacheKeyFor derives the predictor cache key from the normalized input
// JSON. time.Time fields marshal to RFC3339Nano by Go's encoding/json,
// which satisfies the canonical ISO-8601 requirement.
func cacheKeyFor(key cacheKeyInput) (string, error) {
	normalized, err := json.Marshal(key)
	if err != nil {
		return "", err
	}
	return cache.ShortHash(normalized), nil
}
