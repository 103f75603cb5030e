package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
)

// RoundCoordinate rounds a latitude or longitude to five decimal places
// (about 1.1m of precision) so that GPS jitter below that threshold does
// not fragment prediction and hub-lookup cache keys.
func RoundCoordinate(v float64) float64 {
	const precision = 1e5
	return math.Round(v*precision) / precision
}

// CanonicalKey joins parts into a deterministic, colon-delimited cache key.
func CanonicalKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// HashFloats produces a stable hash for a set of numeric inputs (positions,
// weights, thresholds) used to derive predictor and hub cache keys. Inputs
// are formatted with fixed precision so that floating point noise does not
// change the resulting key.
func HashFloats(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return ShortHash([]byte(strings.Join(parts, ",")))
}

// HashStrings produces a stable hash for a sorted set of string inputs
// (region codes, lane identifiers) used to derive demand prediction cache keys.
func HashStrings(vals ...string) string {
	sorted := append([]string(nil), vals...)
	sort.Strings(sorted)
	return ShortHash([]byte(strings.Join(sorted, ",")))
}

// QuickHash returns a full-length sha256 hex digest of data.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash returns a truncated (16 character) sha256 hex digest of data,
// suitable for cache keys where collision risk is acceptable.
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
