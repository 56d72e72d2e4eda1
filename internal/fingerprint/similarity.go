package fingerprint

import (
	"fmt"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

// DefaultSimilarityThreshold is the "same-shape" cutoff used by minimization
// and verification.
const DefaultSimilarityThreshold = 0.85

func entryKey(e model.FingerprintEntry) string {
	return fmt.Sprintf("%v|%s", e.Path, e.ValueType)
}

// Similarity returns the Jaccard similarity between two fingerprints. Two
// empty fingerprints are defined as similar (1.0).
func Similarity(a, b []model.FingerprintEntry) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for k := range setA {
		if setB[k] {
			intersection++
		}
	}
	union := len(setA)
	for k := range setB {
		if !setA[k] {
			union++
		}
	}
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func toSet(entries []model.FingerprintEntry) map[string]bool {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		set[entryKey(e)] = true
	}
	return set
}
