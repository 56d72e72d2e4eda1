// Package fingerprint computes the structural JSON fingerprint (a typed
// path set) used to compare response shapes, and the Jaccard similarity
// between two fingerprints.
package fingerprint

import (
	"fmt"
	"sort"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

const defaultMaxDepth = 6

// Fingerprint builds the set of (path, value-type) pairs describing the
// shape of v. Arrays collapse to a single wildcard "[]" path segment, so the
// result is insensitive to array length and element order. maxDepth <= 0
// uses the default of 6.
func Fingerprint(v any, maxDepth int) ([]model.FingerprintEntry, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	set := map[string]model.FingerprintEntry{}
	if err := walk(v, nil, 0, maxDepth, set); err != nil {
		return nil, err
	}
	return sortedEntries(set), nil
}

func walk(v any, path []string, depth, maxDepth int, out map[string]model.FingerprintEntry) error {
	if depth > maxDepth {
		return nil
	}
	vt, err := valueType(v)
	if err != nil {
		return err
	}
	addEntry(out, path, vt)

	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if err := walk(child, append(append([]string(nil), path...), k), depth+1, maxDepth, out); err != nil {
				return err
			}
		}
	case []any:
		for _, elem := range t {
			if err := walk(elem, append(append([]string(nil), path...), "[]"), depth+1, maxDepth, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func addEntry(out map[string]model.FingerprintEntry, path []string, vt model.JsonValueType) {
	key := fmt.Sprintf("%v|%s", path, vt)
	out[key] = model.FingerprintEntry{Path: append([]string(nil), path...), ValueType: vt}
}

func valueType(v any) (model.JsonValueType, error) {
	switch v.(type) {
	case nil:
		return model.TypeNull, nil
	case bool:
		return model.TypeBoolean, nil
	case float64, int, int64:
		return model.TypeNumber, nil
	case string:
		return model.TypeString, nil
	case map[string]any:
		return model.TypeObject, nil
	case []any:
		return model.TypeArray, nil
	default:
		return "", fmt.Errorf("fingerprint: unsupported value type %T", v)
	}
}

func sortedEntries(set map[string]model.FingerprintEntry) []model.FingerprintEntry {
	out := make([]model.FingerprintEntry, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Path) != len(out[j].Path) {
			return len(out[i].Path) < len(out[j].Path)
		}
		for k := range out[i].Path {
			if out[i].Path[k] != out[j].Path[k] {
				return out[i].Path[k] < out[j].Path[k]
			}
		}
		return out[i].ValueType < out[j].ValueType
	})
	return out
}
