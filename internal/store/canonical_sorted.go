package store

import "encoding/json"

// canonicalSorted marshals v with object keys in sorted order (the guarantee
// encoding/json already gives map[string]any, which this routes through) and
// a single trailing newline, matching the on-disk artifact layout contract.
func canonicalSorted(v any) ([]byte, error) {
	raw, err := CanonicalJSON(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	sorted, err := CanonicalJSON(generic)
	if err != nil {
		return nil, err
	}
	return append(sorted, '\n'), nil
}
