package fingerprint_test

import (
	"encoding/json"
	"testing"

	"github.com/marcohefti/moneyrecipe/internal/fingerprint"
)

func parse(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("json.Unmarshal(%q): %v", s, err)
	}
	return v
}

func TestFingerprint_StableUnderKeyShuffle(t *testing.T) {
	a, err := fingerprint.Fingerprint(parse(t, `{"a":1,"b":"x"}`), 0)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	b, err := fingerprint.Fingerprint(parse(t, `{"b":"x","a":1}`), 0)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fingerprint.Similarity(a, b) != 1.0 {
		t.Fatalf("expected key-order-shuffled objects to fingerprint identically")
	}
}

func TestFingerprint_ArrayLengthInsensitive(t *testing.T) {
	one, err := fingerprint.Fingerprint(parse(t, `[{"id":1}]`), 0)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	many, err := fingerprint.Fingerprint(parse(t, `[{"id":1},{"id":2},{"id":3}]`), 0)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fingerprint.Similarity(one, many) != 1.0 {
		t.Fatalf("expected array-length-insensitive fingerprints to match")
	}
}

func TestSimilarity_Reflexive(t *testing.T) {
	v, err := fingerprint.Fingerprint(parse(t, `{"data":{"items":[1,2,3]},"ok":true}`), 0)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if got := fingerprint.Similarity(v, v); got != 1.0 {
		t.Fatalf("expected reflexive similarity 1.0, got %v", got)
	}
}

func TestSimilarity_EmptySetsAreSimilar(t *testing.T) {
	if got := fingerprint.Similarity(nil, nil); got != 1.0 {
		t.Fatalf("expected two empty fingerprints to be similar, got %v", got)
	}
}

func TestFingerprint_RejectsUnsupportedType(t *testing.T) {
	if _, err := fingerprint.Fingerprint(make(chan int), 0); err == nil {
		t.Fatalf("expected an error for an unsupported value type")
	}
}
