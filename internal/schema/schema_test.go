package schema

import "testing"

// registeredTypes are the artifact types rawSchemas declares; kept in a test
// rather than iterating the map directly so a broken registration shows up
// as a named test failure instead of a silent skip.
var registeredTypes = []string{
	"SessionRecording",
	"SignalSet",
	"CandidateSet",
	"AnalysisResult",
	"BaselineFingerprint",
	"MinimizationResult",
	"VerificationReport",
	"Recipe",
}

func TestHashForIsRegisteredForEveryArtifactType(t *testing.T) {
	for _, name := range registeredTypes {
		if h := HashFor(name); h == "" {
			t.Errorf("HashFor(%q) returned empty hash", name)
		}
	}
}

func TestHashForPanicsOnUnregisteredType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected HashFor to panic for an unregistered type")
		}
	}()
	HashFor("NotARealArtifactType")
}

// TestHashIsDeterministicAndInstanceIndependent covers the universal property
// that the computed schema hash for an artifact type depends only on its
// schema text, never on any particular instance value: calling HashFor
// repeatedly returns the same digest.
func TestHashIsDeterministicAndInstanceIndependent(t *testing.T) {
	for _, name := range registeredTypes {
		first := HashFor(name)
		for i := 0; i < 5; i++ {
			if got := HashFor(name); got != first {
				t.Errorf("HashFor(%q) not stable across calls: %q vs %q", name, got, first)
			}
		}
	}
}

func TestHashesAreDistinctAcrossTypes(t *testing.T) {
	seen := map[string]string{}
	for _, name := range registeredTypes {
		h := HashFor(name)
		if other, ok := seen[h]; ok {
			t.Errorf("HashFor(%q) collides with HashFor(%q): %q", name, other, h)
		}
		seen[h] = name
	}
}

func TestValidateRejectsUnknownTopLevelField(t *testing.T) {
	data := []byte(`{
		"task": "t", "result": "r",
		"requests": [], "responses": [], "navigation_urls": [],
		"start_time": 0, "end_time": 1, "schema_hash": "x",
		"unexpected_field": true
	}`)
	if err := Validate("SessionRecording", data); err == nil {
		t.Errorf("expected Validate to reject an unknown field")
	}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	data := []byte(`{
		"task": "t", "result": "r",
		"requests": [], "responses": [], "navigation_urls": [],
		"start_time": 0, "end_time": 1, "schema_hash": "x"
	}`)
	if err := Validate("SessionRecording", data); err != nil {
		t.Errorf("expected well-formed document to validate, got: %v", err)
	}
}

func TestValidateRejectsMissingRequiredField(t *testing.T) {
	data := []byte(`{"task": "t", "schema_hash": "x"}`)
	if err := Validate("SessionRecording", data); err == nil {
		t.Errorf("expected Validate to reject a document missing required fields")
	}
}

func TestValidateUnregisteredTypeIsAnError(t *testing.T) {
	if err := Validate("NotARealArtifactType", []byte(`{}`)); err == nil {
		t.Errorf("expected Validate to error for an unregistered artifact type")
	}
}
