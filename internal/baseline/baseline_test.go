package baseline

import (
	"testing"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

func analysisWithExtractPath(path *string) model.AnalysisResult {
	return model.AnalysisResult{
		RequestSpec: &model.RecipeRequestSpec{
			URL:          "https://api.example.com/search",
			Method:       "GET",
			ResponseType: model.ResponseTypeJSON,
			ExtractPath:  path,
		},
	}
}

func TestCapture_FingerprintsFullBodyWithoutExtractPath(t *testing.T) {
	analysis := analysisWithExtractPath(nil)
	body := []byte(`{"results": [{"id": 1, "name": "a"}], "total": 1}`)

	result, validation := Capture(analysis, body)
	if !validation.OK {
		t.Fatalf("expected ok validation, got %+v", validation.Errors)
	}
	if result.SampleCount != 1 {
		t.Fatalf("expected sample_count 1, got %d", result.SampleCount)
	}
	if len(result.Entries) == 0 {
		t.Fatalf("expected non-empty fingerprint entries")
	}
}

func TestCapture_UsesExtractPathWhenItMatches(t *testing.T) {
	path := "results"
	analysis := analysisWithExtractPath(&path)
	body := []byte(`{"results": [{"id": 1}], "meta": {"irrelevant": true}}`)

	result, validation := Capture(analysis, body)
	if !validation.OK {
		t.Fatalf("expected ok validation")
	}
	for _, e := range result.Entries {
		for _, seg := range e.Path {
			if seg == "meta" || seg == "irrelevant" {
				t.Fatalf("expected extraction to exclude meta, got entry %+v", e)
			}
		}
	}
}

func TestCapture_FallsBackToFullBodyOnBadExtractPath(t *testing.T) {
	path := "results["
	analysis := analysisWithExtractPath(&path)
	body := []byte(`{"results": [{"id": 1}]}`)

	result, validation := Capture(analysis, body)
	if !validation.OK {
		t.Fatalf("expected ok validation even when extract_path fails to compile")
	}
	if len(result.Notes) == 0 {
		t.Fatalf("expected a note explaining the extract_path fallback")
	}
}

func TestCapture_RejectsMissingRequestSpec(t *testing.T) {
	_, validation := Capture(model.AnalysisResult{}, []byte(`{}`))
	if validation.OK {
		t.Fatalf("expected validation failure for a missing request spec")
	}
}

func TestCapture_RejectsNonJSONBody(t *testing.T) {
	analysis := analysisWithExtractPath(nil)
	_, validation := Capture(analysis, []byte(`not json`))
	if validation.OK {
		t.Fatalf("expected validation failure for a non-JSON body")
	}
}
