package verify

import (
	"testing"

	"github.com/marcohefti/moneyrecipe/internal/fingerprint"
	"github.com/marcohefti/moneyrecipe/internal/minimize"
	"github.com/marcohefti/moneyrecipe/internal/model"
)

func testMinimization(t *testing.T, spec model.RecipeRequestSpec) model.MinimizationResult {
	t.Helper()
	entries, err := fingerprint.Fingerprint(map[string]any{"id": 1.0, "name": "a"}, 6)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	baseline := model.BaselineFingerprint{MaxDepth: 6, Entries: entries, SampleCount: 1}
	return model.MinimizationResult{Baseline: baseline, Original: spec, Minimized: spec}
}

func fastBudget() minimize.Budget {
	return minimize.Budget{MaxAttempts: 24, MaxWallSeconds: 30, Pacing: 0}
}

// TestVerify_NonParameterizedPassesOnTwoConsecutiveSuccesses implements
// scenario E.
func TestVerify_NonParameterizedPassesOnTwoConsecutiveSuccesses(t *testing.T) {
	spec := model.RecipeRequestSpec{
		URL:          "https://api.example.com/widgets",
		Method:       "GET",
		ResponseType: model.ResponseTypeJSON,
	}
	minimization := testMinimization(t, spec)

	calls := 0
	replay := func(model.RecipeRequestSpec) minimize.ReplayOutcome {
		calls++
		return minimize.ReplayOutcome{HTTPStatus: 200, BodyText: `{"id": 1, "name": "a"}`}
	}

	report := Verify(minimization, nil, replay, fastBudget(), 2)

	if report.Status != model.StatusPassed {
		t.Fatalf("expected status passed, got %s (notes=%v)", report.Status, report.Notes)
	}
	if len(report.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(report.Attempts))
	}
	for i, a := range report.Attempts {
		if !a.OK {
			t.Fatalf("attempt %d: expected ok=true, got false (error=%v)", i, a.Error)
		}
	}
	if calls != 2 {
		t.Fatalf("expected replayer invoked exactly twice, got %d", calls)
	}
}

func TestVerify_NonParameterizedFailsOnNonSuccessStatus(t *testing.T) {
	spec := model.RecipeRequestSpec{
		URL:          "https://api.example.com/widgets",
		Method:       "GET",
		ResponseType: model.ResponseTypeJSON,
	}
	minimization := testMinimization(t, spec)

	replay := func(model.RecipeRequestSpec) minimize.ReplayOutcome {
		return minimize.ReplayOutcome{HTTPStatus: 500, BodyText: "boom"}
	}

	report := Verify(minimization, nil, replay, fastBudget(), 2)

	if report.Status != model.StatusFailed {
		t.Fatalf("expected status failed, got %s", report.Status)
	}
	if len(report.Attempts) != 1 {
		t.Fatalf("expected verification to stop after the first failed attempt, got %d attempts", len(report.Attempts))
	}
}

// TestVerify_ParameterizedNeedsSecondDistinctExample implements scenario F.
func TestVerify_ParameterizedNeedsSecondDistinctExample(t *testing.T) {
	spec := model.RecipeRequestSpec{
		URL:          "https://api.example.com/widgets/{id}",
		Method:       "GET",
		ResponseType: model.ResponseTypeJSON,
	}
	minimization := testMinimization(t, spec)

	replay := func(model.RecipeRequestSpec) minimize.ReplayOutcome {
		return minimize.ReplayOutcome{HTTPStatus: 200, BodyText: `{"id": 1, "name": "a"}`}
	}

	oneSet := []map[string]string{{"id": "1"}}
	report := Verify(minimization, oneSet, replay, fastBudget(), 2)

	if report.Status != model.StatusPartial {
		t.Fatalf("expected status partial with a single concrete parameter set, got %s", report.Status)
	}
	if len(report.Attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(report.Attempts))
	}
	foundCode := false
	for _, n := range report.Notes {
		if n == "error_code="+errCodeNeedsSecondExample {
			foundCode = true
		}
	}
	if !foundCode {
		t.Fatalf("expected notes to carry %s, got %v", errCodeNeedsSecondExample, report.Notes)
	}

	twoSets := []map[string]string{{"id": "1"}, {"id": "2"}}
	report2 := Verify(minimization, twoSets, replay, fastBudget(), 2)

	if report2.Status != model.StatusPassed {
		t.Fatalf("expected status passed with two distinct concrete parameter sets, got %s", report2.Status)
	}
	if len(report2.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(report2.Attempts))
	}
}

func TestVerify_ParameterizedNoConcreteSetsYieldsPartialWithoutReplay(t *testing.T) {
	spec := model.RecipeRequestSpec{
		URL:          "https://api.example.com/widgets/{id}",
		Method:       "GET",
		ResponseType: model.ResponseTypeJSON,
	}
	minimization := testMinimization(t, spec)

	calls := 0
	replay := func(model.RecipeRequestSpec) minimize.ReplayOutcome {
		calls++
		return minimize.ReplayOutcome{HTTPStatus: 200}
	}

	report := Verify(minimization, nil, replay, fastBudget(), 2)

	if report.Status != model.StatusPartial {
		t.Fatalf("expected status partial, got %s", report.Status)
	}
	if calls != 0 {
		t.Fatalf("expected no replays without concrete parameter sets, got %d", calls)
	}
}

func TestVerify_NonJSONBodyPassesOnStatusAlone(t *testing.T) {
	spec := model.RecipeRequestSpec{
		URL:          "https://example.com/page.html",
		Method:       "GET",
		ResponseType: model.ResponseTypeHTML,
	}
	minimization := testMinimization(t, spec)

	replay := func(model.RecipeRequestSpec) minimize.ReplayOutcome {
		return minimize.ReplayOutcome{HTTPStatus: 200, BodyText: "<html><body>not json</body></html>"}
	}

	report := Verify(minimization, nil, replay, fastBudget(), 2)

	if report.Status != model.StatusPassed {
		t.Fatalf("expected status passed for a non-JSON body with a 2xx status, got %s", report.Status)
	}
	for _, a := range report.Attempts {
		if a.Similarity != nil {
			t.Fatalf("expected no similarity score recorded for a non-JSON body, got %v", *a.Similarity)
		}
	}
}
