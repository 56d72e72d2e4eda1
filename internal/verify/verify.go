// Package verify implements the C11 verifier: given a minimized spec, it
// decides whether the spec is promoted to verified, reusing the minimizer's
// budget and per-signature memoization contract.
package verify

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jmespath/go-jmespath"

	"github.com/marcohefti/moneyrecipe/internal/fingerprint"
	"github.com/marcohefti/moneyrecipe/internal/minimize"
	"github.com/marcohefti/moneyrecipe/internal/model"
)

const defaultRequiredConsecutiveSuccesses = 2

const errCodeNeedsSecondExample = "NEEDS_SECOND_EXAMPLE_FOR_VERIFY"

var placeholderPattern = regexp.MustCompile(`\{[^{}]*\}`)

func hasPlaceholders(spec model.RecipeRequestSpec) bool {
	if placeholderPattern.MatchString(spec.URL) {
		return true
	}
	if spec.BodyTemplate != nil && placeholderPattern.MatchString(*spec.BodyTemplate) {
		return true
	}
	return false
}

// substitute renders spec with one concrete parameter set.
func substitute(spec model.RecipeRequestSpec, params map[string]string) model.RecipeRequestSpec {
	out := spec.Clone()
	for name, value := range params {
		placeholder := "{" + name + "}"
		out.URL = strings.ReplaceAll(out.URL, placeholder, value)
		if out.BodyTemplate != nil {
			replaced := strings.ReplaceAll(*out.BodyTemplate, placeholder, value)
			out.BodyTemplate = &replaced
		}
	}
	return out
}

// Verify decides promotion for minimization.Minimized. concreteParamSets is
// ignored for a non-parameterized spec; for a parameterized spec it supplies
// the candidate concrete substitutions to try, most-distinct-first is the
// caller's responsibility.
func Verify(
	minimization model.MinimizationResult,
	concreteParamSets []map[string]string,
	replay minimize.Replayer,
	budget minimize.Budget,
	requiredConsecutiveSuccesses int,
) *model.VerificationReport {
	if requiredConsecutiveSuccesses <= 0 {
		requiredConsecutiveSuccesses = defaultRequiredConsecutiveSuccesses
	}
	runner := minimize.NewRunner(replay, budget)
	spec := minimization.Minimized

	if !hasPlaceholders(spec) {
		return verifyNonParameterized(minimization, runner, spec, requiredConsecutiveSuccesses)
	}
	return verifyParameterized(minimization, runner, spec, concreteParamSets)
}

func verifyNonParameterized(minimization model.MinimizationResult, runner *minimize.Runner, spec model.RecipeRequestSpec, required int) *model.VerificationReport {
	var attempts []model.VerificationAttempt
	successes := 0

	for successes < required {
		outcome, ok := runner.Replay(spec)
		if !ok {
			return &model.VerificationReport{
				Minimization: minimization,
				Status:       model.StatusFailed,
				Attempts:     attempts,
				Notes:        []string{"replay budget exhausted before reaching required consecutive successes"},
			}
		}
		attempt, ok2 := recordAttempt(outcome, minimization.Baseline)
		attempts = append(attempts, attempt)
		if ok2 {
			successes++
		} else {
			return &model.VerificationReport{
				Minimization: minimization,
				Status:       model.StatusFailed,
				Attempts:     attempts,
			}
		}
	}

	return &model.VerificationReport{
		Minimization: minimization,
		Status:       model.StatusPassed,
		Attempts:     attempts,
	}
}

func verifyParameterized(minimization model.MinimizationResult, runner *minimize.Runner, spec model.RecipeRequestSpec, concreteParamSets []map[string]string) *model.VerificationReport {
	if len(concreteParamSets) == 0 {
		return &model.VerificationReport{
			Minimization: minimization,
			Status:       model.StatusPartial,
			Notes:        []string{"no concrete parameter sets supplied, no replays performed"},
		}
	}

	var attempts []model.VerificationAttempt
	signatures := map[string]bool{}

	for _, params := range concreteParamSets {
		rendered := substitute(spec, params)
		outcome, ok := runner.Replay(rendered)
		if !ok {
			return &model.VerificationReport{
				Minimization: minimization,
				Status:       model.StatusFailed,
				Attempts:     attempts,
				Notes:        []string{"replay budget exhausted before verifying all parameter sets"},
			}
		}
		attempt, success := recordAttempt(outcome, minimization.Baseline)
		attempts = append(attempts, attempt)
		if !success {
			return &model.VerificationReport{
				Minimization: minimization,
				Status:       model.StatusFailed,
				Attempts:     attempts,
			}
		}
		signatures[paramSetSignature(params)] = true
	}

	if len(signatures) >= 2 {
		return &model.VerificationReport{
			Minimization: minimization,
			Status:       model.StatusPassed,
			Attempts:     attempts,
		}
	}
	return &model.VerificationReport{
		Minimization: minimization,
		Status:       model.StatusPartial,
		Attempts:     attempts,
		Notes:        []string{"error_code=" + errCodeNeedsSecondExample},
	}
}

func paramSetSignature(params map[string]string) string {
	b, _ := json.Marshal(params)
	return string(b)
}

const maxExcerptBytes = 500

// recordAttempt turns a replay outcome into a VerificationAttempt and
// reports whether it counts as a success: 2xx and, for JSON bodies,
// structural similarity to baseline >= threshold.
func recordAttempt(outcome minimize.ReplayOutcome, baseline model.BaselineFingerprint) (model.VerificationAttempt, bool) {
	attempt := model.VerificationAttempt{OK: false}

	if outcome.Err != nil {
		errText := outcome.Err.Error()
		attempt.Error = &errText
		return attempt, false
	}

	status := outcome.HTTPStatus
	attempt.HTTPStatus = &status
	attempt.Excerpt = excerpt(outcome.BodyText, maxExcerptBytes)

	if status < 200 || status >= 300 {
		return attempt, false
	}

	var decoded any
	if err := json.Unmarshal([]byte(outcome.BodyText), &decoded); err != nil {
		attempt.OK = true
		return attempt, true
	}

	target := decoded
	if baseline.Analysis.RequestSpec != nil && baseline.Analysis.RequestSpec.ExtractPath != nil {
		if expr, err := jmespath.Compile(*baseline.Analysis.RequestSpec.ExtractPath); err == nil {
			if extracted, err := expr.Search(decoded); err == nil && extracted != nil {
				target = extracted
			}
		}
	}

	entries, err := fingerprint.Fingerprint(target, baseline.MaxDepth)
	if err != nil {
		return attempt, false
	}
	sim := fingerprint.Similarity(entries, baseline.Entries)
	attempt.Similarity = &sim
	ok := sim >= fingerprint.DefaultSimilarityThreshold
	attempt.OK = ok
	return attempt, ok
}

func excerpt(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	return s[:maxBytes] + "...[TRUNC]"
}
