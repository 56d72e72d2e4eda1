package minimize

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/jmespath/go-jmespath"

	"github.com/marcohefti/moneyrecipe/internal/fingerprint"
	"github.com/marcohefti/moneyrecipe/internal/model"
)

var volatileHeaders = map[string]bool{
	"if-none-match":    true,
	"if-modified-since": true,
	"x-request-id":     true,
}

var noiseHeaders = map[string]bool{
	"accept-encoding": true,
	"connection":      true,
	"host":            true,
	"content-length":  true,
	"pragma":          true,
	"cache-control":   true,
	"user-agent":      true,
	"origin":          true,
	"referer":         true,
}

func isVolatileOrNoiseHeader(name string) bool {
	lower := strings.ToLower(name)
	if volatileHeaders[lower] || noiseHeaders[lower] {
		return true
	}
	if strings.HasPrefix(lower, "x-trace-") || strings.HasPrefix(lower, "sec-fetch-") || strings.HasPrefix(lower, "sec-ch-ua") {
		return true
	}
	return false
}

var volatileQueryKeys = map[string]bool{
	"_t": true, "timestamp": true, "ts": true, "nonce": true,
	"cache": true, "cb": true, "rand": true, "_": true,
}

func isVolatileQueryKey(key string) bool {
	return volatileQueryKeys[strings.ToLower(key)] || strings.HasPrefix(key, "_")
}

// Minimize runs the three bounded phases described for this component and
// returns the smallest spec it could verify still reproduces a response
// structurally similar (Jaccard >= threshold) to baseline.
func Minimize(baseline model.BaselineFingerprint, original model.RecipeRequestSpec, replay Replayer, budget Budget) *model.MinimizationResult {
	runner := NewRunner(replay, budget)
	current := original.Clone()
	var steps []model.MinimizationStep
	var notes []string

	// Phase A: deterministic filters, no replay needed.
	for name := range current.Headers {
		if isVolatileOrNoiseHeader(name) {
			delete(current.Headers, name)
			steps = append(steps, model.MinimizationStep{
				Description: "dropped volatile/noise header " + name,
				Changed:     true,
			})
		}
	}

	// Phase B: single-pass header elimination, sorted for determinism.
	headerNames := sortedKeys(current.Headers)
	for _, name := range headerNames {
		if _, stillPresent := current.Headers[name]; !stillPresent {
			continue
		}
		candidate := current.Clone()
		delete(candidate.Headers, name)

		outcome, ok := runner.Replay(candidate)
		if !ok {
			notes = append(notes, exhaustedNote)
			return finish(baseline, original, current, steps, notes)
		}
		if acceptable(outcome, baseline) {
			current = candidate
			steps = append(steps, model.MinimizationStep{Description: "removed header " + name, Changed: true})
		} else {
			steps = append(steps, model.MinimizationStep{Description: "kept header " + name, Changed: false})
		}
	}

	// Phase C: single-pass query-param elimination, volatile then stable.
	u := current.URL
	queryKeys, queryValues, base := splitQuery(u)
	var volatileKeys, stableKeys []string
	for _, k := range queryKeys {
		if isVolatileQueryKey(k) {
			volatileKeys = append(volatileKeys, k)
		} else {
			stableKeys = append(stableKeys, k)
		}
	}
	sort.Strings(volatileKeys)
	sort.Strings(stableKeys)
	ordered := append(append([]string(nil), volatileKeys...), stableKeys...)

	for _, k := range ordered {
		if _, present := queryValues[k]; !present {
			continue
		}
		candidate := current.Clone()
		candidate.URL = rebuildURL(base, queryKeys, queryValues, k)

		outcome, ok := runner.Replay(candidate)
		if !ok {
			notes = append(notes, exhaustedNote)
			return finish(baseline, original, current, steps, notes)
		}
		if acceptable(outcome, baseline) {
			delete(queryValues, k)
			current = candidate
			steps = append(steps, model.MinimizationStep{Description: "removed query param " + k, Changed: true})
		} else {
			steps = append(steps, model.MinimizationStep{Description: "kept query param " + k, Changed: false})
		}
	}

	return finish(baseline, original, current, steps, notes)
}

func finish(baseline model.BaselineFingerprint, original, minimized model.RecipeRequestSpec, steps []model.MinimizationStep, notes []string) *model.MinimizationResult {
	return &model.MinimizationResult{
		Baseline:  baseline,
		Original:  original,
		Minimized: minimized,
		Steps:     steps,
		Notes:     notes,
	}
}

// acceptable implements "2xx and either non-JSON (status-only) or the
// extracted fingerprint similarity >= threshold".
func acceptable(outcome ReplayOutcome, baseline model.BaselineFingerprint) bool {
	if outcome.Err != nil || outcome.HTTPStatus < 200 || outcome.HTTPStatus >= 300 {
		return false
	}

	var decoded any
	if err := json.Unmarshal([]byte(outcome.BodyText), &decoded); err != nil {
		return true // non-JSON: status-only check already passed
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
		return false
	}
	return fingerprint.Similarity(entries, baseline.Entries) >= fingerprint.DefaultSimilarityThreshold
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// splitQuery returns the ordered query keys, a mutable key->value map, and
// the URL with its query string stripped.
func splitQuery(raw string) (keys []string, values map[string]string, base string) {
	idx := strings.IndexByte(raw, '?')
	if idx < 0 {
		return nil, map[string]string{}, raw
	}
	base = raw[:idx]
	values = map[string]string{}
	for _, pair := range strings.Split(raw[idx+1:], "&") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		k := kv[0]
		v := ""
		if len(kv) == 2 {
			v = kv[1]
		}
		if _, exists := values[k]; !exists {
			keys = append(keys, k)
		}
		values[k] = v
	}
	return keys, values, base
}

func rebuildURL(base string, keys []string, values map[string]string, drop string) string {
	var parts []string
	for _, k := range keys {
		if k == drop {
			continue
		}
		v, ok := values[k]
		if !ok {
			continue
		}
		parts = append(parts, k+"="+v)
	}
	if len(parts) == 0 {
		return base
	}
	return base + "?" + strings.Join(parts, "&")
}
