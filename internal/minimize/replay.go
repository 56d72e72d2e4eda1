// Package minimize implements the C10 minimizer: given a baseline
// fingerprint and a captured request spec, it removes as many headers and
// query parameters as it safely can while still reproducing a similar
// response shape.
package minimize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

// ReplayOutcome is what the injected transport reports back for one replay.
type ReplayOutcome struct {
	HTTPStatus int
	BodyText   string
	Err        error
}

// Replayer is the injected transport. It is the only blocking collaborator
// in this package.
type Replayer func(spec model.RecipeRequestSpec) ReplayOutcome

// Budget bounds how much replay work a minimizer or verifier run may spend.
type Budget struct {
	MaxAttempts    int
	MaxWallSeconds int
	Pacing         time.Duration
}

// DefaultBudget matches the defaults named for both the minimizer and the
// verifier.
func DefaultBudget() Budget {
	return Budget{MaxAttempts: 24, MaxWallSeconds: 30, Pacing: 250 * time.Millisecond}
}

// specSignature is the per-spec memoization key: method + sorted headers +
// URL + body template + response_type + extract_path + html_selectors.
func specSignature(spec model.RecipeRequestSpec) string {
	headerKeys := make([]string, 0, len(spec.Headers))
	for k := range spec.Headers {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)
	headers := make(map[string]string, len(headerKeys))
	for _, k := range headerKeys {
		headers[k] = spec.Headers[k]
	}

	type sig struct {
		Method        string            `json:"method"`
		Headers       map[string]string `json:"headers"`
		URL           string            `json:"url"`
		BodyTemplate  *string           `json:"body_template"`
		ResponseType  string            `json:"response_type"`
		ExtractPath   *string           `json:"extract_path"`
		HTMLSelectors map[string]string `json:"html_selectors"`
	}
	b, _ := json.Marshal(sig{
		Method:        spec.Method,
		Headers:       headers,
		URL:           spec.URL,
		BodyTemplate:  spec.BodyTemplate,
		ResponseType:  spec.ResponseType,
		ExtractPath:   spec.ExtractPath,
		HTMLSelectors: spec.HTMLSelectors,
	})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
