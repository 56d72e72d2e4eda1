package llm

import (
	"fmt"
	"strings"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

const maxSignalsInPrompt = 20

// buildProposePrompt serializes the candidate set into a prompt asking the
// model to propose a single reusable request spec (the out-of-scope
// propose_request_spec(signals) -> AnalysisDraft function).
func buildProposePrompt(cs model.CandidateSet) string {
	var b strings.Builder
	b.WriteString("You are proposing a single reusable HTTP request recipe from a ranked list of candidate network calls captured during a browser session.\n\n")
	b.WriteString("=== CANDIDATES (highest ranked first) ===\n")

	n := len(cs.Candidates)
	if n > maxSignalsInPrompt {
		n = maxSignalsInPrompt
	}
	for i := 0; i < n; i++ {
		c := cs.Candidates[i]
		b.WriteString(fmt.Sprintf("Rank %d (score %.2f, reason %s):\n", c.Rank, c.Score, c.Reason))
		b.WriteString(fmt.Sprintf("  %s %s\n", c.Signal.Method, c.Signal.URL))
		b.WriteString(fmt.Sprintf("  status=%d content_type=%s size_bytes=%d\n",
			c.Signal.Status, c.Signal.ContentType, c.Signal.ResponseSizeBytes))
		if c.Signal.InitiatorPageURL != "" {
			b.WriteString("  initiator_page_url=" + c.Signal.InitiatorPageURL + "\n")
		}
	}

	b.WriteString("\n=== INSTRUCTIONS ===\n")
	b.WriteString("1. Pick the ONE candidate that best represents the data the user actually cares about.\n")
	b.WriteString("2. Propose a request spec that reproduces it: url, method, minimal headers, response_type (json, html, or text).\n")
	b.WriteString("3. Template any value a user would plausibly want to change as {parameter_name} in the url or body_template, and list it under parameters with a sensible default copied from the observed value.\n")
	b.WriteString("4. Never template or surface session ids, auth tokens, nonces, or tracking identifiers as parameters.\n")
	b.WriteString("5. allowed_domains must contain the exact host the request targets, nothing broader.\n")
	b.WriteString("6. If no candidate is suitable, set url to an empty string and explain why in notes.\n\n")
	b.WriteString("Return ONLY the structured fields requested, no prose.\n")

	return b.String()
}
