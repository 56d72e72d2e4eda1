// Package llm implements the C8 LLM analyzer: an untrusted draft proposal
// from a model, a strict parse/validation pass, and a public-parameter
// allowlist pass before a recipe is ever produced.
package llm

import (
	"context"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

// DraftParameter is one parameter as proposed by the model, before the
// public-parameter allowlist pass.
type DraftParameter struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Required    bool    `json:"required"`
	Default     *string `json:"default,omitempty"`
	Description string  `json:"description,omitempty"`
	Source      string  `json:"source"`
}

// Draft is the untrusted structured output of propose_request_spec. The
// model's raw JSON is decoded into it by genkit.GenerateData (see
// GenkitProvider); this package does not itself check for fields beyond
// those declared here.
type Draft struct {
	URL                   string            `json:"url"`
	Method                string            `json:"method"`
	Headers               map[string]string `json:"headers"`
	BodyTemplate          *string           `json:"body_template,omitempty"`
	ResponseType          string            `json:"response_type"`
	ExtractPath           *string           `json:"extract_path,omitempty"`
	HTMLSelectors         map[string]string `json:"html_selectors,omitempty"`
	AllowedDomains        []string          `json:"allowed_domains"`
	Parameters            []DraftParameter  `json:"parameters"`
	RecipeNameSuggestion string            `json:"recipe_name_suggestion,omitempty"`
	Notes                 []string          `json:"notes,omitempty"`
}

// Provider is the out-of-scope collaborator: propose_request_spec(signals)
// -> AnalysisDraft, viewed as a function.
type Provider interface {
	Propose(ctx context.Context, cs model.CandidateSet) (*Draft, string, error)
}
