package llm

import (
	"context"

	"github.com/marcohefti/moneyrecipe/internal/model"
	"github.com/marcohefti/moneyrecipe/internal/slug"
)

const recipeNameLen = 60

// Analyze proposes a draft recipe by asking provider, then validating the
// draft strictly. Any violation — beyond the case/whitespace normalization
// validateDraft performs itself — produces an AnalysisResult with no
// RequestSpec and explanatory Notes, never a silent best-effort fix.
func Analyze(ctx context.Context, provider Provider, cs model.CandidateSet) (*model.AnalysisResult, []model.Parameter) {
	draft, raw, err := provider.Propose(ctx, cs)
	if err != nil {
		return &model.AnalysisResult{
			CandidateSet: cs,
			Notes:        []string{"provider error: " + err.Error()},
			RawLLMOutput: raw,
		}, nil
	}

	validated, res := validateDraft(*draft)
	if !res.OK {
		notes := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			notes = append(notes, string(e.Code)+": "+e.Message)
		}
		return &model.AnalysisResult{
			CandidateSet: cs,
			Notes:        notes,
			RawLLMOutput: raw,
		}, nil
	}

	spec := model.RecipeRequestSpec{
		URL:            validated.URL,
		Method:         validated.Method,
		Headers:        validated.Headers,
		BodyTemplate:   validated.BodyTemplate,
		ResponseType:   validated.ResponseType,
		ExtractPath:    validated.ExtractPath,
		HTMLSelectors:  validated.HTMLSelectors,
		AllowedDomains: validated.AllowedDomains,
	}

	var params []model.Parameter
	for _, p := range validated.Parameters {
		params = append(params, model.Parameter{
			Name:        p.Name,
			Type:        p.Type,
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
			Source:      model.ParameterSource(p.Source),
		})
	}

	spec, params = applyPublicParamAllowlist(spec, params)

	name := validated.RecipeNameSuggestion
	if name == "" {
		name = slug.Make(validated.URL, recipeNameLen)
	} else {
		name = slug.Make(name, recipeNameLen)
	}

	result := &model.AnalysisResult{
		CandidateSet:      cs,
		RequestSpec:       &spec,
		RecipeNameSuggest: name,
		Notes:             validated.Notes,
		RawLLMOutput:      raw,
	}
	return result, params
}
