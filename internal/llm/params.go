package llm

import (
	"strings"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

// aliasTable maps a common user-facing term to the canonical parameter name
// used once proposals are merged.
var aliasTable = map[string]string{
	"query": "q",
	"limit": "per_page",
	"count": "per_page",
}

// canonicalParamName applies the alias table; unmapped names pass through.
func canonicalParamName(name string) string {
	if canon, ok := aliasTable[strings.ToLower(name)]; ok {
		return canon
	}
	return name
}

// MergeParams combines two parameter proposals, canonicalizing names through
// the alias table and keeping the first occurrence of each canonical name.
func MergeParams(a, b []model.Parameter) []model.Parameter {
	seen := map[string]bool{}
	var out []model.Parameter
	for _, p := range append(append([]model.Parameter(nil), a...), b...) {
		canon := canonicalParamName(p.Name)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		p.Name = canon
		out = append(out, p)
	}
	return out
}

// privateParamSubstrings flags parameter names that must never surface to a
// recipe's user-facing parameter list.
var privateParamSubstrings = []string{"session", "nonce", "csrf", "tracking", "track", "xsrf"}

func isPrivateParamName(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range privateParamSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// applyPublicParamAllowlist inlines private parameters as literals into the
// URL and body template and drops them from the parameter list; public,
// user-facing parameters are kept untouched.
func applyPublicParamAllowlist(spec model.RecipeRequestSpec, params []model.Parameter) (model.RecipeRequestSpec, []model.Parameter) {
	out := spec.Clone()
	var kept []model.Parameter
	for _, p := range params {
		if !isPrivateParamName(p.Name) {
			kept = append(kept, p)
			continue
		}
		value := ""
		if p.Default != nil {
			value = *p.Default
		}
		placeholder := "{" + p.Name + "}"
		out.URL = strings.ReplaceAll(out.URL, placeholder, value)
		if out.BodyTemplate != nil {
			replaced := strings.ReplaceAll(*out.BodyTemplate, placeholder, value)
			out.BodyTemplate = &replaced
		}
	}
	return out, kept
}
