package llm

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/marcohefti/moneyrecipe/internal/model"
	"github.com/marcohefti/moneyrecipe/internal/slug"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// validateDraft normalizes method/response_type case and whitespace, then
// checks every closed rule in the LLM analyzer's design. It never attempts a
// best-effort fix beyond that normalization: any other violation fails the
// whole draft.
func validateDraft(d Draft) (Draft, model.ValidationResult) {
	var res model.ValidationResult
	res.OK = true

	d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
	d.ResponseType = strings.ToLower(strings.TrimSpace(d.ResponseType))
	d.URL = strings.TrimSpace(d.URL)

	u, err := url.Parse(d.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		res.AddError(model.ErrInvalidURL, "url", "url must be http or https")
	} else {
		for _, m := range placeholderPattern.FindAllStringSubmatch(d.URL, -1) {
			if !slug.ValidIdentifier(m[1]) {
				res.AddError(model.ErrInvalidURL, "url", "placeholder {"+m[1]+"} is not a valid identifier")
			}
		}
	}

	if !model.AllowedMethods[d.Method] {
		res.AddError(model.ErrUnsupportedMethod, "method", "method "+d.Method+" is not supported")
	}

	if !model.AllowedResponseTypes[d.ResponseType] {
		res.AddError(model.ErrOther, "response_type", "response_type "+d.ResponseType+" is not one of json/html/text")
	} else if d.ResponseType == model.ResponseTypeHTML && len(d.HTMLSelectors) == 0 {
		res.AddError(model.ErrInvalidSelectors, "html_selectors", "html response_type requires non-empty html_selectors")
	}

	for _, p := range d.Parameters {
		if !slug.ValidIdentifier(p.Name) {
			res.AddError(model.ErrOther, "parameters", "parameter name "+p.Name+" is not a valid identifier")
		}
	}

	return d, res
}
