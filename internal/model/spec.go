package model

// RecipeRequestSpec is the portable representation of how to reproduce the
// money request.
type RecipeRequestSpec struct {
	URL            string            `json:"url"`
	Method         string            `json:"method"`
	Headers        map[string]string `json:"headers"`
	BodyTemplate   *string           `json:"body_template,omitempty"`
	ResponseType   string            `json:"response_type"`
	ExtractPath    *string           `json:"extract_path,omitempty"`
	HTMLSelectors  map[string]string `json:"html_selectors,omitempty"`
	AllowedDomains []string          `json:"allowed_domains"`
}

// Clone returns a deep-enough copy for mutation by the minimizer.
func (s RecipeRequestSpec) Clone() RecipeRequestSpec {
	out := s
	out.Headers = make(map[string]string, len(s.Headers))
	for k, v := range s.Headers {
		out.Headers[k] = v
	}
	if s.HTMLSelectors != nil {
		out.HTMLSelectors = make(map[string]string, len(s.HTMLSelectors))
		for k, v := range s.HTMLSelectors {
			out.HTMLSelectors[k] = v
		}
	}
	out.AllowedDomains = append([]string(nil), s.AllowedDomains...)
	return out
}

const (
	ResponseTypeJSON = "json"
	ResponseTypeHTML = "html"
	ResponseTypeText = "text"
)

// AllowedMethods is the closed set of methods a RecipeRequestSpec may use.
var AllowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

// AllowedResponseTypes is the closed set of response_type values.
var AllowedResponseTypes = map[string]bool{
	ResponseTypeJSON: true, ResponseTypeHTML: true, ResponseTypeText: true,
}
