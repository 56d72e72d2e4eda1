package model

// ValidationErrorCode is the closed set of codes a ValidationIssue may carry.
type ValidationErrorCode string

const (
	ErrMissingRequest     ValidationErrorCode = "missing_request"
	ErrInvalidURL         ValidationErrorCode = "invalid_url"
	ErrDisallowedDomain   ValidationErrorCode = "disallowed_domain"
	ErrUnsupportedMethod  ValidationErrorCode = "unsupported_method"
	ErrInvalidSelectors   ValidationErrorCode = "invalid_selectors"
	ErrOther              ValidationErrorCode = "other"
)

// ValidationIssue is one error or warning raised while validating a draft or
// a recipe.
type ValidationIssue struct {
	Code    ValidationErrorCode `json:"code"`
	Message string              `json:"message"`
	Field   string              `json:"field,omitempty"`
}

// ValidationResult is the outcome of validating an analysis draft or a
// pre-save recipe.
type ValidationResult struct {
	OK       bool              `json:"ok"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

func (r *ValidationResult) AddError(code ValidationErrorCode, field, message string) {
	r.OK = false
	r.Errors = append(r.Errors, ValidationIssue{Code: code, Field: field, Message: message})
}

func (r *ValidationResult) AddWarning(code ValidationErrorCode, field, message string) {
	r.Warnings = append(r.Warnings, ValidationIssue{Code: code, Field: field, Message: message})
}

// AnalysisResult is the C8 artifact: the candidate set the analyzer worked
// from, plus whatever it was able to produce.
type AnalysisResult struct {
	CandidateSet      CandidateSet       `json:"candidate_set"`
	SelectedRank      *int               `json:"selected_rank,omitempty"`
	RequestSpec       *RecipeRequestSpec `json:"request_spec,omitempty"`
	RecipeNameSuggest string             `json:"recipe_name_suggestion,omitempty"`
	Notes             []string           `json:"notes,omitempty"`
	RawLLMOutput      string             `json:"raw_llm_output,omitempty"`
	SchemaHash        string             `json:"schema_hash"`
}

func (a *AnalysisResult) ArtifactType() string  { return "AnalysisResult" }
func (a *AnalysisResult) GetSchemaHash() string { return a.SchemaHash }
func (a *AnalysisResult) SetSchemaHash(h string) { a.SchemaHash = h }
