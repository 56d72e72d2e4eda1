package model

// AuthRecovery describes how a direct-execution runner should detect and
// recover from an expired session when replaying a recipe.
type AuthRecovery struct {
	TriggerOnStatus   []int   `json:"trigger_on_status"`
	TriggerOnBody     *string `json:"trigger_on_body,omitempty"`
	RecoveryPage      string  `json:"recovery_page"`
	SuccessIndicator  string  `json:"success_indicator"`
}

// ParameterSource is the closed set of places a recipe parameter's value can
// come from when the recipe is replayed.
type ParameterSource string

const (
	SourceURL    ParameterSource = "url"
	SourceQuery  ParameterSource = "query"
	SourceBody   ParameterSource = "body"
	SourceHeader ParameterSource = "header"
)

// Parameter is one user-facing, templated value in a recipe.
type Parameter struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Required    bool            `json:"required"`
	Default     *string         `json:"default,omitempty"`
	Description string          `json:"description,omitempty"`
	Source      ParameterSource `json:"source"`
}

// RecipeStatus is the closed set of lifecycle states a recipe occupies.
type RecipeStatus string

const (
	RecipeDraft    RecipeStatus = "draft"
	RecipeVerified RecipeStatus = "verified"
)

// UsageStats tracks out-of-band replay outcomes for a saved recipe.
type UsageStats struct {
	LastUsed     *float64 `json:"last_used,omitempty"`
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
}

// Recipe is the final, persisted unit of reuse. It is separate from the
// pipeline artifact lineage: the caller builds it from a VerificationReport
// plus operator-supplied metadata and hands it to the recipe store to save.
type Recipe struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	OriginalTask    string             `json:"original_task"`
	Request         RecipeRequestSpec  `json:"request"`
	AuthRecovery    *AuthRecovery      `json:"auth_recovery,omitempty"`
	Parameters      []Parameter        `json:"parameters"`
	Status          RecipeStatus       `json:"status"`
	Category        string             `json:"category,omitempty"`
	Subcategory     string             `json:"subcategory,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Difficulty      string             `json:"difficulty,omitempty"`
	RateLimitDelayMs int               `json:"rate_limit_delay_ms"`
	MaxResponseSizeBytes int64         `json:"max_response_size_bytes"`
	Usage           UsageStats         `json:"usage"`
	SchemaHash      string             `json:"schema_hash"`
}

func (r *Recipe) ArtifactType() string  { return "Recipe" }
func (r *Recipe) GetSchemaHash() string { return r.SchemaHash }
func (r *Recipe) SetSchemaHash(h string) { r.SchemaHash = h }
