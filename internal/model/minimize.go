package model

// MinimizationStep records one proposed removal and whether it stuck.
type MinimizationStep struct {
	Description string `json:"description"`
	Changed     bool   `json:"changed"`
}

// MinimizationResult is the C10 artifact.
type MinimizationResult struct {
	Baseline     BaselineFingerprint `json:"baseline"`
	Original     RecipeRequestSpec   `json:"original"`
	Minimized    RecipeRequestSpec   `json:"minimized"`
	Steps        []MinimizationStep  `json:"steps"`
	Notes        []string            `json:"notes,omitempty"`
	SchemaHash   string              `json:"schema_hash"`
}

func (m *MinimizationResult) ArtifactType() string  { return "MinimizationResult" }
func (m *MinimizationResult) GetSchemaHash() string { return m.SchemaHash }
func (m *MinimizationResult) SetSchemaHash(h string) { m.SchemaHash = h }
