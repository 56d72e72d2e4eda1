package model

// VerificationStatus is the closed set of outcomes a VerificationReport may
// reach.
type VerificationStatus string

const (
	StatusPassed  VerificationStatus = "passed"
	StatusPartial VerificationStatus = "partial"
	StatusFailed  VerificationStatus = "failed"
)

// VerificationAttempt records one replay performed while verifying a spec.
type VerificationAttempt struct {
	Timestamp  float64  `json:"timestamp"`
	OK         bool     `json:"ok"`
	HTTPStatus *int     `json:"http_status,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
	Error      *string  `json:"error,omitempty"`
	Excerpt    string   `json:"excerpt,omitempty"`
}

// VerificationReport is the C11 artifact.
type VerificationReport struct {
	Minimization MinimizationResult    `json:"minimization"`
	Status       VerificationStatus    `json:"status"`
	Attempts     []VerificationAttempt `json:"attempts"`
	Notes        []string              `json:"notes,omitempty"`
	SchemaHash   string                `json:"schema_hash"`
}

func (v *VerificationReport) ArtifactType() string  { return "VerificationReport" }
func (v *VerificationReport) GetSchemaHash() string { return v.SchemaHash }
func (v *VerificationReport) SetSchemaHash(h string) { v.SchemaHash = h }
