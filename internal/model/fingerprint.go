package model

// JsonValueType is the closed set of JSON value kinds a fingerprint entry
// may carry.
type JsonValueType string

const (
	TypeObject  JsonValueType = "object"
	TypeArray   JsonValueType = "array"
	TypeString  JsonValueType = "string"
	TypeNumber  JsonValueType = "number"
	TypeBoolean JsonValueType = "boolean"
	TypeNull    JsonValueType = "null"
)

// FingerprintEntry is one (path, value-type) pair in a structural fingerprint.
// Path is an ordered tuple of object-key segments, with "[]" standing for any
// array index.
type FingerprintEntry struct {
	Path      []string      `json:"path"`
	ValueType JsonValueType `json:"value_type"`
}

// BaselineFingerprint is the C9 artifact: the shape captured from one real
// reply to the analyzed request.
type BaselineFingerprint struct {
	Analysis    AnalysisResult     `json:"analysis"`
	Validation  ValidationResult   `json:"validation"`
	MaxDepth    int                `json:"max_depth"`
	Entries     []FingerprintEntry `json:"entries"`
	SampleCount int                `json:"sample_count"`
	Notes       []string           `json:"notes,omitempty"`
	SchemaHash  string             `json:"schema_hash"`
}

func (b *BaselineFingerprint) ArtifactType() string  { return "BaselineFingerprint" }
func (b *BaselineFingerprint) GetSchemaHash() string { return b.SchemaHash }
func (b *BaselineFingerprint) SetSchemaHash(h string) { b.SchemaHash = h }
