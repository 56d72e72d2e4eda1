package model

// RequestSignal is the safe, body-free projection of one request/response
// pair. It must never carry a raw body, userinfo, or a redaction-eligible
// secret in any field.
type RequestSignal struct {
	URL                string  `json:"url"`
	Method             string  `json:"method"`
	Status             int     `json:"status"`
	ContentType        string  `json:"content_type"`
	ResponseSizeBytes  int64   `json:"response_size_bytes"`
	StructuralSummary  string  `json:"structural_summary"`
	DurationMs         *float64 `json:"duration_ms,omitempty"`
	RequestTimestamp   float64 `json:"request_timestamp"`
	ResponseTimestamp  float64 `json:"response_timestamp"`
	InitiatorPageURL   string  `json:"initiator_page_url"`
	ResourceType       string  `json:"resource_type"`
	RequestID          string  `json:"request_id"`
}

// SignalSet is the C5 artifact: the recording it was extracted from, plus
// the extracted signals. Embedding the recording lets a leaf artifact later
// in the chain identify its entire history.
type SignalSet struct {
	Recording  SessionRecording `json:"recording"`
	Signals    []RequestSignal  `json:"signals"`
	SchemaHash string           `json:"schema_hash"`
}

func (s *SignalSet) ArtifactType() string  { return "SignalSet" }
func (s *SignalSet) GetSchemaHash() string { return s.SchemaHash }
func (s *SignalSet) SetSchemaHash(h string) { s.SchemaHash = h }
