// Package model holds the immutable value records that flow through the
// recipe-learning pipeline. Every artifact-level type implements
// schema.Artifact so internal/store can persist it.
package model

// NetworkRequest is one captured outbound call.
type NetworkRequest struct {
	URL          string            `json:"url"`
	Method       string            `json:"method"`
	Headers      map[string]string `json:"headers"`
	PostData     *string           `json:"post_data,omitempty"`
	ResourceType string            `json:"resource_type"`
	Timestamp    float64           `json:"timestamp"`
	RequestID    string            `json:"request_id"`
	InitiatorURL string            `json:"initiator_url"`
}

// NetworkResponse is the reply paired to a NetworkRequest by RequestID.
type NetworkResponse struct {
	URL            string  `json:"url"`
	Status         int     `json:"status"`
	Headers        map[string]string `json:"headers"`
	Body           *string `json:"body,omitempty"`
	MimeType       string  `json:"mime_type"`
	Timestamp      float64 `json:"timestamp"`
	RequestID      string  `json:"request_id"`
	ContentType    string  `json:"content_type"`
	ByteLength     int64   `json:"byte_length"`
	TTFBMs         *float64 `json:"ttfb_ms,omitempty"`
	TotalMs        *float64 `json:"total_ms,omitempty"`
	JSONKeySample  *string `json:"json_key_sample,omitempty"`
}

// SessionRecording is the root artifact produced by the (out of scope)
// browser recorder.
type SessionRecording struct {
	Task          string            `json:"task"`
	Result        string            `json:"result"`
	Requests      []NetworkRequest  `json:"requests"`
	Responses     []NetworkResponse `json:"responses"`
	NavigationURLs []string         `json:"navigation_urls"`
	StartTime     float64           `json:"start_time"`
	EndTime       float64           `json:"end_time"`
	SchemaHash    string            `json:"schema_hash"`
}

func (r *SessionRecording) ArtifactType() string    { return "SessionRecording" }
func (r *SessionRecording) GetSchemaHash() string    { return r.SchemaHash }
func (r *SessionRecording) SetSchemaHash(h string)   { r.SchemaHash = h }
