package schema

// rawSchemas holds the canonical JSON Schema (draft-07 subset understood by
// gojsonschema) for every persisted artifact type, keyed by ArtifactType().
// Each schema pins the top-level shape with additionalProperties: false so a
// stray or renamed field is rejected at the persistence boundary; nested
// substructures are typed but not exhaustively constrained, since Go's
// struct decoding with DisallowUnknownFields enforces the rest.
var rawSchemas = map[string]string{
	"SessionRecording": `{
		"type": "object",
		"required": ["task", "result", "requests", "responses", "navigation_urls", "start_time", "end_time", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"task": {"type": "string"},
			"result": {"type": "string"},
			"requests": {"type": "array"},
			"responses": {"type": "array"},
			"navigation_urls": {"type": "array"},
			"start_time": {"type": "number"},
			"end_time": {"type": "number"},
			"schema_hash": {"type": "string"}
		}
	}`,
	"SignalSet": `{
		"type": "object",
		"required": ["recording", "signals", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"recording": {"type": "object"},
			"signals": {"type": "array"},
			"schema_hash": {"type": "string"}
		}
	}`,
	"CandidateSet": `{
		"type": "object",
		"required": ["signal_set", "candidates", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"signal_set": {"type": "object"},
			"candidates": {"type": "array"},
			"schema_hash": {"type": "string"}
		}
	}`,
	"AnalysisResult": `{
		"type": "object",
		"required": ["candidate_set", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"candidate_set": {"type": "object"},
			"selected_rank": {"type": "integer"},
			"request_spec": {"type": "object"},
			"recipe_name_suggestion": {"type": "string"},
			"notes": {"type": "array"},
			"raw_llm_output": {"type": "string"},
			"schema_hash": {"type": "string"}
		}
	}`,
	"BaselineFingerprint": `{
		"type": "object",
		"required": ["analysis", "validation", "max_depth", "entries", "sample_count", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"analysis": {"type": "object"},
			"validation": {"type": "object"},
			"max_depth": {"type": "integer"},
			"entries": {"type": "array"},
			"sample_count": {"type": "integer", "minimum": 1},
			"notes": {"type": "array"},
			"schema_hash": {"type": "string"}
		}
	}`,
	"MinimizationResult": `{
		"type": "object",
		"required": ["baseline", "original", "minimized", "steps", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"baseline": {"type": "object"},
			"original": {"type": "object"},
			"minimized": {"type": "object"},
			"steps": {"type": "array"},
			"notes": {"type": "array"},
			"schema_hash": {"type": "string"}
		}
	}`,
	"VerificationReport": `{
		"type": "object",
		"required": ["minimization", "status", "attempts", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"minimization": {"type": "object"},
			"status": {"type": "string", "enum": ["passed", "partial", "failed"]},
			"attempts": {"type": "array"},
			"notes": {"type": "array"},
			"schema_hash": {"type": "string"}
		}
	}`,
	"Recipe": `{
		"type": "object",
		"required": ["name", "description", "original_task", "request", "parameters", "status", "rate_limit_delay_ms", "max_response_size_bytes", "usage", "schema_hash"],
		"additionalProperties": false,
		"properties": {
			"name": {"type": "string"},
			"description": {"type": "string"},
			"original_task": {"type": "string"},
			"request": {"type": "object"},
			"auth_recovery": {"type": "object"},
			"parameters": {"type": "array"},
			"status": {"type": "string", "enum": ["draft", "verified"]},
			"category": {"type": "string"},
			"subcategory": {"type": "string"},
			"tags": {"type": "array"},
			"difficulty": {"type": "string"},
			"rate_limit_delay_ms": {"type": "integer"},
			"max_response_size_bytes": {"type": "integer"},
			"usage": {"type": "object"},
			"schema_hash": {"type": "string"}
		}
	}`,
}
