// Package perr carries the closed error taxonomy shared by every pipeline
// stage: a typed code plus a path, never a bare string.
package perr

import "errors"

// Code is one of the kinds named in the error handling design. It is closed;
// callers switch on it rather than on error strings.
type Code string

const (
	SchemaMismatch  Code = "SCHEMA_MISMATCH"
	PathUnsafe      Code = "PATH_UNSAFE"
	Validation      Code = "VALIDATION"
	SSRFBlocked     Code = "SSRF_BLOCKED"
	Replay          Code = "REPLAY"
	BudgetExhausted Code = "BUDGET_EXHAUSTED"
	MalformedJSON   Code = "MALFORMED_JSON"
)

// Error is the single error type used across the pipeline. Code is always
// one of the taxonomy constants above.
type Error struct {
	Code    Code
	Message string
	Path    string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code) + ": " + e.Message + " (" + e.Path + ")"
}

// New builds an Error with no associated path.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewPath builds an Error annotated with the artifact/file path it concerns.
func NewPath(code Code, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// Is reports whether err is a *Error carrying the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
