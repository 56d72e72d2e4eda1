package sanitize

import "strings"

var sensitiveHeaderTokens = map[string]bool{
	"auth": true, "authorization": true, "bearer": true, "cookie": true,
	"csrf": true, "xsrf": true, "token": true, "secret": true,
	"password": true, "session": true, "apikey": true, "api_key": true,
}

// headerAllowlist bypasses the token check for specific full header names
// that would otherwise false-positive on a substring token.
var headerAllowlist = map[string]bool{
	"x-csrf-protection": true,
	":authority":        true,
	"author":            true,
}

func splitHeaderTokens(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		switch r {
		case '-', '_', '/', '.', ':':
			return true
		}
		return false
	})
}

// IsSensitiveHeaderName reports whether name should be treated as carrying a
// secret, case-insensitively, by whole-token match against the sensitive set.
func IsSensitiveHeaderName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if headerAllowlist[lower] {
		return false
	}
	for _, tok := range splitHeaderTokens(lower) {
		if sensitiveHeaderTokens[tok] {
			return true
		}
	}
	return false
}

// RedactSensitiveHeaders replaces the value of every sensitive header with
// the redaction marker, preserving the entry. Used for recordings, which
// must remain shape-complete.
func RedactSensitiveHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if IsSensitiveHeaderName(k) {
			out[k] = redacted
			continue
		}
		out[k] = v
	}
	return out
}

// StripSensitiveHeaders removes sensitive header entries entirely. Used for
// persisted recipes, which must not carry even a redacted placeholder.
func StripSensitiveHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if IsSensitiveHeaderName(k) {
			continue
		}
		out[k] = v
	}
	return out
}
