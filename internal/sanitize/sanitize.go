// Package sanitize holds the redaction rules shared by every pipeline stage:
// URL, header, path-segment, and body-preview sanitization. Every function
// here is pure and never raises on malformed input; on anything it cannot
// parse it falls back to a best-effort sanitized rendering.
package sanitize

import (
	"net/url"
	"sort"
	"strings"
)

const (
	redacted    = "[REDACTED]"
	redactedKey = "[REDACTED_KEY]"
	truncMarker = "...[TRUNC]"
)

// sensitiveQueryKeys are always redacted regardless of value shape.
var sensitiveQueryKeys = map[string]bool{
	"access_token": true, "api_key": true, "apikey": true, "auth": true,
	"authorization": true, "bearer": true, "client_secret": true,
	"cookie": true, "csrf": true, "id_token": true, "password": true,
	"refresh_token": true, "secret": true, "session": true,
	"signature": true, "sig": true, "token": true, "xsrf": true,
}

// conditionalQueryKeys are redacted only when the value looks opaque.
var conditionalQueryKeys = map[string]bool{
	"code": true, "key": true,
}

// IsSensitiveQueryKey reports whether key is in the always-redact query-key
// set, case-insensitively. Consumers that build a RecipeRequestSpec from
// signals use this to drop sensitive params outright rather than templating
// them.
func IsSensitiveQueryKey(key string) bool {
	return sensitiveQueryKeys[strings.ToLower(key)]
}

// LooksOpaque reports whether value is shaped like a token, hash, or encoded
// credential (JWT, long hex, base64-ish, Slack-style token).
func LooksOpaque(value string) bool {
	return looksOpaque(value)
}

// SanitizeURL drops the fragment, strips userinfo, redacts sensitive query
// values, redacts opaque-looking path segments, and truncates the result if
// it would otherwise exceed maxLen.
func SanitizeURL(raw string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 2048
	}
	u, err := url.Parse(raw)
	if err != nil {
		return truncate(raw, maxLen)
	}
	u.Fragment = ""
	u.User = nil

	u.Path = sanitizePath(u.Path)

	if u.RawQuery != "" {
		u.RawQuery = sanitizeQuery(u.RawQuery)
	}

	return truncate(u.String(), maxLen)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - len(truncMarker)
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + truncMarker
}

func sanitizeQuery(raw string) string {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return raw
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := url.Values{}
	for _, k := range keys {
		lower := strings.ToLower(k)
		for _, v := range values[k] {
			if sensitiveQueryKeys[lower] {
				out.Add(k, redacted)
				continue
			}
			if conditionalQueryKeys[lower] && looksOpaque(v) {
				out.Add(k, redacted)
				continue
			}
			if looksOpaque(v) {
				out.Add(k, redacted)
				continue
			}
			out.Add(k, v)
		}
	}
	return out.Encode()
}

func sanitizePath(p string) string {
	if p == "" {
		return p
	}
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			decoded = seg
		}
		if isSensitivePathSegment(decoded) {
			segments[i] = redacted
		}
	}
	return strings.Join(segments, "/")
}
