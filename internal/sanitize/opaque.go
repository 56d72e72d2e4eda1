package sanitize

import "regexp"

// These patterns intentionally overlap: a value only needs to match one to
// be treated as a secret. Query/header contexts are over-eager on purpose;
// path-segment classification is more conservative (see isSensitivePathSegment)
// to avoid redacting human-readable slugs.
var (
	reJWT          = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)
	reLongHex      = regexp.MustCompile(`^[0-9a-fA-F]{32,}$`)
	reBase64URLish = regexp.MustCompile(`^[A-Za-z0-9_-]{32,}$`)
	reBase64ish    = regexp.MustCompile(`^[A-Za-z0-9+/=]{60,}$`)
	reSlackToken   = regexp.MustCompile(`^xox[baprs]-[A-Za-z0-9-]{10,}$`)
	reDigit        = regexp.MustCompile(`[0-9]`)
	reDashUnder    = regexp.MustCompile(`[-_]`)
)

// looksOpaque is the over-eager heuristic used for query and header values:
// anything shaped like a token, hash, or encoded credential is treated as a
// secret.
func looksOpaque(v string) bool {
	if v == "" {
		return false
	}
	if reJWT.MatchString(v) {
		return true
	}
	if reLongHex.MatchString(v) {
		return true
	}
	if reBase64URLish.MatchString(v) && (reDigit.MatchString(v) || reDashUnder.MatchString(v)) {
		return true
	}
	if reBase64ish.MatchString(v) {
		return true
	}
	if reSlackToken.MatchString(v) {
		return true
	}
	return false
}
