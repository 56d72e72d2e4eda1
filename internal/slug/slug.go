// Package slug validates and generates the filesystem-safe identifiers used
// as task ids, artifact names, and recipe slugs.
package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// componentPattern matches the shared path-component grammar: an alphanumeric
// first character, then up to 127 more alphanumerics/underscore/hyphen.
var componentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidComponent reports whether s is a legal task_id or artifact_name.
func ValidComponent(s string) bool {
	return componentPattern.MatchString(s)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is a legal bare identifier, the grammar
// used for URL placeholders and parameter names.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

var (
	reNonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	reMultiDash = regexp.MustCompile(`-{2,}`)
)

// Make lowercases s, replaces runs of non-alphanumeric characters with a
// single hyphen, and trims the result (and, if maxLen > 0, bounds it) to a
// value safe to use as a filename component.
func Make(s string, maxLen int) string {
	lower := strings.ToLower(s)
	dashed := reNonAlnum.ReplaceAllString(lower, "-")
	dashed = reMultiDash.ReplaceAllString(dashed, "-")
	dashed = strings.Trim(dashed, "-")
	if dashed == "" {
		dashed = "recipe"
	}
	if maxLen > 0 && len(dashed) > maxLen {
		dashed = strings.TrimRight(dashed[:maxLen], "-")
	}
	return dashed
}

// NewTaskID returns a random task identifier suitable for use as an artifact
// store directory component.
func NewTaskID() string {
	return "task-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:20]
}
