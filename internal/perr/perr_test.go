package perr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageIncludesPathWhenPresent(t *testing.T) {
	err := NewPath(Validation, "bad url", "request.url")
	want := "VALIDATION: bad url (request.url)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageOmitsPathWhenAbsent(t *testing.T) {
	err := New(SchemaMismatch, "stored hash does not match")
	want := "SCHEMA_MISMATCH: stored hash does not match"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsMatchesCodeThroughWrapping(t *testing.T) {
	base := New(SSRFBlocked, "target resolves to a private address")
	wrapped := fmt.Errorf("replay failed: %w", base)

	if !Is(wrapped, SSRFBlocked) {
		t.Errorf("expected Is to see through fmt.Errorf wrapping")
	}
	if Is(wrapped, Replay) {
		t.Errorf("expected Is to reject a non-matching code")
	}
}

func TestIsFalseForNonTaxonomyError(t *testing.T) {
	if Is(errors.New("plain error"), Validation) {
		t.Errorf("expected Is to reject a non-*Error")
	}
}
