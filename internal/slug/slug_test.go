package slug

import "testing"

func TestValidComponent(t *testing.T) {
	cases := map[string]bool{
		"task-1":        true,
		"a":             true,
		"A9_-z":         true,
		"":              false,
		"-leading-dash": false,
		"has space":     false,
		"has/slash":     false,
	}
	for in, want := range cases {
		if got := ValidComponent(in); got != want {
			t.Errorf("ValidComponent(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidComponentLengthBound(t *testing.T) {
	ok := "a" + repeat("b", 127)
	if !ValidComponent(ok) {
		t.Errorf("expected 128-char component to be valid")
	}
	tooLong := "a" + repeat("b", 128)
	if ValidComponent(tooLong) {
		t.Errorf("expected 129-char component to be invalid")
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func TestValidIdentifier(t *testing.T) {
	cases := map[string]bool{
		"q":        true,
		"_private": true,
		"search_1": true,
		"123":      false,
		"1abc":     false,
		"has-dash": false,
		"":         false,
	}
	for in, want := range cases {
		if got := ValidIdentifier(in); got != want {
			t.Errorf("ValidIdentifier(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMakeSlugifiesAndBounds(t *testing.T) {
	got := Make("api.example.com/Search Jobs!!", 20)
	if got != "api-example-com-sear" {
		t.Errorf("Make = %q", got)
	}
	if !ValidComponent(Make("api.example.com/search", 60)) {
		t.Errorf("Make output must satisfy ValidComponent")
	}
}

func TestMakeEmptyFallsBackToRecipe(t *testing.T) {
	if got := Make("!!!", 60); got != "recipe" {
		t.Errorf("Make(%q) = %q, want %q", "!!!", got, "recipe")
	}
}

func TestNewTaskIDIsValidComponentAndUnique(t *testing.T) {
	a := NewTaskID()
	b := NewTaskID()
	if !ValidComponent(a) || !ValidComponent(b) {
		t.Errorf("NewTaskID produced an invalid component: %q, %q", a, b)
	}
	if a == b {
		t.Errorf("expected two distinct task ids, got the same value twice: %q", a)
	}
}
