package extract_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/marcohefti/moneyrecipe/internal/extract"
)

func parse(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	return v
}

func TestGenerate_RootListEmitsWildcardNotAt(t *testing.T) {
	cands := extract.Generate(parse(t, `[{"id":1},{"id":2}]`))
	found := false
	for _, c := range cands {
		if c.Path == "[*]" {
			found = true
		}
		if c.Path == "@" {
			t.Fatalf("root-list candidates must never be '@', got %q", c.Path)
		}
	}
	if !found {
		t.Fatalf("expected a [*] candidate for a root list, got %+v", cands)
	}
}

func TestGenerate_PrefersWrapperKeys(t *testing.T) {
	cands := extract.Generate(parse(t, `{"data":{"items":[{"id":1,"name":"a"}]},"meta":{"page":1}}`))
	if len(cands) == 0 {
		t.Fatalf("expected at least one candidate")
	}
	top := cands[0].Path
	if !strings.HasPrefix(top, "data") {
		t.Fatalf("expected top candidate to prefer the data wrapper, got %q (all: %+v)", top, cands)
	}
}

func TestGenerate_MultiSelectHashOnCommonKeys(t *testing.T) {
	cands := extract.Generate(parse(t, `{"items":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`))
	found := false
	for _, c := range cands {
		if strings.Contains(c.Path, ".{") && strings.Contains(c.Path, "id:") && strings.Contains(c.Path, "name:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a multi-select hash candidate over common keys id/name, got %+v", cands)
	}
}

func TestGenerate_BoundedCount(t *testing.T) {
	cands := extract.Generate(parse(t, `{"data":{"items":[{"id":1,"name":"a","a":1,"b":2,"c":3,"d":4,"e":5,"f":6,"g":7,"h":8,"i":9,"j":10,"k":11,"l":12,"m":13,"n":14,"o":15,"p":16,"q":17,"r":18,"s":19,"t":20,"u":21,"v":22,"w":23,"x":24,"y":25,"z":26}]}}`))
	if len(cands) > 20 {
		t.Fatalf("expected at most 20 candidates, got %d", len(cands))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	v := parse(t, `{"data":{"items":[{"id":1,"name":"a"}]},"meta":{"page":1}}`)
	a := extract.Generate(v)
	b := extract.Generate(v)
	if len(a) != len(b) {
		t.Fatalf("expected deterministic candidate count, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic candidate order, differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_QuotesNonIdentifierKeys(t *testing.T) {
	cands := extract.Generate(parse(t, `{"weird-key":{"a":1}}`))
	found := false
	for _, c := range cands {
		if strings.HasPrefix(c.Path, `"weird-key"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a quoted JMESPath segment for a non-identifier key, got %+v", cands)
	}
}
