// Package extract implements the extraction-assist candidate generator: a
// deterministic, bounded traversal of a JSON value that proposes JMESPath
// expressions for the LLM analyzer to choose from. It never evaluates a
// JMESPath expression, only generates candidate strings.
package extract

import (
	"encoding/json"
	"sort"
	"strings"
)

const (
	defaultMaxDepth   = 6
	maxVisitedNodes   = 750
	maxSampledPerList = 6
	maxCandidates     = 20
)

// wrapperKeyBoost rewards common envelope keys that wrap the real payload.
var wrapperKeyBoost = map[string]float64{
	"data": 0.30, "payload": 0.28, "response": 0.25, "result": 0.25, "body": 0.20,
}

// listContainerBoost rewards keys that typically hold the list of interest.
var listContainerBoost = map[string]float64{
	"items": 0.30, "results": 0.28, "edges": 0.22, "nodes": 0.22,
	"rows": 0.20, "hits": 0.20,
}

// Candidate is one proposed JMESPath expression.
type Candidate struct {
	Path  string
	Score float64
}

type generator struct {
	visited int
	out     []Candidate
}

// Generate returns up to 20 scored, deterministic candidate JMESPath
// expressions for v.
func Generate(v any) []Candidate {
	g := &generator{}
	if arr, ok := v.([]any); ok {
		g.emit("[*]", 0.15)
		g.walkList("[*]", arr, 1, defaultMaxDepth)
	} else {
		g.walk(v, "", 0, defaultMaxDepth)
	}
	return g.finalize()
}

func (g *generator) finalize() []Candidate {
	sort.SliceStable(g.out, func(i, j int) bool {
		if g.out[i].Score != g.out[j].Score {
			return g.out[i].Score > g.out[j].Score
		}
		return g.out[i].Path < g.out[j].Path
	})
	if len(g.out) > maxCandidates {
		g.out = g.out[:maxCandidates]
	}
	return g.out
}

func (g *generator) emit(path string, score float64) {
	g.out = append(g.out, Candidate{Path: path, Score: clamp01(score)})
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (g *generator) walk(v any, prefix string, depth, maxDepth int) {
	if depth > maxDepth || g.visited >= maxVisitedNodes {
		return
	}
	g.visited++

	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		child := obj[k]
		segment := jmesSegment(k)
		path := joinPath(prefix, segment)
		score := baseScore(depth)
		if b, ok := wrapperKeyBoost[strings.ToLower(k)]; ok {
			score += b
		}
		if b, ok := listContainerBoost[strings.ToLower(k)]; ok {
			score += b
		}

		switch cv := child.(type) {
		case []any:
			if b, ok := listContainerBoost[strings.ToLower(k)]; ok {
				score += b
			}
			listPath := path + "[*]"
			g.emit(listPath, score)
			g.walkList(listPath, cv, depth+1, maxDepth)
		case map[string]any:
			g.emit(path, score)
			g.walk(cv, path, depth+1, maxDepth)
		default:
			g.emit(path, score*0.6)
		}
	}
}

func (g *generator) walkList(listPath string, arr []any, depth, maxDepth int) {
	if depth > maxDepth || g.visited >= maxVisitedNodes {
		return
	}
	n := len(arr)
	if n > maxSampledPerList {
		n = maxSampledPerList
	}
	var commonKeys []string
	for i := 0; i < n; i++ {
		obj, ok := arr[i].(map[string]any)
		if !ok {
			continue
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			if isIdentifier(k) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		if i == 0 {
			commonKeys = keys
		} else {
			commonKeys = intersect(commonKeys, keys)
		}
		g.walk(obj, listPath, depth, maxDepth)
	}
	if len(commonKeys) >= 2 {
		g.emit(multiSelectHash(listPath, commonKeys), 0.35)
	}
}

func baseScore(depth int) float64 {
	return 0.50 - 0.05*float64(depth)
}

func intersect(a, b []string) []string {
	set := map[string]bool{}
	for _, x := range b {
		set[x] = true
	}
	var out []string
	for _, x := range a {
		if set[x] {
			out = append(out, x)
		}
	}
	return out
}

var identRune = func(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for _, r := range s {
		if !identRune(r) {
			return false
		}
	}
	return true
}

// jmesSegment renders a map key as a JMESPath identifier, quoting it with
// JSON string escaping when it is not a bare identifier.
func jmesSegment(key string) string {
	if isIdentifier(key) {
		return key
	}
	quoted, _ := json.Marshal(key)
	return string(quoted)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

func multiSelectHash(listPath string, keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+k)
	}
	return listPath + ".{" + strings.Join(parts, ", ") + "}"
}
