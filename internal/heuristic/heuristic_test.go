package heuristic_test

import (
	"strings"
	"testing"

	"github.com/marcohefti/moneyrecipe/internal/heuristic"
	"github.com/marcohefti/moneyrecipe/internal/model"
)

func candidateSet(signals ...model.RequestSignal) model.CandidateSet {
	var cands []model.RequestCandidate
	for i, s := range signals {
		cands = append(cands, model.RequestCandidate{Rank: i + 1, Score: 0, Signal: s})
	}
	return model.CandidateSet{Candidates: cands}
}

// TestAnalyze_HappyPathHeuristic implements scenario A.
func TestAnalyze_HappyPathHeuristic(t *testing.T) {
	good := model.RequestSignal{
		URL: "https://api.example.com/search?q=python+jobs&limit=20", Method: "GET",
		Status: 200, ContentType: "application/json", ResponseSizeBytes: 4000,
	}
	cs := model.CandidateSet{Candidates: []model.RequestCandidate{
		{Rank: 1, Score: 0.95, Signal: good},
		{Rank: 2, Score: 0.10, Signal: model.RequestSignal{URL: "https://www.google-analytics.com/collect", Method: "POST", Status: 200}},
	}}

	result, params, ok := heuristic.Analyze(cs)
	if !ok {
		t.Fatalf("expected the heuristic analyzer to produce a draft")
	}
	if result.RequestSpec == nil {
		t.Fatalf("expected a request spec")
	}
	if result.RequestSpec.Method != "GET" {
		t.Fatalf("expected method GET, got %q", result.RequestSpec.Method)
	}
	if len(result.RequestSpec.AllowedDomains) != 1 || result.RequestSpec.AllowedDomains[0] != "api.example.com" {
		t.Fatalf("expected allowed_domains=[api.example.com], got %v", result.RequestSpec.AllowedDomains)
	}
	if !strings.Contains(result.RequestSpec.URL, "q=%7Bquery%7D") && !strings.Contains(result.RequestSpec.URL, "q={query}") {
		t.Fatalf("expected templated q param, got %q", result.RequestSpec.URL)
	}
	if len(params) != 1 || params[0].Name != "query" || params[0].Default == nil || *params[0].Default != "python jobs" {
		t.Fatalf("expected one query parameter defaulting to 'python jobs', got %+v", params)
	}
}

func TestAnalyze_ConservativeWhenScoreGapTooSmall(t *testing.T) {
	a := model.RequestSignal{URL: "https://api.example.com/a?q=x", Method: "GET", Status: 200, ContentType: "application/json", ResponseSizeBytes: 1000}
	b := model.RequestSignal{URL: "https://api.example.com/b?q=y", Method: "GET", Status: 200, ContentType: "application/json", ResponseSizeBytes: 1000}
	cs := model.CandidateSet{Candidates: []model.RequestCandidate{
		{Rank: 1, Score: 0.90, Signal: a},
		{Rank: 2, Score: 0.80, Signal: b},
	}}
	_, _, ok := heuristic.Analyze(cs)
	if ok {
		t.Fatalf("expected no draft when the score gap is below 0.30")
	}
}

func TestAnalyze_ConservativeWhenNotJSON(t *testing.T) {
	a := model.RequestSignal{URL: "https://api.example.com/a", Method: "GET", Status: 200, ContentType: "text/html", ResponseSizeBytes: 1000}
	cs := model.CandidateSet{Candidates: []model.RequestCandidate{{Rank: 1, Score: 0.99, Signal: a}}}
	_, _, ok := heuristic.Analyze(cs)
	if ok {
		t.Fatalf("expected no draft for a non-JSON content type")
	}
}

func TestAnalyze_ConservativeWhenNoCandidates(t *testing.T) {
	_, _, ok := heuristic.Analyze(model.CandidateSet{})
	if ok {
		t.Fatalf("expected no draft for an empty candidate set")
	}
}
