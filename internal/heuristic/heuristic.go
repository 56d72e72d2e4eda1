// Package heuristic implements the C7 heuristic analyzer: a conservative,
// multi-condition gate that proposes a draft recipe without an LLM call
// when confidence is already high.
package heuristic

import (
	"net/url"
	"sort"
	"strings"

	"github.com/marcohefti/moneyrecipe/internal/model"
	"github.com/marcohefti/moneyrecipe/internal/sanitize"
	"github.com/marcohefti/moneyrecipe/internal/slug"
)

const (
	minTopScore   = 0.85
	minScoreGap   = 0.30
	minBodyBytes  = 200
	maxBodyBytes  = 32 * 1024
	recipeNameLen = 60
)

var searchLikeQueryKeys = []string{"q", "query", "term", "search", "keyword", "keywords"}

var headerAllowlist = []string{"accept", "accept-language", "content-type", "x-requested-with"}

// Analyze proposes a draft recipe from cs. It returns ok=false, with no
// result, unless every confidence condition holds — property 6 requires
// that conservatism. The returned parameters are not part of AnalysisResult
// (the data model has no slot for them there); they carry the one templated
// default value forward for whatever assembles the final Recipe.
func Analyze(cs model.CandidateSet) (result *model.AnalysisResult, params []model.Parameter, ok bool) {
	if len(cs.Candidates) == 0 {
		return nil, nil, false
	}
	top := cs.Candidates[0]
	second := 0.0
	if len(cs.Candidates) > 1 {
		second = cs.Candidates[1].Score
	}
	if top.Score < minTopScore || (top.Score-second) < minScoreGap {
		return nil, nil, false
	}

	s := top.Signal
	if !strings.EqualFold(s.Method, "GET") {
		return nil, nil, false
	}
	if !strings.Contains(strings.ToLower(s.ContentType), "json") {
		return nil, nil, false
	}
	if s.ResponseSizeBytes < minBodyBytes || s.ResponseSizeBytes > maxBodyBytes {
		return nil, nil, false
	}
	if s.Status < 200 || s.Status >= 300 {
		return nil, nil, false
	}

	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" || u.User != nil {
		return nil, nil, false
	}

	spec, params := buildSpec(u)
	name := slug.Make(u.Hostname()+u.Path, recipeNameLen)

	rank := top.Rank
	result = &model.AnalysisResult{
		CandidateSet:      cs,
		SelectedRank:      &rank,
		RequestSpec:       &spec,
		RecipeNameSuggest: name,
		Notes:             []string{"produced by the heuristic analyzer, no LLM call made"},
	}
	return result, params, true
}

func buildSpec(u *url.URL) (model.RecipeRequestSpec, []model.Parameter) {
	values := u.Query()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kept := url.Values{}
	var templatedKey, templatedValue string
	for _, k := range keys {
		v := firstOrEmpty(values[k])
		if isSearchLikeKey(k) && templatedKey == "" && !looksSensitive(k, v) {
			templatedKey = k
			templatedValue = v
			continue
		}
		if looksSensitive(k, v) {
			continue
		}
		kept.Set(k, v)
	}

	var params []model.Parameter
	if templatedKey != "" {
		kept.Set(templatedKey, "{query}")
		def := templatedValue
		params = append(params, model.Parameter{
			Name:     "query",
			Type:     "string",
			Required: false,
			Default:  &def,
			Source:   model.SourceQuery,
		})
	}

	u2 := *u
	u2.RawQuery = ""
	base := u2.String()
	finalURL := base
	if enc := kept.Encode(); enc != "" {
		finalURL = base + "?" + strings.ReplaceAll(enc, "%7Bquery%7D", "{query}")
	}

	return model.RecipeRequestSpec{
		URL:            finalURL,
		Method:         "GET",
		Headers:        map[string]string{"accept": "application/json"},
		ResponseType:   model.ResponseTypeJSON,
		AllowedDomains: []string{u.Hostname()},
	}, params
}

func firstOrEmpty(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func isSearchLikeKey(k string) bool {
	lower := strings.ToLower(k)
	for _, cand := range searchLikeQueryKeys {
		if lower == cand {
			return true
		}
	}
	return false
}

func looksSensitive(key, value string) bool {
	return sanitize.IsSensitiveQueryKey(key) || sanitize.LooksOpaque(value)
}
