// Package rank implements the C6 candidate ranker: a pure, deterministic
// function from signals to a bounded, ranked candidate list.
package rank

import (
	"net/url"
	"sort"
	"strings"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

const DefaultTopK = 5

const (
	largeResponseBytes = 256 * 1024
	smallResponseBytes = 200
)

var trackerHostSubstrings = []string{
	"google-analytics.com", "doubleclick.net", "segment.com", "sentry.io",
}

// volatileQueryKeys mirrors the minimizer's own cache-busting query-key
// table (internal/minimize.volatileQueryKeys): a candidate carrying one of
// these is less likely to be the stable, reproducible money request.
var volatileQueryKeys = map[string]bool{
	"_t": true, "timestamp": true, "ts": true, "nonce": true,
	"cache": true, "cb": true, "rand": true, "_": true,
}

func hasVolatileQueryKey(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for key := range u.Query() {
		if volatileQueryKeys[strings.ToLower(key)] || strings.HasPrefix(key, "_") {
			return true
		}
	}
	return false
}

// Rank scores every signal, sorts descending by score (ties broken by more
// recent response_timestamp), and returns up to topK candidates with ranks
// assigned 1..N in that final order. It is a pure function of signals.
func Rank(signals []model.RequestSignal, topK int) []model.RequestCandidate {
	if topK <= 0 {
		topK = DefaultTopK
	}

	scored := make([]model.RequestCandidate, 0, len(signals))
	for _, s := range signals {
		scored = append(scored, model.RequestCandidate{
			Score:  score(s),
			Reason: reasonFor(s),
			Signal: s,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Signal.ResponseTimestamp > scored[j].Signal.ResponseTimestamp
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

func score(s model.RequestSignal) float64 {
	var total float64

	switch {
	case s.Status >= 200 && s.Status < 300:
		total += 0.40
	case s.Status >= 300 && s.Status < 400:
		total += 0.05
	default:
		total -= 0.40
	}

	if strings.EqualFold(s.Method, "GET") {
		total += 0.10
	} else {
		total += 0.02
	}

	ct := strings.ToLower(s.ContentType)
	switch {
	case strings.Contains(ct, "json") || strings.Contains(ct, "graphql"):
		total += 0.30
	case strings.Contains(ct, "html"):
		total += 0.10
	default:
		total += 0.02
	}

	if strings.EqualFold(s.ResourceType, "xhr") || strings.EqualFold(s.ResourceType, "fetch") {
		total += 0.10
	}

	switch {
	case s.ResponseSizeBytes < smallResponseBytes:
		total -= 0.20
	case s.ResponseSizeBytes > largeResponseBytes:
		total -= 0.20
	default:
		total += 0.05
	}

	if isTrackerURL(s.URL) {
		total -= 0.40
	}
	if strings.Contains(s.URL, "/collect") {
		total -= 0.20
	}

	if hasVolatileQueryKey(s.URL) {
		total -= 0.10
	}

	return clamp01(total)
}

func isTrackerURL(url string) bool {
	lower := strings.ToLower(url)
	for _, host := range trackerHostSubstrings {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

func reasonFor(s model.RequestSignal) model.CandidateReason {
	ct := strings.ToLower(s.ContentType)
	switch {
	case strings.Contains(ct, "json") || strings.Contains(ct, "graphql"):
		return model.ReasonJSONResponse
	case s.Status >= 200 && s.Status < 300:
		return model.ReasonStatusOK
	case s.ResponseSizeBytes > largeResponseBytes:
		return model.ReasonLargeResponse
	default:
		return model.ReasonURLMatch
	}
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
