package sanitize

import (
	"encoding/json"
	"strconv"
	"strings"
)

const maxJSONSummaryBytes = 50 * 1024

// SummarizeResponseStructure classifies a response body by content type and
// shape, then returns a bounded, value-free textual summary: for JSON, the
// top-level key names (sensitive ones replaced); for HTML, the distinct tag
// names seen; otherwise a byte-length note. It never echoes a raw value.
func SummarizeResponseStructure(contentType, body string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 500
	}
	if body == "" {
		return "no_body"
	}

	kind := classify(contentType, body)
	var summary string
	switch kind {
	case "json":
		if len(body) > maxJSONSummaryBytes {
			summary = "json:not_parsed"
			break
		}
		summary = summarizeJSON(body)
	case "html":
		summary = summarizeHTML(body)
	case "text":
		summary = "text:" + lenNote(len(body))
	default:
		summary = "unknown:" + lenNote(len(body))
	}
	return truncate(summary, maxLen)
}

func lenNote(n int) string {
	return strconv.Itoa(n) + "B"
}

func classify(contentType, body string) string {
	ct := strings.ToLower(contentType)
	trimmed := strings.TrimSpace(body)
	switch {
	case strings.Contains(ct, "json"):
		return "json"
	case strings.Contains(ct, "html"):
		return "html"
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		return "json"
	case strings.HasPrefix(trimmed, "<"):
		return "html"
	case strings.Contains(ct, "text"):
		return "text"
	default:
		return "unknown"
	}
}

func summarizeJSON(body string) string {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return "json:not_parsed"
	}
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			if isSensitiveKeyName(k) {
				keys = append(keys, redactedKey)
				continue
			}
			keys = append(keys, k)
		}
		return "json:object{" + strings.Join(keys, ",") + "}"
	case []any:
		return "json:array[len=" + strconv.Itoa(len(t)) + "]"
	default:
		return "json:scalar"
	}
}

func summarizeHTML(body string) string {
	seen := map[string]bool{}
	var tags []string
	i := 0
	for i < len(body) {
		if body[i] != '<' {
			i++
			continue
		}
		j := i + 1
		if j < len(body) && (body[j] == '/' || body[j] == '!') {
			i = j
			continue
		}
		start := j
		for j < len(body) && isTagNameRune(body[j]) {
			j++
		}
		if j > start {
			tag := strings.ToLower(body[start:j])
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
		i = j
	}
	return "html:tags{" + strings.Join(tags, ",") + "}"
}

func isTagNameRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSensitiveKeyName(name string) bool {
	lower := strings.ToLower(name)
	for tok := range sensitiveHeaderTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
