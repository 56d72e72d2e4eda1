// Package signal implements the C5 signal extractor: recording → per-request
// safe signals.
package signal

import (
	"sort"
	"strconv"
	"strings"

	"github.com/marcohefti/moneyrecipe/internal/model"
	"github.com/marcohefti/moneyrecipe/internal/sanitize"
)

const (
	DefaultMaxCalls             = 200
	defaultStructuralSummaryLen = 500
)

var xhrLikeResourceTypes = map[string]bool{
	"xhr": true, "fetch": true,
}

// Extract pairs requests and responses by RequestID, keeps only XHR/Fetch
// entries, sorts by request timestamp, truncates to maxCalls (DefaultMaxCalls
// when <= 0), and projects each pair to a RequestSignal.
func Extract(recording model.SessionRecording, maxCalls int) *model.SignalSet {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}

	responseByID := make(map[string]model.NetworkResponse, len(recording.Responses))
	for _, r := range recording.Responses {
		responseByID[r.RequestID] = r
	}

	docTimeline := documentTimeline(recording.Requests)

	kept := make([]model.NetworkRequest, 0, len(recording.Requests))
	for _, req := range recording.Requests {
		if !xhrLikeResourceTypes[strings.ToLower(req.ResourceType)] {
			continue
		}
		if _, ok := responseByID[req.RequestID]; !ok {
			continue
		}
		kept = append(kept, req)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Timestamp < kept[j].Timestamp
	})
	if len(kept) > maxCalls {
		kept = kept[:maxCalls]
	}

	signals := make([]model.RequestSignal, 0, len(kept))
	for _, req := range kept {
		resp := responseByID[req.RequestID]
		signals = append(signals, project(req, resp, docTimeline))
	}

	return &model.SignalSet{Recording: recording, Signals: signals}
}

func project(req model.NetworkRequest, resp model.NetworkResponse, docs []docEntry) model.RequestSignal {
	body := ""
	if resp.Body != nil {
		body = *resp.Body
	}
	return model.RequestSignal{
		URL:               sanitize.SanitizeURL(req.URL, 2048),
		Method:            req.Method,
		Status:            resp.Status,
		ContentType:       contentType(resp),
		ResponseSizeBytes: responseSize(resp, body),
		StructuralSummary: sanitize.SummarizeResponseStructure(contentType(resp), body, defaultStructuralSummaryLen),
		DurationMs:        durationMs(req.Timestamp, resp.Timestamp),
		RequestTimestamp:  req.Timestamp,
		ResponseTimestamp: resp.Timestamp,
		InitiatorPageURL:  sanitize.SanitizeURL(initiatorPageURL(req.Timestamp, docs), 2048),
		ResourceType:      req.ResourceType,
		RequestID:         req.RequestID,
	}
}

func contentType(resp model.NetworkResponse) string {
	ct := resp.MimeType
	if ct == "" {
		ct = resp.Headers["content-type"]
		if ct == "" {
			ct = resp.Headers["Content-Type"]
		}
	}
	ct = strings.ToLower(ct)
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.TrimSpace(ct)
}

func responseSize(resp model.NetworkResponse, body string) int64 {
	for _, key := range []string{"content-length", "Content-Length"} {
		if v, ok := resp.Headers[key]; ok {
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
				return n
			}
		}
	}
	if body == "" {
		return 0
	}
	return int64(len(body))
}

func durationMs(requestTs, responseTs float64) *float64 {
	if requestTs <= 0 || responseTs <= 0 {
		return nil
	}
	if responseTs < requestTs {
		return nil
	}
	d := (responseTs - requestTs) * 1000
	return &d
}

type docEntry struct {
	url       string
	timestamp float64
}

func documentTimeline(requests []model.NetworkRequest) []docEntry {
	var docs []docEntry
	for _, r := range requests {
		if strings.EqualFold(r.ResourceType, "document") {
			docs = append(docs, docEntry{url: r.URL, timestamp: r.Timestamp})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].timestamp < docs[j].timestamp })
	return docs
}

// initiatorPageURL returns the most recent Document-type request URL at or
// before ts, or "" if none precedes it. It never guesses from the
// navigation list.
func initiatorPageURL(ts float64, docs []docEntry) string {
	best := ""
	for _, d := range docs {
		if d.timestamp <= ts {
			best = d.url
		} else {
			break
		}
	}
	return best
}
