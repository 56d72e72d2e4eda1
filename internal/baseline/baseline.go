// Package baseline implements the C9 baseline fingerprinter: given a
// validated analysis and one real reply, it captures the structural shape of
// that reply as a BaselineFingerprint.
package baseline

import (
	"encoding/json"

	"github.com/jmespath/go-jmespath"

	"github.com/marcohefti/moneyrecipe/internal/fingerprint"
	"github.com/marcohefti/moneyrecipe/internal/model"
)

const defaultMaxDepth = 6

// Capture computes a BaselineFingerprint from analysis and the raw body of
// one real reply to the analyzed request. If the request spec names an
// extract_path and it evaluates successfully, the fingerprint is taken over
// the extracted value; otherwise (no extract_path, or evaluation failure) it
// falls back to the full decoded body, recording a note on failure.
//
// sample_count is always 1 here: merging multiple real replies into one
// baseline is left unimplemented, matching the single-sample policy noted
// for this component.
func Capture(analysis model.AnalysisResult, body []byte) (*model.BaselineFingerprint, model.ValidationResult) {
	var validation model.ValidationResult
	validation.OK = true

	if analysis.RequestSpec == nil {
		validation.AddError(model.ErrMissingRequest, "request_spec", "analysis has no request spec to baseline")
		return nil, validation
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		validation.AddError(model.ErrOther, "body", "reply body is not valid JSON: "+err.Error())
		return nil, validation
	}

	target := decoded
	var notes []string
	if path := analysis.RequestSpec.ExtractPath; path != nil && *path != "" {
		extracted, err := evalExtractPath(*path, decoded)
		if err != nil {
			notes = append(notes, "extract_path evaluation failed, falling back to full body: "+err.Error())
		} else if extracted == nil {
			notes = append(notes, "extract_path matched nothing, falling back to full body")
		} else {
			target = extracted
		}
	}

	entries, err := fingerprint.Fingerprint(target, defaultMaxDepth)
	if err != nil {
		validation.AddError(model.ErrOther, "body", "could not fingerprint reply: "+err.Error())
		return nil, validation
	}

	result := &model.BaselineFingerprint{
		Analysis:    analysis,
		Validation:  validation,
		MaxDepth:    defaultMaxDepth,
		Entries:     entries,
		SampleCount: 1,
		Notes:       notes,
	}
	return result, validation
}

func evalExtractPath(path string, data any) (any, error) {
	expr, err := jmespath.Compile(path)
	if err != nil {
		return nil, err
	}
	return expr.Search(data)
}
