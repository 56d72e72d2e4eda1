package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	genkitcore "github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

func marshalDraft(d *Draft) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// proposeRequest is the flow input: the candidate set to analyze.
type proposeRequest struct {
	Candidates model.CandidateSet `json:"candidates"`
}

// GenkitProvider implements Provider by running a genkit flow that asks a
// model to propose a single reusable request spec.
type GenkitProvider struct {
	g         *genkit.Genkit
	modelName string
	flow      *genkitcore.Flow[*proposeRequest, *Draft, struct{}]
}

// NewGenkitProvider wires a propose_request_spec flow against modelName.
func NewGenkitProvider(g *genkit.Genkit, modelName string) *GenkitProvider {
	p := &GenkitProvider{g: g, modelName: modelName}
	p.flow = genkit.DefineFlow(
		g,
		"proposeRequestSpecFlow",
		func(ctx context.Context, req *proposeRequest) (*Draft, error) {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("context cancelled before request-spec analysis: %w", err)
			}

			prompt := buildProposePrompt(req.Candidates)

			result, _, err := genkit.GenerateData[Draft](
				ctx,
				g,
				ai.WithModelName(modelName),
				ai.WithPrompt(prompt),
			)
			if err != nil {
				return nil, fmt.Errorf("propose_request_spec LLM call failed: %w", err)
			}
			return result, nil
		},
	)
	return p
}

// Propose runs the flow and returns both the parsed draft and its raw JSON
// text, so callers can keep the raw output on AnalysisResult even when
// validation later rejects the draft.
func (p *GenkitProvider) Propose(ctx context.Context, cs model.CandidateSet) (*Draft, string, error) {
	draft, err := p.flow.Run(ctx, &proposeRequest{Candidates: cs})
	if err != nil {
		return nil, "", err
	}
	raw, marshalErr := marshalDraft(draft)
	if marshalErr != nil {
		raw = ""
	}
	return draft, raw, nil
}
