// Command moneyrecipe is a thin entrypoint wiring the recipe-learning
// pipeline's stages together for a local, single-task run: it consumes a
// SessionRecording JSON file, drives every stage through to a saved recipe
// (status verified only when verification passed, draft otherwise), and
// persists each artifact before moving on. The browser/CDP
// recorder, the LLM provider, and the direct-execution runner proper all
// live outside this binary (see spec.md §1); this just wires the stages a
// caller already has the collaborators for.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/marcohefti/moneyrecipe/internal/baseline"
	"github.com/marcohefti/moneyrecipe/internal/heuristic"
	"github.com/marcohefti/moneyrecipe/internal/minimize"
	"github.com/marcohefti/moneyrecipe/internal/model"
	"github.com/marcohefti/moneyrecipe/internal/ppconfig"
	"github.com/marcohefti/moneyrecipe/internal/rank"
	"github.com/marcohefti/moneyrecipe/internal/recipe"
	"github.com/marcohefti/moneyrecipe/internal/signal"
	"github.com/marcohefti/moneyrecipe/internal/slug"
	"github.com/marcohefti/moneyrecipe/internal/ssrf"
	"github.com/marcohefti/moneyrecipe/internal/store"
	"github.com/marcohefti/moneyrecipe/internal/verify"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("moneyrecipe", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the project config (default: ./.moneyrecipe.json)")
	recordingPath := fs.String("recording", "", "path to a SessionRecording JSON file to learn a recipe from")
	taskID := fs.String("task", "", "task_id to use (default: a fresh generated id)")
	overwrite := fs.Bool("overwrite", false, "overwrite an existing recipe with the same name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *recordingPath == "" {
		fmt.Fprintln(os.Stderr, "moneyrecipe: -recording is required")
		return 2
	}

	if *configPath == "" {
		*configPath = ".moneyrecipe.json"
	}
	cfg, err := ppconfig.Load(*configPath)
	if err != nil {
		return fail("load config", err)
	}

	st, err := store.New(cfg.ArtifactRoot)
	if err != nil {
		return fail("open artifact store", err)
	}
	recipes, err := recipe.New(cfg.RecipeDirectory)
	if err != nil {
		return fail("open recipe store", err)
	}
	defer recipes.Close()

	id := *taskID
	if id == "" {
		id = slug.NewTaskID()
	}

	recording, err := loadRecording(*recordingPath)
	if err != nil {
		return fail("load recording", err)
	}
	if err := st.Save(id, "recording", recording); err != nil {
		return fail("persist recording", err)
	}

	signals := signal.Extract(*recording, 200)
	if err := st.Save(id, "signals", signals); err != nil {
		return fail("persist signals", err)
	}

	candidates := &model.CandidateSet{
		SignalSet:  *signals,
		Candidates: rank.Rank(signals.Signals, 5),
	}
	if err := st.Save(id, "candidates", candidates); err != nil {
		return fail("persist candidates", err)
	}

	analysis, params, ok := heuristic.Analyze(*candidates)
	if !ok || analysis.RequestSpec == nil {
		fmt.Fprintln(os.Stderr, "moneyrecipe: heuristic analyzer produced no draft; an LLM Provider is required for this recording (wire one in internal/llm and extend this command)")
		if analysis != nil {
			if err := st.Save(id, "analysis", analysis); err != nil {
				return fail("persist analysis", err)
			}
		}
		return 1
	}
	if err := st.Save(id, "analysis", analysis); err != nil {
		return fail("persist analysis", err)
	}

	httpClient := &http.Client{Timeout: 20 * time.Second}

	sampleOutcome := directReplay(httpClient, *analysis.RequestSpec)
	baselineFP, validation := baseline.Capture(*analysis, []byte(sampleOutcome.BodyText))
	if !validation.OK {
		fmt.Fprintln(os.Stderr, "moneyrecipe: baseline capture reported validation issues; continuing with what was captured")
	}
	if err := st.Save(id, "baseline", baselineFP); err != nil {
		return fail("persist baseline", err)
	}

	replayer := func(spec model.RecipeRequestSpec) minimize.ReplayOutcome {
		return directReplay(httpClient, spec)
	}

	minimization := minimize.Minimize(*baselineFP, *analysis.RequestSpec, replayer, minimize.DefaultBudget())
	if err := st.Save(id, "minimization", minimization); err != nil {
		return fail("persist minimization", err)
	}

	report := verify.Verify(*minimization, nil, replayer, minimize.DefaultBudget(), 2)
	if err := st.Save(id, "verification", report); err != nil {
		return fail("persist verification", err)
	}

	status := model.RecipeDraft
	if report.Status == model.StatusPassed {
		status = model.RecipeVerified
	}
	rec := &model.Recipe{
		Name:         nameOrFallback(analysis.RecipeNameSuggest, minimization.Minimized.URL),
		OriginalTask: recording.Task,
		Request:      minimization.Minimized,
		Parameters:   params,
		Status:       status,
	}
	path, err := recipes.Save(rec, *overwrite)
	if err != nil {
		return fail("save recipe", err)
	}

	fmt.Printf("task=%s verification=%s recipe=%s\n", id, report.Status, path)
	return 0
}

func nameOrFallback(suggested, url string) string {
	if suggested != "" {
		return suggested
	}
	return slug.Make(url, 60)
}

func loadRecording(path string) (*model.SessionRecording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec model.SessionRecording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// directReplay is the concrete replay(spec) -> ReplayOutcome transport: it
// validates the target is SSRF-safe and allowlisted immediately before
// issuing the HTTP call, per the direct-execution safety contract (§6).
func directReplay(client *http.Client, spec model.RecipeRequestSpec) minimize.ReplayOutcome {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := ssrf.ValidateURLSafe(ctx, spec.URL, nil); err != nil {
		return minimize.ReplayOutcome{Err: err}
	}
	if err := ssrf.ValidateDomainAllowed(spec.URL, spec.AllowedDomains); err != nil {
		return minimize.ReplayOutcome{Err: err}
	}

	var bodyReader io.Reader
	if spec.BodyTemplate != nil {
		bodyReader = strings.NewReader(*spec.BodyTemplate)
	}
	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, bodyReader)
	if err != nil {
		return minimize.ReplayOutcome{Err: err}
	}
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return minimize.ReplayOutcome{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return minimize.ReplayOutcome{Err: err}
	}
	return minimize.ReplayOutcome{HTTPStatus: resp.StatusCode, BodyText: string(body)}
}

func fail(step string, err error) int {
	fmt.Fprintf(os.Stderr, "moneyrecipe: %s: %v\n", step, err)
	return 1
}
