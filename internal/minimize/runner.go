package minimize

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/marcohefti/moneyrecipe/internal/model"
)

// Runner applies a Budget and per-spec-signature memoization around a
// Replayer. It is shared (via NewRunner) by both the minimizer and the
// verifier, since both "mirror" the same budget and memoization contract.
type Runner struct {
	replay    Replayer
	budget    Budget
	start     time.Time
	attempts  int
	mu        sync.Mutex
	memo      map[string]ReplayOutcome
	group     singleflight.Group
	exhausted bool
}

// NewRunner starts a fresh budget clock; call Replay for each candidate spec.
func NewRunner(replay Replayer, budget Budget) *Runner {
	return &Runner{
		replay: replay,
		budget: budget,
		start:  time.Now(),
		memo:   map[string]ReplayOutcome{},
	}
}

// Exhausted reports whether the budget was spent before the caller stopped
// asking for replays.
func (r *Runner) Exhausted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exhausted
}

// Replay executes (or returns the memoized result for) spec's signature. ok
// is false once the budget is exhausted; the caller must stop proposing new
// candidates at that point, per §4.10's "exhaustion stops elimination"
// contract.
func (r *Runner) Replay(spec model.RecipeRequestSpec) (ReplayOutcome, bool) {
	sig := specSignature(spec)

	r.mu.Lock()
	if cached, ok := r.memo[sig]; ok {
		r.mu.Unlock()
		return cached, true
	}
	if r.attempts >= r.budget.MaxAttempts || time.Since(r.start) > time.Duration(r.budget.MaxWallSeconds)*time.Second {
		r.exhausted = true
		r.mu.Unlock()
		return ReplayOutcome{}, false
	}
	r.attempts++
	r.mu.Unlock()

	v, _, _ := r.group.Do(sig, func() (any, error) {
		outcome := r.replay(spec)
		r.mu.Lock()
		r.memo[sig] = outcome
		r.mu.Unlock()
		if r.budget.Pacing > 0 {
			time.Sleep(r.budget.Pacing)
		}
		return outcome, nil
	})

	return v.(ReplayOutcome), true
}

// exhaustedNote is appended to a result's Notes when the budget runs out
// before elimination finishes; exhaustion is a soft outcome, never a fatal
// error, so there is no perr.Error for it.
const exhaustedNote = "replay budget exhausted before elimination finished"
