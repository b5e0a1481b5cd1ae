// Package sweep runs batches of independent simulation runs (different
// policies, different seeds) in parallel and ranks their outcomes. Each run
// owns its state path, policy instance and random streams; runs share only
// read-only inputs, so the workers need no synchronization beyond collecting
// results.
package sweep

import (
	"fmt"
	"sort"
	"sync"

	"github.com/epiflow-xyz/go-epiflow/process"
	"github.com/epiflow-xyz/go-epiflow/state"
)

// RunSpec identifies one run of a batch.
type RunSpec struct {
	Policy string
	Seed   int64
}

// Runner executes one run to completion. Implementations must build a fresh
// process, policy and random streams for every call.
type Runner func(spec RunSpec) (state.Path, process.StopReason, error)

// Scorer evaluates a finished run from its final state. Lower is better.
type Scorer func(final *state.State) float64

// TotalDeaths scores a run by cumulative deaths.
func TotalDeaths(final *state.State) float64 { return final.D.Sum() }

// TotalInfected scores a run by cumulative infections.
func TotalInfected(final *state.State) float64 { return final.TotalInfected.Sum() }

// YearsOfLifeLost scores a run by the YLL figure on the final state.
func YearsOfLifeLost(final *state.State) float64 { return final.YLL }

// Outcome holds the scored result of one run.
type Outcome struct {
	Spec       RunSpec
	Score      float64
	StopReason process.StopReason
	Final      *state.State
	Err        error
}

// Result holds all outcomes of a batch, ranked best first.
type Result struct {
	Outcomes []Outcome
	Best     *Outcome
	Worst    *Outcome
}

// Run executes all specs in parallel worker goroutines and ranks the
// outcomes by score, best (lowest) first. Failed runs sort last and carry
// their error.
func Run(specs []RunSpec, runner Runner, scorer Scorer) (*Result, error) {
	if runner == nil {
		return nil, fmt.Errorf("sweep: runner is required")
	}
	if scorer == nil {
		return nil, fmt.Errorf("sweep: scorer is required")
	}

	outcomes := make([]Outcome, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec RunSpec) {
			defer wg.Done()
			path, reason, err := runner(spec)
			out := Outcome{Spec: spec, StopReason: reason, Err: err}
			if err == nil {
				out.Final = path.Last()
				out.Score = scorer(out.Final)
			}
			outcomes[i] = out
		}(i, spec)
	}
	wg.Wait()

	sort.SliceStable(outcomes, func(i, j int) bool {
		if (outcomes[i].Err == nil) != (outcomes[j].Err == nil) {
			return outcomes[i].Err == nil
		}
		return outcomes[i].Score < outcomes[j].Score
	})

	res := &Result{Outcomes: outcomes}
	for i := range outcomes {
		if outcomes[i].Err == nil {
			if res.Best == nil {
				res.Best = &outcomes[i]
			}
			res.Worst = &outcomes[i]
		}
	}
	return res, nil
}

// Specs builds the cross product of policies and seeds.
func Specs(policies []string, seeds []int64) []RunSpec {
	var specs []RunSpec
	for _, p := range policies {
		for _, s := range seeds {
			specs = append(specs, RunSpec{Policy: p, Seed: s})
		}
	}
	return specs
}
