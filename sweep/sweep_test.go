package sweep

import (
	"fmt"
	"testing"
	"time"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
	"github.com/epiflow-xyz/go-epiflow/process"
	"github.com/epiflow-xyz/go-epiflow/state"
)

// fakeRunner returns a one-snapshot path whose death count is derived from
// the seed, so scores are predictable.
func fakeRunner(spec RunSpec) (state.Path, process.StopReason, error) {
	s := state.NewInitial(state.Options{
		Population: epidemic.Matrix{{1000}},
		HubRegion:  -1,
		StartDate:  time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	s.D[0][0] = float64(spec.Seed)
	return state.Path{s}, process.StopHorizon, nil
}

func TestSpecs(t *testing.T) {
	specs := Specs([]string{"none", "random"}, []int64{1, 2, 3})
	if len(specs) != 6 {
		t.Fatalf("Expected 6 specs, got %d", len(specs))
	}
	if specs[0].Policy != "none" || specs[0].Seed != 1 {
		t.Errorf("Unexpected first spec %+v", specs[0])
	}
	if specs[5].Policy != "random" || specs[5].Seed != 3 {
		t.Errorf("Unexpected last spec %+v", specs[5])
	}
}

func TestRunRanksByScore(t *testing.T) {
	specs := Specs([]string{"none"}, []int64{30, 10, 20})

	res, err := Run(specs, fakeRunner, TotalDeaths)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(res.Outcomes))
	}
	// Ranked best (lowest deaths) first.
	wantSeeds := []int64{10, 20, 30}
	for i, want := range wantSeeds {
		if res.Outcomes[i].Spec.Seed != want {
			t.Errorf("Position %d: expected seed %d, got %d", i, want, res.Outcomes[i].Spec.Seed)
		}
	}
	if res.Best == nil || res.Best.Spec.Seed != 10 {
		t.Error("Best outcome should be the lowest-scoring run")
	}
	if res.Worst == nil || res.Worst.Spec.Seed != 30 {
		t.Error("Worst outcome should be the highest-scoring run")
	}
}

func TestRunErrorsSortLast(t *testing.T) {
	runner := func(spec RunSpec) (state.Path, process.StopReason, error) {
		if spec.Seed == 2 {
			return nil, "", fmt.Errorf("boom")
		}
		return fakeRunner(spec)
	}

	res, err := Run(Specs([]string{"none"}, []int64{1, 2, 3}), runner, TotalDeaths)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	last := res.Outcomes[len(res.Outcomes)-1]
	if last.Err == nil {
		t.Error("Failed runs should sort last")
	}
	if res.Best == nil || res.Best.Err != nil {
		t.Error("Best should skip failed runs")
	}
	if res.Worst.Spec.Seed != 3 {
		t.Errorf("Worst should be the highest-scoring successful run, got seed %d", res.Worst.Spec.Seed)
	}
}

func TestRunRequiresRunnerAndScorer(t *testing.T) {
	if _, err := Run(nil, nil, TotalDeaths); err == nil {
		t.Error("Expected error for missing runner")
	}
	if _, err := Run(nil, fakeRunner, nil); err == nil {
		t.Error("Expected error for missing scorer")
	}
}

func TestRunEmptySpecs(t *testing.T) {
	res, err := Run(nil, fakeRunner, TotalDeaths)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Outcomes) != 0 {
		t.Errorf("Expected no outcomes, got %d", len(res.Outcomes))
	}
	if res.Best != nil || res.Worst != nil {
		t.Error("Empty batch should have no best or worst")
	}
}

func TestScorers(t *testing.T) {
	s := state.NewInitial(state.Options{
		Population: epidemic.Matrix{{1000}},
		HubRegion:  -1,
		StartDate:  time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	s.D[0][0] = 5
	s.TotalInfected = epidemic.Matrix{{250}}
	s.YLL = 350

	if got := TotalDeaths(s); got != 5 {
		t.Errorf("TotalDeaths: expected 5, got %f", got)
	}
	if got := TotalInfected(s); got != 250 {
		t.Errorf("TotalInfected: expected 250, got %f", got)
	}
	if got := YearsOfLifeLost(s); got != 350 {
		t.Errorf("YearsOfLifeLost: expected 350, got %f", got)
	}
}
