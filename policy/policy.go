// Package policy implements vaccine-allocation strategies. A policy maps the
// current state and remaining supply to an allocation tensor, one dose
// matrix per sub-period of the decision period. Policies never allocate more
// than the available supply; unused doses are permitted and return to supply
// through the state transition.
package policy

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
	"github.com/epiflow-xyz/go-epiflow/state"
)

// Policy produces an allocation decision for one decision period.
type Policy interface {
	// Name identifies the strategy for bookkeeping and dispatch.
	Name() string
	// Decide returns a non-negative allocation whose total never exceeds
	// vaccinesAvailable. Degenerate inputs (zero supply, zero demand)
	// yield an all-zero allocation.
	Decide(s *state.State, vaccinesAvailable float64) epidemic.Allocation
}

// Options configures policy construction.
type Options struct {
	SubPeriods  int                // sub-periods per decision period
	Rng         *rand.Rand         // random stream for the random policy
	DemandFloor float64            // minimum susceptibles for a cell to receive random doses
	Weights     map[string]float64 // strategy weights for the weighted policy
}

// New constructs the named policy. Unknown names fail fast so a bad policy
// selection surfaces at process construction, not mid-run.
func New(name string, opts Options) (Policy, error) {
	if opts.SubPeriods <= 0 {
		return nil, fmt.Errorf("policy %q: SubPeriods must be positive, got %d", name, opts.SubPeriods)
	}
	switch name {
	case "none":
		return NoVaccines{subPeriods: opts.SubPeriods}, nil
	case "random":
		if opts.Rng == nil {
			return nil, fmt.Errorf("policy %q: random stream required", name)
		}
		floor := opts.DemandFloor
		if floor <= 0 {
			floor = 1
		}
		return &Random{subPeriods: opts.SubPeriods, rng: opts.Rng, floor: floor}, nil
	case "population":
		return PopulationBased{subPeriods: opts.SubPeriods}, nil
	case "infection":
		return InfectionBased{subPeriods: opts.SubPeriods}, nil
	case "weighted":
		return newWeighted(opts)
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// NoVaccines allocates nothing. Baseline for comparing strategies.
type NoVaccines struct {
	subPeriods int
}

func (NoVaccines) Name() string { return "none" }

func (p NoVaccines) Decide(s *state.State, _ float64) epidemic.Allocation {
	return epidemic.NewAllocation(p.subPeriods, s.Regions(), s.AgeGroups())
}

// Random hands out one dose at a time to uniformly random cells with
// remaining demand. Deterministic for a fixed stream seed.
type Random struct {
	subPeriods int
	rng        *rand.Rand
	floor      float64
}

func (*Random) Name() string { return "random" }

func (p *Random) Decide(s *state.State, vaccinesAvailable float64) epidemic.Allocation {
	regions, ageGroups := s.Regions(), s.AgeGroups()
	dec := epidemic.NewAllocation(p.subPeriods, regions, ageGroups)

	demand := s.S.Clone()
	eligible := 0
	for r := 0; r < regions; r++ {
		for a := 0; a < ageGroups; a++ {
			if demand[r][a] > p.floor {
				eligible++
			}
		}
	}

	for vaccinesAvailable >= 1 && eligible > 0 {
		period := p.rng.Intn(p.subPeriods)
		r := p.rng.Intn(regions)
		a := p.rng.Intn(ageGroups)
		if demand[r][a] <= p.floor {
			continue
		}
		dec[period][r][a]++
		demand[r][a]--
		vaccinesAvailable--
		if demand[r][a] <= p.floor {
			eligible--
		}
	}
	return dec
}

// PopulationBased allocates supply proportionally to each cell's share of
// total susceptibles, capped at local demand and spread evenly across
// sub-periods.
type PopulationBased struct {
	subPeriods int
}

func (PopulationBased) Name() string { return "population" }

func (p PopulationBased) Decide(s *state.State, vaccinesAvailable float64) epidemic.Allocation {
	return proportional(s.S, vaccinesAvailable, p.subPeriods, true)
}

// InfectionBased allocates supply proportionally to each cell's share of
// currently exposed individuals (E1), spread evenly across sub-periods.
type InfectionBased struct {
	subPeriods int
}

func (InfectionBased) Name() string { return "infection" }

func (p InfectionBased) Decide(s *state.State, vaccinesAvailable float64) epidemic.Allocation {
	return proportional(s.E1, vaccinesAvailable, p.subPeriods, false)
}

// proportional spreads supply over cells in proportion to weight, optionally
// capping each cell at its current susceptible demand.
func proportional(weight epidemic.Matrix, supply float64, subPeriods int, capAtDemand bool) epidemic.Allocation {
	regions, ageGroups := weight.Rows(), weight.Cols()
	dec := epidemic.NewAllocation(subPeriods, regions, ageGroups)
	total := weight.Sum()
	if total <= 0 || supply <= 0 {
		return dec
	}
	for r := 0; r < regions; r++ {
		for a := 0; a < ageGroups; a++ {
			doses := supply * weight[r][a] / total
			if capAtDemand && doses > weight[r][a] {
				doses = weight[r][a]
			}
			perPeriod := doses / float64(subPeriods)
			for i := 0; i < subPeriods; i++ {
				dec[i][r][a] = perPeriod
			}
		}
	}
	return dec
}

// Weighted combines sub-policies as a convex combination of their decisions.
type Weighted struct {
	policies []Policy
	weights  []float64
}

func newWeighted(opts Options) (*Weighted, error) {
	if len(opts.Weights) == 0 {
		return nil, fmt.Errorf("policy \"weighted\": at least one strategy weight required")
	}
	names := make([]string, 0, len(opts.Weights))
	for n := range opts.Weights {
		names = append(names, n)
	}
	sort.Strings(names)

	sum := 0.0
	w := &Weighted{}
	for _, n := range names {
		wt := opts.Weights[n]
		if wt < 0 {
			return nil, fmt.Errorf("policy \"weighted\": weight for %q must be non-negative, got %g", n, wt)
		}
		sub, err := New(n, Options{SubPeriods: opts.SubPeriods, Rng: opts.Rng, DemandFloor: opts.DemandFloor})
		if err != nil {
			return nil, err
		}
		w.policies = append(w.policies, sub)
		w.weights = append(w.weights, wt)
		sum += wt
	}
	if diff := sum - 1; diff > 1e-9 || diff < -1e-9 {
		return nil, fmt.Errorf("policy \"weighted\": weights must sum to 1, got %g", sum)
	}
	return w, nil
}

func (*Weighted) Name() string { return "weighted" }

func (w *Weighted) Decide(s *state.State, vaccinesAvailable float64) epidemic.Allocation {
	dec := epidemic.NewAllocation(0, 0, 0)
	for i, sub := range w.policies {
		part := sub.Decide(s, vaccinesAvailable)
		if i == 0 {
			dec = epidemic.NewAllocation(len(part), s.Regions(), s.AgeGroups())
		}
		for t := range part {
			for r := range part[t] {
				for a := range part[t][r] {
					dec[t][r][a] += w.weights[i] * part[t][r][a]
				}
			}
		}
	}
	return dec
}
