// Package state defines the immutable per-period snapshot of a simulation
// run and the transition that produces the next snapshot from a vaccine
// allocation and exogenous information.
package state

import (
	"time"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
)

// State is one snapshot of the epidemic at the start of a decision period.
// Snapshots are never mutated after they are appended to a Path; each
// transition produces a fresh one.
type State struct {
	epidemic.Compartments

	TimeStep          int
	Date              time.Time
	VaccinesAvailable float64

	// Exogenous parameter state carried forward for the response mapper.
	ContactWeights [4]float64
	Alphas         [3]float64
	FlowScale      float64

	// Running totals for the period that produced this snapshot.
	NewInfected   epidemic.Matrix
	NewDeaths     epidemic.Matrix
	TotalInfected epidemic.Matrix

	// Wave and policy bookkeeping.
	WaveState     string
	WaveCount     int
	StrategyCount map[string]int

	// Years of life lost, computed once at run end on the final snapshot.
	YLL float64
}

// Simulator advances compartments through one decision period. Implemented
// by epidemic.Engine; injected so transitions stay testable in isolation.
type Simulator interface {
	Simulate(c epidemic.Compartments, weekday int, decision epidemic.Allocation,
		subPeriods int, info epidemic.Exogenous) epidemic.StepResult
}

// Options configures initial-state construction.
type Options struct {
	Population        epidemic.Matrix // initial population per region/age group
	SeedInfected      float64         // infected bolus distributed by population share
	HubRegion         int             // region receiving HubBoost extra seeding, -1 to disable
	HubBoost          float64         // extra infected placed in HubRegion
	VaccinesAvailable float64
	StartDate         time.Time
	ContactWeights    [4]float64
	Alphas            [3]float64
	FlowScale         float64
}

// NewInitial builds the time-step-zero snapshot: full susceptibility minus a
// seeded infected bolus spread proportionally to population share, with an
// optional extra bolus in a designated hub region.
func NewInitial(o Options) *State {
	regions, ageGroups := o.Population.Rows(), o.Population.Cols()
	c := epidemic.NewCompartments(regions, ageGroups)
	total := o.Population.Sum()

	for r := 0; r < regions; r++ {
		for a := 0; a < ageGroups; a++ {
			pop := o.Population[r][a]
			seed := 0.0
			if total > 0 {
				seed = o.SeedInfected * pop / total
			}
			if r == o.HubRegion && ageGroups > 0 {
				seed += o.HubBoost / float64(ageGroups)
			}
			if seed > pop {
				seed = pop
			}
			c.S[r][a] = pop - seed
			c.I[r][a] = seed
		}
	}

	return &State{
		Compartments:      c,
		Date:              o.StartDate,
		VaccinesAvailable: o.VaccinesAvailable,
		ContactWeights:    o.ContactWeights,
		Alphas:            o.Alphas,
		FlowScale:         o.FlowScale,
		NewInfected:       epidemic.NewMatrix(regions, ageGroups),
		NewDeaths:         epidemic.NewMatrix(regions, ageGroups),
		TotalInfected:     epidemic.NewMatrix(regions, ageGroups),
		StrategyCount:     make(map[string]int),
	}
}

// Transition produces the next snapshot by delegating the compartment
// arithmetic to sim and packaging the result with updated bookkeeping.
// The receiver is left untouched.
func (s *State) Transition(decision epidemic.Allocation, info epidemic.Exogenous,
	sim Simulator, subPeriods, periodsPerDay int) *State {

	weekday := (int(s.Date.Weekday()) + 6) % 7 // Monday = 0
	res := sim.Simulate(s.Compartments, weekday, decision, subPeriods, info)

	total := s.TotalInfected.Clone()
	for r := range res.NewInfected {
		for a := range res.NewInfected[r] {
			total[r][a] += res.NewInfected[r][a]
		}
	}

	waveCount := s.WaveCount
	if info.WaveState != "" && info.WaveState != s.WaveState {
		waveCount++
	}

	counts := make(map[string]int, len(s.StrategyCount))
	for k, v := range s.StrategyCount {
		counts[k] = v
	}

	days := 0
	if periodsPerDay > 0 {
		days = subPeriods / periodsPerDay
	}

	return &State{
		Compartments:      res.Compartments,
		TimeStep:          s.TimeStep + 1,
		Date:              s.Date.AddDate(0, 0, days),
		VaccinesAvailable: s.VaccinesAvailable + info.VaccineSupply - decision.Total() + res.UnusedDoses,
		ContactWeights:    info.ContactWeights,
		Alphas:            info.Alphas,
		FlowScale:         info.FlowScale,
		NewInfected:       res.NewInfected,
		NewDeaths:         res.NewDeaths,
		TotalInfected:     total,
		WaveState:         info.WaveState,
		WaveCount:         waveCount,
		StrategyCount:     counts,
	}
}

// RecoveredFraction returns the share of the total population currently in R.
func (s *State) RecoveredFraction() float64 {
	pop := s.Population().Sum()
	if pop == 0 {
		return 0
	}
	return s.R.Sum() / pop
}

// ComputeYLL returns years of life lost: cumulative deaths per age group
// weighted by the remaining life expectancy of that group.
func (s *State) ComputeYLL(lifeExpectancy []float64) float64 {
	deaths := s.D.ColSums()
	yll := 0.0
	for a, d := range deaths {
		if a < len(lifeExpectancy) {
			yll += d * lifeExpectancy[a]
		}
	}
	return yll
}

// Path is the append-only sequence of snapshots produced by a run.
type Path []*State

// Last returns the most recent snapshot, or nil for an empty path.
func (p Path) Last() *State {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// At returns the snapshot i periods back from the end; At(0) == Last().
func (p Path) At(back int) *State {
	idx := len(p) - 1 - back
	if idx < 0 {
		return nil
	}
	return p[idx]
}
