package results

import (
	"time"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
	"github.com/epiflow-xyz/go-epiflow/state"
	"github.com/google/uuid"
)

// Builder helps construct Results from a run's state path
type Builder struct {
	results Results
}

// NewBuilder creates a new results builder with a fresh run ID
func NewBuilder() *Builder {
	return &Builder{
		results: Results{
			Version: SchemaVersion,
			Metadata: Metadata{
				RunID:     uuid.New().String(),
				Timestamp: time.Now(),
			},
		},
	}
}

// WithRun sets run execution information
func (b *Builder) WithRun(policyName string, seed int64, stochastic bool, stopReason string, computeTime float64) *Builder {
	b.results.Metadata.Policy = policyName
	b.results.Metadata.Seed = seed
	b.results.Metadata.Stochastic = stochastic
	b.results.Metadata.StopReason = stopReason
	b.results.Metadata.ComputeTime = computeTime
	return b
}

// WithScenario echoes the scenario parameters into the document
func (b *Builder) WithScenario(s Scenario) *Builder {
	b.results.Scenario = s
	return b
}

// WithPath processes the state path into summary and timeseries data
func (b *Builder) WithPath(path state.Path) *Builder {
	if len(path) == 0 {
		return b
	}
	final := path.Last()

	ts := Timeseries{Compartments: make(map[string][]float64, len(CompartmentNames))}
	for _, s := range path {
		ts.Periods = append(ts.Periods, s.TimeStep)
		for name, m := range compartmentsByName(s.Compartments) {
			ts.Compartments[name] = append(ts.Compartments[name], m.Sum())
		}
		ts.NewInfected = append(ts.NewInfected, s.NewInfected.Sum())
		ts.NewDeaths = append(ts.NewDeaths, s.NewDeaths.Sum())
	}
	b.results.Results.Timeseries = ts

	finalState := make(map[string]float64, len(CompartmentNames))
	for name, m := range compartmentsByName(final.Compartments) {
		finalState[name] = m.Sum()
	}

	b.results.Results.Summary = Summary{
		Periods:           len(path) - 1,
		FinalState:        finalState,
		TotalInfected:     final.TotalInfected.Sum(),
		TotalDeaths:       final.D.Sum(),
		VaccinesGiven:     final.V.Sum(),
		RecoveredFraction: final.RecoveredFraction(),
		YLL:               final.YLL,
	}
	return b
}

// Build returns the constructed Results
func (b *Builder) Build() *Results {
	return &b.results
}

// compartmentsByName maps compartment labels to their matrices.
func compartmentsByName(c epidemic.Compartments) map[string]epidemic.Matrix {
	return map[string]epidemic.Matrix{
		"S": c.S, "E1": c.E1, "E2": c.E2, "A": c.A,
		"I": c.I, "R": c.R, "D": c.D, "V": c.V,
	}
}
