package epidemic

import (
	"fmt"
	"math/rand"
)

// Compartments holds one snapshot of every disease compartment, each shaped
// (regions × age-groups). V counts vaccinated individuals and is a sub-count
// of S/R rather than part of the population total.
type Compartments struct {
	S  Matrix // susceptible
	E1 Matrix // exposed, not yet infectious
	E2 Matrix // exposed, infectious (presymptomatic)
	A  Matrix // asymptomatic infected
	I  Matrix // symptomatic infected
	R  Matrix // recovered
	D  Matrix // dead
	V  Matrix // vaccinated
}

// NewCompartments returns zero-valued compartments for the given dimensions.
func NewCompartments(regions, ageGroups int) Compartments {
	return Compartments{
		S:  NewMatrix(regions, ageGroups),
		E1: NewMatrix(regions, ageGroups),
		E2: NewMatrix(regions, ageGroups),
		A:  NewMatrix(regions, ageGroups),
		I:  NewMatrix(regions, ageGroups),
		R:  NewMatrix(regions, ageGroups),
		D:  NewMatrix(regions, ageGroups),
		V:  NewMatrix(regions, ageGroups),
	}
}

// Clone returns a deep copy of all compartments.
func (c Compartments) Clone() Compartments {
	return Compartments{
		S: c.S.Clone(), E1: c.E1.Clone(), E2: c.E2.Clone(), A: c.A.Clone(),
		I: c.I.Clone(), R: c.R.Clone(), D: c.D.Clone(), V: c.V.Clone(),
	}
}

// Regions returns the number of regions.
func (c Compartments) Regions() int { return c.S.Rows() }

// AgeGroups returns the number of age groups.
func (c Compartments) AgeGroups() int { return c.S.Cols() }

// Population returns the per-cell population total S+E1+E2+A+I+R+D.
// V is excluded: it is a sub-count, not a compartment of its own.
func (c Compartments) Population() Matrix {
	n := NewMatrix(c.Regions(), c.AgeGroups())
	for _, m := range []Matrix{c.S, c.E1, c.E2, c.A, c.I, c.R, c.D} {
		addScaled(n, m, 1)
	}
	return n
}

// ActiveInfections returns the total across E1, E2, A and I.
func (c Compartments) ActiveInfections() float64 {
	return c.E1.Sum() + c.E2.Sum() + c.A.Sum() + c.I.Sum()
}

// Allocation is a vaccine-allocation decision: one (regions × age-groups)
// dose matrix per sub-period of the decision period.
type Allocation []Matrix

// NewAllocation returns an all-zero allocation for the given dimensions.
func NewAllocation(subPeriods, regions, ageGroups int) Allocation {
	a := make(Allocation, subPeriods)
	for i := range a {
		a[i] = NewMatrix(regions, ageGroups)
	}
	return a
}

// Total returns the total number of doses in the allocation.
func (a Allocation) Total() float64 {
	total := 0.0
	for _, m := range a {
		total += m.Sum()
	}
	return total
}

// Exogenous carries the per-decision-period driving parameters supplied by
// the control loop. ContactWeights, Alphas and FlowScale are carried forward
// onto the next state snapshot for the response-measure mapper.
type Exogenous struct {
	R              float64 // wave-driven effective reproduction number
	VaccineSupply  float64 // doses newly available this period
	WaveState      string  // categorical wave bookkeeping, opaque to the engine
	ContactWeights [4]float64
	Alphas         [3]float64
	FlowScale      float64
}

// StepResult is the outcome of advancing one decision period.
type StepResult struct {
	Compartments Compartments
	NewInfected  Matrix  // symptomatic onsets summed over sub-periods
	NewDeaths    Matrix  // deaths summed over sub-periods
	UnusedDoses  float64 // allocated doses not absorbed by susceptible demand
}

// Engine simulates SEAIR dynamics over a (regions × age-groups) state space.
// All rate parameters are derived once at construction; the engine itself is
// stateless apart from its random stream and can be reused across periods.
type Engine struct {
	cfg            Config
	contacts       ContactSet
	commuting      *CommutingPattern
	ageFlowScaling []float64
	fatalityRate   []float64

	includeFlow bool
	stochastic  bool
	useWaves    bool
	rng         *rand.Rand

	// Derived rate constants, per sub-period.
	sigma     float64 // E1 progression
	alphaRate float64 // E2 → I
	omega     float64 // I resolution
	gamma     float64 // A recovery
}

// NewEngine builds a step engine. fatalityRate must have one entry per age
// group; contact matrices must match that dimension.
func NewEngine(cfg Config, contacts ContactSet, fatalityRate []float64) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ageGroups := contacts.AgeGroups()
	if len(fatalityRate) != ageGroups {
		return nil, fmt.Errorf("fatality rates: want %d entries, got %d", ageGroups, len(fatalityRate))
	}
	for a, d := range fatalityRate {
		if d < 0 || d > 1 {
			return nil, fmt.Errorf("fatality rates: entry %d must be in [0,1], got %g", a, d)
		}
	}
	ppd := float64(cfg.PeriodsPerDay)
	return &Engine{
		cfg:          cfg,
		contacts:     contacts,
		fatalityRate: fatalityRate,
		sigma:        1 / (cfg.LatentPeriod * ppd),
		alphaRate:    1 / (cfg.PresymptomaticPeriod * ppd),
		omega:        1 / (cfg.PostsymptomaticPeriod * ppd),
		gamma:        1 / (cfg.RecoveryPeriod() * ppd),
	}, nil
}

// WithCommuting enables commuter transmission during working hours.
// ageFlowScaling must have one entry per age group.
func (e *Engine) WithCommuting(pattern *CommutingPattern, ageFlowScaling []float64) (*Engine, error) {
	if len(ageFlowScaling) != e.contacts.AgeGroups() {
		return nil, fmt.Errorf("age flow scaling: want %d entries, got %d",
			e.contacts.AgeGroups(), len(ageFlowScaling))
	}
	e.commuting = pattern
	e.ageFlowScaling = ageFlowScaling
	e.includeFlow = true
	return e, nil
}

// WithStochastic switches transmission draws to Poisson sampling from the
// given stream. Each run must own an independent stream for reproducibility.
func (e *Engine) WithStochastic(rng *rand.Rand) *Engine {
	e.stochastic = true
	e.rng = rng
	return e
}

// WithWaves makes the engine use the wave-driven R value from the exogenous
// information instead of the fixed R0.
func (e *Engine) WithWaves() *Engine {
	e.useWaves = true
	return e
}

// Simulate advances the compartments through subPeriods sub-periods under
// the given allocation and exogenous information. weekday is the day of week
// at the start of the period, Monday = 0. The input compartments are not
// modified.
func (e *Engine) Simulate(c Compartments, weekday int, decision Allocation, subPeriods int, info Exogenous) StepResult {
	cur := c.Clone()
	regions, ageGroups := cur.Regions(), cur.AgeGroups()

	rEff := e.cfg.R0
	if e.useWaves {
		rEff = info.R
	}
	beta := rEff / e.cfg.RecoveryPeriod()
	rE := e.cfg.PresymptomaticInfect
	rA := e.cfg.AsymptomaticInfect
	p := e.cfg.ProportionSymptomatic
	eps := e.cfg.Efficacy
	contact := WeightedContactMatrix(e.contacts, info.ContactWeights)

	newInfected := NewMatrix(regions, ageGroups)
	newDeaths := NewMatrix(regions, ageGroups)
	unused := 0.0

	for i := 0; i < subPeriods; i++ {
		step := (weekday*e.cfg.PeriodsPerDay + i) % subPeriods

		// Vaccinate before flow. decision[i] holds the doses for this
		// sub-period; anything beyond remaining susceptibles is credited
		// back to supply, and a fraction eps immunizes directly.
		var doses Matrix
		if i < len(decision) {
			doses = decision[i]
		}
		for r := 0; r < regions; r++ {
			for a := 0; a < ageGroups; a++ {
				want := 0.0
				if doses != nil {
					want = doses[r][a]
				}
				given := want
				if given > cur.S[r][a] {
					given = cur.S[r][a]
				}
				unused += want - given
				cur.S[r][a] -= eps * given
				cur.R[r][a] += eps * given
				cur.V[r][a] += given
			}
		}

		// Live population, deaths excluded from the denominator.
		n := NewMatrix(regions, ageGroups)
		for _, m := range []Matrix{cur.S, cur.E1, cur.E2, cur.A, cur.I, cur.R} {
			addScaled(n, m, 1)
		}

		// Commuter transmission during the working-hours window.
		commuterCases := NewMatrix(regions, ageGroups)
		if e.includeFlow && workingHours(step, e.cfg.PeriodsPerDay) {
			lamJ := NewMatrix(regions, ageGroups)
			for r := 0; r < regions; r++ {
				for a := 0; a < ageGroups; a++ {
					lamJ[r][a] = clip(beta*safeDiv(rE*cur.E2[r][a]+rA*cur.A[r][a]+cur.I[r][a],
						e.commuting.Visitors[r]), 0, 1)
				}
			}
			for r := 0; r < regions; r++ {
				for a := 0; a < ageGroups; a++ {
					force := 0.0
					for j := 0; j < regions; j++ {
						force += e.commuting.Flows[r][j] * info.FlowScale * e.ageFlowScaling[a] * lamJ[j][a]
					}
					rate := safeDiv(cur.S[r][a], n[r][a]) * force
					if e.stochastic {
						rate = poisson(e.rng, rate)
					}
					commuterCases[r][a] = rate
				}
			}
		}

		// Local contact transmission through the mixed contact matrix.
		contactCases := NewMatrix(regions, ageGroups)
		for r := 0; r < regions; r++ {
			for a := 0; a < ageGroups; a++ {
				force := 0.0
				for b := 0; b < ageGroups; b++ {
					lam := clip(beta*(info.Alphas[0]*rE*cur.E2[r][b]+
						info.Alphas[1]*rA*cur.A[r][b]+
						info.Alphas[2]*cur.I[r][b]), 0, 1)
					force += lam * contact[b][a]
				}
				rate := safeDiv(cur.S[r][a], n[r][a]) * force
				if e.stochastic {
					rate = poisson(e.rng, rate)
				}
				contactCases[r][a] = rate
			}
		}

		// Compartment flows. Exposures are capped at the available
		// susceptibles so S can never underflow.
		for r := 0; r < regions; r++ {
			for a := 0; a < ageGroups; a++ {
				newE1 := commuterCases[r][a] + contactCases[r][a]
				if newE1 > cur.S[r][a] {
					newE1 = cur.S[r][a]
				}
				newE2 := cur.E1[r][a] * e.sigma * p
				newA := cur.E1[r][a] * e.sigma * (1 - p)
				newI := cur.E2[r][a] * e.alphaRate
				newRA := cur.A[r][a] * e.gamma
				newRI := cur.I[r][a] * (1 - e.fatalityRate[a]) * e.omega
				newD := cur.I[r][a] * e.fatalityRate[a] * e.omega

				cur.S[r][a] -= newE1
				cur.E1[r][a] += newE1 - newE2 - newA
				cur.E2[r][a] += newE2 - newI
				cur.A[r][a] += newA - newRA
				cur.I[r][a] += newI - newRI - newD
				cur.R[r][a] += newRI + newRA
				cur.D[r][a] += newD

				newInfected[r][a] += newI
				newDeaths[r][a] += newD
			}
		}
	}

	return StepResult{
		Compartments: cur,
		NewInfected:  newInfected,
		NewDeaths:    newDeaths,
		UnusedDoses:  unused,
	}
}
