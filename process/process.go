// Package process drives a simulation run: for each decision period it
// obtains an allocation from the policy, assembles exogenous information
// (vaccine supply, wave signal, response-measure-adjusted parameters),
// advances the state through the step engine, and evaluates stop criteria.
package process

import (
	"fmt"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
	"github.com/epiflow-xyz/go-epiflow/policy"
	"github.com/epiflow-xyz/go-epiflow/response"
	"github.com/epiflow-xyz/go-epiflow/state"
)

// StopReason records why a run terminated.
type StopReason string

const (
	// StopRecovered fires when the recovered fraction exceeds the threshold.
	StopRecovered StopReason = "recovered-threshold"
	// StopNoActiveInfection fires when E1+E2+A+I falls below epsilon.
	StopNoActiveInfection StopReason = "no-active-infection"
	// StopHorizon fires when the fixed horizon is reached.
	StopHorizon StopReason = "horizon-reached"
)

// Config assembles a decision process. Simulator, Policy and Initial are
// required; the rest have working defaults.
type Config struct {
	Simulator     state.Simulator
	Policy        policy.Policy
	Initial       *state.State
	Horizon       int // decision periods before forced stop
	SubPeriods    int // sub-periods per decision period
	PeriodsPerDay int

	Waves  WaveTimeline
	Supply SupplySchedule

	// Mapper, when set, adjusts contact weights, alphas and flow scale
	// from recent history each period. Nil keeps the carried parameters.
	Mapper *response.Mapper

	// LifeExpectancy holds remaining life years per age group for the
	// end-of-run YLL figure. Nil leaves YLL at zero.
	LifeExpectancy []float64

	RecoveredThreshold float64 // default 0.7
	Epsilon            float64 // default 1 individual
}

// DecisionProcess owns one run: its path, policy and driving inputs.
// Independent runs share only read-only inputs, so they can execute in
// parallel as long as each owns its policy instance and random streams.
type DecisionProcess struct {
	cfg  Config
	path state.Path
}

// New validates the configuration and seeds the path with the initial state.
func New(cfg Config) (*DecisionProcess, error) {
	if cfg.Simulator == nil {
		return nil, fmt.Errorf("process: Simulator is required")
	}
	if cfg.Policy == nil {
		return nil, fmt.Errorf("process: Policy is required")
	}
	if cfg.Initial == nil {
		return nil, fmt.Errorf("process: Initial state is required")
	}
	if cfg.Horizon <= 0 {
		return nil, fmt.Errorf("process: Horizon must be positive, got %d", cfg.Horizon)
	}
	if cfg.SubPeriods <= 0 {
		return nil, fmt.Errorf("process: SubPeriods must be positive, got %d", cfg.SubPeriods)
	}
	if cfg.PeriodsPerDay <= 0 {
		return nil, fmt.Errorf("process: PeriodsPerDay must be positive, got %d", cfg.PeriodsPerDay)
	}
	if cfg.RecoveredThreshold == 0 {
		cfg.RecoveredThreshold = 0.7
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1
	}
	return &DecisionProcess{
		cfg:  cfg,
		path: state.Path{cfg.Initial},
	}, nil
}

// Path returns the snapshots recorded so far, initial state included.
func (p *DecisionProcess) Path() state.Path { return p.path }

// Run executes decision periods until a stop criterion fires, then computes
// the years-of-life-lost figure on the final snapshot.
func (p *DecisionProcess) Run() (state.Path, StopReason) {
	var reason StopReason
	for {
		if reason = p.stopReason(p.path.Last()); reason != "" {
			break
		}
		p.Step()
	}
	final := p.path.Last()
	final.YLL = final.ComputeYLL(p.cfg.LifeExpectancy)
	return p.path, reason
}

// Step advances exactly one decision period and appends the new snapshot.
func (p *DecisionProcess) Step() *state.State {
	cur := p.path.Last()
	decision := p.cfg.Policy.Decide(cur, cur.VaccinesAvailable)
	info := p.exogenous(cur)
	next := cur.Transition(decision, info, p.cfg.Simulator, p.cfg.SubPeriods, p.cfg.PeriodsPerDay)
	next.StrategyCount[p.cfg.Policy.Name()]++
	p.path = append(p.path, next)
	return next
}

// stopReason evaluates the stop-criteria state machine for a snapshot.
func (p *DecisionProcess) stopReason(s *state.State) StopReason {
	if s.RecoveredFraction() > p.cfg.RecoveredThreshold {
		return StopRecovered
	}
	if s.ActiveInfections() < p.cfg.Epsilon {
		return StopNoActiveInfection
	}
	if s.TimeStep >= p.cfg.Horizon {
		return StopHorizon
	}
	return ""
}

// exogenous assembles the driving information for the next period: supply
// from the dated schedule windowed to the period, the wave signal, and the
// response-measure-adjusted parameters when a mapper is configured.
func (p *DecisionProcess) exogenous(s *state.State) epidemic.Exogenous {
	days := p.cfg.SubPeriods / p.cfg.PeriodsPerDay
	supply := p.cfg.Supply.Window(s.Date, s.Date.AddDate(0, 0, days))
	wave := p.cfg.Waves.At(s.TimeStep)

	weights, alphas, flow := s.ContactWeights, s.Alphas, s.FlowScale
	if p.cfg.Mapper != nil {
		weights, alphas, flow = p.cfg.Mapper.Map(weights, alphas, flow, p.path)
	}

	return epidemic.Exogenous{
		R:              wave.R,
		VaccineSupply:  supply,
		WaveState:      wave.State,
		ContactWeights: weights,
		Alphas:         alphas,
		FlowScale:      flow,
	}
}
