package epidemic

import "fmt"

// Config holds the scalar disease parameters for a simulation case.
// All durations are in days; rate constants are derived by the engine as
// 1/(period × periods-per-day).
type Config struct {
	R0            float64 // basic reproduction number
	PeriodsPerDay int     // sub-periods per calendar day

	LatentPeriod          float64 // days in E1 before becoming infectious
	PresymptomaticPeriod  float64 // days in E2 before symptom onset
	PostsymptomaticPeriod float64 // days in I until recovery or death

	Efficacy               float64 // fraction of administered doses that immunize
	ProportionSymptomatic  float64 // share of exposures that become symptomatic
	PresymptomaticInfect   float64 // relative infectiousness of E2
	AsymptomaticInfect     float64 // relative infectiousness of A

	InitialContactWeights [4]float64 // home, school, work, public
	InitialAlphas         [3]float64 // transmission reduction for E2, A, I
	InitialFlowScale      float64    // mobility scaling applied to commuter flows
}

// RecoveryPeriod returns the total infectious duration in days.
func (c Config) RecoveryPeriod() float64 {
	return c.PresymptomaticPeriod + c.PostsymptomaticPeriod
}

// Validate checks the configuration for values the model cannot run with.
// It returns an error naming the first offending field.
func (c Config) Validate() error {
	if c.R0 <= 0 {
		return fmt.Errorf("config: R0 must be positive, got %g", c.R0)
	}
	if c.PeriodsPerDay <= 0 {
		return fmt.Errorf("config: PeriodsPerDay must be positive, got %d", c.PeriodsPerDay)
	}
	if c.LatentPeriod <= 0 {
		return fmt.Errorf("config: LatentPeriod must be positive, got %g", c.LatentPeriod)
	}
	if c.PresymptomaticPeriod <= 0 {
		return fmt.Errorf("config: PresymptomaticPeriod must be positive, got %g", c.PresymptomaticPeriod)
	}
	if c.PostsymptomaticPeriod <= 0 {
		return fmt.Errorf("config: PostsymptomaticPeriod must be positive, got %g", c.PostsymptomaticPeriod)
	}
	if c.Efficacy < 0 || c.Efficacy > 1 {
		return fmt.Errorf("config: Efficacy must be in [0,1], got %g", c.Efficacy)
	}
	if c.ProportionSymptomatic < 0 || c.ProportionSymptomatic > 1 {
		return fmt.Errorf("config: ProportionSymptomatic must be in [0,1], got %g", c.ProportionSymptomatic)
	}
	if c.PresymptomaticInfect < 0 {
		return fmt.Errorf("config: PresymptomaticInfect must be non-negative, got %g", c.PresymptomaticInfect)
	}
	if c.AsymptomaticInfect < 0 {
		return fmt.Errorf("config: AsymptomaticInfect must be non-negative, got %g", c.AsymptomaticInfect)
	}
	for i, w := range c.InitialContactWeights {
		if w < 0 {
			return fmt.Errorf("config: InitialContactWeights[%d] must be non-negative, got %g", i, w)
		}
	}
	if c.InitialFlowScale < 0 {
		return fmt.Errorf("config: InitialFlowScale must be non-negative, got %g", c.InitialFlowScale)
	}
	return nil
}

// DefaultConfig returns parameters for a COVID-like disease with four
// sub-periods per day, suitable for tests and demos.
func DefaultConfig() Config {
	return Config{
		R0:                    2.5,
		PeriodsPerDay:         4,
		LatentPeriod:          3.0,
		PresymptomaticPeriod:  2.0,
		PostsymptomaticPeriod: 6.0,
		Efficacy:              0.9,
		ProportionSymptomatic: 0.6,
		PresymptomaticInfect:  1.25,
		AsymptomaticInfect:    0.5,
		InitialContactWeights: [4]float64{0.25, 0.25, 0.25, 0.25},
		InitialAlphas:         [3]float64{1, 1, 1},
		InitialFlowScale:      1.0,
	}
}
