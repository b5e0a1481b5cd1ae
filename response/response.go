// Package response maps recent epidemic history onto contact weights,
// transmission-reduction factors and mobility scaling for the next decision
// period, using frozen regression surrogates trained outside this module.
// Only the feature construction and the monotone adjustment around the
// surrogates lives here; the predictors themselves are injected.
package response

import (
	"fmt"

	"github.com/epiflow-xyz/go-epiflow/state"
)

// NumFeatures is the dimension of the history feature vector: active cases,
// cumulative cases, last-period and second-to-last-period cases, and the
// three analogous death figures, all per 100k population.
const NumFeatures = 7

// Surrogate is a frozen regression model mapping a feature vector to a
// scalar response-measure level.
type Surrogate interface {
	Predict(features []float64) float64
}

// Scaler standardizes a feature vector the way the surrogate was trained.
type Scaler interface {
	Scale(features []float64) []float64
}

// Model pairs a surrogate with its feature scaler.
type Model struct {
	Scaler    Scaler
	Surrogate Surrogate
}

// Measure categories, one surrogate per category.
const (
	MeasureHome = iota
	MeasureSchool
	MeasureWork
	MeasurePublic
	MeasureAlpha    // combined transmission-reduction factor
	MeasureMobility // commuter flow scaling
	NumMeasures
)

// Adjustment bounds and gain for the fixed monotone mappings.
const (
	adjustGain  = 0.1
	minWeight   = 0.05
	maxWeight   = 1.0
	minAlpha    = 0.01
	minFlow     = 0.1
	minHistory  = 3 // periods of history required before mapping kicks in
	per100k     = 100000.0
	maxAlphaMsr = 100.0
)

// Mapper derives next-period parameters from the state path. It is a
// deterministic function of history with no internal state.
type Mapper struct {
	models     [NumMeasures]Model
	population float64
}

// NewMapper validates the model set and total population.
func NewMapper(models [NumMeasures]Model, population float64) (*Mapper, error) {
	if population <= 0 {
		return nil, fmt.Errorf("response mapper: population must be positive, got %g", population)
	}
	for c, m := range models {
		if m.Scaler == nil || m.Surrogate == nil {
			return nil, fmt.Errorf("response mapper: measure %d missing scaler or surrogate", c)
		}
	}
	return &Mapper{models: models, population: population}, nil
}

// Features builds the 7-dimensional per-100k history vector from the path.
// The path must hold at least two snapshots.
func (m *Mapper) Features(path state.Path) []float64 {
	last, prev := path.At(0), path.At(1)
	scale := per100k / m.population
	return []float64{
		last.ActiveInfections() * scale,
		last.TotalInfected.Sum() * scale,
		last.NewInfected.Sum() * scale,
		prev.NewInfected.Sum() * scale,
		last.D.Sum() * scale,
		last.NewDeaths.Sum() * scale,
		prev.NewDeaths.Sum() * scale,
	}
}

// Map returns adjusted contact weights, alphas and flow scale for the next
// period. With fewer than three prior periods of history the inputs are
// returned unchanged (cold start).
func (m *Mapper) Map(prevWeights [4]float64, prevAlphas [3]float64, prevFlow float64,
	path state.Path) ([4]float64, [3]float64, float64) {

	if len(path) < minHistory {
		return prevWeights, prevAlphas, prevFlow
	}
	features := m.Features(path)

	predict := func(c int) float64 {
		return m.models[c].Surrogate.Predict(m.models[c].Scaler.Scale(features))
	}

	// Home contact rises under stricter measures; the out-of-home
	// categories and mobility fall. All mappings are monotone in the
	// predicted measure level.
	var weights [4]float64
	weights[0] = clamp(prevWeights[0]*(1+adjustGain*pos(predict(MeasureHome))), minWeight, maxWeight)
	weights[1] = clamp(prevWeights[1]/(1+adjustGain*pos(predict(MeasureSchool))), minWeight, maxWeight)
	weights[2] = clamp(prevWeights[2]/(1+adjustGain*pos(predict(MeasureWork))), minWeight, maxWeight)
	weights[3] = clamp(prevWeights[3]/(1+adjustGain*pos(predict(MeasurePublic))), minWeight, maxWeight)

	alphaMeasure := clamp(predict(MeasureAlpha), 1, maxAlphaMsr)
	var alphas [3]float64
	for i, a := range prevAlphas {
		alphas[i] = clamp(a/alphaMeasure, minAlpha, 1)
	}

	flow := clamp(prevFlow/(1+adjustGain*pos(predict(MeasureMobility))), minFlow, 1)
	return weights, alphas, flow
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func pos(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// StandardScaler standardizes features with frozen per-feature means and
// standard deviations.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Scale returns (x - mean) / std per feature. Zero deviations pass the
// centered value through unscaled.
func (s *StandardScaler) Scale(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		mean, std := 0.0, 1.0
		if i < len(s.Mean) {
			mean = s.Mean[i]
		}
		if i < len(s.Std) && s.Std[i] != 0 {
			std = s.Std[i]
		}
		out[i] = (v - mean) / std
	}
	return out
}

// LinearSurrogate is a frozen linear regression predictor.
type LinearSurrogate struct {
	Coef      []float64
	Intercept float64
}

// Predict returns intercept + coef · features.
func (l *LinearSurrogate) Predict(features []float64) float64 {
	out := l.Intercept
	for i, v := range features {
		if i < len(l.Coef) {
			out += l.Coef[i] * v
		}
	}
	return out
}

// IdentityModels returns a model set whose predictions are all zero, leaving
// weights and mobility unchanged and alphas at their previous values.
// Useful as a neutral stand-in when no trained surrogates are supplied.
func IdentityModels() [NumMeasures]Model {
	var models [NumMeasures]Model
	for c := range models {
		models[c] = Model{
			Scaler:    &StandardScaler{},
			Surrogate: &LinearSurrogate{},
		}
	}
	return models
}
