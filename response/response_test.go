package response

import (
	"math"
	"testing"
	"time"

	"github.com/epiflow-xyz/go-epiflow/epidemic"
	"github.com/epiflow-xyz/go-epiflow/state"
)

func testSnapshot(timeStep int) *state.State {
	s := state.NewInitial(state.Options{
		Population:   epidemic.Matrix{{10000, 10000}},
		SeedInfected: 100,
		HubRegion:    -1,
		StartDate:    time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	s.TimeStep = timeStep
	s.NewInfected = epidemic.Matrix{{50, 30}}
	s.NewDeaths = epidemic.Matrix{{2, 1}}
	s.TotalInfected = epidemic.Matrix{{500, 300}}
	s.D[0][0] = 10
	return s
}

func testPath(n int) state.Path {
	var p state.Path
	for i := 0; i < n; i++ {
		p = append(p, testSnapshot(i))
	}
	return p
}

// constantModels returns a model set predicting the same level for every
// measure category.
func constantModels(level float64) [NumMeasures]Model {
	var models [NumMeasures]Model
	for c := range models {
		models[c] = Model{
			Scaler:    &StandardScaler{},
			Surrogate: &LinearSurrogate{Intercept: level},
		}
	}
	return models
}

func TestNewMapperValidation(t *testing.T) {
	if _, err := NewMapper(IdentityModels(), 0); err == nil {
		t.Error("Expected error for zero population")
	}

	models := IdentityModels()
	models[MeasureWork].Surrogate = nil
	if _, err := NewMapper(models, 20000); err == nil {
		t.Error("Expected error for missing surrogate")
	}
}

func TestFeatures(t *testing.T) {
	m, err := NewMapper(IdentityModels(), 20000)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	features := m.Features(testPath(3))
	if len(features) != NumFeatures {
		t.Fatalf("Expected %d features, got %d", NumFeatures, len(features))
	}

	scale := 100000.0 / 20000.0
	if math.Abs(features[1]-800*scale) > 1e-9 {
		t.Errorf("Expected cumulative cases %f per 100k, got %f", 800*scale, features[1])
	}
	if math.Abs(features[2]-80*scale) > 1e-9 {
		t.Errorf("Expected last-period cases %f per 100k, got %f", 80*scale, features[2])
	}
	if math.Abs(features[4]-10*scale) > 1e-9 {
		t.Errorf("Expected cumulative deaths %f per 100k, got %f", 10*scale, features[4])
	}
}

func TestMapColdStart(t *testing.T) {
	m, err := NewMapper(constantModels(10), 20000)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	weights := [4]float64{0.25, 0.25, 0.25, 0.25}
	alphas := [3]float64{1, 1, 1}
	w, a, f := m.Map(weights, alphas, 1, testPath(2))

	if w != weights || a != alphas || f != 1 {
		t.Error("With fewer than three snapshots the inputs should pass through unchanged")
	}
}

func TestMapIdentityModels(t *testing.T) {
	m, err := NewMapper(IdentityModels(), 20000)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	weights := [4]float64{0.25, 0.25, 0.25, 0.25}
	alphas := [3]float64{0.9, 0.8, 0.7}
	w, a, f := m.Map(weights, alphas, 0.8, testPath(5))

	if w != weights {
		t.Errorf("Zero predictions should leave weights unchanged, got %v", w)
	}
	if a != alphas {
		t.Errorf("Zero predictions should leave alphas unchanged, got %v", a)
	}
	if f != 0.8 {
		t.Errorf("Zero predictions should leave flow scale unchanged, got %f", f)
	}
}

func TestMapStricterMeasures(t *testing.T) {
	m, err := NewMapper(constantModels(5), 20000)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	weights := [4]float64{0.25, 0.25, 0.25, 0.25}
	alphas := [3]float64{1, 1, 1}
	w, a, f := m.Map(weights, alphas, 1, testPath(5))

	if w[0] <= weights[0] {
		t.Errorf("Home contact should rise under stricter measures, got %f", w[0])
	}
	for i := 1; i < 4; i++ {
		if w[i] >= weights[i] {
			t.Errorf("Out-of-home weight %d should fall, got %f", i, w[i])
		}
	}
	for i := range a {
		if a[i] >= alphas[i] {
			t.Errorf("Alpha %d should fall under stricter measures, got %f", i, a[i])
		}
	}
	if f >= 1 {
		t.Errorf("Flow scale should fall under stricter measures, got %f", f)
	}
}

func TestMapClamping(t *testing.T) {
	m, err := NewMapper(constantModels(1e9), 20000)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	w, a, f := m.Map([4]float64{0.25, 0.25, 0.25, 0.25}, [3]float64{1, 1, 1}, 1, testPath(5))

	for i := 1; i < 4; i++ {
		if w[i] < 0.05-1e-12 {
			t.Errorf("Weight %d fell below the floor, got %f", i, w[i])
		}
	}
	if w[0] > 1+1e-12 {
		t.Errorf("Home weight exceeded the cap, got %f", w[0])
	}
	for i := range a {
		if a[i] < 0.01-1e-12 {
			t.Errorf("Alpha %d fell below the floor, got %f", i, a[i])
		}
	}
	if f < 0.1-1e-12 {
		t.Errorf("Flow scale fell below the floor, got %f", f)
	}
}

func TestMapNegativePredictionsIgnored(t *testing.T) {
	m, err := NewMapper(constantModels(-50), 20000)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	weights := [4]float64{0.25, 0.25, 0.25, 0.25}
	w, a, f := m.Map(weights, [3]float64{1, 1, 1}, 1, testPath(5))

	// Negative measure levels mean no restrictions: nothing moves.
	if w != weights {
		t.Errorf("Negative predictions should leave weights unchanged, got %v", w)
	}
	if a != [3]float64{1, 1, 1} || f != 1 {
		t.Error("Negative predictions should leave alphas and flow unchanged")
	}
}

func TestStandardScaler(t *testing.T) {
	s := &StandardScaler{Mean: []float64{10, 0}, Std: []float64{2, 0}}
	out := s.Scale([]float64{14, 5})
	if out[0] != 2 {
		t.Errorf("Expected (14-10)/2 = 2, got %f", out[0])
	}
	// Zero std passes the centered value through.
	if out[1] != 5 {
		t.Errorf("Expected 5 for zero-deviation feature, got %f", out[1])
	}
}

func TestLinearSurrogate(t *testing.T) {
	l := &LinearSurrogate{Coef: []float64{1, 2}, Intercept: 3}
	if got := l.Predict([]float64{4, 5}); got != 17 {
		t.Errorf("Expected 3 + 4 + 10 = 17, got %f", got)
	}
	// Extra features beyond the coefficient vector are ignored.
	if got := l.Predict([]float64{4, 5, 100}); got != 17 {
		t.Errorf("Expected 17 with trailing feature ignored, got %f", got)
	}
}
