package results

import (
	"math"
	"testing"
)

func analysisFixture() *Results {
	return &Results{
		Results: Data{
			Timeseries: Timeseries{
				Periods: []int{0, 1, 2, 3, 4},
				Compartments: map[string][]float64{
					"S":  {900, 850, 800, 780, 770},
					"E1": {0, 20, 40, 25, 10},
					"E2": {0, 0, 0, 0, 0},
					"A":  {0, 0, 0, 0, 0},
					"I":  {100, 120, 140, 160, 150},
					"R":  {0, 10, 18, 32, 65},
					"D":  {0, 0, 2, 3, 5},
					"V":  {0, 100, 200, 300, 400},
				},
			},
		},
	}
}

func TestComputeAllAttachesAnalysis(t *testing.T) {
	r := analysisFixture()
	analysis := NewAnalyzer(r).ComputeAll()

	if r.Analysis != analysis {
		t.Error("ComputeAll should attach the analysis to the results")
	}
	if analysis.Conservation == nil {
		t.Error("Conservation check should be present")
	}
	if analysis.Statistics == nil {
		t.Error("Statistics should be present")
	}
}

func TestConservation(t *testing.T) {
	r := analysisFixture()
	c := NewAnalyzer(r).ComputeAll().Conservation

	// V is excluded, so every period totals 1000 exactly.
	if c.Initial != 1000 {
		t.Errorf("Expected initial total 1000, got %f", c.Initial)
	}
	if c.Final != 1000 {
		t.Errorf("Expected final total 1000, got %f", c.Final)
	}
	if !c.Conserved {
		t.Errorf("Population should be conserved, drift %f", c.MaxDrift)
	}
}

func TestConservationDetectsDrift(t *testing.T) {
	r := analysisFixture()
	r.Results.Timeseries.Compartments["S"][4] = 500 // lose 270 individuals

	c := NewAnalyzer(r).ComputeAll().Conservation
	if c.Conserved {
		t.Error("Large drift should fail the conservation check")
	}
	if c.MaxDrift < 269 {
		t.Errorf("Expected drift near 270, got %f", c.MaxDrift)
	}
}

func TestFindPeaks(t *testing.T) {
	r := analysisFixture()
	peaks := NewAnalyzer(r).ComputeAll().Peaks

	var e1, i *Peak
	for k := range peaks {
		switch peaks[k].Variable {
		case "E1":
			e1 = &peaks[k]
		case "I":
			i = &peaks[k]
		}
	}
	if e1 == nil {
		t.Fatal("Expected a peak in E1")
	}
	if e1.Period != 2 || e1.Value != 40 {
		t.Errorf("Expected E1 peak at period 2 value 40, got period %d value %f", e1.Period, e1.Value)
	}
	if i == nil {
		t.Fatal("Expected a peak in I")
	}
	if i.Period != 3 || i.Value != 160 {
		t.Errorf("Expected I peak at period 3 value 160, got period %d value %f", i.Period, i.Value)
	}
}

func TestStatistics(t *testing.T) {
	r := analysisFixture()
	stats := NewAnalyzer(r).ComputeAll().Statistics

	s, ok := stats["E1"]
	if !ok {
		t.Fatal("Expected statistics for E1")
	}
	if s.Min != 0 || s.Max != 40 {
		t.Errorf("Expected min 0 max 40, got min %f max %f", s.Min, s.Max)
	}
	if math.Abs(s.Mean-19) > 1e-9 {
		t.Errorf("Expected mean 19, got %f", s.Mean)
	}
	if s.Std <= 0 {
		t.Errorf("Expected positive standard deviation, got %f", s.Std)
	}
}

func TestAnalysisEmptyTimeseries(t *testing.T) {
	r := &Results{}
	analysis := NewAnalyzer(r).ComputeAll()

	if analysis.Conservation == nil || !analysis.Conservation.Conserved {
		t.Error("An empty run should be trivially conserved")
	}
	if len(analysis.Peaks) != 0 {
		t.Errorf("Expected no peaks, got %d", len(analysis.Peaks))
	}
}
