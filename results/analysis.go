package results

import "math"

// Analyzer computes insights from run results
type Analyzer struct {
	results *Results
}

// NewAnalyzer creates an analyzer for results
func NewAnalyzer(r *Results) *Analyzer {
	return &Analyzer{results: r}
}

// ComputeAll runs all analysis functions and attaches the outcome
func (a *Analyzer) ComputeAll() *Analysis {
	analysis := &Analysis{
		Conservation: a.checkConservation(1e-6),
		Peaks:        a.findPeaks(),
		Statistics:   a.computeStatistics(),
	}
	a.results.Analysis = analysis
	return analysis
}

// checkConservation verifies the population balance: the per-period total
// across all compartments (V excluded, it is a sub-count) must stay at the
// initial population within the relative tolerance.
func (a *Analyzer) checkConservation(relTol float64) *Conservation {
	totals := a.periodTotals()
	if len(totals) == 0 {
		return &Conservation{Conserved: true}
	}

	initial := totals[0]
	maxDrift := 0.0
	for _, total := range totals {
		drift := math.Abs(total - initial)
		if drift > maxDrift {
			maxDrift = drift
		}
	}

	scale := math.Abs(initial)
	if scale == 0 {
		scale = 1
	}
	return &Conservation{
		Initial:   initial,
		Final:     totals[len(totals)-1],
		MaxDrift:  maxDrift,
		Conserved: maxDrift/scale <= relTol,
	}
}

// periodTotals returns the whole-population total per period.
func (a *Analyzer) periodTotals() []float64 {
	ts := a.results.Results.Timeseries
	var totals []float64
	for i := range ts.Periods {
		total := 0.0
		for _, name := range CompartmentNames {
			if name == "V" {
				continue
			}
			if series, ok := ts.Compartments[name]; ok && i < len(series) {
				total += series[i]
			}
		}
		totals = append(totals, total)
	}
	return totals
}

// findPeaks locates local maxima of the infectious compartments.
func (a *Analyzer) findPeaks() []Peak {
	var peaks []Peak
	for _, name := range []string{"E1", "E2", "A", "I"} {
		series, ok := a.results.Results.Timeseries.Compartments[name]
		if !ok {
			continue
		}
		for i := 1; i < len(series)-1; i++ {
			if series[i] > series[i-1] && series[i] >= series[i+1] {
				peaks = append(peaks, Peak{
					Variable: name,
					Period:   a.results.Results.Timeseries.Periods[i],
					Value:    series[i],
				})
			}
		}
	}
	return peaks
}

// computeStatistics summarizes each compartment series.
func (a *Analyzer) computeStatistics() map[string]Stat {
	stats := make(map[string]Stat)
	for name, series := range a.results.Results.Timeseries.Compartments {
		if len(series) == 0 {
			continue
		}
		min, max, sum := series[0], series[0], 0.0
		for _, v := range series {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		mean := sum / float64(len(series))

		variance := 0.0
		for _, v := range series {
			d := v - mean
			variance += d * d
		}
		variance /= float64(len(series))

		stats[name] = Stat{Min: min, Max: max, Mean: mean, Std: math.Sqrt(variance)}
	}
	return stats
}
