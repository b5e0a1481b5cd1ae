package process

import (
	"math"
	"time"
)

// WavePoint is one entry of the precomputed wave timeline: the effective
// reproduction number driving the period and a categorical wave state.
type WavePoint struct {
	R     float64
	State string
}

// WaveTimeline is a precomputed schedule of R values over the horizon,
// indexed by decision period.
type WaveTimeline []WavePoint

// At returns the wave point for the given period, clamping past the end so
// runs longer than the timeline keep the final value.
func (t WaveTimeline) At(period int) WavePoint {
	if len(t) == 0 {
		return WavePoint{}
	}
	if period < 0 {
		period = 0
	}
	if period >= len(t) {
		period = len(t) - 1
	}
	return t[period]
}

// ConstantWaves returns a timeline holding r for the whole horizon,
// labelled as a neutral wave state.
func ConstantWaves(r float64, periods int) WaveTimeline {
	t := make(WaveTimeline, periods)
	for i := range t {
		t[i] = WavePoint{R: r, State: "N"}
	}
	return t
}

// SeasonalWaves returns a sinusoidal timeline oscillating around baseR with
// the given amplitude and period length. Rising stretches are labelled "U",
// falling stretches "D".
func SeasonalWaves(baseR, amplitude float64, wavePeriods, periods int) WaveTimeline {
	t := make(WaveTimeline, periods)
	for i := range t {
		phase := 2 * math.Pi * float64(i) / float64(wavePeriods)
		r := baseR + amplitude*math.Sin(phase)
		st := "U"
		if math.Cos(phase) < 0 {
			st = "D"
		}
		t[i] = WavePoint{R: r, State: st}
	}
	return t
}

// SupplyEntry is one row of the historical vaccine-supply table.
type SupplyEntry struct {
	Date  time.Time
	Doses float64
}

// SupplySchedule is a dated vaccine-supply table, sorted or not; lookups
// scan the whole slice.
type SupplySchedule []SupplyEntry

// Window sums the doses that become available in [from, to).
func (s SupplySchedule) Window(from, to time.Time) float64 {
	total := 0.0
	for _, e := range s {
		if !e.Date.Before(from) && e.Date.Before(to) {
			total += e.Doses
		}
	}
	return total
}
