package process

import (
	"testing"
	"time"
)

func TestWaveTimelineAt(t *testing.T) {
	tl := WaveTimeline{{R: 1, State: "U"}, {R: 2, State: "D"}}

	if tl.At(0).R != 1 {
		t.Errorf("Expected R=1 at period 0, got %f", tl.At(0).R)
	}
	if tl.At(1).State != "D" {
		t.Errorf("Expected state D at period 1, got %s", tl.At(1).State)
	}
	// Clamped past the end and below zero.
	if tl.At(10).R != 2 {
		t.Errorf("Expected final value past the end, got %f", tl.At(10).R)
	}
	if tl.At(-1).R != 1 {
		t.Errorf("Expected first value below zero, got %f", tl.At(-1).R)
	}

	var empty WaveTimeline
	if empty.At(0) != (WavePoint{}) {
		t.Error("Empty timeline should return the zero wave point")
	}
}

func TestConstantWaves(t *testing.T) {
	tl := ConstantWaves(2.5, 10)
	if len(tl) != 10 {
		t.Fatalf("Expected 10 points, got %d", len(tl))
	}
	for i, p := range tl {
		if p.R != 2.5 || p.State != "N" {
			t.Errorf("Point %d: expected R=2.5 state N, got R=%f state %s", i, p.R, p.State)
		}
	}
}

func TestSeasonalWaves(t *testing.T) {
	tl := SeasonalWaves(2.0, 0.5, 8, 16)
	if len(tl) != 16 {
		t.Fatalf("Expected 16 points, got %d", len(tl))
	}
	if tl[0].R != 2.0 {
		t.Errorf("Expected baseline R at phase zero, got %f", tl[0].R)
	}
	if tl[0].State != "U" {
		t.Errorf("Expected rising state at phase zero, got %s", tl[0].State)
	}
	// Quarter wave later the oscillation peaks; half wave later it falls.
	if tl[2].R <= 2.0 {
		t.Errorf("Expected R above baseline on the rising stretch, got %f", tl[2].R)
	}
	if tl[5].State != "D" {
		t.Errorf("Expected falling state past the peak, got %s", tl[5].State)
	}
	for _, p := range tl {
		if p.R < 1.5-1e-9 || p.R > 2.5+1e-9 {
			t.Errorf("R %f outside baseline ± amplitude", p.R)
		}
	}
}

func TestSupplyScheduleWindow(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2021, 1, d, 0, 0, 0, 0, time.UTC)
	}
	s := SupplySchedule{
		{Date: day(1), Doses: 100},
		{Date: day(8), Doses: 200},
		{Date: day(15), Doses: 300},
	}

	if got := s.Window(day(1), day(8)); got != 100 {
		t.Errorf("Expected 100 doses in the first week, got %f", got)
	}
	// The window is half-open: the start date is in, the end date out.
	if got := s.Window(day(8), day(15)); got != 200 {
		t.Errorf("Expected 200 doses in the second week, got %f", got)
	}
	if got := s.Window(day(1), day(16)); got != 600 {
		t.Errorf("Expected all 600 doses, got %f", got)
	}
	if got := s.Window(day(2), day(8)); got != 0 {
		t.Errorf("Expected no doses between entries, got %f", got)
	}
}
