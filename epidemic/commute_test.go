package epidemic

import "testing"

func TestNewCommutingPattern(t *testing.T) {
	flows := Matrix{
		{0, 100},
		{50, 0},
	}
	p, err := NewCommutingPattern(flows)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Visitors[0] != 50 {
		t.Errorf("Expected 50 visitors to region 0, got %f", p.Visitors[0])
	}
	if p.Visitors[1] != 100 {
		t.Errorf("Expected 100 visitors to region 1, got %f", p.Visitors[1])
	}
}

func TestNewCommutingPatternNonSquare(t *testing.T) {
	flows := Matrix{{0, 1, 2}, {3, 0, 4}}
	if _, err := NewCommutingPattern(flows); err == nil {
		t.Error("Expected error for non-square flow matrix")
	}
}

func TestCommutingPatternValidate(t *testing.T) {
	p, err := NewCommutingPattern(Matrix{{0, 1}, {1, 0}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := p.Validate(2); err != nil {
		t.Errorf("Pattern should validate against 2 regions: %v", err)
	}
	if err := p.Validate(3); err == nil {
		t.Error("Expected error validating against wrong region count")
	}
}

func TestWorkingHours(t *testing.T) {
	const ppd = 4
	// Mid-day sub-periods of the five weekdays.
	for _, step := range []int{2, 6, 10, 14, 18} {
		if !workingHours(step, ppd) {
			t.Errorf("Step %d should be a working-hours window", step)
		}
	}
	// Other times of day.
	for _, step := range []int{0, 1, 3, 4, 5, 19} {
		if workingHours(step, ppd) {
			t.Errorf("Step %d should not be a working-hours window", step)
		}
	}
	// Weekend sub-periods (Saturday and Sunday, steps 20-27).
	for step := 20; step < 28; step++ {
		if workingHours(step, ppd) {
			t.Errorf("Weekend step %d should not be a working-hours window", step)
		}
	}
}
