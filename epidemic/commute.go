package epidemic

import "fmt"

// CommutingPattern describes the static origin-destination structure used
// for commuter transmission. Flows[i][j] is the flow-adjusted number of
// residents of region i who work in region j; Visitors[j] is the total
// number of individuals present in region j during working hours.
//
// The pattern is owned by the caller and borrowed read-only by the engine.
type CommutingPattern struct {
	Visitors []float64
	Flows    Matrix
}

// NewCommutingPattern builds a pattern from an origin-destination flow
// matrix, deriving the visitors vector as the per-destination column sums.
func NewCommutingPattern(flows Matrix) (*CommutingPattern, error) {
	n := flows.Rows()
	if flows.Cols() != n {
		return nil, fmt.Errorf("commuting flows: want square matrix, got %dx%d", n, flows.Cols())
	}
	visitors := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			visitors[j] += flows[i][j]
		}
	}
	return &CommutingPattern{Visitors: visitors, Flows: flows}, nil
}

// Validate checks the pattern against the expected region count.
func (p *CommutingPattern) Validate(regions int) error {
	if p.Flows.Rows() != regions || p.Flows.Cols() != regions {
		return fmt.Errorf("commuting flows: want %dx%d, got %dx%d",
			regions, regions, p.Flows.Rows(), p.Flows.Cols())
	}
	if len(p.Visitors) != regions {
		return fmt.Errorf("commuting visitors: want length %d, got %d", regions, len(p.Visitors))
	}
	return nil
}

// workingHours reports whether sub-period step of a decision period falls in
// the commuting window: a weekday sub-period at the fixed mid-day index.
// step counts from the Monday midnight origin of the weekly cycle.
func workingHours(step, periodsPerDay int) bool {
	return step < periodsPerDay*5 && step%periodsPerDay == midDayIndex
}

// midDayIndex is the sub-period-of-day during which commuters mix at their
// destination (1200-1800 with four periods per day).
const midDayIndex = 2
