package epidemic

import "fmt"

// Contact matrix categories, in the order weights are supplied.
const (
	ContactHome = iota
	ContactSchool
	ContactWork
	ContactPublic
	NumContactCategories
)

// ContactCategoryNames lists the category labels in weight order.
var ContactCategoryNames = [NumContactCategories]string{"home", "school", "work", "public"}

// ContactSet holds the four baseline (age-group × age-group) contact
// matrices. The matrices are read-only for the lifetime of a run.
type ContactSet [NumContactCategories]Matrix

// NewContactSet validates that all four matrices are square with the same
// dimension and returns them as a set.
func NewContactSet(home, school, work, public Matrix) (ContactSet, error) {
	set := ContactSet{home, school, work, public}
	n := home.Rows()
	for c, m := range set {
		if m.Rows() != n || m.Cols() != n {
			return ContactSet{}, fmt.Errorf("contact matrix %q: want %dx%d, got %dx%d",
				ContactCategoryNames[c], n, n, m.Rows(), m.Cols())
		}
	}
	return set, nil
}

// AgeGroups returns the matrix dimension of the set.
func (s ContactSet) AgeGroups() int { return s[ContactHome].Rows() }

// WeightedContactMatrix combines the baseline matrices into a single
// effective (age-group × age-group) matrix using the given weights.
// The builder is pure: identical inputs always yield identical output.
func WeightedContactMatrix(set ContactSet, weights [NumContactCategories]float64) Matrix {
	n := set.AgeGroups()
	out := NewMatrix(n, n)
	for c, m := range set {
		addScaled(out, m, weights[c])
	}
	return out
}

// UniformContactSet returns a set whose four matrices all contain the given
// value. Useful for single-category tests and homogeneous-mixing scenarios.
func UniformContactSet(ageGroups int, value float64) ContactSet {
	var set ContactSet
	for c := range set {
		m := NewMatrix(ageGroups, ageGroups)
		for i := range m {
			for j := range m[i] {
				m[i][j] = value
			}
		}
		set[c] = m
	}
	return set
}
