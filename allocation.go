package attribution

import (
	"fmt"
	"math"
)

// Weight assigns a fraction of the capital to an instrument.
type Weight struct {
	Instrument string  `json:"instrument"`
	Weight     float64 `json:"weight"`
}

// Allocation is an ordered list of weights. Valid allocations sum to 1.0.
type Allocation []Weight

// Sum returns the sum of all weights.
func (a Allocation) Sum() float64 {
	sum := 0.0
	for _, w := range a {
		sum += w.Weight
	}
	return sum
}

// Validate checks that weights sum to 1.0 within WeightTolerance and that no
// instrument appears twice.
func (a Allocation) Validate() error {
	if sum := a.Sum(); math.Abs(sum-1.0) > WeightTolerance {
		return &InvalidWeightError{Sum: sum}
	}
	seen := make(map[string]bool, len(a))
	for _, w := range a {
		if seen[w.Instrument] {
			return fmt.Errorf("instrument %q is allocated twice", w.Instrument)
		}
		seen[w.Instrument] = true
	}
	return nil
}

// Membership assigns an instrument to a group (typically a sector).
type Membership struct {
	Instrument string `json:"instrument"`
	Group      string `json:"group"`
}

// GroupMap is an ordered list of memberships. An instrument belongs to at most
// one group; when listed twice the first membership wins.
type GroupMap []Membership

// Lookup returns the instrument to group index.
func (g GroupMap) Lookup() map[string]string {
	index := make(map[string]string, len(g))
	for _, m := range g {
		if _, exists := index[m.Instrument]; !exists {
			index[m.Instrument] = m.Group
		}
	}
	return index
}
