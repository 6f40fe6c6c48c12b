package segmentation

import (
	"go.viam.com/shapeseg/shape"
)

// candidate is a tentatively-fitted shape under evaluation. score and
// matched accumulate over subsets 0..nextSubset-1; lower/upper/expected
// bound the candidate's true support over all available points.
type candidate struct {
	surface    shape.Surface
	seq        uint64
	score      int
	nextSubset int
	matched    []int32
	lower      float64
	upper      float64
	expected   float64
}

func newCandidate(surface shape.Surface, seq uint64, available int) *candidate {
	return &candidate{
		surface:  surface,
		seq:      seq,
		upper:    float64(available),
		expected: 0,
	}
}

// setBounds installs a freshly computed interval, clamped so refinement
// never widens it.
func (c *candidate) setBounds(low, high, expected float64) {
	if low > c.lower {
		c.lower = low
	}
	if high < c.upper {
		c.upper = high
	}
	if c.lower > c.upper {
		c.lower = c.upper
	}
	c.expected = expected
}

// resetBounds installs an interval without monotone clamping, used when
// the available set shrinks after a commit.
func (c *candidate) resetBounds(low, high, expected float64) {
	c.lower, c.upper, c.expected = low, high, expected
}
