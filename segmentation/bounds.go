package segmentation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// confidenceZ is the two-sided 95% normal quantile used to widen the
// hypergeometric support interval.
var confidenceZ = distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)

// supportBounds estimates a candidate's true support over the available
// points from the matches it scored on the inspected subset points. The
// interval is a normal approximation of the hypergeometric spread with a
// finite-population correction, so it tightens as inspected grows.
func supportBounds(matched, inspected, available int) (low, high, expected float64) {
	if inspected <= 0 || available <= 0 {
		return 0, float64(available), 0
	}
	ratio := float64(available) / float64(inspected)
	expected = float64(matched) * ratio
	frac := float64(matched) / float64(inspected)
	correction := 1 - float64(inspected)/float64(available)
	if correction < 0 {
		correction = 0
	}
	half := confidenceZ * ratio * math.Sqrt(float64(matched)*(1-frac)*correction+1)
	low = math.Max(0, expected-half)
	high = math.Min(float64(available), expected+half)
	return low, high, expected
}

// overlookProbability is the probability that a shape of the given size
// survives the drawn candidates unsampled: each draw lands a minimal
// sample on the shape with probability about size/(3*available*levels).
func overlookProbability(size float64, available, drawn, levels int) float64 {
	if available <= 0 {
		return 0
	}
	if levels < 1 {
		levels = 1
	}
	hit := size / (3 * float64(available) * float64(levels))
	if hit >= 1 {
		hit = 1
	}
	if hit <= 0 {
		return 1
	}
	return math.Min(1, math.Pow(1-hit, float64(drawn)))
}
