package shape

import (
	"math"

	"github.com/golang/geo/r3"
)

// circumcircle2D returns the circle through three 2-D points. ok is false
// when the points are collinear or coincident.
func circumcircle2D(ax, ay, bx, by, cx, cy float64) (centerX, centerY, radius float64, ok bool) {
	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		return 0, 0, 0, false
	}
	aa := ax*ax + ay*ay
	bb := bx*bx + by*by
	cc := cx*cx + cy*cy
	centerX = (aa*(by-cy) + bb*(cy-ay) + cc*(ay-by)) / d
	centerY = (aa*(cx-bx) + bb*(ax-cx) + cc*(bx-ax)) / d
	radius = math.Hypot(ax-centerX, ay-centerY)
	return centerX, centerY, radius, true
}

// planeBasis returns two orthonormal vectors spanning the plane with the
// given unit normal.
func planeBasis(normal r3.Vector) (u, v r3.Vector) {
	seed := r3.Vector{X: 1}
	if math.Abs(normal.X) > 0.9 {
		seed = r3.Vector{Y: 1}
	}
	u = unitOrZero(seed.Sub(normal.Mul(normal.Dot(seed))))
	v = normal.Cross(u)
	return u, v
}
