package shape

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// coneSample returns a point and surface normal of a 45-degree cone with
// apex at the origin opening along +z, at azimuth phi and height 1.
func coneSample(phi float64) (r3.Vector, r3.Vector) {
	point := r3.Vector{X: math.Cos(phi), Y: math.Sin(phi), Z: 1}
	normal := r3.Vector{X: math.Cos(phi), Y: math.Sin(phi), Z: -1}.Mul(1 / math.Sqrt2)
	return point, normal
}

func TestConeFit(t *testing.T) {
	var points, normals []r3.Vector
	for _, phi := range []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3} {
		p, n := coneSample(phi)
		points = append(points, p)
		normals = append(normals, n)
	}
	surface, ok := NewConeKind().Fit(points, normals, 0.01, 0.1)
	test.That(t, ok, test.ShouldBeTrue)
	cone := surface.(*Cone)
	test.That(t, cone.Kind(), test.ShouldEqual, "cone")
	test.That(t, cone.Apex().Norm(), test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, math.Abs(cone.Axis().Dot(r3.Vector{Z: 1})), test.ShouldAlmostEqual, 1.0)
	test.That(t, cone.HalfAngle(), test.ShouldAlmostEqual, math.Pi/4)
}

func TestConeFitRejectsParallelNormals(t *testing.T) {
	points := []r3.Vector{{}, {X: 1}, {Y: 1}}
	normals := []r3.Vector{{Z: 1}, {Z: 1}, {Z: 1}}
	_, ok := NewConeKind().Fit(points, normals, 0.01, 0.1)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestConeQueries(t *testing.T) {
	cone := NewCone(r3.Vector{}, r3.Vector{Z: 1}, math.Pi/4)
	// On the surface.
	test.That(t, cone.Distance(r3.Vector{X: 2, Z: 2}), test.ShouldAlmostEqual, 0.0)
	// Inside and outside.
	test.That(t, cone.Distance(r3.Vector{X: 0.5, Z: 2}), test.ShouldBeLessThan, 0.0)
	test.That(t, cone.Distance(r3.Vector{X: 3, Z: 1}), test.ShouldBeGreaterThan, 0.0)

	_, n := coneSample(0)
	test.That(t, cone.NormalDeviation(r3.Vector{X: 1, Z: 1}, n), test.ShouldAlmostEqual, 0.0)
	test.That(t, cone.NormalDeviation(r3.Vector{X: 1, Z: 1}, r3.Vector{Y: 1}), test.ShouldAlmostEqual, 1.0)

	// Slant coordinate grows along a generator line.
	_, v1 := cone.Parameterize(r3.Vector{X: 1, Z: 1})
	_, v2 := cone.Parameterize(r3.Vector{X: 2, Z: 2})
	test.That(t, v2-v1, test.ShouldAlmostEqual, math.Sqrt2)
}
