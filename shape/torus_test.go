package shape

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// torusSample returns a point and surface normal of the torus with spine
// center at the origin, axis +z, major radius 2 and minor radius 0.5.
func torusSample(phi, psi float64) (r3.Vector, r3.Vector) {
	const major, minor = 2.0, 0.5
	rho := major + minor*math.Cos(psi)
	point := r3.Vector{X: rho * math.Cos(phi), Y: rho * math.Sin(phi), Z: minor * math.Sin(psi)}
	normal := r3.Vector{
		X: math.Cos(psi) * math.Cos(phi),
		Y: math.Cos(psi) * math.Sin(phi),
		Z: math.Sin(psi),
	}
	return point, normal
}

func TestTorusFit(t *testing.T) {
	angles := [][2]float64{
		{0, math.Pi / 4},
		{math.Pi / 2, -math.Pi / 4},
		{math.Pi, 3 * math.Pi / 4},
		{3 * math.Pi / 2, -3 * math.Pi / 4},
	}
	var points, normals []r3.Vector
	for _, a := range angles {
		p, n := torusSample(a[0], a[1])
		points = append(points, p)
		normals = append(normals, n)
	}
	surface, ok := NewTorusKind().Fit(points, normals, 0.01, 0.1)
	test.That(t, ok, test.ShouldBeTrue)
	torus := surface.(*Torus)
	test.That(t, torus.Kind(), test.ShouldEqual, "torus")
	test.That(t, math.Abs(torus.Axis().Dot(r3.Vector{Z: 1})), test.ShouldAlmostEqual, 1.0, 1e-6)
	test.That(t, torus.MajorRadius(), test.ShouldAlmostEqual, 2.0, 1e-6)
	test.That(t, torus.MinorRadius(), test.ShouldAlmostEqual, 0.5, 1e-6)
	test.That(t, torus.Center().Norm(), test.ShouldAlmostEqual, 0.0, 1e-6)
}

func TestTorusFitRejectsParallelNormals(t *testing.T) {
	points := []r3.Vector{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}
	normals := []r3.Vector{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}}
	_, ok := NewTorusKind().Fit(points, normals, 0.01, 0.1)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestTorusQueries(t *testing.T) {
	torus := NewTorus(r3.Vector{}, r3.Vector{Z: 1}, 2, 0.5)
	// On the outer equator.
	test.That(t, torus.Distance(r3.Vector{X: 2.5}), test.ShouldAlmostEqual, 0.0)
	// On the top of the tube.
	test.That(t, torus.Distance(r3.Vector{Y: 2, Z: 0.5}), test.ShouldAlmostEqual, 0.0)
	// Inside the tube and far outside.
	test.That(t, torus.Distance(r3.Vector{X: 2}), test.ShouldAlmostEqual, -0.5)
	test.That(t, torus.Distance(r3.Vector{X: 4}), test.ShouldAlmostEqual, 1.5)

	p, n := torusSample(math.Pi/3, math.Pi/5)
	test.That(t, torus.NormalDeviation(p, n), test.ShouldAlmostEqual, 0.0)
	test.That(t, torus.NormalDeviation(r3.Vector{X: 2.5}, r3.Vector{Z: 1}), test.ShouldAlmostEqual, 1.0)

	// Steps along the tube circumference map to steps in v.
	_, v1 := torus.Parameterize(r3.Vector{X: 2.5})
	_, v2 := torus.Parameterize(r3.Vector{X: 2 + 0.5*math.Cos(0.1), Z: 0.5 * math.Sin(0.1)})
	test.That(t, v2-v1, test.ShouldAlmostEqual, 0.05, 1e-9)
}
