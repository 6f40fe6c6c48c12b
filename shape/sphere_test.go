package shape

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSphereFit(t *testing.T) {
	center := r3.Vector{X: 1, Y: -2, Z: 0.5}
	radius := 2.0
	points := make([]r3.Vector, 0, 4)
	normals := make([]r3.Vector, 0, 4)
	for _, dir := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}, {X: -1}} {
		points = append(points, center.Add(dir.Mul(radius)))
		normals = append(normals, dir)
	}
	surface, ok := NewSphereKind().Fit(points, normals, 0.01, 0.1)
	test.That(t, ok, test.ShouldBeTrue)
	sphere := surface.(*Sphere)
	test.That(t, sphere.Kind(), test.ShouldEqual, "sphere")
	test.That(t, sphere.Center().X, test.ShouldAlmostEqual, center.X)
	test.That(t, sphere.Center().Y, test.ShouldAlmostEqual, center.Y)
	test.That(t, sphere.Center().Z, test.ShouldAlmostEqual, center.Z)
	test.That(t, sphere.Radius(), test.ShouldAlmostEqual, radius)
}

func TestSphereFitRejections(t *testing.T) {
	t.Run("coplanar sample", func(t *testing.T) {
		points := []r3.Vector{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}
		normals := []r3.Vector{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}
		_, ok := NewSphereKind().Fit(points, normals, 0.01, 0.1)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("normals not radial", func(t *testing.T) {
		points := []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}, {X: -1}}
		normals := []r3.Vector{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}}
		_, ok := NewSphereKind().Fit(points, normals, 0.01, 0.1)
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestSphereQueries(t *testing.T) {
	sphere := NewSphere(r3.Vector{}, 1)
	test.That(t, sphere.Distance(r3.Vector{X: 3}), test.ShouldEqual, 2.0)
	test.That(t, sphere.Distance(r3.Vector{X: 0.5}), test.ShouldEqual, -0.5)
	test.That(t, sphere.NormalDeviation(r3.Vector{X: 2}, r3.Vector{X: -1}), test.ShouldEqual, 0.0)
	test.That(t, sphere.NormalDeviation(r3.Vector{X: 2}, r3.Vector{Y: 1}), test.ShouldEqual, 1.0)

	// Nearby equatorial points stay nearby in parameter space.
	u1, v1 := sphere.Parameterize(r3.Vector{X: 1})
	u2, v2 := sphere.Parameterize(r3.Vector{X: math.Cos(0.01), Y: math.Sin(0.01)})
	test.That(t, math.Hypot(u2-u1, v2-v1), test.ShouldAlmostEqual, 0.01, 1e-4)
}
