package shape

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestRegistry(t *testing.T) {
	var reg Registry
	test.That(t, reg.MaxSampleSize(), test.ShouldEqual, 0)
	test.That(t, reg.Register(NewPlaneKind()), test.ShouldBeNil)
	test.That(t, reg.Register(NewSphereKind()), test.ShouldBeNil)
	test.That(t, reg.MaxSampleSize(), test.ShouldEqual, 4)
	test.That(t, len(reg.Kinds()), test.ShouldEqual, 2)
	test.That(t, reg.Kinds()[0].Name(), test.ShouldEqual, "plane")

	err := reg.Register(NewPlaneKind())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "already registered")
}

func TestSampleSizes(t *testing.T) {
	test.That(t, NewPlaneKind().SampleSize(), test.ShouldEqual, 3)
	test.That(t, NewSphereKind().SampleSize(), test.ShouldEqual, 4)
	test.That(t, NewCylinderKind().SampleSize(), test.ShouldEqual, 3)
	test.That(t, NewConeKind().SampleSize(), test.ShouldEqual, 3)
	test.That(t, NewTorusKind().SampleSize(), test.ShouldEqual, 4)
}

func TestDeviation(t *testing.T) {
	test.That(t, deviation(r3.Vector{Z: 1}, r3.Vector{Z: 1}), test.ShouldEqual, 0.0)
	// Flipped normals read as aligned.
	test.That(t, deviation(r3.Vector{Z: 1}, r3.Vector{Z: -1}), test.ShouldEqual, 0.0)
	test.That(t, deviation(r3.Vector{Z: 1}, r3.Vector{X: 1}), test.ShouldEqual, 1.0)
}
