package segmentation

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/shapeseg/pointcloud"
	"go.viam.com/shapeseg/shape"
)

func TestLargestConnectedComponent(t *testing.T) {
	plane := shape.NewPlane(r3.Vector{Z: 1}, 0)
	rng := rand.New(rand.NewSource(13))

	// A dense patch in [0,1]^2 and a smaller one past a wide gap.
	var positions, normals []r3.Vector
	for i := 0; i < 300; i++ {
		positions = append(positions, r3.Vector{X: rng.Float64(), Y: rng.Float64()})
		normals = append(normals, r3.Vector{Z: 1})
	}
	for i := 0; i < 100; i++ {
		positions = append(positions, r3.Vector{X: 5 + rng.Float64(), Y: rng.Float64()})
		normals = append(normals, r3.Vector{Z: 1})
	}
	cloud, err := pointcloud.New(positions, normals)
	test.That(t, err, test.ShouldBeNil)
	indices := allIndices(400)

	t.Run("gap splits the claim", func(t *testing.T) {
		component := largestConnectedComponent(plane, cloud, indices, 0.5)
		test.That(t, len(component), test.ShouldEqual, 300)
		for _, i := range component {
			test.That(t, cloud.At(int(i)).X, test.ShouldBeLessThan, 1.5)
		}
	})

	t.Run("large cluster epsilon bridges the gap", func(t *testing.T) {
		component := largestConnectedComponent(plane, cloud, indices, 10)
		test.That(t, len(component), test.ShouldEqual, 400)
	})

	t.Run("empty input", func(t *testing.T) {
		test.That(t, largestConnectedComponent(plane, cloud, nil, 0.5), test.ShouldBeNil)
	})

	t.Run("input order is preserved", func(t *testing.T) {
		component := largestConnectedComponent(plane, cloud, indices, 0.5)
		for i := 1; i < len(component); i++ {
			test.That(t, component[i], test.ShouldBeGreaterThan, component[i-1])
		}
	})
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind(5)
	test.That(t, uf.find(0), test.ShouldNotEqual, uf.find(1))
	uf.union(0, 1)
	uf.union(3, 4)
	test.That(t, uf.find(0), test.ShouldEqual, uf.find(1))
	test.That(t, uf.find(3), test.ShouldEqual, uf.find(4))
	test.That(t, uf.find(0), test.ShouldNotEqual, uf.find(3))
	uf.union(1, 3)
	test.That(t, uf.find(0), test.ShouldEqual, uf.find(4))
	test.That(t, uf.find(2), test.ShouldNotEqual, uf.find(0))
}
