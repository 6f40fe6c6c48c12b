// Package segmentation implements efficient randomized detection of
// geometric primitives in oriented point clouds. The detector draws
// minimal samples from octree cells, scores the resulting candidates on
// a ladder of geometrically-sized point subsets, and commits a shape
// once the probability of having overlooked a better one is small.
package segmentation

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"go.viam.com/shapeseg/pointcloud"
	"go.viam.com/shapeseg/shape"
)

type octreeNodeType uint8

const (
	leafNode octreeNodeType = iota
	internalNode
)

const (
	// leafBucketSize caps how many points a leaf holds before a split.
	leafBucketSize = 10
	// maxOctreeDepth bounds subdivision for pathological clusters of
	// coincident points.
	maxOctreeDepth = 16
)

// unassignedID marks a point not yet claimed by any shape.
const unassignedID int32 = -1

// octreeCell is one node of an octree. Leaves own the indices of the
// points falling inside their cube; internal nodes own eight children
// ordered by octant bit pattern (x|y|z high bits).
type octreeCell struct {
	center     r3.Vector
	sideLength float64
	nodeType   octreeNodeType
	indices    []int32
	children   []*octreeCell
}

// octree spatially indexes a subset of a cloud's points. The same
// structure serves both the global indexed octree and the per-subset
// direct octrees; they differ only in which indices they are built over.
type octree struct {
	cloud    *pointcloud.Cloud
	root     *octreeCell
	maxLevel int
}

// newOctree builds an octree over the given point indices. The root cube
// is the bounding cube of those points, slightly inflated so every point
// is strictly interior.
func newOctree(cloud *pointcloud.Cloud, indices []int32) *octree {
	meta := pointcloud.NewMetaData()
	for _, i := range indices {
		meta.Merge(cloud.At(int(i)))
	}
	side := meta.MaxSideLength() * 1.01
	if side <= 0 {
		side = 1
	}
	tree := &octree{cloud: cloud}
	owned := make([]int32, len(indices))
	copy(owned, indices)
	tree.root = tree.build(owned, meta.Center(), side, 0)
	return tree
}

func (tree *octree) build(indices []int32, center r3.Vector, side float64, depth int) *octreeCell {
	if depth > tree.maxLevel {
		tree.maxLevel = depth
	}
	cell := &octreeCell{center: center, sideLength: side}
	if len(indices) <= leafBucketSize || depth == maxOctreeDepth {
		cell.nodeType = leafNode
		cell.indices = indices
		return cell
	}
	cell.nodeType = internalNode
	buckets := make([][]int32, 8)
	for _, i := range indices {
		oct := octantOf(tree.cloud.At(int(i)), center)
		buckets[oct] = append(buckets[oct], i)
	}
	cell.children = make([]*octreeCell, 8)
	quarter := side / 4
	for oct := 0; oct < 8; oct++ {
		childCenter := center.Add(r3.Vector{
			X: quarter * axisSign(oct, 4),
			Y: quarter * axisSign(oct, 2),
			Z: quarter * axisSign(oct, 1),
		})
		cell.children[oct] = tree.build(buckets[oct], childCenter, side/2, depth+1)
	}
	return cell
}

// octantOf places a point into one of eight octants; a coordinate equal
// to the split plane goes into the lower octant.
func octantOf(p, center r3.Vector) int {
	oct := 0
	if p.X > center.X {
		oct |= 4
	}
	if p.Y > center.Y {
		oct |= 2
	}
	if p.Z > center.Z {
		oct |= 1
	}
	return oct
}

func axisSign(octant, bit int) float64 {
	if octant&bit != 0 {
		return 1
	}
	return -1
}

// cellAtLevel descends toward the seed point and returns the cell at the
// requested level, or the deepest cell on the path when the tree bottoms
// out earlier.
func (tree *octree) cellAtLevel(seed r3.Vector, level int) *octreeCell {
	cell := tree.root
	for depth := 0; depth < level && cell.nodeType == internalNode; depth++ {
		cell = cell.children[octantOf(seed, cell.center)]
	}
	return cell
}

// drawSampleFromCell draws k distinct unassigned point indices uniformly
// from the cell at the given level containing the seed point. It fails
// when the cell holds fewer than k unassigned points.
func (tree *octree) drawSampleFromCell(
	rng *rand.Rand,
	seed r3.Vector,
	level, k int,
	assigned []int32,
) ([]int32, bool) {
	cell := tree.cellAtLevel(seed, level)
	var pool []int32
	cell.walk(func(leaf *octreeCell) bool {
		for _, i := range leaf.indices {
			if assigned[i] == unassignedID {
				pool = append(pool, i)
			}
		}
		return true
	})
	if len(pool) < k {
		return nil, false
	}
	// Partial Fisher-Yates for the first k slots.
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], true
}

// score walks the tree and returns the unassigned points within epsilon
// of the surface whose normals deviate at most normalThreshold. Cells
// provably farther than epsilon from the surface are pruned.
func (tree *octree) score(
	surface shape.Surface,
	assigned []int32,
	epsilon, normalThreshold float64,
) (int, []int32) {
	var matched []int32
	stack := []*octreeCell{tree.root}
	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		halfDiagonal := cell.sideLength * math.Sqrt(3) / 2
		if math.Abs(surface.Distance(cell.center))-halfDiagonal > epsilon {
			continue
		}
		if cell.nodeType == internalNode {
			stack = append(stack, cell.children...)
			continue
		}
		for _, i := range cell.indices {
			if assigned[i] != unassignedID {
				continue
			}
			p := tree.cloud.At(int(i))
			if math.Abs(surface.Distance(p)) > epsilon {
				continue
			}
			if surface.NormalDeviation(p, tree.cloud.Normal(int(i))) > normalThreshold {
				continue
			}
			matched = append(matched, i)
		}
	}
	return len(matched), matched
}

// walk visits every leaf under the cell in a fixed order; the visitor
// returns false to stop early.
func (cell *octreeCell) walk(visit func(*octreeCell) bool) bool {
	if cell.nodeType == leafNode {
		return visit(cell)
	}
	for _, child := range cell.children {
		if !child.walk(visit) {
			return false
		}
	}
	return true
}
