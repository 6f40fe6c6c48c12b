package segmentation

import (
	"math"
	"math/rand"

	"go.viam.com/shapeseg/pointcloud"
)

// subsetLadder partitions all point indices into K disjoint subsets of
// geometrically growing size, each with its own octree. Candidates are
// scored one subset at a time, cheapest first, so most candidates die
// before ever touching the large subsets.
type subsetLadder struct {
	indices  []int32
	offsets  []int
	trees    []*octree
	subsetOf []int32
}

// newSubsetLadder shuffles the index range and slices it so subset s >= 1
// holds roughly N/2^(K-s) indices, K = max(2, floor(log2 N) - 9); subset 0
// takes the remainder, about as many as subset 1.
func newSubsetLadder(cloud *pointcloud.Cloud, rng *rand.Rand) *subsetLadder {
	n := cloud.Size()
	k := int(math.Floor(math.Log2(float64(n)))) - 9
	if k < 2 {
		k = 2
	}

	ladder := &subsetLadder{
		indices:  make([]int32, n),
		subsetOf: make([]int32, n),
	}
	for i := range ladder.indices {
		ladder.indices[i] = int32(i)
	}
	rng.Shuffle(n, func(i, j int) {
		ladder.indices[i], ladder.indices[j] = ladder.indices[j], ladder.indices[i]
	})

	sizes := make([]int, k)
	remaining := n
	for s := k - 1; s >= 1; s-- {
		sizes[s] = remaining / 2
		remaining -= sizes[s]
	}
	sizes[0] = remaining

	ladder.offsets = make([]int, k+1)
	for s := 0; s < k; s++ {
		ladder.offsets[s+1] = ladder.offsets[s] + sizes[s]
	}
	ladder.trees = make([]*octree, k)
	for s := 0; s < k; s++ {
		slice := ladder.indices[ladder.offsets[s]:ladder.offsets[s+1]]
		for _, i := range slice {
			ladder.subsetOf[i] = int32(s)
		}
		ladder.trees[s] = newOctree(cloud, slice)
	}
	return ladder
}

// count returns the number of subsets.
func (ladder *subsetLadder) count() int {
	return len(ladder.trees)
}

// size returns the number of indices in subset s, assigned or not.
func (ladder *subsetLadder) size(s int) int {
	return ladder.offsets[s+1] - ladder.offsets[s]
}
