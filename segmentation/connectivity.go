package segmentation

import (
	"math"

	"go.viam.com/shapeseg/pointcloud"
	"go.viam.com/shapeseg/shape"
)

// unionFind is a slice-backed disjoint-set with path halving.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[rb] = ra
	}
}

type gridKey struct{ u, v int }

// largestConnectedComponent bins the matched points into a 2-D grid of
// clusterEpsilon-sized cells in the surface's parameter space, connects
// 8-neighboring occupied cells, and returns the indices of the largest
// component, preserving input order.
func largestConnectedComponent(
	surface shape.Surface,
	cloud *pointcloud.Cloud,
	indices []int32,
	clusterEpsilon float64,
) []int32 {
	if len(indices) == 0 {
		return nil
	}
	coords := make([][2]float64, len(indices))
	minU, minV := math.Inf(1), math.Inf(1)
	for i, idx := range indices {
		u, v := surface.Parameterize(cloud.At(int(idx)))
		coords[i] = [2]float64{u, v}
		minU = math.Min(minU, u)
		minV = math.Min(minV, v)
	}

	cellID := map[gridKey]int{}
	var cells []gridKey
	pointCell := make([]int, len(indices))
	for i, c := range coords {
		key := gridKey{
			u: int(math.Floor((c[0] - minU) / clusterEpsilon)),
			v: int(math.Floor((c[1] - minV) / clusterEpsilon)),
		}
		id, ok := cellID[key]
		if !ok {
			id = len(cells)
			cellID[key] = id
			cells = append(cells, key)
		}
		pointCell[i] = id
	}

	uf := newUnionFind(len(cells))
	for id, key := range cells {
		for du := -1; du <= 1; du++ {
			for dv := -1; dv <= 1; dv++ {
				if du == 0 && dv == 0 {
					continue
				}
				if neighbor, ok := cellID[gridKey{u: key.u + du, v: key.v + dv}]; ok {
					uf.union(id, neighbor)
				}
			}
		}
	}

	counts := make(map[int]int, len(cells))
	for _, cid := range pointCell {
		counts[uf.find(cid)]++
	}
	// Deterministic winner: highest count, lowest root id breaks ties.
	bestRoot, bestCount := -1, 0
	for id := range cells {
		root := uf.find(id)
		if root != id {
			continue
		}
		if counts[root] > bestCount || (counts[root] == bestCount && (bestRoot == -1 || root < bestRoot)) {
			bestRoot, bestCount = root, counts[root]
		}
	}

	component := make([]int32, 0, bestCount)
	for i, idx := range indices {
		if uf.find(pointCell[i]) == bestRoot {
			component = append(component, idx)
		}
	}
	return component
}
