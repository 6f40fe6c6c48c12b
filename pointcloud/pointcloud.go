// Package pointcloud holds oriented point sets consumed by the shape
// detector. Points are stored in a flat sequence and addressed by their
// zero-based index; the index of a point is stable for the lifetime of
// the cloud.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrEmptyCloud is returned when constructing a cloud from zero points.
var ErrEmptyCloud = errors.New("point cloud must contain at least one point")

// MetaData holds the axis-aligned bounds of all points in a cloud.
type MetaData struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData creates a bounds structure ready to be merged into.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
		MinZ: math.Inf(1), MaxZ: math.Inf(-1),
	}
}

// Merge expands the bounds to include the given point.
func (meta *MetaData) Merge(v r3.Vector) {
	meta.MinX = math.Min(meta.MinX, v.X)
	meta.MaxX = math.Max(meta.MaxX, v.X)
	meta.MinY = math.Min(meta.MinY, v.Y)
	meta.MaxY = math.Max(meta.MaxY, v.Y)
	meta.MinZ = math.Min(meta.MinZ, v.Z)
	meta.MaxZ = math.Max(meta.MaxZ, v.Z)
}

// Center returns the center of the bounding box.
func (meta MetaData) Center() r3.Vector {
	return r3.Vector{
		X: (meta.MaxX + meta.MinX) / 2,
		Y: (meta.MaxY + meta.MinY) / 2,
		Z: (meta.MaxZ + meta.MinZ) / 2,
	}
}

// MaxSideLength returns the longest edge of the bounding box.
func (meta MetaData) MaxSideLength() float64 {
	return math.Max(meta.MaxX-meta.MinX, math.Max(meta.MaxY-meta.MinY, meta.MaxZ-meta.MinZ))
}

// Cloud is an immutable sequence of points with unit surface normals.
// Normals may be unoriented; consumers must not rely on their sign.
type Cloud struct {
	positions []r3.Vector
	normals   []r3.Vector
	meta      MetaData
}

// New creates a cloud from parallel position and normal sequences. The
// normals are normalized to unit length; a zero normal is left as-is and
// reads as the maximal normal deviation of 1.
func New(positions, normals []r3.Vector) (*Cloud, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyCloud
	}
	if len(normals) != len(positions) {
		return nil, errors.Errorf("got %d normals for %d points", len(normals), len(positions))
	}
	cloud := &Cloud{
		positions: make([]r3.Vector, len(positions)),
		normals:   make([]r3.Vector, len(normals)),
		meta:      NewMetaData(),
	}
	copy(cloud.positions, positions)
	for i, n := range normals {
		if norm := n.Norm(); norm > 0 {
			cloud.normals[i] = n.Mul(1 / norm)
		}
		cloud.meta.Merge(positions[i])
	}
	return cloud, nil
}

// Size returns the number of points.
func (cloud *Cloud) Size() int {
	return len(cloud.positions)
}

// At returns the position of point i.
func (cloud *Cloud) At(i int) r3.Vector {
	return cloud.positions[i]
}

// Normal returns the unit normal of point i.
func (cloud *Cloud) Normal(i int) r3.Vector {
	return cloud.normals[i]
}

// MetaData returns the bounds of the cloud.
func (cloud *Cloud) MetaData() MetaData {
	return cloud.meta
}
