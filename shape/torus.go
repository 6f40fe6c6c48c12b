package shape

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Torus is a torus with spine center, unit axis, major radius (spine
// circle) and minor radius (tube).
type Torus struct {
	center r3.Vector
	axis   r3.Vector
	major  float64
	minor  float64
	u, v   r3.Vector
}

// NewTorus builds a torus surface.
func NewTorus(center, axis r3.Vector, major, minor float64) *Torus {
	u, v := planeBasis(axis)
	return &Torus{center: center, axis: axis, major: major, minor: minor, u: u, v: v}
}

// Center returns the spine-circle center.
func (to *Torus) Center() r3.Vector {
	return to.center
}

// Axis returns the unit rotation axis.
func (to *Torus) Axis() r3.Vector {
	return to.axis
}

// MajorRadius returns the spine-circle radius.
func (to *Torus) MajorRadius() float64 {
	return to.major
}

// MinorRadius returns the tube radius.
func (to *Torus) MinorRadius() float64 {
	return to.minor
}

// Kind implements Surface.
func (to *Torus) Kind() string {
	return "torus"
}

// Distance implements Surface.
func (to *Torus) Distance(p r3.Vector) float64 {
	h, rho := to.meridian(p)
	return math.Hypot(rho-to.major, h) - to.minor
}

// NormalDeviation implements Surface.
func (to *Torus) NormalDeviation(p, normal r3.Vector) float64 {
	spine := to.spinePoint(p)
	tube := unitOrZero(p.Sub(spine))
	if tube.Norm() == 0 {
		return 1
	}
	return deviation(tube, normal)
}

// Parameterize implements Surface.
func (to *Torus) Parameterize(p r3.Vector) (float64, float64) {
	d := p.Sub(to.center)
	majorAngle := math.Atan2(d.Dot(to.v), d.Dot(to.u))
	h, rho := to.meridian(p)
	minorAngle := math.Atan2(h, rho-to.major)
	return majorAngle * to.major, minorAngle * to.minor
}

// meridian returns the height above the spine plane and the distance to
// the axis, the two coordinates of the meridian half-plane.
func (to *Torus) meridian(p r3.Vector) (h, rho float64) {
	d := p.Sub(to.center)
	h = d.Dot(to.axis)
	rho = d.Sub(to.axis.Mul(h)).Norm()
	return h, rho
}

// spinePoint returns the nearest point on the spine circle.
func (to *Torus) spinePoint(p r3.Vector) r3.Vector {
	d := p.Sub(to.center)
	h := d.Dot(to.axis)
	radial := unitOrZero(d.Sub(to.axis.Mul(h)))
	if radial.Norm() == 0 {
		radial = to.u
	}
	return to.center.Add(radial.Mul(to.major))
}

type torusKind struct{}

// NewTorusKind returns the torus family: four oriented points. Every
// torus normal line lies in a meridian plane, so the rotation axis is
// the line transversal to the sample's normal lines; it is recovered by
// alternating least squares. The radii come from a circle fit in the
// meridian half-plane.
func NewTorusKind() Kind {
	return torusKind{}
}

func (torusKind) Name() string { return "torus" }

func (torusKind) SampleSize() int { return 4 }

func (torusKind) Fit(points, normals []r3.Vector, epsilon, normalThreshold float64) (Surface, bool) {
	origin, ok := nearestToNormalLines(points, normals)
	if !ok {
		return nil, false
	}
	var axis r3.Vector
	// Alternate: axis direction from the lines' moments about the
	// origin, then the origin from the meridian-plane constraints.
	for iter := 0; iter < 3; iter++ {
		axis, ok = transversalDirection(points, normals, origin)
		if !ok {
			return nil, false
		}
		origin, ok = transversalOrigin(points, normals, axis)
		if !ok {
			return nil, false
		}
	}

	type meridian struct{ rho, h float64 }
	coords := make([]meridian, len(points))
	for i, p := range points {
		d := p.Sub(origin)
		h := d.Dot(axis)
		coords[i] = meridian{rho: d.Sub(axis.Mul(h)).Norm(), h: h}
	}
	major, h0, minor, ok := circumcircle2D(
		coords[0].rho, coords[0].h,
		coords[1].rho, coords[1].h,
		coords[2].rho, coords[2].h,
	)
	if !ok || minor < 1e-9 || major < 1e-9 || minor >= major {
		return nil, false
	}
	center := origin.Add(axis.Mul(h0))
	torus := NewTorus(center, axis, major, minor)
	if !sampleOnSurface(torus, points, normals, epsilon, normalThreshold) {
		return nil, false
	}
	return torus, true
}

// nearestToNormalLines returns the least-squares point closest to all
// normal lines: sum(I - n n^T) x = sum(I - n n^T) p.
func nearestToNormalLines(points, normals []r3.Vector) (r3.Vector, bool) {
	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	for i := range points {
		n := normals[i]
		if n.Norm() < 1e-9 {
			return r3.Vector{}, false
		}
		proj := [3][3]float64{
			{1 - n.X*n.X, -n.X * n.Y, -n.X * n.Z},
			{-n.Y * n.X, 1 - n.Y*n.Y, -n.Y * n.Z},
			{-n.Z * n.X, -n.Z * n.Y, 1 - n.Z*n.Z},
		}
		p := []float64{points[i].X, points[i].Y, points[i].Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				a.Set(r, c, a.At(r, c)+proj[r][c])
			}
			b.SetVec(r, b.AtVec(r)+proj[r][0]*p[0]+proj[r][1]*p[1]+proj[r][2]*p[2])
		}
	}
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return r3.Vector{}, false
	}
	return r3.Vector{X: sol.AtVec(0), Y: sol.AtVec(1), Z: sol.AtVec(2)}, true
}

// transversalDirection finds the direction w minimizing the moments
// ((p_i-origin) x n_i).w over the normal lines: the smallest right
// singular vector of the moment matrix.
func transversalDirection(points, normals []r3.Vector, origin r3.Vector) (r3.Vector, bool) {
	moments := mat.NewDense(len(points), 3, nil)
	for i := range points {
		m := points[i].Sub(origin).Cross(normals[i])
		moments.SetRow(i, []float64{m.X, m.Y, m.Z})
	}
	var svd mat.SVD
	if !svd.Factorize(moments, mat.SVDThinV) {
		return r3.Vector{}, false
	}
	var rightVecs mat.Dense
	svd.VTo(&rightVecs)
	last := rightVecs.RawMatrix().Cols - 1
	axis := unitOrZero(r3.Vector{X: rightVecs.At(0, last), Y: rightVecs.At(1, last), Z: rightVecs.At(2, last)})
	if axis.Norm() == 0 {
		return r3.Vector{}, false
	}
	return axis, true
}

// transversalOrigin solves, in the least-squares min-norm sense, for a
// point the axis passes through: each normal line must be coplanar with
// the axis, giving c.(axis x n_i) = p_i.(axis x n_i).
func transversalOrigin(points, normals []r3.Vector, axis r3.Vector) (r3.Vector, bool) {
	a := mat.NewDense(len(points), 3, nil)
	b := mat.NewVecDense(len(points), nil)
	for i := range points {
		m := axis.Cross(normals[i])
		a.SetRow(i, []float64{m.X, m.Y, m.Z})
		b.SetVec(i, points[i].Dot(m))
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThinU|mat.SVDThinV) {
		return r3.Vector{}, false
	}
	values := svd.Values(nil)
	rank := 0
	for _, sv := range values {
		if sv > 1e-9*values[0] {
			rank++
		}
	}
	if rank < 2 {
		return r3.Vector{}, false
	}
	var sol mat.VecDense
	svd.SolveVecTo(&sol, b, rank)
	return r3.Vector{X: sol.AtVec(0), Y: sol.AtVec(1), Z: sol.AtVec(2)}, true
}
