package shape

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Sphere is a sphere with a center and radius.
type Sphere struct {
	center r3.Vector
	radius float64
}

// NewSphere builds a sphere surface.
func NewSphere(center r3.Vector, radius float64) *Sphere {
	return &Sphere{center: center, radius: radius}
}

// Center returns the sphere center.
func (sp *Sphere) Center() r3.Vector {
	return sp.center
}

// Radius returns the sphere radius.
func (sp *Sphere) Radius() float64 {
	return sp.radius
}

// Kind implements Surface.
func (sp *Sphere) Kind() string {
	return "sphere"
}

// Distance implements Surface.
func (sp *Sphere) Distance(p r3.Vector) float64 {
	return p.Sub(sp.center).Norm() - sp.radius
}

// NormalDeviation implements Surface.
func (sp *Sphere) NormalDeviation(p, normal r3.Vector) float64 {
	radial := unitOrZero(p.Sub(sp.center))
	if radial.Norm() == 0 {
		return 1
	}
	return deviation(radial, normal)
}

// Parameterize implements Surface.
func (sp *Sphere) Parameterize(p r3.Vector) (float64, float64) {
	d := unitOrZero(p.Sub(sp.center))
	azimuth := math.Atan2(d.Y, d.X)
	polar := math.Acos(math.Max(-1, math.Min(1, d.Z)))
	return azimuth * sp.radius, polar * sp.radius
}

type sphereKind struct{}

// NewSphereKind returns the sphere family: four points determine the
// center through a linear system, the normals validate the fit.
func NewSphereKind() Kind {
	return sphereKind{}
}

func (sphereKind) Name() string { return "sphere" }

func (sphereKind) SampleSize() int { return 4 }

func (sphereKind) Fit(points, normals []r3.Vector, epsilon, normalThreshold float64) (Surface, bool) {
	// 2(p_i - p_0).c = |p_i|^2 - |p_0|^2 for i = 1..3.
	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	n0 := points[0].Norm2()
	for i := 1; i < 4; i++ {
		d := points[i].Sub(points[0]).Mul(2)
		a.SetRow(i-1, []float64{d.X, d.Y, d.Z})
		b.SetVec(i-1, points[i].Norm2()-n0)
	}
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		// Coplanar or coincident sample.
		return nil, false
	}
	center := r3.Vector{X: sol.AtVec(0), Y: sol.AtVec(1), Z: sol.AtVec(2)}
	radius := points[0].Sub(center).Norm()
	if radius < 1e-9 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, false
	}
	sp := NewSphere(center, radius)
	if !sampleOnSurface(sp, points, normals, epsilon, normalThreshold) {
		return nil, false
	}
	return sp, true
}
