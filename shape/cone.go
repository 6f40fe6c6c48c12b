package shape

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Cone is an infinite one-sided cone described by its apex, unit axis
// direction pointing into the cone, and half-angle.
type Cone struct {
	apex      r3.Vector
	axis      r3.Vector
	halfAngle float64
	sin, cos  float64
	u, v      r3.Vector
}

// NewCone builds a cone surface.
func NewCone(apex, axis r3.Vector, halfAngle float64) *Cone {
	u, v := planeBasis(axis)
	return &Cone{
		apex: apex, axis: axis, halfAngle: halfAngle,
		sin: math.Sin(halfAngle), cos: math.Cos(halfAngle),
		u: u, v: v,
	}
}

// Apex returns the cone apex.
func (cn *Cone) Apex() r3.Vector {
	return cn.apex
}

// Axis returns the unit axis direction.
func (cn *Cone) Axis() r3.Vector {
	return cn.axis
}

// HalfAngle returns the half-opening angle in radians.
func (cn *Cone) HalfAngle() float64 {
	return cn.halfAngle
}

// Kind implements Surface.
func (cn *Cone) Kind() string {
	return "cone"
}

// Distance implements Surface.
func (cn *Cone) Distance(p r3.Vector) float64 {
	d := p.Sub(cn.apex)
	h := d.Dot(cn.axis)
	rho := d.Sub(cn.axis.Mul(h)).Norm()
	return rho*cn.cos - h*cn.sin
}

// NormalDeviation implements Surface.
func (cn *Cone) NormalDeviation(p, normal r3.Vector) float64 {
	d := p.Sub(cn.apex)
	h := d.Dot(cn.axis)
	radial := unitOrZero(d.Sub(cn.axis.Mul(h)))
	if radial.Norm() == 0 {
		return 1
	}
	surfNormal := radial.Mul(cn.cos).Sub(cn.axis.Mul(cn.sin))
	return deviation(surfNormal, normal)
}

// Parameterize implements Surface.
func (cn *Cone) Parameterize(p r3.Vector) (float64, float64) {
	d := p.Sub(cn.apex)
	h := d.Dot(cn.axis)
	radialVec := d.Sub(cn.axis.Mul(h))
	rho := radialVec.Norm()
	angle := math.Atan2(d.Dot(cn.v), d.Dot(cn.u))
	slant := rho*cn.sin + h*cn.cos
	return angle * rho, slant
}

type coneKind struct{}

// NewConeKind returns the cone family: three oriented points, the apex
// from the intersection of the three tangent planes.
func NewConeKind() Kind {
	return coneKind{}
}

func (coneKind) Name() string { return "cone" }

func (coneKind) SampleSize() int { return 3 }

func (coneKind) Fit(points, normals []r3.Vector, epsilon, normalThreshold float64) (Surface, bool) {
	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	for i := 0; i < 3; i++ {
		a.SetRow(i, []float64{normals[i].X, normals[i].Y, normals[i].Z})
		b.SetVec(i, normals[i].Dot(points[i]))
	}
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		// Parallel tangent planes; no single apex.
		return nil, false
	}
	apex := r3.Vector{X: sol.AtVec(0), Y: sol.AtVec(1), Z: sol.AtVec(2)}

	dirs := make([]r3.Vector, 3)
	axisSum := r3.Vector{}
	for i, p := range points {
		dirs[i] = unitOrZero(p.Sub(apex))
		if dirs[i].Norm() == 0 {
			return nil, false
		}
		axisSum = axisSum.Add(dirs[i])
	}
	axis := unitOrZero(axisSum)
	if axis.Norm() == 0 {
		return nil, false
	}
	angleSum := 0.0
	for _, d := range dirs {
		angleSum += math.Acos(math.Max(-1, math.Min(1, d.Dot(axis))))
	}
	halfAngle := angleSum / 3
	if halfAngle < 1e-3 || halfAngle > math.Pi/2-1e-3 {
		return nil, false
	}
	cone := NewCone(apex, axis, halfAngle)
	if !sampleOnSurface(cone, points, normals, epsilon, normalThreshold) {
		return nil, false
	}
	return cone, true
}
