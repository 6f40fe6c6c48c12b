package shape

import (
	"math"

	"github.com/golang/geo/r3"
)

// Cylinder is an infinite cylinder around an axis line.
type Cylinder struct {
	axisPoint r3.Vector
	axis      r3.Vector
	radius    float64
	u, v      r3.Vector
}

// NewCylinder builds a cylinder from a point on its axis, the unit axis
// direction, and a radius.
func NewCylinder(axisPoint, axis r3.Vector, radius float64) *Cylinder {
	u, v := planeBasis(axis)
	return &Cylinder{axisPoint: axisPoint, axis: axis, radius: radius, u: u, v: v}
}

// AxisPoint returns a point on the cylinder axis.
func (cy *Cylinder) AxisPoint() r3.Vector {
	return cy.axisPoint
}

// Axis returns the unit axis direction.
func (cy *Cylinder) Axis() r3.Vector {
	return cy.axis
}

// Radius returns the cylinder radius.
func (cy *Cylinder) Radius() float64 {
	return cy.radius
}

// Kind implements Surface.
func (cy *Cylinder) Kind() string {
	return "cylinder"
}

// Distance implements Surface.
func (cy *Cylinder) Distance(p r3.Vector) float64 {
	return cy.radialPart(p).Norm() - cy.radius
}

// NormalDeviation implements Surface.
func (cy *Cylinder) NormalDeviation(p, normal r3.Vector) float64 {
	radial := unitOrZero(cy.radialPart(p))
	if radial.Norm() == 0 {
		return 1
	}
	return deviation(radial, normal)
}

// Parameterize implements Surface.
func (cy *Cylinder) Parameterize(p r3.Vector) (float64, float64) {
	d := p.Sub(cy.axisPoint)
	angle := math.Atan2(d.Dot(cy.v), d.Dot(cy.u))
	return angle * cy.radius, d.Dot(cy.axis)
}

func (cy *Cylinder) radialPart(p r3.Vector) r3.Vector {
	d := p.Sub(cy.axisPoint)
	return d.Sub(cy.axis.Mul(d.Dot(cy.axis)))
}

type cylinderKind struct{}

// NewCylinderKind returns the cylinder family: three oriented points, the
// axis from the cross product of two sample normals, the radius from the
// circumcircle of the axis-plane projections.
func NewCylinderKind() Kind {
	return cylinderKind{}
}

func (cylinderKind) Name() string { return "cylinder" }

func (cylinderKind) SampleSize() int { return 3 }

func (cylinderKind) Fit(points, normals []r3.Vector, epsilon, normalThreshold float64) (Surface, bool) {
	axis := r3.Vector{}
	for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		axis = unitOrZero(normals[pair[0]].Cross(normals[pair[1]]))
		if axis.Norm() > 0 {
			break
		}
	}
	if axis.Norm() == 0 {
		// All sample normals parallel; the sample reads as a plane.
		return nil, false
	}
	u, v := planeBasis(axis)
	project := func(p r3.Vector) (float64, float64) { return p.Dot(u), p.Dot(v) }
	ax, ay := project(points[0])
	bx, by := project(points[1])
	cx, cy := project(points[2])
	centerU, centerV, radius, ok := circumcircle2D(ax, ay, bx, by, cx, cy)
	if !ok || radius < 1e-9 {
		return nil, false
	}
	axisPoint := u.Mul(centerU).Add(v.Mul(centerV))
	cyl := NewCylinder(axisPoint, axis, radius)
	if !sampleOnSurface(cyl, points, normals, epsilon, normalThreshold) {
		return nil, false
	}
	return cyl, true
}
