package shape

import (
	"github.com/golang/geo/r3"
)

// Plane is an infinite plane given by normal.x = offset.
type Plane struct {
	normal r3.Vector
	offset float64
	u, v   r3.Vector
}

// NewPlane builds a plane from a unit normal and its signed offset from
// the origin.
func NewPlane(normal r3.Vector, offset float64) *Plane {
	u, v := planeBasis(normal)
	return &Plane{normal: normal, offset: offset, u: u, v: v}
}

// Normal returns the plane's unit normal.
func (pl *Plane) Normal() r3.Vector {
	return pl.normal
}

// Offset returns the signed distance of the plane from the origin.
func (pl *Plane) Offset() float64 {
	return pl.offset
}

// Equation returns the plane as [a b c d] with ax+by+cz+d = 0.
func (pl *Plane) Equation() [4]float64 {
	return [4]float64{pl.normal.X, pl.normal.Y, pl.normal.Z, -pl.offset}
}

// Kind implements Surface.
func (pl *Plane) Kind() string {
	return "plane"
}

// Distance implements Surface.
func (pl *Plane) Distance(p r3.Vector) float64 {
	return pl.normal.Dot(p) - pl.offset
}

// NormalDeviation implements Surface.
func (pl *Plane) NormalDeviation(p, normal r3.Vector) float64 {
	return deviation(pl.normal, normal)
}

// Parameterize implements Surface.
func (pl *Plane) Parameterize(p r3.Vector) (float64, float64) {
	return pl.u.Dot(p), pl.v.Dot(p)
}

type planeKind struct{}

// NewPlaneKind returns the plane family: three oriented points, fit by
// cross product.
func NewPlaneKind() Kind {
	return planeKind{}
}

func (planeKind) Name() string { return "plane" }

func (planeKind) SampleSize() int { return 3 }

func (planeKind) Fit(points, normals []r3.Vector, epsilon, normalThreshold float64) (Surface, bool) {
	e1 := points[1].Sub(points[0])
	e2 := points[2].Sub(points[0])
	normal := unitOrZero(e1.Cross(e2))
	if normal.Norm() == 0 {
		return nil, false
	}
	// Orient along the sample normals; irrelevant for unoriented scoring
	// but keeps reported normals stable.
	if normal.Dot(normals[0].Add(normals[1]).Add(normals[2])) < 0 {
		normal = normal.Mul(-1)
	}
	pl := NewPlane(normal, normal.Dot(points[0]))
	if !sampleOnSurface(pl, points, normals, epsilon, normalThreshold) {
		return nil, false
	}
	return pl, true
}
