// Package shape defines the primitive families the detector can fit and
// the contract each family satisfies. A Kind builds Surface instances
// from minimal oriented samples; a Surface answers distance, normal and
// parameterization queries about a fitted primitive.
package shape

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Surface is a fitted primitive instance.
type Surface interface {
	// Kind returns the name of the family this surface belongs to.
	Kind() string
	// Distance returns the signed distance from the point to the surface.
	Distance(p r3.Vector) float64
	// NormalDeviation returns 1-|cos| of the angle between the point's
	// normal and the surface normal at the point's footprint. The
	// absolute value makes the measure insensitive to normal orientation.
	NormalDeviation(p, normal r3.Vector) float64
	// Parameterize maps the point into a 2-D surface coordinate frame.
	// The embedding is locally metric but need not be conformal or
	// globally continuous; it is used only for spatial clustering.
	Parameterize(p r3.Vector) (u, v float64)
}

// Kind fits one primitive family from minimal oriented samples.
type Kind interface {
	// Name identifies the family ("plane", "sphere", ...).
	Name() string
	// SampleSize is the number of oriented points a fit needs, at least 3.
	SampleSize() int
	// Fit attempts to build a surface from exactly SampleSize oriented
	// points. It returns false when the sample is degenerate, when a
	// sample point sits farther than epsilon from the resulting surface,
	// or when a sample normal deviates by more than normalThreshold.
	Fit(points, normals []r3.Vector, epsilon, normalThreshold float64) (Surface, bool)
}

// Registry is an ordered table of registered kinds.
type Registry struct {
	kinds []Kind
}

// Register appends a kind; duplicate names are rejected.
func (reg *Registry) Register(k Kind) error {
	for _, existing := range reg.kinds {
		if existing.Name() == k.Name() {
			return errors.Errorf("shape kind %q already registered", k.Name())
		}
	}
	reg.kinds = append(reg.kinds, k)
	return nil
}

// Kinds returns the registered kinds in registration order.
func (reg *Registry) Kinds() []Kind {
	return reg.kinds
}

// MaxSampleSize returns the largest minimal-sample size over all
// registered kinds, or zero when the registry is empty.
func (reg *Registry) MaxSampleSize() int {
	maxSize := 0
	for _, k := range reg.kinds {
		if k.SampleSize() > maxSize {
			maxSize = k.SampleSize()
		}
	}
	return maxSize
}

// deviation returns 1-|cos| between two unit vectors.
func deviation(a, b r3.Vector) float64 {
	d := math.Abs(a.Dot(b))
	if d > 1 {
		d = 1
	}
	return 1 - d
}

// unitOrZero normalizes v, returning the zero vector when v is too short
// to carry a direction.
func unitOrZero(v r3.Vector) r3.Vector {
	n := v.Norm()
	if n < 1e-12 {
		return r3.Vector{}
	}
	return v.Mul(1 / n)
}

// sampleOnSurface checks every sample point against the fitted surface.
func sampleOnSurface(s Surface, points, normals []r3.Vector, epsilon, normalThreshold float64) bool {
	for i, p := range points {
		if math.Abs(s.Distance(p)) > epsilon {
			return false
		}
		if s.NormalDeviation(p, normals[i]) > normalThreshold {
			return false
		}
	}
	return true
}
