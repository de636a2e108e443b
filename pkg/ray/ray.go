// Package ray provides the straight line primitive navigation uses to test
// boundary and portal crossings.
//
// A ray is a value: it is never mutated after construction, and
// Transformed returns a fresh copy, so a base ray can be shared freely
// between goroutines.
package ray

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Ray3 is a ray in three dimensions.
type Ray3 struct {
	Origin    v3.Vec
	Direction v3.Vec // unit length

	// InverseDirection is the component wise reciprocal of Direction. A
	// zero direction component gives an infinite inverse.
	InverseDirection v3.Vec
}

// New3 returns a ray starting at origin. direction is normalized; a zero
// length direction produces a NaN ray.
func New3(origin, direction v3.Vec) Ray3 {
	d := direction.MulScalar(1 / direction.Length())
	return Ray3{
		Origin:           origin,
		Direction:        d,
		InverseDirection: v3.Vec{X: 1 / d.X, Y: 1 / d.Y, Z: 1 / d.Z},
	}
}

// At returns the point at distance t along the ray.
func (r Ray3) At(t float64) v3.Vec {
	return r.Origin.Add(r.Direction.MulScalar(t))
}

// Transformed maps the ray through the affine transform m. The origin gets
// the full mapping. The direction gets only the rotational part of m, the
// orthogonal factor of its linear part, so scale and shear do not turn
// it. A singular m falls back to the linear part.
func (r Ray3) Transformed(m sdf.M44) Ray3 {
	o := m.MulPosition(r.Origin)
	rot, _ := rotation3(m)
	return New3(o, rot.mul(r.Direction))
}

// IntersectBox runs a slab test against b and returns the entry and exit
// distances. Entry may be negative when the origin is inside the box.
// Axes the ray runs parallel to only check that the origin is inside the
// slab.
func (r Ray3) IntersectBox(b sdf.Box3) (tmin, tmax float64, ok bool) {
	tmin, tmax = -maxDistance, maxDistance

	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	inv := [3]float64{r.InverseDirection.X, r.InverseDirection.Y, r.InverseDirection.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i := 0; i < 3; i++ {
		var hit bool
		if tmin, tmax, hit = slab(o[i], d[i], inv[i], lo[i], hi[i], tmin, tmax); !hit {
			return 0, 0, false
		}
	}
	if tmax < 0 || tmin > tmax {
		return 0, 0, false
	}
	return tmin, tmax, true
}

func (r Ray3) String() string {
	return fmt.Sprintf("Ray(%g, %g, %g -> %g, %g, %g)",
		r.Origin.X, r.Origin.Y, r.Origin.Z,
		r.Direction.X, r.Direction.Y, r.Direction.Z)
}
