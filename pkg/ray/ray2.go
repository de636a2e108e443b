package ray

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Ray2 is a ray in the plane.
type Ray2 struct {
	Origin           v2.Vec
	Direction        v2.Vec // unit length
	InverseDirection v2.Vec
}

// New2 returns a planar ray; see New3.
func New2(origin, direction v2.Vec) Ray2 {
	d := direction.MulScalar(1 / direction.Length())
	return Ray2{
		Origin:           origin,
		Direction:        d,
		InverseDirection: v2.Vec{X: 1 / d.X, Y: 1 / d.Y},
	}
}

// At returns the point at distance t along the ray.
func (r Ray2) At(t float64) v2.Vec {
	return r.Origin.Add(r.Direction.MulScalar(t))
}

// Transformed maps the ray through the planar affine transform m; see
// Ray3.Transformed.
func (r Ray2) Transformed(m sdf.M33) Ray2 {
	o := m.MulPosition(r.Origin)
	rot, _ := rotation2(m)
	return New2(o, rot.mul(r.Direction))
}

// IntersectBox is the planar slab test, see Ray3.IntersectBox.
func (r Ray2) IntersectBox(b sdf.Box2) (tmin, tmax float64, ok bool) {
	tmin, tmax = -maxDistance, maxDistance
	var hit bool
	if tmin, tmax, hit = slab(r.Origin.X, r.Direction.X, r.InverseDirection.X, b.Min.X, b.Max.X, tmin, tmax); !hit {
		return 0, 0, false
	}
	if tmin, tmax, hit = slab(r.Origin.Y, r.Direction.Y, r.InverseDirection.Y, b.Min.Y, b.Max.Y, tmin, tmax); !hit {
		return 0, 0, false
	}
	if tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

func (r Ray2) String() string {
	return fmt.Sprintf("Ray(%g, %g -> %g, %g)",
		r.Origin.X, r.Origin.Y, r.Direction.X, r.Direction.Y)
}
