// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid primitives, boolean operations and exact
// containment tests behind this interface, so the detector description
// does not depend on a particular geometry backend.
//
// All primitives are centered on the origin. Cylinders and tubes run along
// the z axis, the beam axis of a detector.
package kernel

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max v3.Vec)

	// Inside reports whether p lies inside the solid or on its surface.
	Inside(p v3.Vec) bool
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Cylinder(radius, height float64) (Solid, error)
	Tube(rmin, rmax, height float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Transform(s Solid, m sdf.M44) Solid
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
}

// Rotation returns the rotation matrix for Euler angles in degrees,
// applied around X first, then Y, then Z.
func Rotation(x, y, z float64) sdf.M44 {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	return sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
}
