// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Containment is read from the sign of the distance field: a point is
// inside a solid when its signed distance is not positive.
package sdfx

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max v3.Vec) {
	bb := s.s.BoundingBox()
	return bb.Min, bb.Max
}

// Inside reports whether the signed distance at p is not positive.
func (s *sdfxSolid) Inside(p v3.Vec) bool {
	return s.s.Evaluate(p) <= 0
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func shapeError(shape string, err error) error {
	return errors.New("invalid shape parameters").
		WithType(errtype.Validation).
		WithTag("shape", shape).
		Wrap(err)
}

// Box creates a box with the given full dimensions, centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, shapeError("box", errors.Newf("size %vx%vx%v must be positive", x, y, z))
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, shapeError("box", err)
	}
	return wrap(s), nil
}

// Cylinder creates a solid cylinder along z, centered on the origin.
func (k *SdfxKernel) Cylinder(radius, height float64) (kernel.Solid, error) {
	if radius <= 0 || height <= 0 {
		return nil, shapeError("cylinder", errors.Newf("radius %v and height %v must be positive", radius, height))
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, shapeError("cylinder", err)
	}
	return wrap(s), nil
}

// Tube creates a hollow cylinder along z with inner radius rmin and outer
// radius rmax. A zero rmin gives a solid cylinder.
func (k *SdfxKernel) Tube(rmin, rmax, height float64) (kernel.Solid, error) {
	if height <= 0 {
		return nil, shapeError("tube", errors.Newf("height %v must be positive", height))
	}
	if rmin < 0 || rmin >= rmax {
		return nil, shapeError("tube", errors.Newf("inner radius %v must be in [0, %v)", rmin, rmax))
	}
	outer, err := sdf.Cylinder3D(height, rmax, 0)
	if err != nil {
		return nil, shapeError("tube", err)
	}
	if rmin == 0 {
		return wrap(outer), nil
	}
	inner, err := sdf.Cylinder3D(height, rmin, 0)
	if err != nil {
		return nil, shapeError("tube", err)
	}
	return wrap(sdf.Difference3D(outer, inner)), nil
}

// Sphere creates a sphere centered on the origin.
func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	if radius <= 0 {
		return nil, shapeError("sphere", errors.Newf("radius %v must be positive", radius))
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, shapeError("sphere", err)
	}
	return wrap(s), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Transform places a solid with the affine transform m.
func (k *SdfxKernel) Transform(s kernel.Solid, m sdf.M44) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.Transform(s, sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.Transform(s, kernel.Rotation(x, y, z))
}
