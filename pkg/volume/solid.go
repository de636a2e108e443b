package volume

import (
	"github.com/chazu/detnav/pkg/extent"
	"github.com/chazu/detnav/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is a root volume backed by a geometry kernel solid. The solid is
// already placed in global coordinates, so the geometry context is not
// consulted.
type Solid struct {
	name   string
	solid  kernel.Solid
	extent extent.Extent
}

// NewSolid wraps s. The extent is computed once from the bounding box.
func NewSolid(name string, s kernel.Solid) *Solid {
	min, max := s.BoundingBox()
	return &Solid{
		name:   name,
		solid:  s,
		extent: extent.FromBox(min, max),
	}
}

func (s *Solid) Name() string { return s.name }

func (s *Solid) Extent(GeometryContext) extent.Extent { return s.extent }

func (s *Solid) Inside(_ GeometryContext, p v3.Vec) bool {
	return s.solid.Inside(p)
}

// Kernel returns the wrapped kernel solid.
func (s *Solid) Kernel() kernel.Solid { return s.solid }

// Box is an axis aligned cuboid volume.
type Box struct {
	name     string
	min, max v3.Vec
}

// NewBox returns the cuboid [min, max].
func NewBox(name string, min, max v3.Vec) *Box {
	return &Box{name: name, min: min, max: max}
}

// NewCube returns a cube with the given side length centered on c.
func NewCube(name string, c v3.Vec, side float64) *Box {
	h := v3.Vec{X: side / 2, Y: side / 2, Z: side / 2}
	return NewBox(name, c.Sub(h), c.Add(h))
}

func (b *Box) Name() string { return b.name }

func (b *Box) Extent(GeometryContext) extent.Extent {
	return extent.FromBox(b.min, b.max)
}

func (b *Box) Inside(_ GeometryContext, p v3.Vec) bool {
	return p.X >= b.min.X && p.X <= b.max.X &&
		p.Y >= b.min.Y && p.Y <= b.max.Y &&
		p.Z >= b.min.Z && p.Z <= b.max.Z
}

// Bounds returns the corners of the box.
func (b *Box) Bounds() (min, max v3.Vec) { return b.min, b.max }
