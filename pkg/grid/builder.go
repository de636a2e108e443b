package grid

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/axis"
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/extent"
)

// Builder accumulates cell memberships. Each touched cell gets a bitmap,
// so inserting a volume twice or in any order gives the same grid.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	axes    []axis.Axis
	strides [axis.MaxDims]int
	ncells  int
	volumes int

	cells map[int]*roaring.Bitmap
	spans [axis.MaxDims][]int
}

// NewBuilder returns a builder for a grid over axes.
func NewBuilder(axes ...axis.Axis) (*Builder, error) {
	strides, cells, err := layout(axes)
	if err != nil {
		return nil, err
	}
	a := make([]axis.Axis, len(axes))
	copy(a, axes)
	return &Builder{
		axes:    a,
		strides: strides,
		ncells:  cells,
		cells:   make(map[int]*roaring.Bitmap),
	}, nil
}

// Insert adds volume vol to every cell in the box spanned by ranges, one
// range per axis, widened by expansion[i] bins on axis i. A nil expansion
// means no widening. It returns the number of cells the volume went into;
// zero when a range misses an Open axis.
func (b *Builder) Insert(vol uint32, ranges []extent.Range, expansion []int) (int, error) {
	if len(ranges) != len(b.axes) {
		return 0, errors.New("range count does not match grid dimensions").
			WithType(errtype.Configuration).
			WithTag("ranges", len(ranges)).
			WithTag("axes", len(b.axes))
	}
	if int(vol) >= b.volumes {
		b.volumes = int(vol) + 1
	}

	for i, a := range b.axes {
		exp := 0
		if i < len(expansion) {
			exp = expansion[i]
		}
		b.spans[i] = a.Span(ranges[i].Min, ranges[i].Max, exp, b.spans[i][:0])
		if len(b.spans[i]) == 0 {
			return 0, nil
		}
	}

	n := 0
	b.product(0, 0, func(cell int) {
		bm, ok := b.cells[cell]
		if !ok {
			bm = roaring.New()
			b.cells[cell] = bm
		}
		bm.Add(vol)
		n++
	})
	return n, nil
}

func (b *Builder) product(dim, base int, fn func(cell int)) {
	if dim == len(b.axes) {
		fn(base)
		return
	}
	for _, bin := range b.spans[dim] {
		b.product(dim+1, base+bin*b.strides[dim], fn)
	}
}

// Freeze packs the memberships into an immutable Grid. The builder can be
// discarded afterwards.
func (b *Builder) Freeze() *Grid {
	g := &Grid{
		axes:    b.axes,
		strides: b.strides,
		cells:   b.ncells,
		volumes: b.volumes,
		offsets: make([]uint32, b.ncells+1),
	}

	total := uint64(0)
	for _, bm := range b.cells {
		total += bm.GetCardinality()
	}
	g.entries = make([]uint32, 0, total)

	for c := 0; c < b.ncells; c++ {
		g.offsets[c] = uint32(len(g.entries))
		if bm, ok := b.cells[c]; ok {
			it := bm.Iterator()
			for it.HasNext() {
				g.entries = append(g.entries, it.Next())
			}
		}
	}
	g.offsets[b.ncells] = uint32(len(g.entries))
	return g
}
