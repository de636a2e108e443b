// Package grid implements the dense cell index of the root volume finder.
//
// A Grid partitions the cast space along one to three axes. Every cell
// holds the ascending indices of the volumes whose extent overlaps it.
// Grids are filled through a Builder and are immutable once frozen.
package grid

import (
	"encoding/binary"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/cespare/xxhash/v2"
	"github.com/chazu/detnav/pkg/axis"
	"github.com/chazu/detnav/pkg/errtype"
)

// MaxCells bounds the number of cells of a single grid.
const MaxCells = 1 << 24

// Grid is a frozen cell index. Candidate lists are stored back to back in
// entries; the list of cell c is entries[offsets[c]:offsets[c+1]].
//
// A Grid is safe for concurrent use.
type Grid struct {
	axes    []axis.Axis
	strides [axis.MaxDims]int
	cells   int
	volumes int

	offsets []uint32
	entries []uint32
}

func layout(axes []axis.Axis) (strides [axis.MaxDims]int, cells int, err error) {
	if len(axes) == 0 || len(axes) > axis.MaxDims {
		return strides, 0, errors.New("grid needs one to three axes").
			WithType(errtype.Configuration).
			WithTag("axes", len(axes))
	}
	cells = 1
	for i := len(axes) - 1; i >= 0; i-- {
		n := axes[i].NBins()
		if n < 1 {
			return strides, 0, errors.New("grid axis has no bins").
				WithType(errtype.Configuration).
				WithTag("axis", i)
		}
		strides[i] = cells
		if cells > MaxCells/n {
			return strides, 0, errors.New("grid has too many cells").
				WithType(errtype.Configuration).
				WithTag("max", MaxCells)
		}
		cells *= n
	}
	return strides, cells, nil
}

// Dims returns the number of axes.
func (g *Grid) Dims() int { return len(g.axes) }

// Axis returns the i-th axis.
func (g *Grid) Axis(i int) axis.Axis { return g.axes[i] }

// Cells returns the total number of cells.
func (g *Grid) Cells() int { return g.cells }

// Volumes returns the number of volumes the grid was filled with.
func (g *Grid) Volumes() int { return g.volumes }

// Cell returns the flat index of the cell with the given per-axis bins.
func (g *Grid) Cell(bins ...int) int {
	c := 0
	for i, b := range bins {
		c += b * g.strides[i]
	}
	return c
}

// Bins splits a flat cell index into per-axis bins.
func (g *Grid) Bins(cell int) [axis.MaxDims]int {
	var bins [axis.MaxDims]int
	for i := range g.axes {
		bins[i] = cell / g.strides[i]
		cell %= g.strides[i]
	}
	return bins
}

// Locate returns the cell holding the cast values v, or false when a
// value falls outside an Open axis or is NaN.
func (g *Grid) Locate(v axis.Values) (int, bool) {
	c := 0
	for i := range g.axes {
		b, ok := g.axes[i].Index(v[i])
		if !ok {
			return -1, false
		}
		c += b * g.strides[i]
	}
	return c, true
}

// Candidates returns the volume indices stored in cell. The returned slice
// aliases the grid and must not be modified.
func (g *Grid) Candidates(cell int) []uint32 {
	return g.entries[g.offsets[cell]:g.offsets[cell+1]:g.offsets[cell+1]]
}

// Lookup returns the candidates of the cell holding v; nil when v has no
// cell. It does not allocate.
func (g *Grid) Lookup(v axis.Values) []uint32 {
	c, ok := g.Locate(v)
	if !ok {
		return nil
	}
	return g.Candidates(c)
}

// Fingerprint hashes the axes and the cell contents. Two grids built from
// the same input have the same fingerprint.
func (g *Grid) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}

	put(uint64(len(g.axes)))
	for _, a := range g.axes {
		put(uint64(a.Direction()))
		put(uint64(a.Boundary()))
		put(uint64(a.NBins()))
		for _, e := range a.Edges() {
			put(math.Float64bits(e))
		}
	}
	put(uint64(g.volumes))
	for _, o := range g.offsets {
		put(uint64(o))
	}
	for _, e := range g.entries {
		put(uint64(e))
	}
	return d.Sum64()
}
