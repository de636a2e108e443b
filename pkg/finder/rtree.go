package finder

import (
	"math"
	"slices"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/axis"
	"github.com/chazu/detnav/pkg/volume"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

const (
	rtreeMinChildren = 2
	rtreeMaxChildren = 8

	// queryTolerance pads query points so positions on a face of a volume
	// extent still intersect it.
	queryTolerance = 1e-9

	// rtreeLimit replaces infinite extent bounds.
	rtreeLimit = 1e300
)

// RTreeBuilder builds a finder that stores the volume extents, projected
// onto the cast directions, in an R-tree.
type RTreeBuilder struct {
	Cast axis.Cast
}

// NewRTreeBuilder returns an R-tree builder over cast.
func NewRTreeBuilder(cast axis.Cast) (*RTreeBuilder, error) {
	if cast.Len() == 0 {
		return nil, errors.New("cast list is empty").
			WithType(ErrTypeConfiguration)
	}
	return &RTreeBuilder{Cast: cast}, nil
}

type rtreeEntry struct {
	index int
	rect  rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect { return e.rect }

// Construct implements Builder.
func (b *RTreeBuilder) Construct(gctx volume.GeometryContext, vols []volume.RootVolume) (Delegate, error) {
	if b.Cast.Len() == 0 {
		return nil, errors.New("cast list is empty").
			WithType(ErrTypeConfiguration)
	}
	set, err := volume.NewSet(vols)
	if err != nil {
		return nil, err
	}

	dims := b.Cast.Len()
	tree := rtreego.NewTree(dims, rtreeMinChildren, rtreeMaxChildren)
	for i, e := range set.Extents(gctx) {
		lo := make(rtreego.Point, dims)
		hi := make(rtreego.Point, dims)
		for k, d := range b.Cast.Directions() {
			r := e.Range(d)
			if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
				return nil, errors.New("root volume has an invalid extent").
					WithType(ErrTypeDegenerateGeometry).
					WithTag("volume", set.At(i).Name()).
					WithTag("direction", d.String())
			}
			lo[k] = clampLimit(r.Min)
			hi[k] = clampLimit(r.Max)
		}
		rect, err := rtreego.NewRectFromPoints(lo, hi)
		if err != nil {
			return nil, errors.New("creating r-tree rectangle failed").
				WithType(ErrTypeDegenerateGeometry).
				WithTag("volume", set.At(i).Name()).
				Wrap(err)
		}
		tree.Insert(&rtreeEntry{index: i, rect: rect})
	}

	return &RTree{cast: b.Cast, tree: tree, vols: set}, nil
}

func clampLimit(v float64) float64 {
	return math.Max(-rtreeLimit, math.Min(rtreeLimit, v))
}

// RTree is the R-tree backed finder. Candidates are tested in volume input
// order, so it returns the same volume as Indexed and TryAll.
type RTree struct {
	cast axis.Cast
	tree *rtreego.Rtree
	vols volume.Set
}

func (f *RTree) Find(gctx volume.GeometryContext, position, _ v3.Vec) (volume.RootVolume, bool) {
	v := f.cast.Project(position)
	p := make(rtreego.Point, f.cast.Len())
	for i := range p {
		if math.IsNaN(v[i]) {
			return nil, false
		}
		p[i] = v[i]
	}

	hits := f.tree.SearchIntersect(p.ToRect(queryTolerance))
	indices := make([]int, len(hits))
	for i, h := range hits {
		indices[i] = h.(*rtreeEntry).index
	}
	slices.Sort(indices)

	for _, i := range indices {
		if vol := f.vols.At(i); vol.Inside(gctx, position) {
			return vol, true
		}
	}
	return nil, false
}
