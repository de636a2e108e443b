package finder

import (
	"math"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/detnav/pkg/axis"
	"github.com/chazu/detnav/pkg/extent"
	"github.com/chazu/detnav/pkg/grid"
	"github.com/chazu/detnav/pkg/volume"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
)

// IndexedBuilder builds a grid indexed finder over the directions of a
// cast list.
type IndexedBuilder struct {
	cast axis.Cast
	opts options
}

// NewIndexedBuilder validates the cast list and options. Binnings for
// directions outside the cast list are rejected.
func NewIndexedBuilder(cast axis.Cast, opts ...Option) (*IndexedBuilder, error) {
	if cast.Len() == 0 {
		return nil, errors.New("cast list is empty").
			WithType(ErrTypeConfiguration)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	for d, b := range o.binnings {
		if cast.Index(d) < 0 {
			return nil, errors.New("binning for a direction outside the cast list").
				WithType(ErrTypeConfiguration).
				WithTag("direction", d.String()).
				WithTag("cast", cast.String())
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	for d := range o.envelopes {
		if cast.Index(d) < 0 {
			return nil, errors.New("envelope for a direction outside the cast list").
				WithType(ErrTypeConfiguration).
				WithTag("direction", d.String()).
				WithTag("cast", cast.String())
		}
	}
	if o.defaultBins < 0 {
		return nil, errors.New("default bin count is negative").
			WithType(ErrTypeConfiguration).
			WithTag("bins", o.defaultBins)
	}
	if o.minWidth < 0 || math.IsNaN(o.minWidth) || math.IsInf(o.minWidth, 0) {
		return nil, errors.New("minimum axis width must be finite and non-negative").
			WithType(ErrTypeConfiguration).
			WithTag("min_width", o.minWidth)
	}

	return &IndexedBuilder{cast: cast, opts: o}, nil
}

// Cast returns the cast list of the builder.
func (b *IndexedBuilder) Cast() axis.Cast { return b.cast }

// Construct implements Builder.
func (b *IndexedBuilder) Construct(gctx volume.GeometryContext, vols []volume.RootVolume) (Delegate, error) {
	idx, err := b.Build(gctx, vols)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Build is Construct with a concrete result type.
func (b *IndexedBuilder) Build(gctx volume.GeometryContext, vols []volume.RootVolume) (*Indexed, error) {
	start := time.Now()
	buildID := uuid.NewString()

	set, err := volume.NewSet(vols)
	if err != nil {
		return nil, err
	}
	exts := set.Extents(gctx)
	if err := checkExtents(b.cast, set, exts); err != nil {
		return nil, errors.New("invalid root volume extent").
			WithType(errors.Type(err)).
			WithTag("build", buildID).
			Wrap(err)
	}

	axes := make([]axis.Axis, b.cast.Len())
	expansion := make([]int, b.cast.Len())
	for i, d := range b.cast.Directions() {
		a, exp, err := b.resolveAxis(d, set, exts)
		if err != nil {
			return nil, errors.New("resolving grid axis failed").
				WithType(errors.Type(err)).
				WithTag("build", buildID).
				Wrap(err)
		}
		axes[i] = a
		expansion[i] = exp
	}

	gb, err := grid.NewBuilder(axes...)
	if err != nil {
		return nil, err
	}
	ranges := make([]extent.Range, b.cast.Len())
	for vi, e := range exts {
		for i, d := range b.cast.Directions() {
			ranges[i] = e.Range(d)
		}
		n, err := gb.Insert(uint32(vi), ranges, expansion)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if !anyOpen(axes) {
				return nil, errors.New("root volume was not filled into any grid cell").
					WithType(ErrTypeDegenerateGeometry).
					WithTag("build", buildID).
					WithTag("volume", set.At(vi).Name())
			}
			logs.WithTag("build", buildID).
				WithTag("volume", set.At(vi).Name()).
				Warn("root volume lies outside every open axis and cannot be found")
		}
	}
	g := gb.Freeze()

	stats := g.Stats()
	logs.WithTag("build", buildID).
		WithTag("finder", b.opts.name).
		WithTag("cast", b.cast.String()).
		WithTag("volumes", set.Len()).
		WithTag("cells", stats.Cells).
		WithTag("empty_cells", stats.EmptyCells).
		WithTag("max_occupancy", stats.MaxOccupancy).
		WithTag("duration", time.Since(start)).
		Debug("root volume grid built")

	return &Indexed{
		id:   buildID,
		cast: b.cast,
		grid: g,
		vols: set,
	}, nil
}

// resolveAxis computes the axis of cast direction d from the volume
// extents and the configured binning.
func (b *IndexedBuilder) resolveAxis(d axis.Direction, set volume.Set, exts []extent.Extent) (axis.Axis, int, error) {
	bin, ok := b.opts.binnings[d]
	if !ok {
		bin = axis.AutoRange(d, axis.Bound, 0)
	}
	bin.Direction = d

	defaultBins := b.opts.defaultBins
	if defaultBins == 0 {
		defaultBins = set.Len()
	}

	if !bin.IsAutoRange() {
		a, err := bin.Resolve(0, 0, defaultBins)
		return a, bin.Expansion, err
	}

	total := extent.New()
	for i, e := range exts {
		r := e.Range(d)
		if !bounded(r) {
			return axis.Axis{}, 0, errors.New("root volume extent is unbounded along an auto-range axis").
				WithType(ErrTypeDegenerateGeometry).
				WithTag("direction", d.String()).
				WithTag("volume", set.At(i).Name()).
				WithTag("min", r.Min).
				WithTag("max", r.Max)
		}
		if !e.Constrains(d) {
			// finite natural range, phi or theta
			e.Set(d, r.Min, r.Max)
		}
		total.Extend(e, d)
	}
	if env, ok := b.opts.envelopes[d]; ok {
		total.ApplyEnvelope(d, env)
	}

	r := total.Range(d)
	if w := b.opts.minWidth; w > 0 && r.Width() < w {
		mid := r.Min + r.Width()/2
		r = extent.Range{Min: mid - w/2, Max: mid + w/2}
	}
	if r.Degenerate() {
		return axis.Axis{}, 0, errors.New("root volumes have zero extent along a cast direction").
			WithType(ErrTypeDegenerateGeometry).
			WithTag("direction", d.String()).
			WithTag("min", r.Min).
			WithTag("max", r.Max)
	}

	a, err := bin.Resolve(r.Min, r.Max, defaultBins)
	return a, bin.Expansion, err
}

// checkExtents rejects extents that cannot be placed on a cast direction,
// whatever its binning: NaN ends or an inverted range.
func checkExtents(cast axis.Cast, set volume.Set, exts []extent.Extent) error {
	for i, e := range exts {
		for _, d := range cast.Directions() {
			r := e.Range(d)
			if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
				return errors.New("root volume extent is not a valid range along a cast direction").
					WithType(ErrTypeDegenerateGeometry).
					WithTag("direction", d.String()).
					WithTag("volume", set.At(i).Name()).
					WithTag("min", r.Min).
					WithTag("max", r.Max)
			}
		}
	}
	return nil
}

func anyOpen(axes []axis.Axis) bool {
	for _, a := range axes {
		if a.Boundary() == axis.Open {
			return true
		}
	}
	return false
}

// bounded reports whether r is a usable auto-range contribution. Natural
// ranges of unconstrained linear directions reach MaxFloat64.
func bounded(r extent.Range) bool {
	return r.Finite() && r.Min > -math.MaxFloat64 && r.Max < math.MaxFloat64
}

// Indexed is the grid indexed root volume finder.
type Indexed struct {
	id   string
	cast axis.Cast
	grid *grid.Grid
	vols volume.Set
}

// Find returns the first candidate of the position's cell, in volume
// input order, whose exact shape contains the position.
func (f *Indexed) Find(gctx volume.GeometryContext, position, _ v3.Vec) (volume.RootVolume, bool) {
	i, ok := f.Locate(gctx, position)
	if !ok {
		return nil, false
	}
	return f.vols.At(i), true
}

// Locate is Find returning the volume index.
func (f *Indexed) Locate(gctx volume.GeometryContext, position v3.Vec) (int, bool) {
	return firstInside(f.vols, f.grid.Lookup(f.cast.Project(position)), gctx, position)
}

// Candidates returns the volume indices the grid cell of position holds.
// The slice aliases the grid and must not be modified.
func (f *Indexed) Candidates(position v3.Vec) []uint32 {
	return f.grid.Lookup(f.cast.Project(position))
}

// ID returns the build id logged at construction.
func (f *Indexed) ID() string { return f.id }

// Cast returns the cast list the grid indexes.
func (f *Indexed) Cast() axis.Cast { return f.cast }

// Grid returns the underlying grid.
func (f *Indexed) Grid() *grid.Grid { return f.grid }

// Volumes returns the root volumes in index order.
func (f *Indexed) Volumes() volume.Set { return f.vols }
