package axis

import (
	"fmt"
	"math"
	"sort"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/errtype"
)

// Boundary selects what happens to values outside an axis range.
type Boundary int

const (
	Bound  Boundary = iota // clamp to the nearest edge bin
	Open                   // values outside the range belong to no bin
	Closed                 // wrap around, cyclic directions only
)

func (b Boundary) String() string {
	switch b {
	case Bound:
		return "bound"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// Binning is the prescription of one grid axis, resolved into an Axis once
// the extent of the volumes is known.
type Binning struct {
	Direction Direction
	Boundary  Boundary

	// Bins is the number of equidistant bins. Zero means "use the builder
	// default". Ignored when Edges is set.
	Bins int

	// Min and Max fix the range of an equidistant axis. When both are zero
	// the range is taken from the volumes (auto-range).
	Min, Max float64

	// Edges, when set, defines a variable axis and overrides Bins, Min and
	// Max.
	Edges []float64

	// Expansion widens the bin range every volume is filled into by the
	// given number of bins on each side.
	Expansion int
}

// Equidistant returns a fixed range binning with bins equal width bins.
func Equidistant(d Direction, b Boundary, min, max float64, bins int) Binning {
	return Binning{Direction: d, Boundary: b, Min: min, Max: max, Bins: bins}
}

// AutoRange returns an equidistant binning whose range is computed from the
// volumes at construction time.
func AutoRange(d Direction, b Boundary, bins int) Binning {
	return Binning{Direction: d, Boundary: b, Bins: bins}
}

// Variable returns a binning with explicit, sorted bin edges.
func Variable(d Direction, b Boundary, edges ...float64) Binning {
	e := make([]float64, len(edges))
	copy(e, edges)
	return Binning{Direction: d, Boundary: b, Edges: e}
}

// IsAutoRange reports whether the range comes from the volumes.
func (b Binning) IsAutoRange() bool {
	return len(b.Edges) == 0 && b.Min == 0 && b.Max == 0
}

// Validate checks the parts of the prescription that do not depend on the
// volumes.
func (b Binning) Validate() error {
	if !b.Direction.Valid() {
		return errors.New("binning has an unknown direction").
			WithType(errtype.Configuration).
			WithTag("direction", int(b.Direction))
	}
	if b.Boundary == Closed && !b.Direction.Cyclic() {
		return errors.New("closed boundary is only valid for cyclic directions").
			WithType(errtype.Configuration).
			WithTag("direction", b.Direction.String())
	}
	if b.Bins < 0 || b.Expansion < 0 {
		return errors.New("binning has a negative bin count or expansion").
			WithType(errtype.Configuration).
			WithTag("direction", b.Direction.String()).
			WithTag("bins", b.Bins).
			WithTag("expansion", b.Expansion)
	}
	if len(b.Edges) > 0 {
		if len(b.Edges) < 2 {
			return errors.New("variable binning needs at least two edges").
				WithType(errtype.Configuration).
				WithTag("direction", b.Direction.String())
		}
		if !sort.Float64sAreSorted(b.Edges) {
			return errors.New("variable binning edges are not sorted").
				WithType(errtype.Configuration).
				WithTag("direction", b.Direction.String())
		}
		for i := 1; i < len(b.Edges); i++ {
			if b.Edges[i] == b.Edges[i-1] {
				return errors.New("variable binning has an empty bin").
					WithType(errtype.Configuration).
					WithTag("direction", b.Direction.String()).
					WithTag("edge", b.Edges[i])
			}
		}
		return nil
	}
	if !b.IsAutoRange() && !(b.Min < b.Max) {
		return errors.Newf("binning min edge %v must be smaller than max edge %v", b.Min, b.Max).
			WithType(errtype.Configuration).
			WithTag("direction", b.Direction.String())
	}
	return nil
}

// Resolve turns the prescription into an axis. min and max are the
// volume derived range used by auto-range binnings; defaultBins is used
// when Bins is zero.
func (b Binning) Resolve(min, max float64, defaultBins int) (Axis, error) {
	if err := b.Validate(); err != nil {
		return Axis{}, err
	}

	if len(b.Edges) > 0 {
		return newVariable(b.Direction, b.Boundary, b.Edges), nil
	}

	if !b.IsAutoRange() {
		min, max = b.Min, b.Max
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return Axis{}, errors.New("axis range is not finite").
			WithType(errtype.DegenerateGeometry).
			WithTag("direction", b.Direction.String()).
			WithTag("min", min).
			WithTag("max", max)
	}
	if !(min < max) {
		return Axis{}, errors.New("axis range has zero width").
			WithType(errtype.DegenerateGeometry).
			WithTag("direction", b.Direction.String()).
			WithTag("min", min).
			WithTag("max", max)
	}

	bins := b.Bins
	if bins == 0 {
		bins = defaultBins
	}
	if bins < 1 {
		return Axis{}, errors.New("axis needs at least one bin").
			WithType(errtype.Configuration).
			WithTag("direction", b.Direction.String())
	}
	return newEquidistant(b.Direction, b.Boundary, min, max, bins), nil
}
