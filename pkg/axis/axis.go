package axis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Axis is a resolved one dimensional binning. Bins are half open,
// [lower, upper), except the last bin which also contains its upper edge,
// so every value inside [Min, Max] maps to exactly one bin.
//
// An Axis is immutable and safe for concurrent use.
type Axis struct {
	dir      Direction
	boundary Boundary
	min, max float64
	nbins    int

	// equidistant axes
	width float64

	// variable axes, nil for equidistant ones
	edges []float64
}

func newEquidistant(d Direction, b Boundary, min, max float64, bins int) Axis {
	return Axis{
		dir:      d,
		boundary: b,
		min:      min,
		max:      max,
		nbins:    bins,
		width:    (max - min) / float64(bins),
	}
}

func newVariable(d Direction, b Boundary, edges []float64) Axis {
	e := make([]float64, len(edges))
	copy(e, edges)
	return Axis{
		dir:      d,
		boundary: b,
		min:      e[0],
		max:      e[len(e)-1],
		nbins:    len(e) - 1,
		edges:    e,
	}
}

func (a Axis) Direction() Direction { return a.dir }
func (a Axis) Boundary() Boundary   { return a.boundary }
func (a Axis) Min() float64         { return a.min }
func (a Axis) Max() float64         { return a.max }
func (a Axis) NBins() int           { return a.nbins }

// Equidistant reports whether all bins have the same width.
func (a Axis) Equidistant() bool { return a.edges == nil }

// Edge returns the lower edge of bin k; Edge(NBins()) is the upper edge of
// the last bin.
func (a Axis) Edge(k int) float64 {
	if a.edges != nil {
		return a.edges[k]
	}
	if k == a.nbins {
		return a.max
	}
	return a.min + float64(k)*a.width
}

// Edges returns all NBins()+1 bin edges.
func (a Axis) Edges() []float64 {
	out := make([]float64, a.nbins+1)
	for k := range out {
		out[k] = a.Edge(k)
	}
	return out
}

// Index returns the bin that contains v. Values outside [Min, Max] are
// clamped to the nearest edge bin for Bound axes, wrapped for Closed axes,
// and rejected for Open axes. NaN is always rejected.
func (a Axis) Index(v float64) (int, bool) {
	if math.IsNaN(v) {
		return -1, false
	}
	if v < a.min || v > a.max {
		switch a.boundary {
		case Open:
			return -1, false
		case Closed:
			v = a.wrap(v)
		default:
			if v < a.min {
				return 0, true
			}
			return a.nbins - 1, true
		}
	}
	return a.locate(v), true
}

// locate maps an in-range value to its bin.
func (a Axis) locate(v float64) int {
	if a.edges != nil {
		// first edge strictly above v, minus one
		k := sort.Search(len(a.edges), func(i int) bool { return a.edges[i] > v }) - 1
		if k >= a.nbins {
			k = a.nbins - 1
		}
		if k < 0 {
			k = 0
		}
		return k
	}

	k := int(math.Floor((v - a.min) / a.width))
	if k >= a.nbins {
		k = a.nbins - 1
	}
	if k < 0 {
		k = 0
	}
	// Rounding in the division can land one bin off near an edge; settle
	// against the edges themselves so lower edges are always inclusive.
	if k+1 < a.nbins && v >= a.Edge(k+1) {
		k++
	} else if k > 0 && v < a.Edge(k) {
		k--
	}
	return k
}

// fold wraps v into [Min, Max] but leaves in-range values alone, so Max
// stays in the last bin.
func (a Axis) fold(v float64) float64 {
	if v >= a.min && v <= a.max {
		return v
	}
	return a.wrap(v)
}

func (a Axis) wrap(v float64) float64 {
	period := a.max - a.min
	w := math.Mod(v-a.min, period)
	if w < 0 {
		w += period
	}
	return a.min + w
}

// Span returns the ascending list of bins overlapped by the closed range
// [lo, hi], widened by expansion bins on each side. Touching a bin edge
// counts as overlap. The result is appended to dst.
func (a Axis) Span(lo, hi float64, expansion int, dst []int) []int {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return dst
	}

	if a.boundary == Closed {
		return a.closedSpan(lo, hi, expansion, dst)
	}

	if a.boundary == Open && (hi < a.min || lo > a.max) {
		return dst
	}

	first := 0
	if lo > a.min {
		first = a.locate(math.Min(lo, a.max))
	}
	last := a.nbins - 1
	if hi < a.max {
		last = a.locate(math.Max(hi, a.min))
	}

	first = max(first-expansion, 0)
	last = min(last+expansion, a.nbins-1)
	for k := first; k <= last; k++ {
		dst = append(dst, k)
	}
	return dst
}

func (a Axis) closedSpan(lo, hi float64, expansion int, dst []int) []int {
	period := a.max - a.min
	if hi-lo >= period || 2*expansion+1 >= a.nbins {
		for k := 0; k < a.nbins; k++ {
			dst = append(dst, k)
		}
		return dst
	}

	wlo, whi := a.fold(lo), a.fold(hi)
	first := a.locate(wlo) - expansion
	last := a.locate(whi) + expansion
	if whi < wlo {
		last += a.nbins
	}

	var mark [64]bool
	marks := mark[:0]
	if a.nbins <= len(mark) {
		marks = mark[:a.nbins]
	} else {
		marks = make([]bool, a.nbins)
	}
	for k := first; k <= last; k++ {
		marks[((k%a.nbins)+a.nbins)%a.nbins] = true
	}
	for k, ok := range marks {
		if ok {
			dst = append(dst, k)
		}
	}
	return dst
}

func (a Axis) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d bins in %s, %s, ", a.nbins, a.dir, a.boundary)
	if a.edges != nil {
		sb.WriteString("variable")
	} else {
		sb.WriteString("equidistant")
	}
	fmt.Fprintf(&sb, " within [%g, %g]", a.min, a.max)
	return sb.String()
}
