// Package extent describes the bounding region of a volume as one closed
// range per axis direction.
package extent

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/detnav/pkg/axis"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Range is a closed one dimensional interval.
type Range struct {
	Min, Max float64
}

// Width returns Max-Min.
func (r Range) Width() float64 { return r.Max - r.Min }

// Finite reports whether both ends are finite numbers.
func (r Range) Finite() bool {
	return !math.IsNaN(r.Min) && !math.IsNaN(r.Max) &&
		!math.IsInf(r.Min, 0) && !math.IsInf(r.Max, 0)
}

// Degenerate reports whether the range is empty, non-finite or has zero
// width.
func (r Range) Degenerate() bool {
	return !r.Finite() || !(r.Min < r.Max)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Union returns the smallest range covering r and o.
func (r Range) Union(o Range) Range {
	return Range{Min: math.Min(r.Min, o.Min), Max: math.Max(r.Max, o.Max)}
}

// Envelope is an extra margin applied below and above a range.
type Envelope struct {
	Low, High float64
}

// Extent holds one range per direction and remembers which directions are
// constrained. Unconstrained directions report their natural range (for
// example [0, +Inf) for r).
type Extent struct {
	ranges      [axis.Count]Range
	constrained uint16
}

// naturalRange is the range of a direction before any constraint.
func naturalRange(d axis.Direction) Range {
	switch d {
	case axis.R, axis.Mag:
		return Range{0, math.MaxFloat64}
	case axis.Phi:
		return Range{-math.Pi, math.Pi}
	case axis.Theta:
		return Range{0, math.Pi}
	case axis.RPhi:
		return Range{0, math.MaxFloat64}
	default:
		return Range{-math.MaxFloat64, math.MaxFloat64}
	}
}

// New returns an extent with no constrained direction.
func New() Extent {
	var e Extent
	for _, d := range axis.All() {
		e.ranges[d] = naturalRange(d)
	}
	return e
}

// Set constrains d to [min, max]. Negative radii are clamped to zero.
func (e *Extent) Set(d axis.Direction, min, max float64) {
	if (d == axis.R || d == axis.Mag) && min < 0 {
		min = 0
	}
	e.ranges[d] = Range{Min: min, Max: max}
	e.constrained |= 1 << uint(d)
}

// Constrains reports whether d has been set.
func (e Extent) Constrains(d axis.Direction) bool {
	return e.constrained&(1<<uint(d)) != 0
}

// Range returns the range of d.
func (e Extent) Range(d axis.Direction) Range {
	return e.ranges[d]
}

// Extend grows e so it covers o on every listed direction. Directions o
// does not constrain are left unchanged. With an empty list all directions
// are extended.
func (e *Extent) Extend(o Extent, dirs ...axis.Direction) {
	if len(dirs) == 0 {
		dirs = axis.All()
	}
	for _, d := range dirs {
		if !o.Constrains(d) {
			continue
		}
		if e.Constrains(d) {
			e.ranges[d] = e.ranges[d].Union(o.ranges[d])
		} else {
			e.ranges[d] = o.ranges[d]
		}
		e.constrained |= 1 << uint(d)
	}
}

// ApplyEnvelope widens a constrained direction by env.
func (e *Extent) ApplyEnvelope(d axis.Direction, env Envelope) {
	if !e.Constrains(d) {
		return
	}
	r := e.ranges[d]
	e.Set(d, r.Min-env.Low, r.Max+env.High)
}

// Contains reports whether the position lies inside every constrained
// range.
func (e Extent) Contains(p v3.Vec) bool {
	for _, d := range axis.All() {
		if e.Constrains(d) && !e.ranges[d].Contains(d.Value(p)) {
			return false
		}
	}
	return true
}

func (e Extent) String() string {
	var parts []string
	for _, d := range axis.All() {
		if e.Constrains(d) {
			r := e.ranges[d]
			parts = append(parts, fmt.Sprintf("%s [%g, %g]", d, r.Min, r.Max))
		}
	}
	return "Extent(" + strings.Join(parts, ", ") + ")"
}
