// Package volume defines the root volumes the finder resolves positions
// to, and the geometry context threaded through every geometric call.
package volume

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/extent"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// GeometryContext carries alignment or conditions data the volumes may
// need to answer geometric questions. The finder never inspects it.
type GeometryContext struct {
	value any
}

// NewGeometryContext wraps an arbitrary payload.
func NewGeometryContext(v any) GeometryContext {
	return GeometryContext{value: v}
}

// Value returns the wrapped payload, nil for the zero context.
func (g GeometryContext) Value() any {
	return g.value
}

// RootVolume is a top level volume of the detector.
type RootVolume interface {
	// Name identifies the volume in logs and query results.
	Name() string

	// Extent returns a region that contains the whole volume. It may be
	// larger than the exact shape.
	Extent(gctx GeometryContext) extent.Extent

	// Inside reports whether the global position p is inside the volume.
	Inside(gctx GeometryContext, p v3.Vec) bool
}

// Set is an ordered, immutable list of root volumes. The position of a
// volume in the set is its index in the grid and the order in which
// candidates are tested.
type Set struct {
	vols []RootVolume
}

// NewSet copies vols into a set. It fails on an empty list or a nil entry.
func NewSet(vols []RootVolume) (Set, error) {
	if len(vols) == 0 {
		return Set{}, errors.New("no root volumes").
			WithType(errtype.Configuration)
	}
	s := Set{vols: make([]RootVolume, len(vols))}
	for i, v := range vols {
		if v == nil {
			return Set{}, errors.New("root volume is nil").
				WithType(errtype.Configuration).
				WithTag("index", i)
		}
		s.vols[i] = v
	}
	return s, nil
}

// Len returns the number of volumes.
func (s Set) Len() int { return len(s.vols) }

// At returns the i-th volume.
func (s Set) At(i int) RootVolume { return s.vols[i] }

// Volumes returns a copy of the volumes.
func (s Set) Volumes() []RootVolume {
	out := make([]RootVolume, len(s.vols))
	copy(out, s.vols)
	return out
}

// Names returns the volume names in set order.
func (s Set) Names() []string {
	names := make([]string, len(s.vols))
	for i, v := range s.vols {
		names[i] = v.Name()
	}
	return names
}

// Extents evaluates every volume extent once.
func (s Set) Extents(gctx GeometryContext) []extent.Extent {
	out := make([]extent.Extent, len(s.vols))
	for i, v := range s.vols {
		out[i] = v.Extent(gctx)
	}
	return out
}
