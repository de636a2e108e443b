// Package finder resolves a global position to the root volume that
// contains it.
//
// A Builder turns a list of root volumes into a Delegate once, at
// detector construction. The Delegate is immutable and answers queries
// from any number of goroutines.
package finder

import (
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/volume"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Error types returned by builders.
const (
	ErrTypeConfiguration      = errtype.Configuration
	ErrTypeDegenerateGeometry = errtype.DegenerateGeometry
)

// Delegate finds the root volume containing a position. The direction is
// passed through for strategies that want it; the built-in ones ignore it.
// A miss is reported as (nil, false).
type Delegate interface {
	Find(gctx volume.GeometryContext, position, direction v3.Vec) (volume.RootVolume, bool)
}

// DelegateFunc adapts a function to the Delegate interface.
type DelegateFunc func(gctx volume.GeometryContext, position, direction v3.Vec) (volume.RootVolume, bool)

func (f DelegateFunc) Find(gctx volume.GeometryContext, position, direction v3.Vec) (volume.RootVolume, bool) {
	return f(gctx, position, direction)
}

// Builder constructs a Delegate over a set of root volumes. On error the
// returned delegate is nil.
type Builder interface {
	Construct(gctx volume.GeometryContext, vols []volume.RootVolume) (Delegate, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(gctx volume.GeometryContext, vols []volume.RootVolume) (Delegate, error)

func (f BuilderFunc) Construct(gctx volume.GeometryContext, vols []volume.RootVolume) (Delegate, error) {
	return f(gctx, vols)
}

// firstInside returns the first candidate, in ascending index order, that
// contains p.
func firstInside(set volume.Set, candidates []uint32, gctx volume.GeometryContext, p v3.Vec) (int, bool) {
	for _, c := range candidates {
		if set.At(int(c)).Inside(gctx, p) {
			return int(c), true
		}
	}
	return -1, false
}
