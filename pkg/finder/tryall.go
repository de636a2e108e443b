package finder

import (
	"github.com/chazu/detnav/pkg/volume"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// TryAllBuilder builds a finder that tests every root volume in input
// order. It needs no configuration and suits detectors with a handful of
// root volumes.
type TryAllBuilder struct{}

// Construct implements Builder.
func (TryAllBuilder) Construct(gctx volume.GeometryContext, vols []volume.RootVolume) (Delegate, error) {
	set, err := volume.NewSet(vols)
	if err != nil {
		return nil, err
	}
	return &TryAll{vols: set}, nil
}

// TryAll is the linear scan finder.
type TryAll struct {
	vols volume.Set
}

func (f *TryAll) Find(gctx volume.GeometryContext, position, _ v3.Vec) (volume.RootVolume, bool) {
	for i := 0; i < f.vols.Len(); i++ {
		if v := f.vols.At(i); v.Inside(gctx, position) {
			return v, true
		}
	}
	return nil, false
}
