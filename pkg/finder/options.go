package finder

import (
	"github.com/chazu/detnav/pkg/axis"
	"github.com/chazu/detnav/pkg/extent"
)

type options struct {
	binnings    map[axis.Direction]axis.Binning
	envelopes   map[axis.Direction]extent.Envelope
	defaultBins int
	minWidth    float64
	name        string
}

func defaultOptions() options {
	return options{
		binnings:  make(map[axis.Direction]axis.Binning),
		envelopes: make(map[axis.Direction]extent.Envelope),
		name:      "indexed",
	}
}

// Option configures an IndexedBuilder.
type Option func(*options)

// WithBins sets an auto-range, equidistant binning with n bins on d.
func WithBins(d axis.Direction, n int) Option {
	return func(o *options) {
		b := o.binnings[d]
		b.Direction = d
		b.Bins = n
		b.Min, b.Max, b.Edges = 0, 0, nil
		o.binnings[d] = b
	}
}

// WithBinning replaces the binning of b.Direction.
func WithBinning(b axis.Binning) Option {
	return func(o *options) {
		o.binnings[b.Direction] = b
	}
}

// WithDefaultBins sets the bin count of axes that do not name one. Zero
// keeps the default, one bin per root volume.
func WithDefaultBins(n int) Option {
	return func(o *options) {
		o.defaultBins = n
	}
}

// WithMinWidth widens an auto-range axis narrower than w symmetrically
// around its center, so volumes that are flat along a cast direction can
// still be indexed.
func WithMinWidth(w float64) Option {
	return func(o *options) {
		o.minWidth = w
	}
}

// WithEnvelope adds a margin to the auto-range of d.
func WithEnvelope(d axis.Direction, env extent.Envelope) Option {
	return func(o *options) {
		o.envelopes[d] = env
	}
}

// WithName sets the label the builder logs with.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
