// Package metrics instruments finder builders and delegates with
// Prometheus collectors registered on the default registry.
package metrics

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/finder"
	"github.com/chazu/detnav/pkg/volume"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	finderLabel  = "finder"
	resultLabel  = "result"
	errTypeLabel = "error_type"

	resultHit  = "hit"
	resultMiss = "miss"
)

var (
	queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detnav_root_volume_queries_total",
		Help: "The number of root volume queries, by result.",
	}, []string{
		finderLabel,
		resultLabel,
	})

	buildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "detnav_finder_build_seconds",
		Help:    "The time to construct a root volume finder.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{
		finderLabel,
	})

	buildErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detnav_finder_build_errors_total",
		Help: "The errors that occurred while constructing a root volume finder.",
	}, []string{
		finderLabel,
		errTypeLabel,
	})
)

// Instrument wraps d so every query is counted under name.
func Instrument(name string, d finder.Delegate) finder.Delegate {
	hits := queries.With(prometheus.Labels{finderLabel: name, resultLabel: resultHit})
	misses := queries.With(prometheus.Labels{finderLabel: name, resultLabel: resultMiss})

	return finder.DelegateFunc(func(gctx volume.GeometryContext, position, direction v3.Vec) (volume.RootVolume, bool) {
		v, ok := d.Find(gctx, position, direction)
		if ok {
			hits.Inc()
		} else {
			misses.Inc()
		}
		return v, ok
	})
}

// InstrumentBuilder wraps b so construction time and errors are recorded
// under name. Delegates it returns are instrumented with Instrument.
func InstrumentBuilder(name string, b finder.Builder) finder.Builder {
	return finder.BuilderFunc(func(gctx volume.GeometryContext, vols []volume.RootVolume) (finder.Delegate, error) {
		start := time.Now()
		d, err := b.Construct(gctx, vols)
		if err != nil {
			buildErrors.
				With(prometheus.Labels{
					finderLabel:  name,
					errTypeLabel: errors.Type(err),
				}).
				Inc()
			return nil, err
		}
		buildLatency.With(prometheus.Labels{
			finderLabel: name,
		}).Observe(time.Since(start).Seconds())
		return Instrument(name, d), nil
	})
}
