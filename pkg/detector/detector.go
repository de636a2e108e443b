// Package detector turns a detector description into a ready navigation
// delegate: source is evaluated into a graph, validated, assembled into root
// volumes with a geometry kernel, and handed to a finder builder.
package detector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/detnav/pkg/assemble"
	"github.com/chazu/detnav/pkg/axis"
	"github.com/chazu/detnav/pkg/engine"
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/finder"
	"github.com/chazu/detnav/pkg/graph"
	"github.com/chazu/detnav/pkg/kernel"
	"github.com/chazu/detnav/pkg/kernel/sdfx"
	"github.com/chazu/detnav/pkg/metrics"
	"github.com/chazu/detnav/pkg/volume"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Strategy names a root-volume finder implementation.
type Strategy string

const (
	StrategyIndexed Strategy = "indexed"
	StrategyTryAll  Strategy = "tryall"
	StrategyRTree   Strategy = "rtree"
)

// Strategies lists the supported strategies.
var Strategies = []Strategy{StrategyIndexed, StrategyTryAll, StrategyRTree}

// NewBuilder returns the finder builder for a strategy. Options only apply to
// the indexed strategy.
func NewBuilder(s Strategy, cast axis.Cast, opts ...finder.Option) (finder.Builder, error) {
	switch s {
	case StrategyIndexed:
		return finder.NewIndexedBuilder(cast, opts...)
	case StrategyTryAll:
		return finder.TryAllBuilder{}, nil
	case StrategyRTree:
		return finder.NewRTreeBuilder(cast)
	default:
		names := lo.Map(Strategies, func(s Strategy, _ int) string { return string(s) })
		return nil, errors.Newf("unknown finder strategy %q, want one of %s", s, strings.Join(names, ", ")).
			WithType(errtype.Configuration)
	}
}

// Detector is a loaded detector description.
type Detector struct {
	Graph    *graph.DetectorGraph
	Volumes  []volume.RootVolume
	Finder   finder.Delegate
	Warnings []graph.ValidationError
}

// Find returns the root volume containing position.
func (d *Detector) Find(gctx volume.GeometryContext, position, direction v3.Vec) (volume.RootVolume, bool) {
	return d.Finder.Find(gctx, position, direction)
}

// Names returns the root volume names in declaration order.
func (d *Detector) Names() []string {
	return lo.Map(d.Volumes, func(v volume.RootVolume, _ int) string { return v.Name() })
}

// Loader evaluates detector descriptions.
type Loader struct {
	engine  *engine.Engine
	kernel  kernel.Kernel
	builder finder.Builder
	gctx    volume.GeometryContext
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithKernel sets the geometry kernel. The default is the sdfx kernel.
func WithKernel(k kernel.Kernel) LoaderOption {
	return func(l *Loader) {
		l.kernel = k
	}
}

// WithGeometryContext sets the context passed to the finder builder.
func WithGeometryContext(gctx volume.GeometryContext) LoaderOption {
	return func(l *Loader) {
		l.gctx = gctx
	}
}

// WithMetrics instruments the builder and the delegates it returns under
// name.
func WithMetrics(name string) LoaderOption {
	return func(l *Loader) {
		l.builder = metrics.InstrumentBuilder(name, l.builder)
	}
}

// NewLoader creates a Loader that constructs delegates with b.
func NewLoader(b finder.Builder, opts ...LoaderOption) *Loader {
	l := &Loader{
		engine:  engine.NewEngine(),
		kernel:  sdfx.New(),
		builder: b,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load evaluates source and builds the detector. Evaluation failures have
// type errtype.Evaluation, graph problems errtype.Validation; builder errors
// keep their own type.
func (l *Loader) Load(source string) (*Detector, error) {
	g, evalErrs, err := l.engine.Evaluate(source)
	if err != nil {
		return nil, errors.New("evaluating detector description failed").
			WithType(errtype.Evaluation).
			Wrap(err)
	}
	if len(evalErrs) > 0 {
		err := errors.New("detector description has errors").
			WithType(errtype.Evaluation).
			WithTag("count", len(evalErrs))
		if evalErrs[0].Line > 0 {
			err = err.WithTag("line", evalErrs[0].Line)
		}
		return nil, err.Wrap(evalErrorList(evalErrs))
	}

	findings := graph.Validate(g)
	if errs := graph.Errors(findings); len(errs) > 0 {
		return nil, errors.New("detector graph is invalid").
			WithType(errtype.Validation).
			WithTag("count", len(errs)).
			Wrap(fmt.Errorf("%s", graph.Summary(sortedFindings(errs))))
	}
	warnings := lo.Filter(findings, func(f graph.ValidationError, _ int) bool {
		return f.Severity == graph.SeverityWarning
	})
	for _, w := range warnings {
		logs.WithTag("node", w.NodeID.Short()).Warn(w)
	}

	vols, err := assemble.Volumes(g, l.kernel)
	if err != nil {
		return nil, err
	}
	if len(vols) == 0 {
		return nil, errors.New("detector description declares no volumes").
			WithType(errtype.Configuration)
	}

	delegate, err := l.builder.Construct(l.gctx, vols)
	if err != nil {
		return nil, errors.New("constructing root volume finder failed").
			WithType(errors.Type(err)).
			Wrap(err)
	}

	logs.WithTag("volumes", len(vols)).
		WithTag("nodes", g.NodeCount()).
		WithTag("warnings", len(warnings)).
		Info("detector loaded")

	return &Detector{
		Graph:    g,
		Volumes:  vols,
		Finder:   delegate,
		Warnings: warnings,
	}, nil
}

// evalErrorList joins evaluation errors into one error.
type evalErrorList []engine.EvalError

func (l evalErrorList) Error() string {
	msgs := lo.Map(l, func(e engine.EvalError, _ int) string { return e.Error() })
	return strings.Join(msgs, "; ")
}

// sortedFindings orders findings by message so error text is stable across
// map iteration orders.
func sortedFindings(findings []graph.ValidationError) []graph.ValidationError {
	out := append([]graph.ValidationError(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Message < out[j].Message })
	return out
}
