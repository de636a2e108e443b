// Package assemble walks a detector graph and builds one root volume per
// declared volume, using a geometry kernel for the solids.
package assemble

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/detnav/pkg/errtype"
	"github.com/chazu/detnav/pkg/graph"
	"github.com/chazu/detnav/pkg/kernel"
	"github.com/chazu/detnav/pkg/volume"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// transformStack accumulates placements during graph traversal. The top of
// the stack maps the current node's local frame into the world frame.
type transformStack struct {
	frames []sdf.M44
}

func (ts *transformStack) push(m sdf.M44) {
	if n := len(ts.frames); n > 0 {
		m = ts.frames[n-1].Mul(m)
	}
	ts.frames = append(ts.frames, m)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// top returns the accumulated transform, or false when no placement is
// active.
func (ts *transformStack) top() (sdf.M44, bool) {
	if len(ts.frames) == 0 {
		return sdf.M44{}, false
	}
	return ts.frames[len(ts.frames)-1], true
}

// Placement returns the transform of a place node: rotation first, then
// translation.
func Placement(td graph.TransformData) sdf.M44 {
	m := sdf.Identity3d()
	if r := td.Rotation; r != nil {
		m = kernel.Rotation(r.X, r.Y, r.Z)
	}
	if t := td.Translation; t != nil {
		m = sdf.Translate3d(v3Vec(*t)).Mul(m)
	}
	return m
}

// Volumes walks the detector graph and returns one root volume per declared
// volume, in declaration order. The graph is read-only and never mutated;
// it is expected to have passed graph.Validate.
func Volumes(g *graph.DetectorGraph, k kernel.Kernel) ([]volume.RootVolume, error) {
	if g == nil {
		return nil, nil
	}

	nodes := g.Volumes()
	vols := make([]volume.RootVolume, 0, len(nodes))
	for _, n := range nodes {
		ts := &transformStack{}
		s, err := solid(g, k, child(g, n), ts)
		if err != nil {
			return nil, errors.New("assembling root volume failed").
				WithType(errors.Type(err)).
				WithTag("volume", n.Name).
				Wrap(err)
		}

		min, max := s.BoundingBox()
		logs.WithTag("volume", n.Name).
			WithTag("min", min).
			WithTag("max", max).
			Debug("root volume assembled")

		vols = append(vols, volume.NewSolid(n.Name, s))
	}
	return vols, nil
}

// solid recursively builds the kernel solid for a node.
func solid(g *graph.DetectorGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) (kernel.Solid, error) {
	if n == nil {
		return nil, errors.New("missing node").WithType(errtype.Validation)
	}

	switch n.Kind {
	case graph.NodeShape:
		return handleShape(k, n, ts)

	case graph.NodeBoolean:
		return handleBoolean(g, k, n, ts)

	case graph.NodeTransform:
		return handleTransform(g, k, n, ts)

	default:
		return nil, errors.Newf("%s node cannot be part of a solid", n.Kind).
			WithType(errtype.Validation).
			WithTag("node", n.ID.Short())
	}
}

// handleShape creates the primitive and places it with the accumulated
// transform.
func handleShape(k kernel.Kernel, n *graph.Node, ts *transformStack) (kernel.Solid, error) {
	sd, ok := n.Data.(graph.ShapeData)
	if !ok {
		return nil, dataError(n)
	}

	var s kernel.Solid
	var err error
	switch sd.Shape {
	case graph.ShapeBox:
		s, err = k.Box(sd.Size.X, sd.Size.Y, sd.Size.Z)
	case graph.ShapeCylinder:
		s, err = k.Cylinder(sd.Radius, sd.Height)
	case graph.ShapeTube:
		s, err = k.Tube(sd.InnerRadius, sd.Radius, sd.Height)
	case graph.ShapeSphere:
		s, err = k.Sphere(sd.Radius)
	default:
		err = errors.Newf("unknown shape %s", sd.Shape).WithType(errtype.Validation)
	}
	if err != nil {
		return nil, errors.Newf("creating %s failed", sd.Shape).
			WithType(errors.Type(err)).
			WithTag("node", n.ID.Short()).
			Wrap(err)
	}

	if m, ok := ts.top(); ok {
		s = k.Transform(s, m)
	}
	return s, nil
}

// handleBoolean combines the two operands, which were placed in the same
// frame.
func handleBoolean(g *graph.DetectorGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) (kernel.Solid, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok || len(n.Children) != 2 {
		return nil, dataError(n)
	}

	a, err := solid(g, k, g.Get(n.Children[0]), ts)
	if err != nil {
		return nil, err
	}
	b, err := solid(g, k, g.Get(n.Children[1]), ts)
	if err != nil {
		return nil, err
	}

	switch bd.Op {
	case graph.OpUnion:
		return k.Union(a, b), nil
	case graph.OpDifference:
		return k.Difference(a, b), nil
	case graph.OpIntersection:
		return k.Intersection(a, b), nil
	default:
		return nil, errors.Newf("unknown boolean %s", bd.Op).
			WithType(errtype.Validation).
			WithTag("node", n.ID.Short())
	}
}

// handleTransform pushes the placement, recurses into the child, then pops.
func handleTransform(g *graph.DetectorGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, dataError(n)
	}

	ts.push(Placement(td))
	defer ts.pop()
	return solid(g, k, child(g, n), ts)
}

func v3Vec(v graph.Vec3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func child(g *graph.DetectorGraph, n *graph.Node) *graph.Node {
	if len(n.Children) != 1 {
		return nil
	}
	return g.Get(n.Children[0])
}

func dataError(n *graph.Node) error {
	return errors.Newf("%s node has unexpected data type %T", n.Kind, n.Data).
		WithType(errtype.Validation).
		WithTag("node", n.ID.Short())
}
