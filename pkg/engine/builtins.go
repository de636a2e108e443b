package engine

import (
	"fmt"

	"github.com/chazu/detnav/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// builder populates a DetectorGraph while the DSL is evaluated. Anonymous
// nodes are numbered in evaluation order, so the same source always yields
// the same node IDs.
type builder struct {
	g   *graph.DetectorGraph
	seq int
}

func (b *builder) add(kind graph.NodeKind, data graph.NodeData, children ...graph.NodeID) *sexpNodeRef {
	b.seq++
	id := graph.NewNodeID(fmt.Sprintf("%s/%d", kind, b.seq))
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     kind,
		Children: children,
		Data:     data,
	})
	return &sexpNodeRef{id: id, kind: kind}
}

func (b *builder) shape(d graph.ShapeData) *sexpNodeRef {
	return b.add(graph.NodeShape, d)
}

// registerBuiltins installs the detector DSL into a zygomys environment.
// The builtins populate g during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DetectorGraph) {
	b := &builder{g: g}

	// -----------------------------------------------------------------------
	// (box :x 100 :y 100 :z 20)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(name, args)
		sd := graph.ShapeData{Shape: graph.ShapeBox}

		var err error
		if sd.Size.X, err = pa.number("x"); err != nil {
			return zygo.SexpNull, err
		}
		if sd.Size.Y, err = pa.number("y"); err != nil {
			return zygo.SexpNull, err
		}
		if sd.Size.Z, err = pa.number("z"); err != nil {
			return zygo.SexpNull, err
		}
		return b.shape(sd), nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :r 30 :h 1000)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(name, args)
		sd := graph.ShapeData{Shape: graph.ShapeCylinder}

		var err error
		if sd.Radius, err = pa.number("r"); err != nil {
			return zygo.SexpNull, err
		}
		if sd.Height, err = pa.number("h"); err != nil {
			return zygo.SexpNull, err
		}
		return b.shape(sd), nil
	})

	// -----------------------------------------------------------------------
	// (tube :rmin 30 :rmax 120 :h 800)
	// -----------------------------------------------------------------------
	env.AddFunction("tube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(name, args)
		sd := graph.ShapeData{Shape: graph.ShapeTube}

		var err error
		if sd.InnerRadius, err = pa.optionalNumber("rmin", 0); err != nil {
			return zygo.SexpNull, err
		}
		if sd.Radius, err = pa.number("rmax"); err != nil {
			return zygo.SexpNull, err
		}
		if sd.Height, err = pa.number("h"); err != nil {
			return zygo.SexpNull, err
		}
		return b.shape(sd), nil
	})

	// -----------------------------------------------------------------------
	// (sphere :r 50)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(name, args)
		sd := graph.ShapeData{Shape: graph.ShapeSphere}

		var err error
		if sd.Radius, err = pa.number("r"); err != nil {
			return zygo.SexpNull, err
		}
		return b.shape(sd), nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (difference a b ...), (intersection a b ...)
	//
	// More than two operands fold left: (difference a b c) removes b and
	// then c from a.
	// -----------------------------------------------------------------------
	booleans := map[string]graph.BooleanOp{
		"union":        graph.OpUnion,
		"difference":   graph.OpDifference,
		"intersection": graph.OpIntersection,
	}
	for form, op := range booleans {
		op := op
		env.AddFunction(form, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, formError(name, nil, "requires at least 2 solids, got %d", len(args))
			}

			acc, err := toNodeRef(args[0])
			if err != nil {
				return zygo.SexpNull, formError(name, err, "operand 1")
			}
			for i := 1; i < len(args); i++ {
				next, err := toNodeRef(args[i])
				if err != nil {
					return zygo.SexpNull, formError(name, err, "operand %d", i+1)
				}
				acc = b.add(graph.NodeBoolean, graph.BooleanData{Op: op}, acc.id, next.id)
			}
			return acc, nil
		})
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, formError(name, nil, "requires exactly 3 arguments, got %d", len(args))
		}

		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, formError(name, err, "%c", "xyz"[i])
			}
			c[i] = f
		}
		return &sexpVec3{vec: graph.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (place solid :at (vec3 0 0 500) :rotate (vec3 90 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(name, args)

		if len(pa.positional) != 1 {
			return zygo.SexpNull, formError(name, nil, "requires exactly one solid, got %d", len(pa.positional))
		}
		child, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, formError(name, err, "solid")
		}

		td := graph.TransformData{}
		if td.Translation, err = pa.optionalVec3("at"); err != nil {
			return zygo.SexpNull, err
		}
		if td.Rotation, err = pa.optionalVec3("rotate"); err != nil {
			return zygo.SexpNull, err
		}
		return b.add(graph.NodeTransform, td, child.id), nil
	})

	// -----------------------------------------------------------------------
	// (volume "calorimeter" solid :description "...")
	//
	// Declares a root volume. Volumes are registered in declaration order,
	// which is the order the navigation prefers on overlap.
	// -----------------------------------------------------------------------
	env.AddFunction("volume", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(name, args)

		if len(pa.positional) != 2 {
			return zygo.SexpNull, formError(name, nil, "requires a name and a solid")
		}
		volName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, formError(name, err, "name")
		}
		if volName == "" {
			return zygo.SexpNull, formError(name, nil, "name must not be empty")
		}
		if g.Lookup(volName) != nil {
			return zygo.SexpNull, formError(name, nil, "duplicate volume %q", volName)
		}
		child, err := toNodeRef(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, formError(name, err, "%q solid", volName)
		}

		vd := graph.VolumeData{}
		if v, ok := pa.kw["description"]; ok {
			if vd.Description, err = toString(v); err != nil {
				return zygo.SexpNull, formError(name, err, "description")
			}
		}

		id := graph.NewNodeID("volume/" + volName)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeVolume,
			Name:     volName,
			Children: []graph.NodeID{child.id},
			Data:     vd,
		})
		g.AddRoot(id)

		return &sexpNodeRef{id: id, kind: graph.NodeVolume, name: volName}, nil
	})
}
