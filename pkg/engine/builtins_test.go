package engine

import (
	"strings"
	"testing"

	"github.com/chazu/detnav/pkg/graph"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :r 5)`,
			expect: `(sphere "__kw_r" 5)`,
		},
		{
			name:   "multiple keywords",
			input:  `(box :x 400 :y 200 :z 1)`,
			expect: `(box "__kw_x" 400 "__kw_y" 200 "__kw_z" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`beam-pipe :x`",
			expect: "`beam-pipe :x`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def beam-pipe (cylinder :r 1 :h 2))`,
			expect: `(def beam_pipe (cylinder "__kw_r" 1 "__kw_h" 2))`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(vec3 0 -5 x-1)`,
			expect: `(vec3 0 -5 x-1)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; simple comment\n(sphere :r 1)",
			expect: "// simple comment\n(sphere \"__kw_r\" 1)",
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:inner-radius`,
			expect: `"__kw_inner-radius"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEvaluate(t *testing.T, source string) *graph.DetectorGraph {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

// child returns the single child of n.
func child(t *testing.T, g *graph.DetectorGraph, n *graph.Node) *graph.Node {
	t.Helper()
	if len(n.Children) != 1 {
		t.Fatalf("%s node has %d children, want 1", n.Kind, len(n.Children))
	}
	c := g.Get(n.Children[0])
	if c == nil {
		t.Fatalf("child of %s node missing", n.Kind)
	}
	return c
}

func expectEvalError(t *testing.T, source, substr string) {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil graph on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	for _, e := range evalErrs {
		if strings.Contains(e.Message, substr) {
			return
		}
	}
	t.Errorf("no eval error contains %q: %v", substr, evalErrs)
}

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

func TestShapes(t *testing.T) {
	tests := []struct {
		source string
		want   graph.ShapeData
	}{
		{`(volume "v" (box :x 10 :y 20 :z 30))`, graph.ShapeData{Shape: graph.ShapeBox, Size: graph.Vec3{X: 10, Y: 20, Z: 30}}},
		{`(volume "v" (cylinder :r 5 :h 100))`, graph.ShapeData{Shape: graph.ShapeCylinder, Radius: 5, Height: 100}},
		{`(volume "v" (tube :rmin 30 :rmax 120.5 :h 800))`, graph.ShapeData{Shape: graph.ShapeTube, InnerRadius: 30, Radius: 120.5, Height: 800}},
		{`(volume "v" (tube :rmax 12 :h 8))`, graph.ShapeData{Shape: graph.ShapeTube, Radius: 12, Height: 8}},
		{`(volume "v" (sphere :r 2.5))`, graph.ShapeData{Shape: graph.ShapeSphere, Radius: 2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.want.Shape.String(), func(t *testing.T) {
			g := mustEvaluate(t, tt.source)
			if g.NodeCount() != 2 {
				t.Fatalf("expected 2 nodes, got %d", g.NodeCount())
			}
			shape := child(t, g, g.MustLookup("v"))
			if shape.Kind != graph.NodeShape {
				t.Fatalf("expected shape node, got %s", shape.Kind)
			}
			sd, ok := shape.Data.(graph.ShapeData)
			if !ok {
				t.Fatalf("expected ShapeData, got %T", shape.Data)
			}
			if sd != tt.want {
				t.Errorf("shape = %+v, want %+v", sd, tt.want)
			}
		})
	}
}

func TestShapeArgumentErrors(t *testing.T) {
	expectEvalError(t, `(box :x 1 :y 1)`, "box: missing :z")
	expectEvalError(t, `(cylinder :r "wide" :h 1)`, "cylinder: r")
	expectEvalError(t, `(tube :rmin 1 :h 1)`, "tube: missing :rmax")
	expectEvalError(t, `(sphere)`, "sphere: missing :r")
}

// ---------------------------------------------------------------------------
// Booleans and placement
// ---------------------------------------------------------------------------

func TestBooleans(t *testing.T) {
	g := mustEvaluate(t, `
(def shell (tube :rmin 10 :rmax 20 :h 100))
(def notch (box :x 5 :y 5 :z 5))
(volume "cut" (difference shell notch))
(volume "all" (union (sphere :r 1) (sphere :r 2) (sphere :r 3)))
`)

	diff := child(t, g, g.MustLookup("cut"))
	bd, ok := diff.Data.(graph.BooleanData)
	if !ok || bd.Op != graph.OpDifference {
		t.Fatalf("expected difference, got %#v", diff.Data)
	}
	if len(diff.Children) != 2 {
		t.Fatalf("difference has %d children, want 2", len(diff.Children))
	}
	first := g.Get(diff.Children[0]).Data.(graph.ShapeData)
	if first.Shape != graph.ShapeTube {
		t.Errorf("first operand = %s, want tube", first.Shape)
	}

	// Three operands fold into two binary unions.
	outer := child(t, g, g.MustLookup("all"))
	if outer.Data.(graph.BooleanData).Op != graph.OpUnion {
		t.Fatalf("expected union, got %#v", outer.Data)
	}
	inner := g.Get(outer.Children[0])
	if inner.Kind != graph.NodeBoolean {
		t.Fatalf("expected nested union, got %s", inner.Kind)
	}
	last := g.Get(outer.Children[1]).Data.(graph.ShapeData)
	if last.Radius != 3 {
		t.Errorf("last operand radius = %g, want 3", last.Radius)
	}
}

func TestBooleanErrors(t *testing.T) {
	expectEvalError(t, `(union (sphere :r 1))`, "union: requires at least 2 solids")
	expectEvalError(t, `(intersection (sphere :r 1) 5)`, "intersection: operand 2")
	expectEvalError(t, `(difference (volume "a" (sphere :r 1)) (sphere :r 1))`, "difference: operand 1")
}

func TestPlace(t *testing.T) {
	g := mustEvaluate(t, `
(volume "endcap"
  (place (tube :rmin 10 :rmax 100 :h 20) :at (vec3 0 0 500) :rotate (vec3 0 90 0)))
(volume "plain" (place (sphere :r 1)))
`)

	tr := child(t, g, g.MustLookup("endcap"))
	td, ok := tr.Data.(graph.TransformData)
	if !ok {
		t.Fatalf("expected TransformData, got %T", tr.Data)
	}
	if td.Translation == nil || *td.Translation != (graph.Vec3{X: 0, Y: 0, Z: 500}) {
		t.Errorf("translation = %v, want (0, 0, 500)", td.Translation)
	}
	if td.Rotation == nil || *td.Rotation != (graph.Vec3{X: 0, Y: 90, Z: 0}) {
		t.Errorf("rotation = %v, want (0, 90, 0)", td.Rotation)
	}
	if child(t, g, tr).Kind != graph.NodeShape {
		t.Error("placed child should be the tube")
	}

	plain := child(t, g, g.MustLookup("plain")).Data.(graph.TransformData)
	if plain.Translation != nil || plain.Rotation != nil {
		t.Errorf("place without options = %+v, want no translation or rotation", plain)
	}
}

func TestPlaceErrors(t *testing.T) {
	expectEvalError(t, `(place)`, "place: requires exactly one solid")
	expectEvalError(t, `(place (sphere :r 1) :at 5)`, "place: at")
	expectEvalError(t, `(place 3)`, "place: solid")
}

func TestVec3(t *testing.T) {
	g := mustEvaluate(t, `(volume "v" (place (sphere :r 1) :at (vec3 1.5 -2 3)))`)
	td := child(t, g, g.MustLookup("v")).Data.(graph.TransformData)
	if *td.Translation != (graph.Vec3{X: 1.5, Y: -2, Z: 3}) {
		t.Errorf("vec3 = %v, want (1.5, -2, 3)", td.Translation)
	}

	expectEvalError(t, `(vec3 1 2)`, "vec3: requires exactly 3 arguments")
	expectEvalError(t, `(vec3 1 "y" 3)`, "vec3: y")
}

// ---------------------------------------------------------------------------
// Volumes
// ---------------------------------------------------------------------------

func TestVolumesInDeclarationOrder(t *testing.T) {
	g := mustEvaluate(t, `
;; a toy barrel detector
(def beam-pipe (cylinder :r 20 :h 2000))
(volume "pipe" beam-pipe :description "beam pipe")
(volume "tracker" (tube :rmin 30 :rmax 300 :h 1600))
(volume "calo" (tube :rmin 300 :rmax 1000 :h 1800))
`)

	vols := g.Volumes()
	want := []string{"pipe", "tracker", "calo"}
	if len(vols) != len(want) {
		t.Fatalf("got %d volumes, want %d", len(vols), len(want))
	}
	for i, v := range vols {
		if v.Name != want[i] {
			t.Errorf("volume %d = %q, want %q", i, v.Name, want[i])
		}
	}
	if d := vols[0].Data.(graph.VolumeData).Description; d != "beam pipe" {
		t.Errorf("description = %q", d)
	}
	if vols[0].ID != graph.NewNodeID("volume/pipe") {
		t.Error("volume ID should derive from its name")
	}
	if errs := graph.Errors(graph.Validate(g)); len(errs) != 0 {
		t.Errorf("evaluated graph should validate: %s", graph.Summary(errs))
	}
}

func TestSharedSolid(t *testing.T) {
	g := mustEvaluate(t, `
(def cell (box :x 1 :y 1 :z 1))
(volume "left" (place cell :at (vec3 -1 0 0)))
(volume "right" (place cell :at (vec3 1 0 0)))
`)
	l := child(t, g, child(t, g, g.MustLookup("left")))
	r := child(t, g, child(t, g, g.MustLookup("right")))
	if l.ID != r.ID {
		t.Error("both placements should reference the same shape node")
	}
}

func TestVolumeErrors(t *testing.T) {
	expectEvalError(t, `(volume "a")`, "volume: requires a name and a solid")
	expectEvalError(t, `(volume 1 (sphere :r 1))`, "volume: name")
	expectEvalError(t, `(volume "" (sphere :r 1))`, "name must not be empty")
	expectEvalError(t, `(volume "a" (sphere :r 1)) (volume "a" (sphere :r 2))`, `duplicate volume "a"`)
	expectEvalError(t, `(volume "a" (volume "b" (sphere :r 1)))`, `volume: "a" solid`)
	expectEvalError(t, `(volume "a" (sphere :r 1) :description 4)`, "volume: description")
}

func TestFormErrorsArePlainText(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(volume "a" (sphere :r 1)) (volume "a" (sphere :r 2))`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	msg := evalErrs[0].Message
	for _, bad := range []string{"{", `\"`, "args.go", `"line"`} {
		if strings.Contains(msg, bad) {
			t.Errorf("message %q should not contain %q", msg, bad)
		}
	}
	if !strings.Contains(msg, `volume: duplicate volume "a"`) {
		t.Errorf("message = %q", msg)
	}
}

func TestFormErrorText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{formError("box", nil, "missing :%s", "x"), "box: missing :x"},
		{formError("place", valueError("expected vec3, got %s", "int"), "at"), "place: at: expected vec3, got int"},
		{valueError("expected string"), "expected string"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	cause := valueError("inner")
	fe, ok := formError("volume", cause, "name").(*FormError)
	if !ok || fe.Unwrap() != cause {
		t.Error("formError should wrap its cause")
	}
}
