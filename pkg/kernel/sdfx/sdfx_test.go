package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/detnav/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// mustSolid returns a function that unwraps a primitive constructor result,
// so calls read mustSolid(t)(k.Box(1, 2, 3)).
func mustSolid(t *testing.T) func(kernel.Solid, error) kernel.Solid {
	t.Helper()
	return func(s kernel.Solid, err error) kernel.Solid {
		t.Helper()
		if err != nil {
			t.Fatalf("primitive failed: %v", err)
		}
		return s
	}
}

func checkInside(t *testing.T, s kernel.Solid, inside, outside []v3.Vec) {
	t.Helper()
	for _, p := range inside {
		if !s.Inside(p) {
			t.Errorf("Inside(%v) = false, want true", p)
		}
	}
	for _, p := range outside {
		if s.Inside(p) {
			t.Errorf("Inside(%v) = true, want false", p)
		}
	}
}

func TestBox(t *testing.T) {
	k := New()
	box := mustSolid(t)(k.Box(100, 50, 25))
	checkInside(t, box,
		[]v3.Vec{{}, {X: 49, Y: 24, Z: 12}, {X: -49, Y: -24, Z: -12}, {X: 50}},
		[]v3.Vec{{X: 51}, {Y: 26}, {Z: -13}, {X: 60, Y: 60, Z: 60}},
	)
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl := mustSolid(t)(k.Cylinder(10, 50))
	checkInside(t, cyl,
		[]v3.Vec{{}, {X: 9.9}, {X: 7, Y: 7, Z: 24}, {Z: -24.9}},
		[]v3.Vec{{X: 10.1}, {X: 7.1, Y: 7.1}, {Z: 25.1}},
	)
}

func TestTube(t *testing.T) {
	k := New()
	tube := mustSolid(t)(k.Tube(20, 30, 100))
	checkInside(t, tube,
		[]v3.Vec{{X: 25}, {Y: -29, Z: 49}, {X: 15, Y: 15, Z: -10}},
		[]v3.Vec{{}, {X: 19}, {X: 31}, {X: 25, Z: 51}},
	)

	if _, err := k.Tube(30, 20, 100); err == nil {
		t.Fatal("expected error for rmin >= rmax")
	}
	if _, err := k.Tube(-1, 20, 100); err == nil {
		t.Fatal("expected error for negative rmin")
	}

	solid := mustSolid(t)(k.Tube(0, 5, 10))
	if !solid.Inside(v3.Vec{}) {
		t.Fatal("zero inner radius tube should be solid")
	}
}

func TestSphere(t *testing.T) {
	k := New()
	s := mustSolid(t)(k.Sphere(10))
	checkInside(t, s,
		[]v3.Vec{{}, {X: 5, Y: 5, Z: 5}, {Z: -9.99}},
		[]v3.Vec{{X: 6, Y: 6, Z: 6}, {Y: 10.01}},
	)
}

func TestDifference(t *testing.T) {
	k := New()
	box := mustSolid(t)(k.Box(100, 100, 100))
	cyl := mustSolid(t)(k.Cylinder(20, 120))
	diff := k.Difference(box, cyl)
	checkInside(t, diff,
		[]v3.Vec{{X: 40, Y: 40}, {X: -30}},
		[]v3.Vec{{}, {X: 10, Y: 10}, {X: 60}},
	)
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := mustSolid(t)(k.Box(50, 50, 50))
	box2 := k.Translate(mustSolid(t)(k.Box(50, 50, 50)), 100, 0, 0)
	u := k.Union(box1, box2)
	checkInside(t, u,
		[]v3.Vec{{}, {X: 100}, {X: 120, Y: 20}},
		[]v3.Vec{{X: 50}, {X: 130}},
	)

	min, max := u.BoundingBox()
	if math.Abs(min.X+25) > 0.01 || math.Abs(max.X-125) > 0.01 {
		t.Errorf("union x bounds = [%f, %f], expected [-25, 125]", min.X, max.X)
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := mustSolid(t)(k.Box(100, 100, 100))
	box2 := k.Translate(mustSolid(t)(k.Box(100, 100, 100)), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	checkInside(t, inter,
		[]v3.Vec{{X: 25}, {X: 1, Y: 49}},
		[]v3.Vec{{X: -10}, {X: 90}},
	)
}

func TestTranslate(t *testing.T) {
	k := New()
	box := mustSolid(t)(k.Box(10, 10, 10))
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Translated box(10,10,10) by (100,200,300) should be centered at (100,200,300).
	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}
	gotMin := [3]float64{min.X, min.Y, min.Z}
	gotMax := [3]float64{max.X, max.Y, max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(gotMin[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, gotMin[i], expectMin[i])
		}
		if math.Abs(gotMax[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, gotMax[i], expectMax[i])
		}
	}
	if !translated.Inside(v3.Vec{X: 100, Y: 200, Z: 300}) {
		t.Error("translated center should be inside")
	}
	if translated.Inside(v3.Vec{}) {
		t.Error("origin should be outside the translated box")
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := mustSolid(t)(k.Box(100, 50, 25))
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := v3.Vec{X: -50, Y: -25, Z: -12.5}
	expectMax := v3.Vec{X: 50, Y: 25, Z: 12.5}

	if math.Abs(min.X-expectMin.X) > tol || math.Abs(min.Y-expectMin.Y) > tol || math.Abs(min.Z-expectMin.Z) > tol {
		t.Errorf("min = %v, expected %v", min, expectMin)
	}
	if math.Abs(max.X-expectMax.X) > tol || math.Abs(max.Y-expectMax.Y) > tol || math.Abs(max.Z-expectMax.Z) > tol {
		t.Errorf("max = %v, expected %v", max, expectMax)
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := mustSolid(t)(k.Box(100, 10, 10))

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max.X - min.X
	yExtent := max.Y - min.Y

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
	if !rotated.Inside(v3.Vec{Y: 45}) {
		t.Error("rotated box should contain (0, 45, 0)")
	}
	if rotated.Inside(v3.Vec{X: 45}) {
		t.Error("rotated box should not contain (45, 0, 0)")
	}
}

func TestInvalidPrimitives(t *testing.T) {
	k := New()
	tests := []struct {
		name string
		make func() (kernel.Solid, error)
	}{
		{"negative box", func() (kernel.Solid, error) { return k.Box(-1, 1, 1) }},
		{"flat box", func() (kernel.Solid, error) { return k.Box(1, 0, 1) }},
		{"zero radius cylinder", func() (kernel.Solid, error) { return k.Cylinder(0, 1) }},
		{"zero height tube", func() (kernel.Solid, error) { return k.Tube(1, 2, 0) }},
		{"negative sphere", func() (kernel.Solid, error) { return k.Sphere(-3) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.make(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
