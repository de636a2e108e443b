package graph

import "fmt"

// Vec3 is a vector in millimetres, or Euler angles in degrees.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

// ShapeKind distinguishes between primitive shapes.
type ShapeKind int

const (
	ShapeBox      ShapeKind = iota // centered box of Size
	ShapeCylinder                  // z-aligned cylinder of Radius and Height
	ShapeTube                      // z-aligned tube between InnerRadius and Radius
	ShapeSphere                    // sphere of Radius
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeTube:
		return "tube"
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ShapeData describes a primitive solid centered on the origin.
type ShapeData struct {
	Shape       ShapeKind `json:"shape"`
	Size        Vec3      `json:"size,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	InnerRadius float64   `json:"inner_radius,omitempty"`
	Height      float64   `json:"height,omitempty"`
}

func (ShapeData) nodeData() {}

// ---------------------------------------------------------------------------
// Booleans
// ---------------------------------------------------------------------------

// BooleanOp enumerates the constructive solid geometry operations.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return fmt.Sprintf("BooleanOp(%d)", int(op))
	}
}

// BooleanData combines the node's two children. For OpDifference the second
// child is removed from the first.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a placement applied to a child node. The rotation
// is applied first, then the translation. Created by the (place ...) form.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Volume
// ---------------------------------------------------------------------------

// VolumeData marks a named root volume. The volume's name is the node name.
type VolumeData struct {
	Description string `json:"description,omitempty"`
}

func (VolumeData) nodeData() {}
