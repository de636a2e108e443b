package ray

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

func requireVec3(t *testing.T, want, got v3.Vec) {
	t.Helper()
	require.InDelta(t, want.X, got.X, tol)
	require.InDelta(t, want.Y, got.Y, tol)
	require.InDelta(t, want.Z, got.Z, tol)
}

func TestNew3Normalizes(t *testing.T) {
	tests := []struct {
		name string
		dir  v3.Vec
	}{
		{"unit x", v3.Vec{X: 1}},
		{"long z", v3.Vec{Z: 250}},
		{"diagonal", v3.Vec{X: 1, Y: 1, Z: 1}},
		{"negative mixed", v3.Vec{X: -3, Y: 4, Z: -12}},
		{"tiny", v3.Vec{X: 1e-9, Y: -2e-9, Z: 3e-9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New3(v3.Vec{X: 1, Y: 2, Z: 3}, tt.dir)
			require.InDelta(t, 1.0, r.Direction.Length(), tol)

			d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
			inv := [3]float64{r.InverseDirection.X, r.InverseDirection.Y, r.InverseDirection.Z}
			for i := range d {
				if d[i] != 0 {
					require.InDelta(t, 1.0, d[i]*inv[i], tol)
				}
			}
		})
	}
}

func TestNew3ZeroComponentGivesInfiniteInverse(t *testing.T) {
	r := New3(v3.Vec{}, v3.Vec{X: 2})
	require.Equal(t, 1.0, r.InverseDirection.X)
	require.True(t, math.IsInf(r.InverseDirection.Y, 0))
	require.True(t, math.IsInf(r.InverseDirection.Z, 0))
}

func TestNew3ZeroDirectionIsNaN(t *testing.T) {
	r := New3(v3.Vec{}, v3.Vec{})
	require.True(t, math.IsNaN(r.Direction.X))
	require.True(t, math.IsNaN(r.Direction.Y))
	require.True(t, math.IsNaN(r.Direction.Z))
}

func TestTransformedIdentity(t *testing.T) {
	rays := []Ray3{
		New3(v3.Vec{}, v3.Vec{X: 1}),
		New3(v3.Vec{X: -4, Y: 7.5, Z: 100}, v3.Vec{X: 0.3, Y: -0.2, Z: 0.9}),
		New3(v3.Vec{X: 1e3, Y: -1e3, Z: 5}, v3.Vec{Y: -1}),
	}
	for _, r := range rays {
		got := r.Transformed(sdf.Identity3d())
		requireVec3(t, r.Origin, got.Origin)
		requireVec3(t, r.Direction, got.Direction)
	}
}

func TestTransformedTranslationKeepsDirection(t *testing.T) {
	r := New3(v3.Vec{X: 1, Y: 1, Z: 1}, v3.Vec{X: 1, Y: 2, Z: 2})
	got := r.Transformed(sdf.Translate3d(v3.Vec{X: 10, Y: -5, Z: 3}))

	requireVec3(t, v3.Vec{X: 11, Y: -4, Z: 4}, got.Origin)
	requireVec3(t, r.Direction, got.Direction)
}

func TestTransformedScaleKeepsUnitDirection(t *testing.T) {
	r := New3(v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 0, Y: 3, Z: 4})
	got := r.Transformed(sdf.Scale3d(v3.Vec{X: 2, Y: 2, Z: 2}))

	requireVec3(t, v3.Vec{X: 2, Y: 4, Z: 6}, got.Origin)
	requireVec3(t, r.Direction, got.Direction)
	require.InDelta(t, 1.0, got.Direction.Length(), tol)
}

func TestTransformedRotation(t *testing.T) {
	r := New3(v3.Vec{X: 1}, v3.Vec{X: 1})
	got := r.Transformed(sdf.RotateZ(math.Pi / 2))

	requireVec3(t, v3.Vec{Y: 1}, got.Origin)
	requireVec3(t, v3.Vec{Y: 1}, got.Direction)
	require.InDelta(t, 1.0, got.Direction.Y*got.InverseDirection.Y, tol)
}

func TestTransformedIgnoresNonUniformScale(t *testing.T) {
	dir := v3.Vec{X: 1, Y: 1, Z: 0}
	r := New3(v3.Vec{X: 1, Y: 1, Z: 1}, dir)
	scale := sdf.Scale3d(v3.Vec{X: 1, Y: 5, Z: 2})
	quarter := sdf.RotateZ(math.Pi / 2)
	turned := v3.Vec{X: -1, Y: 1}.MulScalar(1 / math.Sqrt2)

	tests := []struct {
		name string
		m    sdf.M44
		want v3.Vec
	}{
		{"scale only", scale, r.Direction},
		{"scale then rotate", quarter.Mul(scale), turned},
		{"rotate then scale", scale.Mul(quarter), turned},
		{"with translation", sdf.Translate3d(v3.Vec{X: 3}).Mul(quarter).Mul(scale), turned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Transformed(tt.m)
			requireVec3(t, tt.m.MulPosition(r.Origin), got.Origin)
			require.InDelta(t, tt.want.X, got.Direction.X, 1e-9)
			require.InDelta(t, tt.want.Y, got.Direction.Y, 1e-9)
			require.InDelta(t, tt.want.Z, got.Direction.Z, 1e-9)
		})
	}
}

func TestTransformedDoesNotMutate(t *testing.T) {
	r := New3(v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{Z: 1})
	before := r
	_ = r.Transformed(sdf.Translate3d(v3.Vec{X: 5}).Mul(sdf.RotateX(1)))
	require.Equal(t, before, r)
}

func TestAt(t *testing.T) {
	r := New3(v3.Vec{X: 1}, v3.Vec{Y: 5})
	requireVec3(t, v3.Vec{X: 1, Y: 3}, r.At(3))
}

func TestString(t *testing.T) {
	r := New3(v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{Z: 2})
	require.Equal(t, "Ray(1, 2, 3 -> 0, 0, 1)", r.String())

	r2 := New2(v2.Vec{X: -1, Y: 0.5}, v2.Vec{X: 4})
	require.Equal(t, "Ray(-1, 0.5 -> 1, 0)", r2.String())
}

func TestIntersectBox(t *testing.T) {
	box := sdf.Box3{Min: v3.Vec{X: -1, Y: -1, Z: -1}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}

	t.Run("hit along x", func(t *testing.T) {
		tmin, tmax, ok := New3(v3.Vec{X: -5}, v3.Vec{X: 1}).IntersectBox(box)
		require.True(t, ok)
		require.InDelta(t, 4, tmin, tol)
		require.InDelta(t, 6, tmax, tol)
	})

	t.Run("origin inside", func(t *testing.T) {
		tmin, tmax, ok := New3(v3.Vec{}, v3.Vec{Z: -1}).IntersectBox(box)
		require.True(t, ok)
		require.InDelta(t, -1, tmin, tol)
		require.InDelta(t, 1, tmax, tol)
	})

	t.Run("parallel outside slab", func(t *testing.T) {
		_, _, ok := New3(v3.Vec{X: -5, Y: 2}, v3.Vec{X: 1}).IntersectBox(box)
		require.False(t, ok)
	})

	t.Run("parallel on slab face", func(t *testing.T) {
		_, _, ok := New3(v3.Vec{X: -5, Y: 1}, v3.Vec{X: 1}).IntersectBox(box)
		require.True(t, ok)
	})

	t.Run("pointing away", func(t *testing.T) {
		_, _, ok := New3(v3.Vec{X: -5}, v3.Vec{X: -1}).IntersectBox(box)
		require.False(t, ok)
	})

	t.Run("diagonal miss", func(t *testing.T) {
		_, _, ok := New3(v3.Vec{X: -5, Y: 3}, v3.Vec{X: 1, Y: 1}).IntersectBox(box)
		require.False(t, ok)
	})
}

func TestRay2(t *testing.T) {
	r := New2(v2.Vec{X: 1, Y: 1}, v2.Vec{X: 3, Y: 4})
	require.InDelta(t, 1.0, r.Direction.Length(), tol)
	require.InDelta(t, 0.6, r.Direction.X, tol)
	require.InDelta(t, 0.8, r.Direction.Y, tol)

	id := r.Transformed(sdf.Identity2d())
	require.InDelta(t, r.Origin.X, id.Origin.X, tol)
	require.InDelta(t, r.Origin.Y, id.Origin.Y, tol)
	require.InDelta(t, r.Direction.X, id.Direction.X, tol)
	require.InDelta(t, r.Direction.Y, id.Direction.Y, tol)

	moved := r.Transformed(sdf.Translate2d(v2.Vec{X: 2}))
	require.InDelta(t, 3, moved.Origin.X, tol)
	require.InDelta(t, r.Direction.X, moved.Direction.X, tol)

	stretched := r.Transformed(sdf.Scale2d(v2.Vec{X: 4, Y: 0.5}))
	require.InDelta(t, r.Direction.X, stretched.Direction.X, 1e-9)
	require.InDelta(t, r.Direction.Y, stretched.Direction.Y, 1e-9)

	horizontal := New2(v2.Vec{X: -3}, v2.Vec{X: 1})
	require.True(t, math.IsInf(horizontal.InverseDirection.Y, 0))
	tmin, tmax, ok := horizontal.IntersectBox(sdf.Box2{Min: v2.Vec{X: -1, Y: -1}, Max: v2.Vec{X: 1, Y: 1}})
	require.True(t, ok)
	require.InDelta(t, 2, tmin, tol)
	require.InDelta(t, 4, tmax, tol)
}
