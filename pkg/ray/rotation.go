package ray

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	polarIterations = 64
	polarTolerance  = 1e-14
)

type mat3 [3][3]float64

// linear3 returns the linear part of m, column i being the image of the
// i-th basis vector.
func linear3(m sdf.M44) mat3 {
	o := m.MulPosition(v3.Vec{})
	cols := [3]v3.Vec{
		m.MulPosition(v3.Vec{X: 1}).Sub(o),
		m.MulPosition(v3.Vec{Y: 1}).Sub(o),
		m.MulPosition(v3.Vec{Z: 1}).Sub(o),
	}
	var a mat3
	for j, c := range cols {
		a[0][j], a[1][j], a[2][j] = c.X, c.Y, c.Z
	}
	return a
}

func (a mat3) det() float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// inverseTranspose returns (a^-1)^T, which is the cofactor matrix over the
// determinant.
func (a mat3) inverseTranspose(det float64) mat3 {
	var c mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			i1, i2 := (i+1)%3, (i+2)%3
			j1, j2 := (j+1)%3, (j+2)%3
			c[i][j] = (a[i1][j1]*a[i2][j2] - a[i1][j2]*a[i2][j1]) / det
		}
	}
	return c
}

func (a mat3) mul(v v3.Vec) v3.Vec {
	return v3.Vec{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z,
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z,
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z,
	}
}

// rotation3 returns the orthogonal factor of the polar decomposition of the
// linear part of m, so scale and shear do not turn directions. ok is false
// when the linear part is singular.
func rotation3(m sdf.M44) (mat3, bool) {
	a := linear3(m)
	for k := 0; k < polarIterations; k++ {
		det := a.det()
		if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
			return a, false
		}
		it := a.inverseTranspose(det)
		var next mat3
		delta := 0.0
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				next[i][j] = 0.5 * (a[i][j] + it[i][j])
				delta = math.Max(delta, math.Abs(next[i][j]-a[i][j]))
			}
		}
		a = next
		if delta < polarTolerance {
			break
		}
	}
	return a, true
}

type mat2 [2][2]float64

func linear2(m sdf.M33) mat2 {
	o := m.MulPosition(v2.Vec{})
	x := m.MulPosition(v2.Vec{X: 1}).Sub(o)
	y := m.MulPosition(v2.Vec{Y: 1}).Sub(o)
	return mat2{{x.X, y.X}, {x.Y, y.Y}}
}

func (a mat2) mul(v v2.Vec) v2.Vec {
	return v2.Vec{
		X: a[0][0]*v.X + a[0][1]*v.Y,
		Y: a[1][0]*v.X + a[1][1]*v.Y,
	}
}

// rotation2 is rotation3 in the plane.
func rotation2(m sdf.M33) (mat2, bool) {
	a := linear2(m)
	for k := 0; k < polarIterations; k++ {
		det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
		if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
			return a, false
		}
		it := mat2{
			{a[1][1] / det, -a[1][0] / det},
			{-a[0][1] / det, a[0][0] / det},
		}
		var next mat2
		delta := 0.0
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				next[i][j] = 0.5 * (a[i][j] + it[i][j])
				delta = math.Max(delta, math.Abs(next[i][j]-a[i][j]))
			}
		}
		a = next
		if delta < polarTolerance {
			break
		}
	}
	return a, true
}
