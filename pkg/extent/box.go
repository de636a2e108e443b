package extent

import (
	"math"

	"github.com/chazu/detnav/pkg/axis"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FromBox returns a conservative extent of the axis aligned box [min, max]
// on every direction except rphi. Every point inside the box casts to a
// value inside the corresponding range; the ranges may be wider than the
// exact image of the box.
func FromBox(min, max v3.Vec) Extent {
	e := New()
	e.Set(axis.X, min.X, max.X)
	e.Set(axis.Y, min.Y, max.Y)
	e.Set(axis.Z, min.Z, max.Z)

	rmin := math.Hypot(gap(min.X, max.X), gap(min.Y, max.Y))
	rmax := 0.0
	for _, x := range [2]float64{min.X, max.X} {
		for _, y := range [2]float64{min.Y, max.Y} {
			rmax = math.Max(rmax, math.Hypot(x, y))
		}
	}
	e.Set(axis.R, rmin, rmax)

	phiMin, phiMax := phiRange(min, max)
	e.Set(axis.Phi, phiMin, phiMax)

	thetaMin, thetaMax, etaMin, etaMax := polarRange(rmin, rmax, min.Z, max.Z)
	e.Set(axis.Theta, thetaMin, thetaMax)
	e.Set(axis.Eta, etaMin, etaMax)

	magMin := math.Sqrt(sq(gap(min.X, max.X)) + sq(gap(min.Y, max.Y)) + sq(gap(min.Z, max.Z)))
	magMax := 0.0
	for _, x := range [2]float64{min.X, max.X} {
		for _, y := range [2]float64{min.Y, max.Y} {
			for _, z := range [2]float64{min.Z, max.Z} {
				magMax = math.Max(magMax, math.Sqrt(x*x+y*y+z*z))
			}
		}
	}
	e.Set(axis.Mag, magMin, magMax)
	return e
}

// gap is the distance from zero to [lo, hi].
func gap(lo, hi float64) float64 {
	switch {
	case lo > 0:
		return lo
	case hi < 0:
		return -hi
	default:
		return 0
	}
}

func sq(v float64) float64 { return v * v }

// phiRange returns the azimuth range of the xy rectangle. Rectangles that
// contain the beam line or straddle the +-pi seam get the full circle.
func phiRange(min, max v3.Vec) (float64, float64) {
	containsOrigin := min.X <= 0 && max.X >= 0 && min.Y <= 0 && max.Y >= 0
	crossesSeam := min.X < 0 && min.Y < 0 && max.Y >= 0
	if containsOrigin || crossesSeam {
		return -math.Pi, math.Pi
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range [2]float64{min.X, max.X} {
		for _, y := range [2]float64{min.Y, max.Y} {
			phi := math.Atan2(y, x)
			lo = math.Min(lo, phi)
			hi = math.Max(hi, phi)
		}
	}
	return lo, hi
}

// polarRange returns the theta and eta ranges of the (r, z) rectangle.
// Angle extremes of a convex region away from the origin sit on its
// corners.
func polarRange(rmin, rmax, zmin, zmax float64) (float64, float64, float64, float64) {
	if rmin == 0 && zmin <= 0 && zmax >= 0 {
		return 0, math.Pi, math.Inf(-1), math.Inf(1)
	}
	thetaMin, thetaMax := math.Inf(1), math.Inf(-1)
	etaMin, etaMax := math.Inf(1), math.Inf(-1)
	for _, r := range [2]float64{rmin, rmax} {
		for _, z := range [2]float64{zmin, zmax} {
			theta := math.Atan2(r, z)
			thetaMin = math.Min(thetaMin, theta)
			thetaMax = math.Max(thetaMax, theta)
			eta := axis.Pseudorapidity(r, z)
			etaMin = math.Min(etaMin, eta)
			etaMax = math.Max(etaMax, eta)
		}
	}
	return thetaMin, thetaMax, etaMin, etaMax
}
