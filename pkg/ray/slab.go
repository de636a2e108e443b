package ray

const maxDistance = 1e300

// slab clips [tmin, tmax] against one axis slab [lo, hi].
func slab(o, d, inv, lo, hi, tmin, tmax float64) (float64, float64, bool) {
	if d == 0 {
		// Parallel: inv is infinite and the products below would be NaN
		// for an origin on the slab plane.
		if o < lo || o > hi {
			return tmin, tmax, false
		}
		return tmin, tmax, true
	}
	t1 := (lo - o) * inv
	t2 := (hi - o) * inv
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tmin {
		tmin = t1
	}
	if t2 < tmax {
		tmax = t2
	}
	return tmin, tmax, tmin <= tmax
}
