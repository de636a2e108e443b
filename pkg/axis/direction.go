// Package axis defines the coordinate directions a detector can be binned
// along, the cast list that selects them, and the one-dimensional axes the
// grid index is built from.
package axis

import (
	"fmt"
	"math"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/errtype"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Direction is a symbolic coordinate axis.
type Direction int

const (
	X     Direction = iota // cartesian x
	Y                      // cartesian y
	Z                      // cartesian z
	R                      // transverse radius
	Phi                    // azimuth, (-pi, pi]
	RPhi                   // radius times azimuth
	Theta                  // polar angle, [0, pi]
	Eta                    // pseudorapidity
	Mag                    // distance from the origin
)

// Count is the number of defined directions.
const Count = 9

var directionNames = [Count]string{
	"x", "y", "z", "r", "phi", "rphi", "theta", "eta", "mag",
}

// All returns every direction in declaration order.
func All() []Direction {
	return []Direction{X, Y, Z, R, Phi, RPhi, Theta, Eta, Mag}
}

func (d Direction) String() string {
	if d < 0 || int(d) >= Count {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the defined directions.
func (d Direction) Valid() bool {
	return d >= 0 && int(d) < Count
}

// Cyclic reports whether values along d wrap around.
func (d Direction) Cyclic() bool {
	return d == Phi || d == RPhi
}

// ParseDirection accepts the short names ("x", "phi"), the long names
// ("AxisX", "AxisPhi") and the legacy binning names ("binX", "binPhi").
// Matching is case insensitive.
func ParseDirection(name string) (Direction, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "axis")
	n = strings.TrimPrefix(n, "bin")
	if n == "h" {
		// binH is the legacy name of the polar angle.
		return Theta, nil
	}
	for i, dn := range directionNames {
		if n == dn {
			return Direction(i), nil
		}
	}
	return 0, errors.Newf("unknown axis direction %q", name).
		WithType(errtype.Configuration)
}

// Value casts a global position onto the direction.
func (d Direction) Value(p v3.Vec) float64 {
	switch d {
	case X:
		return p.X
	case Y:
		return p.Y
	case Z:
		return p.Z
	case R:
		return math.Hypot(p.X, p.Y)
	case Phi:
		return math.Atan2(p.Y, p.X)
	case RPhi:
		return math.Hypot(p.X, p.Y) * math.Atan2(p.Y, p.X)
	case Theta:
		return math.Atan2(math.Hypot(p.X, p.Y), p.Z)
	case Eta:
		return Pseudorapidity(math.Hypot(p.X, p.Y), p.Z)
	case Mag:
		return p.Length()
	}
	return math.NaN()
}

// Pseudorapidity returns eta for a point at transverse radius r and
// longitudinal position z. Points on the beam line map to +-Inf.
func Pseudorapidity(r, z float64) float64 {
	if r == 0 {
		if z == 0 {
			return 0
		}
		return math.Copysign(math.Inf(1), z)
	}
	return math.Asinh(z / r)
}
