package axis

import (
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/chazu/detnav/pkg/errtype"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MaxDims is the largest number of directions a cast list may hold.
const MaxDims = 3

// Values holds one cast value per cast direction. Only the first Len
// entries of the owning Cast are meaningful.
type Values [MaxDims]float64

// Cast is an ordered list of distinct directions that defines the
// dimensionality and meaning of a grid index. A Cast is immutable once
// created with NewCast.
type Cast struct {
	dirs [MaxDims]Direction
	n    int
}

// NewCast validates dirs and returns the cast list. It fails when dirs is
// empty, longer than MaxDims, repeats a direction, or names a direction
// that cannot index a three dimensional position (rphi).
func NewCast(dirs ...Direction) (Cast, error) {
	if len(dirs) == 0 {
		return Cast{}, errors.New("cast list is empty").
			WithType(errtype.Configuration)
	}
	if len(dirs) > MaxDims {
		return Cast{}, errors.New("cast list has too many directions").
			WithType(errtype.Configuration).
			WithTag("count", len(dirs)).
			WithTag("max", MaxDims)
	}

	var c Cast
	var seen [Count]bool
	for _, d := range dirs {
		if !d.Valid() {
			return Cast{}, errors.New("unknown cast direction").
				WithType(errtype.Configuration).
				WithTag("direction", int(d))
		}
		if d == RPhi {
			return Cast{}, errors.New("direction is not supported for 3D indexing").
				WithType(errtype.Configuration).
				WithTag("direction", d.String())
		}
		if seen[d] {
			return Cast{}, errors.New("direction appears twice in cast list").
				WithType(errtype.Configuration).
				WithTag("direction", d.String())
		}
		seen[d] = true
		c.dirs[c.n] = d
		c.n++
	}
	return c, nil
}

// MustCast is like NewCast but panics on error. Meant for tests and
// package level variables.
func MustCast(dirs ...Direction) Cast {
	c, err := NewCast(dirs...)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCast builds a cast list from a comma separated list of direction
// names, for example "x,y,z" or "r,phi".
func ParseCast(s string) (Cast, error) {
	var dirs []Direction
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseDirection(part)
		if err != nil {
			return Cast{}, errors.New("invalid cast list").
				WithType(errtype.Configuration).
				WithTag("cast", s).
				Wrap(err)
		}
		dirs = append(dirs, d)
	}
	return NewCast(dirs...)
}

// Len returns the number of directions.
func (c Cast) Len() int { return c.n }

// At returns the i-th direction.
func (c Cast) At(i int) Direction { return c.dirs[i] }

// Directions returns a copy of the directions.
func (c Cast) Directions() []Direction {
	out := make([]Direction, c.n)
	copy(out, c.dirs[:c.n])
	return out
}

// Index returns the position of d in the cast list, or -1.
func (c Cast) Index(d Direction) int {
	for i := 0; i < c.n; i++ {
		if c.dirs[i] == d {
			return i
		}
	}
	return -1
}

// Project casts p onto every direction of the list.
func (c Cast) Project(p v3.Vec) Values {
	var v Values
	for i := 0; i < c.n; i++ {
		v[i] = c.dirs[i].Value(p)
	}
	return v
}

func (c Cast) String() string {
	names := make([]string, c.n)
	for i := 0; i < c.n; i++ {
		names[i] = c.dirs[i].String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
