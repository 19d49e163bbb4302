// Package geom defines the planar value types used by the clipping kernel:
// directed lines, closed rings and polygons with holes. Points are sdfx
// vectors and every value is treated as immutable once built.
package geom

import (
	"fmt"
	"iter"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// DefaultTolerance is the distance below which two points, or a point and a
// line, are considered coincident.
const DefaultTolerance = 1e-9

// Orientation is the winding of a ring.
type Orientation int

const (
	Degenerate Orientation = iota // zero area or fewer than 3 points
	CCW
	CW
)

func (o Orientation) String() string {
	switch o {
	case CCW:
		return "ccw"
	case CW:
		return "cw"
	default:
		return "degenerate"
	}
}

// Line is a directed segment from P to Q. Its interior half-plane is on
// the left.
type Line struct {
	P, Q v2.Vec
}

// Dir returns Q - P.
func (l Line) Dir() v2.Vec {
	return l.Q.Sub(l.P)
}

// Length returns the length of the segment.
func (l Line) Length() float64 {
	return l.Dir().Length()
}

func (l Line) String() string {
	return fmt.Sprintf("(%g %g)->(%g %g)", l.P.X, l.P.Y, l.Q.X, l.Q.Y)
}

// Near reports whether a and b differ by at most tol in each coordinate.
// A zero tol is exact equality.
func Near(a, b v2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// Ring is a closed sequence of points; the last point connects back to the
// first and is not repeated.
type Ring []v2.Vec

// SignedArea returns the shoelace area, positive for counter-clockwise rings.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var a float64
	for i := range n {
		a += r[i].Cross(r[(i+1)%n])
	}
	return a / 2
}

// Area returns the unsigned enclosed area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// Orientation reports the winding of r.
func (r Ring) Orientation() Orientation {
	a := r.SignedArea()
	switch {
	case a > 0:
		return CCW
	case a < 0:
		return CW
	}
	return Degenerate
}

// Reverse returns a new ring with the opposite winding.
func (r Ring) Reverse() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// CCW returns r if it winds counter-clockwise and its reverse otherwise.
func (r Ring) CCW() Ring {
	if r.Orientation() == CW {
		return r.Reverse()
	}
	return r
}

// Dedup returns a copy of r without consecutive points closer than tol,
// including the wrap from the last point to the first.
func (r Ring) Dedup(tol float64) Ring {
	out := make(Ring, 0, len(r))
	for _, p := range r {
		if len(out) > 0 && Near(p, out[len(out)-1], tol) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && Near(out[len(out)-1], out[0], tol) {
		out = out[:len(out)-1]
	}
	return out
}

// IsDegenerate reports whether r has fewer than 3 distinct points.
func (r Ring) IsDegenerate(tol float64) bool {
	return len(r.Dedup(tol)) < 3
}

// IsConvex reports whether every turn of r has the same sign. Collinear
// vertices are allowed; a ring with fewer than 3 distinct points or zero
// area is not convex.
func (r Ring) IsConvex(tol float64) bool {
	d := r.Dedup(tol)
	n := len(d)
	if n < 3 || d.Orientation() == Degenerate {
		return false
	}
	var pos, neg bool
	for i := range n {
		a := d[(i+1)%n].Sub(d[i])
		b := d[(i+2)%n].Sub(d[(i+1)%n])
		c := a.Cross(b)
		// Compare the turn as a distance so tol keeps its units.
		if la := a.Length(); la > 0 && math.Abs(c)/la <= tol {
			continue
		}
		if c > 0 {
			pos = true
		} else {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// Edges yields the directed edges of r, including the closing edge.
func (r Ring) Edges() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		n := len(r)
		for i := range n {
			if !yield(Line{P: r[i], Q: r[(i+1)%n]}) {
				return
			}
		}
	}
}

// BoundingBox returns the axis-aligned bounds of r. The box of an empty
// ring is the zero box.
func (r Ring) BoundingBox() sdf.Box2 {
	if len(r) == 0 {
		return sdf.Box2{}
	}
	bb := sdf.Box2{Min: r[0], Max: r[0]}
	for _, p := range r[1:] {
		bb = bb.Include(p)
	}
	return bb
}

// Boundary returns r itself, so a ring can be used as a clip region.
func (r Ring) Boundary() Ring {
	return r
}
