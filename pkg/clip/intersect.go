package clip

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/facet/pkg/geom"
)

// Kind tags an Intersection.
type Kind int

const (
	None Kind = iota
	Crossing
	Overlapping
)

func (k Kind) String() string {
	switch k {
	case Crossing:
		return "crossing"
	case Overlapping:
		return "overlapping"
	default:
		return "none"
	}
}

// Intersection is the result of intersecting two lines.
//
// For Overlapping results Point is the start of the first operand, not the
// overlap itself. The clipper only ever needs one point on the boundary,
// and callers must not treat this as an overlap computation.
type Intersection struct {
	Kind  Kind
	Point v2.Vec
}

// Intersect intersects segments a and b. Parameters within tol (as a
// distance) of a segment's ends are accepted and clamped.
func Intersect(a, b geom.Line, tol float64) Intersection {
	return intersect(a, b, tol, true)
}

// IntersectLine intersects segment seg with the unbounded line through
// line.P and line.Q. This is the test a half-plane clip needs: the subject
// edge may cross the boundary's supporting line outside the boundary edge.
func IntersectLine(seg, line geom.Line, tol float64) Intersection {
	return intersect(seg, line, tol, false)
}

func intersect(a, b geom.Line, tol float64, bounded bool) Intersection {
	d1, d2 := a.Dir(), b.Dir()
	l1, l2 := d1.Length(), d2.Length()
	if l1 == 0 || l2 == 0 {
		return intersectDegenerate(a, b, tol, bounded)
	}

	r := b.P.Sub(a.P)
	det := d1.Cross(d2)

	// |det|/l2 is how far a travels across b's line; below tol the two
	// are parallel.
	if math.Abs(det)/l2 <= tol {
		if math.Abs(r.Cross(d2))/l2 > tol {
			return Intersection{Kind: None}
		}
		if !bounded || overlaps(a, b, tol) {
			return Intersection{Kind: Overlapping, Point: a.P}
		}
		return Intersection{Kind: None}
	}

	s := r.Cross(d2) / det
	t := r.Cross(d1) / det
	if s < -tol/l1 || s > 1+tol/l1 {
		return Intersection{Kind: None}
	}
	if bounded && (t < -tol/l2 || t > 1+tol/l2) {
		return Intersection{Kind: None}
	}
	s = math.Max(0, math.Min(1, s))
	return Intersection{Kind: Crossing, Point: a.P.Add(d1.MulScalar(s))}
}

// overlaps reports whether collinear segments a and b share a point, by
// projecting b onto a's parameter range.
func overlaps(a, b geom.Line, tol float64) bool {
	d := a.Dir()
	l2 := d.Dot(d)
	t0 := b.P.Sub(a.P).Dot(d) / l2
	t1 := b.Q.Sub(a.P).Dot(d) / l2
	lo, hi := math.Min(t0, t1), math.Max(t0, t1)
	eps := tol / math.Sqrt(l2)
	return hi >= -eps && lo <= 1+eps
}

// intersectDegenerate handles operands that collapse to a point.
func intersectDegenerate(a, b geom.Line, tol float64, bounded bool) Intersection {
	if a.Length() == 0 {
		if onLine(a.P, b, tol, bounded) {
			return Intersection{Kind: Overlapping, Point: a.P}
		}
		return Intersection{Kind: None}
	}
	// b is a point: it must lie on segment a.
	if onLine(b.P, a, tol, true) {
		return Intersection{Kind: Crossing, Point: b.P}
	}
	return Intersection{Kind: None}
}

func onLine(p v2.Vec, l geom.Line, tol float64, bounded bool) bool {
	if l.Length() == 0 {
		return geom.Near(p, l.P, tol)
	}
	if SideOf(p, l, tol) != On {
		return false
	}
	if !bounded {
		return true
	}
	return overlaps(l, geom.Line{P: p, Q: p}, tol)
}
