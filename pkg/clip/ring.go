package clip

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/facet/pkg/geom"
)

// ClipRing clips subject against the convex ring boundary and returns the
// part of subject inside it, or nil when fewer than 3 distinct points
// survive. boundary may wind either way; convexity is the caller's
// responsibility (Clip checks it).
//
// A ring entirely inside boundary comes back unchanged up to its start
// point; a ring entirely outside comes back nil.
func ClipRing(subject, boundary geom.Ring, tol float64) (geom.Ring, error) {
	if len(subject) == 0 {
		return nil, nil
	}
	boundary = boundary.CCW()

	// Two working buffers swap roles for each boundary edge.
	cur := make([]v2.Vec, 0, len(subject)+len(boundary))
	cur = append(cur, subject...)
	next := make([]v2.Vec, 0, cap(cur))

	for edge := range boundary.Edges() {
		if edge.Length() == 0 {
			continue
		}
		next = next[:0]
		n := len(cur)
		for i, r1 := range cur {
			r2 := cur[(i+1)%n]
			s1, s2 := SideOf(r1, edge, tol), SideOf(r2, edge, tol)
			switch {
			case s1.Inside() && s2.Inside():
				next = append(next, r1)
			case s1.Inside():
				p, err := boundaryPoint(r1, s1, r2, s2, edge, tol)
				if err != nil {
					return nil, err
				}
				next = append(next, r1, p)
			case s2.Inside():
				p, err := boundaryPoint(r1, s1, r2, s2, edge, tol)
				if err != nil {
					return nil, err
				}
				next = append(next, p)
			}
		}
		cur, next = next, cur
		if len(cur) == 0 {
			return nil, nil
		}
	}

	out := geom.Ring(cur).Dedup(tol)
	if len(out) < 3 {
		return nil, nil
	}
	return out, nil
}

// boundaryPoint returns where the edge r1->r2, which has exactly one
// endpoint inside, meets the boundary line. An endpoint lying on the line
// is its own boundary point; otherwise the edge strictly crosses the line
// and anything but a crossing is an inconsistency.
func boundaryPoint(r1 v2.Vec, s1 Side, r2 v2.Vec, s2 Side, edge geom.Line, tol float64) (v2.Vec, error) {
	if s1 == On {
		return r1, nil
	}
	if s2 == On {
		return r2, nil
	}
	x := IntersectLine(geom.Line{P: r1, Q: r2}, edge, tol)
	if x.Kind == None {
		return v2.Vec{}, fmt.Errorf("clip: segment %v classified %s/%s against %v has no crossing: %w",
			geom.Line{P: r1, Q: r2}, s1, s2, edge, geom.ErrInconsistent)
	}
	return x.Point, nil
}
