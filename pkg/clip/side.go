// Package clip clips polygons against convex regions with the
// Sutherland–Hodgman algorithm.
//
// Every ring of the subject is clipped independently against the
// region's boundary, which is normalized to counter-clockwise order so the
// inside of each directed edge is on its left. Points on an edge count as
// inside, so vertices touching the boundary are kept rather than split.
package clip

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/facet/pkg/geom"
)

// Side is the position of a point relative to a directed line.
type Side int

const (
	On Side = iota
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "on"
	}
}

// Inside reports whether s counts as inside a counter-clockwise boundary.
func (s Side) Inside() bool {
	return s != Right
}

// SideOf classifies p against l by the sign of (Q-P) x (p-P). Points whose
// distance to the line is at most tol are On. A zero-length line
// classifies every point as On.
func SideOf(p v2.Vec, l geom.Line, tol float64) Side {
	d := l.Dir()
	length := d.Length()
	if length == 0 {
		return On
	}
	dist := d.Cross(p.Sub(l.P)) / length
	switch {
	case dist > tol:
		return Left
	case dist < -tol:
		return Right
	}
	return On
}
