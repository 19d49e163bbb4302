package geom

import (
	"iter"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Polygon is an outer ring followed by zero or more holes. All ring points
// live in one flat buffer; ends[i] is the exclusive end of ring i in pts.
// By convention the outer ring is counter-clockwise and holes clockwise,
// and every ring is simple; neither property is re-verified.
//
// The zero Polygon is empty.
type Polygon struct {
	pts  []v2.Vec
	ends []int
}

// NewPolygon copies rings into a new polygon. The first ring is the outer
// boundary.
func NewPolygon(rings ...Ring) Polygon {
	var n int
	for _, r := range rings {
		n += len(r)
	}
	p := Polygon{
		pts:  make([]v2.Vec, 0, n),
		ends: make([]int, 0, len(rings)),
	}
	for _, r := range rings {
		p.AppendRing(r)
	}
	return p
}

// AppendRing copies r onto the end of p. It is meant for building a
// polygon before it is handed out; polygons already shared must not be
// appended to.
func (p *Polygon) AppendRing(r Ring) {
	p.pts = append(p.pts, r...)
	p.ends = append(p.ends, len(p.pts))
}

// NumRings returns the number of rings, outer included.
func (p Polygon) NumRings() int {
	return len(p.ends)
}

// NumPoints returns the total number of ring points.
func (p Polygon) NumPoints() int {
	return len(p.pts)
}

// IsEmpty reports whether p has no rings.
func (p Polygon) IsEmpty() bool {
	return len(p.ends) == 0
}

// Ring returns ring i as a view into the arena. The view has its capacity
// clipped so appending to it never overwrites a neighbouring ring.
func (p Polygon) Ring(i int) Ring {
	start := 0
	if i > 0 {
		start = p.ends[i-1]
	}
	end := p.ends[i]
	return Ring(p.pts[start:end:end])
}

// Outer returns the outer ring, or nil for an empty polygon.
func (p Polygon) Outer() Ring {
	if p.IsEmpty() {
		return nil
	}
	return p.Ring(0)
}

// Holes returns the rings after the outer one.
func (p Polygon) Holes() []Ring {
	if p.NumRings() < 2 {
		return nil
	}
	holes := make([]Ring, 0, p.NumRings()-1)
	for i := 1; i < p.NumRings(); i++ {
		holes = append(holes, p.Ring(i))
	}
	return holes
}

// Rings yields each ring with its index.
func (p Polygon) Rings() iter.Seq2[int, Ring] {
	return func(yield func(int, Ring) bool) {
		for i := range p.NumRings() {
			if !yield(i, p.Ring(i)) {
				return
			}
		}
	}
}

// Area returns the outer area minus the hole areas.
func (p Polygon) Area() float64 {
	var a float64
	for i, r := range p.Rings() {
		if i == 0 {
			a += r.Area()
		} else {
			a -= r.Area()
		}
	}
	return a
}

// Boundary returns the outer ring, so a polygon can serve as a clip region.
func (p Polygon) Boundary() Ring {
	return p.Outer()
}
