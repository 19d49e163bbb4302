package clip

import (
	"errors"
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/facet/pkg/geom"
)

const tol = geom.DefaultTolerance

func rect(x0, y0, x1, y1 float64) geom.Ring {
	return geom.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// regular returns a CCW regular n-gon.
func regular(n int, cx, cy, r, phase float64) geom.Ring {
	ring := make(geom.Ring, n)
	for i := range n {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		ring[i] = v2.Vec{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return ring
}

// star returns a non-convex CCW star with n spikes.
func star(n int, cx, cy, rOuter, rInner float64) geom.Ring {
	ring := make(geom.Ring, 0, 2*n)
	for i := range 2 * n {
		r := rOuter
		if i%2 == 1 {
			r = rInner
		}
		a := math.Pi * float64(i) / float64(n)
		ring = append(ring, v2.Vec{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return ring
}

// sameRing reports whether a and b are the same cycle up to start point.
func sameRing(a, b geom.Ring) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	for off := range b {
		match := true
		for i := range a {
			if a[i] != b[(i+off)%len(b)] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func assertContained(t *testing.T, r, boundary geom.Ring) {
	t.Helper()
	for e := range boundary.CCW().Edges() {
		for _, p := range r {
			if !SideOf(p, e, tol).Inside() {
				t.Errorf("point %v is outside boundary edge %v", p, e)
			}
		}
	}
}

func TestSideOf(t *testing.T) {
	l := geom.Line{P: v2.Vec{X: 0, Y: 0}, Q: v2.Vec{X: 4, Y: 0}}
	tests := []struct {
		name string
		p    v2.Vec
		want Side
	}{
		{"above", v2.Vec{X: 1, Y: 1}, Left},
		{"below", v2.Vec{X: 1, Y: -1}, Right},
		{"on segment", v2.Vec{X: 2, Y: 0}, On},
		{"on extension", v2.Vec{X: -3, Y: 0}, On},
		{"within tolerance", v2.Vec{X: 2, Y: -1e-12}, On},
		{"just outside tolerance", v2.Vec{X: 2, Y: -1e-6}, Right},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SideOf(tt.p, l, tol); got != tt.want {
				t.Errorf("SideOf(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if got := SideOf(v2.Vec{X: 5, Y: 5}, geom.Line{}, tol); got != On {
		t.Errorf("SideOf(zero-length line) = %v, want on", got)
	}
	if !On.Inside() || !Left.Inside() || Right.Inside() {
		t.Error("Inside() must accept left and on, reject right")
	}
}

func TestIntersect(t *testing.T) {
	seg := func(x0, y0, x1, y1 float64) geom.Line {
		return geom.Line{P: v2.Vec{X: x0, Y: y0}, Q: v2.Vec{X: x1, Y: y1}}
	}
	tests := []struct {
		name      string
		a, b      geom.Line
		wantKind  Kind
		wantPoint v2.Vec
	}{
		{"crossing", seg(0, 0, 4, 4), seg(0, 4, 4, 0), Crossing, v2.Vec{X: 2, Y: 2}},
		{"touching at endpoint", seg(0, 0, 2, 0), seg(2, -1, 2, 1), Crossing, v2.Vec{X: 2, Y: 0}},
		{"parallel", seg(0, 0, 4, 0), seg(0, 1, 4, 1), None, v2.Vec{}},
		{"collinear overlapping", seg(1, 0, 5, 0), seg(0, 0, 3, 0), Overlapping, v2.Vec{X: 1, Y: 0}},
		{"collinear disjoint", seg(0, 0, 1, 0), seg(2, 0, 3, 0), None, v2.Vec{}},
		{"lines cross outside b", seg(0, 0, 4, 0), seg(2, 1, 2, 3), None, v2.Vec{}},
		{"lines cross outside a", seg(0, 0, 1, 0), seg(2, -1, 2, 1), None, v2.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.a, tt.b, tol)
			if got.Kind != tt.wantKind {
				t.Fatalf("Intersect() kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if tt.wantKind != None && !geom.Near(got.Point, tt.wantPoint, 1e-12) {
				t.Errorf("Intersect() point = %v, want %v", got.Point, tt.wantPoint)
			}
		})
	}
}

func TestIntersectLine(t *testing.T) {
	a := geom.Line{P: v2.Vec{X: 0, Y: 0}, Q: v2.Vec{X: 4, Y: 0}}
	// Only the supporting line of b reaches a.
	b := geom.Line{P: v2.Vec{X: 2, Y: 1}, Q: v2.Vec{X: 2, Y: 3}}
	got := IntersectLine(a, b, tol)
	if got.Kind != Crossing || !geom.Near(got.Point, v2.Vec{X: 2, Y: 0}, 1e-12) {
		t.Errorf("IntersectLine() = %+v, want crossing at (2,0)", got)
	}

	// The segment itself is still bounded.
	short := geom.Line{P: v2.Vec{X: 0, Y: 0}, Q: v2.Vec{X: 1, Y: 0}}
	if got := IntersectLine(short, b, tol); got.Kind != None {
		t.Errorf("IntersectLine(short) kind = %v, want none", got.Kind)
	}

	// A segment lying on the line overlaps it; its start is the representative.
	on := geom.Line{P: v2.Vec{X: 2, Y: 7}, Q: v2.Vec{X: 2, Y: 9}}
	if got := IntersectLine(on, b, tol); got.Kind != Overlapping || got.Point != on.P {
		t.Errorf("IntersectLine(on) = %+v, want overlapping at %v", got, on.P)
	}
}

func TestClipRingSquareTriangle(t *testing.T) {
	square := rect(0, 0, 4, 4)
	triangle := geom.Ring{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 4}}

	got, err := ClipRing(square, triangle, tol)
	if err != nil {
		t.Fatalf("ClipRing() error = %v", err)
	}
	if got == nil {
		t.Fatal("ClipRing() = nil, want the triangle")
	}
	if a := got.Area(); math.Abs(a-8) > 1e-9 {
		t.Errorf("clipped area = %v, want 8", a)
	}
	assertContained(t, got, triangle)

	// A clockwise clip ring is normalized first.
	cw, err := ClipRing(square, triangle.Reverse(), tol)
	if err != nil {
		t.Fatalf("ClipRing(cw) error = %v", err)
	}
	if math.Abs(cw.Area()-8) > 1e-9 {
		t.Errorf("clipped area with cw boundary = %v, want 8", cw.Area())
	}
}

func TestClipRingPolicies(t *testing.T) {
	boundary := rect(0, 0, 10, 10)
	tests := []struct {
		name     string
		subject  geom.Ring
		wantNil  bool
		wantSame bool
		wantArea float64
	}{
		{"fully inside", rect(2, 2, 5, 5), false, true, 9},
		{"fully outside", rect(20, 20, 25, 25), true, false, 0},
		{"sharing an edge", rect(0, 0, 10, 4), false, true, 40},
		{"touching from outside", rect(10, 0, 12, 4), true, false, 0},
		{"half overlapping", rect(5, 5, 15, 15), false, false, 25},
		{"covering", rect(-5, -5, 15, 15), false, false, 100},
		{"empty", nil, true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClipRing(tt.subject, boundary, tol)
			if err != nil {
				t.Fatalf("ClipRing() error = %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ClipRing() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ClipRing() = nil, want a ring")
			}
			if tt.wantSame && !sameRing(got, tt.subject) {
				t.Errorf("ClipRing() = %v, want %v up to rotation", got, tt.subject)
			}
			if math.Abs(got.Area()-tt.wantArea) > 1e-9 {
				t.Errorf("area = %v, want %v", got.Area(), tt.wantArea)
			}
			assertContained(t, got, boundary)
		})
	}
}

func TestClipRingContainment(t *testing.T) {
	boundaries := []geom.Ring{
		regular(6, 0, 0, 3, 0.1),
		regular(3, 1, -1, 4, 0.7),
		rect(-2, -1, 2, 1),
	}
	subjects := []geom.Ring{
		star(5, 0, 0, 4, 1.5),
		star(7, 1, 1, 3, 2),
		regular(12, 0.5, 0.5, 2.5, 0.3),
		rect(-10, -0.5, 10, 0.5),
	}
	for bi, b := range boundaries {
		for si, s := range subjects {
			got, err := ClipRing(s, b, tol)
			if err != nil {
				t.Fatalf("boundary %d subject %d: ClipRing() error = %v", bi, si, err)
			}
			assertContained(t, got, b)
			if got != nil && got.Area() > s.Area()+1e-9 {
				t.Errorf("boundary %d subject %d: clipped area %v exceeds subject area %v", bi, si, got.Area(), s.Area())
			}
		}
	}
}

func TestClipRingOwnership(t *testing.T) {
	subject := rect(1, 1, 2, 2)
	got, err := ClipRing(subject, rect(0, 0, 10, 10), tol)
	if err != nil {
		t.Fatalf("ClipRing() error = %v", err)
	}
	got[0] = v2.Vec{X: -1, Y: -1}
	if subject[0] == got[0] {
		t.Error("ClipRing() result aliases its input")
	}
}

func TestClipPolygonWithHoles(t *testing.T) {
	outer := rect(0, 0, 10, 10)
	inHole := rect(2, 2, 3, 3).Reverse()
	outHole := rect(7, 7, 8, 8).Reverse()
	p := geom.NewPolygon(outer, inHole, outHole)

	got := ClipPolygon(p, rect(0, 0, 5, 5), tol)
	if got.NumRings() != 2 {
		t.Fatalf("NumRings() = %d, want 2 (outer + surviving hole)", got.NumRings())
	}
	if got.Ring(1).Orientation() != geom.CW {
		t.Errorf("hole orientation = %v, want cw", got.Ring(1).Orientation())
	}
	if a := got.Area(); math.Abs(a-24) > 1e-9 {
		t.Errorf("Area() = %v, want 24", a)
	}

	none := ClipPolygon(p, rect(20, 20, 30, 30), tol)
	if !none.IsEmpty() {
		t.Errorf("ClipPolygon() far away = %d rings, want empty", none.NumRings())
	}
}

func TestClip(t *testing.T) {
	square := geom.NewPolygon(rect(0, 0, 4, 4))

	t.Run("exact intersection", func(t *testing.T) {
		tri := geom.Ring{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 4}}
		got, err := Clip(square, tri)
		if err != nil {
			t.Fatalf("Clip() error = %v", err)
		}
		if math.Abs(got.Area()-8) > 1e-9 {
			t.Errorf("Area() = %v, want 8", got.Area())
		}
	})

	t.Run("idempotent when inside", func(t *testing.T) {
		got, err := Clip(square, rect(-1, -1, 5, 5))
		if err != nil {
			t.Fatalf("Clip() error = %v", err)
		}
		if got.NumRings() != 1 || !sameRing(got.Outer(), square.Outer()) {
			t.Errorf("Clip() = %v, want the input square", got.Outer())
		}
	})

	t.Run("disjoint bounding boxes", func(t *testing.T) {
		got, err := Clip(square, rect(10, 10, 12, 12))
		if err != nil {
			t.Fatalf("Clip() error = %v", err)
		}
		if !got.IsEmpty() {
			t.Errorf("Clip() = %d rings, want empty", got.NumRings())
		}
	})

	t.Run("polygon region uses its outer ring", func(t *testing.T) {
		region := geom.NewPolygon(rect(2, 2, 6, 6))
		got, err := Clip(square, region)
		if err != nil {
			t.Fatalf("Clip() error = %v", err)
		}
		if math.Abs(got.Area()-4) > 1e-9 {
			t.Errorf("Area() = %v, want 4", got.Area())
		}
	})

	t.Run("exact tolerance", func(t *testing.T) {
		got, err := Clip(square, rect(1, 1, 3, 3), WithTolerance(0))
		if err != nil {
			t.Fatalf("Clip() error = %v", err)
		}
		if math.Abs(got.Area()-4) > 1e-12 {
			t.Errorf("Area() = %v, want 4", got.Area())
		}
	})
}

func TestClipPreconditions(t *testing.T) {
	square := geom.NewPolygon(rect(0, 0, 4, 4))
	tests := []struct {
		name   string
		region Region
		opts   []Option
	}{
		{"non-convex", geom.Ring{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 2, Y: 1}, {X: 0, Y: 4}}, nil},
		{"two points", geom.Ring{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 0}}, nil},
		{"collinear", geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, nil},
		{"empty polygon region", geom.Polygon{}, nil},
		{"nil region", nil, nil},
		{"negative tolerance", rect(0, 0, 1, 1), []Option{WithTolerance(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clip(square, tt.region, tt.opts...)
			if !errors.Is(err, geom.ErrPrecondition) {
				t.Fatalf("Clip() error = %v, want ErrPrecondition", err)
			}
			if !got.IsEmpty() {
				t.Error("Clip() returned a partial result alongside an error")
			}
		})
	}
}
