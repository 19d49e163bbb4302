package clip

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/facet/pkg/geom"
)

// Region is a convex area a polygon can be clipped against.
type Region interface {
	// Boundary returns the region's outline as a closed ring.
	Boundary() geom.Ring
}

// Compile-time interface checks.
var (
	_ Region = geom.Ring(nil)
	_ Region = geom.Polygon{}
)

// Option configures Clip.
type Option func(*options)

type options struct {
	tol float64
}

func defaultOptions() options {
	return options{tol: geom.DefaultTolerance}
}

// WithTolerance sets the distance within which points count as lying on a
// boundary edge and consecutive output points are merged. Zero means exact.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tol = tol
	}
}

// Clip returns the part of p inside region, or an empty polygon when
// nothing remains. The region boundary must have at least 3 distinct
// points and be convex; otherwise Clip fails with geom.ErrPrecondition and
// returns no partial result.
func Clip(p geom.Polygon, region Region, opts ...Option) (geom.Polygon, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.tol < 0 {
		return geom.Polygon{}, fmt.Errorf("clip: negative tolerance %g: %w", o.tol, geom.ErrPrecondition)
	}
	if region == nil {
		return geom.Polygon{}, fmt.Errorf("clip: nil region: %w", geom.ErrPrecondition)
	}

	boundary := region.Boundary().Dedup(o.tol)
	if len(boundary) < 3 {
		return geom.Polygon{}, fmt.Errorf("clip: boundary has %d distinct points: %w", len(boundary), geom.ErrPrecondition)
	}
	if !boundary.IsConvex(o.tol) {
		return geom.Polygon{}, fmt.Errorf("clip: boundary is not convex: %w", geom.ErrPrecondition)
	}

	if p.IsEmpty() {
		return geom.Polygon{}, nil
	}
	if disjoint(p.Outer().BoundingBox(), boundary.BoundingBox(), o.tol) {
		return geom.Polygon{}, nil
	}
	return ClipPolygon(p, boundary, o.tol), nil
}

// disjoint reports whether two boxes are separated by more than tol.
func disjoint(a, b sdf.Box2, tol float64) bool {
	return a.Max.X < b.Min.X-tol || b.Max.X < a.Min.X-tol ||
		a.Max.Y < b.Min.Y-tol || b.Max.Y < a.Min.Y-tol
}
