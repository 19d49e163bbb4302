package primitive

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/facet/pkg/geom"
)

// Surface returns the signed distance field of the solid bounded by g.
// Its zero level set is the surface Point samples, so it doubles as an
// oracle for discretized points. Planar primitives have no solid and fail
// with geom.ErrPrecondition.
//
// An uncapped Cylinder, Cone or Frustum has the field of its capped solid;
// the lateral surface is still on the zero level set.
func Surface(g Geometry) (sdf.SDF3, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	switch g := g.(type) {
	case Sphere:
		return sdf.Sphere3D(g.Radius)
	case Cylinder:
		return sdf.Cylinder3D(g.Height, g.Radius, 0)
	case Cone:
		return sdf.Cone3D(g.Height, g.Radius, 0, 0)
	case Frustum:
		return sdf.Cone3D(g.Height, g.R0, g.R1, 0)
	case Torus:
		tube, err := sdf.Circle2D(g.Minor)
		if err != nil {
			return nil, err
		}
		return sdf.Revolve3D(sdf.Transform2D(tube, sdf.Translate2d(v2.Vec{X: g.Major})))
	case Transformed:
		inner, err := Surface(g.Inner)
		if err != nil {
			return nil, err
		}
		return sdf.Transform3D(inner, g.M), nil
	}
	return nil, fmt.Errorf("primitive: %T has no solid: %w", g, geom.ErrPrecondition)
}

// Region returns the signed distance field of a planar primitive in the
// z = 0 plane.
func Region(g Geometry) (sdf.SDF2, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	switch g := g.(type) {
	case Box:
		return sdf.Transform2D(sdf.Box2D(g.Size(), 0), sdf.Translate2d(g.Center())), nil
	case Disk:
		c, err := sdf.Circle2D(g.Radius)
		if err != nil {
			return nil, err
		}
		return sdf.Transform2D(c, sdf.Translate2d(g.Center)), nil
	}
	return nil, fmt.Errorf("primitive: %T is not planar: %w", g, geom.ErrPrecondition)
}
