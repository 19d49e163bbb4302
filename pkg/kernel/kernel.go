// Package kernel defines the abstract geometry kernel interface and the
// mesh it produces. Implementations (grid, sdfx) clip planar regions and
// discretize primitives behind this interface, so callers can swap the
// exact parametric backend for the approximate field-based one without
// changing anything else.
package kernel

import (
	"github.com/chazu/facet/pkg/clip"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/primitive"
)

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Clip returns the part of p inside the convex region.
	Clip(p geom.Polygon, region clip.Region) (geom.Polygon, error)

	// Discretize turns g into a mesh. sizes gives the sample count per
	// parameter axis; how missing sizes are filled in is up to the kernel.
	Discretize(g primitive.Geometry, sizes ...int) (*Mesh, error)
}
