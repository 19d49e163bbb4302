// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Primitives become signed
// distance fields and are meshed with marching cubes, so the result only
// approximates the surface and follows no parametric grid.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/clip"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/logging"
	"github.com/chazu/facet/pkg/primitive"
	"github.com/chazu/facet/pkg/topology"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 64

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithCells sets the marching cubes resolution along the longest side of
// the bounding box, used when Discretize gets no size.
func WithCells(n int) Option {
	return func(k *SdfxKernel) {
		k.cells = n
	}
}

// WithTolerance sets the clipping tolerance.
func WithTolerance(tol float64) Option {
	return func(k *SdfxKernel) {
		k.tol = tol
	}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
	tol   float64
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: defaultMeshCells, tol: geom.DefaultTolerance}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Clip returns the part of p inside region. Clipping is planar and exact,
// so it is the same as the grid kernel's.
func (k *SdfxKernel) Clip(p geom.Polygon, region clip.Region) (geom.Polygon, error) {
	return clip.Clip(p, region, clip.WithTolerance(k.tol))
}

// BoundingBox returns the bounds of the field built for g.
func (k *SdfxKernel) BoundingBox(g primitive.Geometry) (sdf.Box3, error) {
	s, err := primitive.Surface(g)
	if err != nil {
		return sdf.Box3{}, fmt.Errorf("sdfx: %T: %w", g, err)
	}
	return s.BoundingBox(), nil
}

// Discretize meshes the solid bounded by g with marching cubes. The
// optional single size overrides the cell count. Planar primitives have no
// solid and fail with geom.ErrPrecondition.
func (k *SdfxKernel) Discretize(g primitive.Geometry, sizes ...int) (*kernel.Mesh, error) {
	if g == nil {
		return nil, fmt.Errorf("sdfx: nil geometry: %w", geom.ErrPrecondition)
	}
	cells := k.cells
	switch len(sizes) {
	case 0:
	case 1:
		cells = sizes[0]
	default:
		return nil, fmt.Errorf("sdfx: %d sizes, marching cubes takes one cell count: %w", len(sizes), geom.ErrInvalidResolution)
	}
	if cells < 2 {
		return nil, fmt.Errorf("sdfx: %d cells: %w", cells, geom.ErrInvalidResolution)
	}
	s, err := primitive.Surface(g)
	if err != nil {
		return nil, fmt.Errorf("sdfx: %T: %w", g, err)
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	// Marching cubes emits every triangle with its own corners; weld equal
	// corners into shared points.
	index := make(map[v3.Vec]int, len(triangles))
	points := make([]v3.Vec, 0, len(triangles))
	elems := make([]topology.Element, 0, len(triangles))
	for _, tri := range triangles {
		var idx [3]int
		for j := 0; j < 3; j++ {
			v := tri[j]
			i, ok := index[v]
			if !ok {
				i = len(points)
				index[v] = i
				points = append(points, v)
			}
			idx[j] = i
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[2] == idx[0] {
			continue
		}
		elems = append(elems, topology.Tri(idx[0], idx[1], idx[2]))
	}

	m, err := kernel.Assemble(points, elems)
	if err != nil {
		return nil, fmt.Errorf("sdfx: %T: %w", g, err)
	}
	logging.Logger().Debug("sdfx: meshed",
		"primitive", fmt.Sprintf("%T", g),
		"cells", cells,
		"triangles", len(triangles),
		"points", m.VertexCount())
	return m, nil
}
