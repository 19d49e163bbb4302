package kernel

import (
	"fmt"
	"iter"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/topology"
)

// Mesh is a polygonal surface: shared points plus triangle and quad
// elements that index into them. Every element winds counter-clockwise
// seen from outside.
type Mesh struct {
	Points   []v3.Vec
	Elements []topology.Element
	PartName string // which design graph part this came from
}

// Assemble builds a mesh from points and connectivity. Every index must
// refer to a point; otherwise Assemble fails with geom.ErrIndexOutOfRange.
// Both slices are copied, so the mesh shares no memory with the caller.
func Assemble(points []v3.Vec, elems []topology.Element) (*Mesh, error) {
	for k, e := range elems {
		if e.N != 3 && e.N != 4 {
			return nil, fmt.Errorf("kernel: element %d has %d corners: %w", k, e.N, geom.ErrIndexOutOfRange)
		}
		for _, idx := range e.Indices() {
			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("kernel: element %d references point %d of %d: %w", k, idx, len(points), geom.ErrIndexOutOfRange)
			}
		}
	}
	return &Mesh{
		Points:   slices.Clone(points),
		Elements: slices.Clone(elems),
	}, nil
}

// VertexCount returns the number of points.
func (m *Mesh) VertexCount() int {
	return len(m.Points)
}

// ElementCount returns the number of triangles and quads.
func (m *Mesh) ElementCount() int {
	return len(m.Elements)
}

// QuadCount returns the number of quad elements.
func (m *Mesh) QuadCount() int {
	return lo.CountBy(m.Elements, func(e topology.Element) bool { return !e.IsTriangle() })
}

// TriangleCount returns the number of triangles after splitting quads.
func (m *Mesh) TriangleCount() int {
	return len(m.Elements) + m.QuadCount()
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Elements) == 0
}

// Triangles yields the mesh as triangles. A quad (a b c d) splits into
// (a b c) and (a c d).
func (m *Mesh) Triangles() iter.Seq[[3]int] {
	return func(yield func([3]int) bool) {
		for _, e := range m.Elements {
			v := e.V
			if !yield([3]int{v[0], v[1], v[2]}) {
				return
			}
			if e.N == 4 && !yield([3]int{v[0], v[2], v[3]}) {
				return
			}
		}
	}
}

// SignedVolume returns the volume enclosed by the mesh, positive when the
// elements face outward. It is only meaningful for closed meshes.
func (m *Mesh) SignedVolume() float64 {
	tris := slices.Collect(m.Triangles())
	return lo.SumBy(tris, func(t [3]int) float64 {
		a, b, c := m.Points[t[0]], m.Points[t[1]], m.Points[t[2]]
		return a.Dot(b.Cross(c)) / 6
	})
}

// Buffers is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Buffers struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"`
}

// Buffers converts the mesh to render buffers. Vertex normals are the
// area-weighted average of the adjacent face normals.
func (m *Mesh) Buffers() *Buffers {
	normals := make([]v3.Vec, len(m.Points))
	indices := make([]uint32, 0, 3*m.TriangleCount())
	for t := range m.Triangles() {
		a, b, c := m.Points[t[0]], m.Points[t[1]], m.Points[t[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range t {
			normals[idx] = normals[idx].Add(n)
			indices = append(indices, uint32(idx))
		}
	}

	out := &Buffers{
		Vertices: make([]float32, 0, 3*len(m.Points)),
		Normals:  make([]float32, 0, 3*len(m.Points)),
		Indices:  indices,
		PartName: m.PartName,
	}
	for i, p := range m.Points {
		n := normals[i]
		if l := n.Length(); l > 0 {
			n = n.MulScalar(1 / l)
		}
		out.Vertices = append(out.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		out.Normals = append(out.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return out
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty returns true if the buffers hold no geometry.
func (b *Buffers) IsEmpty() bool {
	return len(b.Vertices) == 0
}
