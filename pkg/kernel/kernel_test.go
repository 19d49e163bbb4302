package kernel

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/facet/pkg/clip"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/primitive"
	"github.com/chazu/facet/pkg/topology"
)

// unitSquare is the z = 0 unit square as one quad facing +z.
func unitSquare() ([]v3.Vec, []topology.Element) {
	return []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		[]topology.Element{topology.Quad(0, 1, 2, 3)}
}

// tetrahedron is a closed outward-facing tetrahedron of volume 1/6.
func tetrahedron() ([]v3.Vec, []topology.Element) {
	return []v3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		[]topology.Element{
			topology.Tri(0, 2, 1),
			topology.Tri(0, 1, 3),
			topology.Tri(0, 3, 2),
			topology.Tri(1, 2, 3),
		}
}

// --- Mesh helper method tests ---

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name          string
		elems         []topology.Element
		wantElements  int
		wantQuads     int
		wantTriangles int
	}{
		{"empty", nil, 0, 0, 0},
		{"one triangle", []topology.Element{topology.Tri(0, 1, 2)}, 1, 0, 1},
		{"one quad", []topology.Element{topology.Quad(0, 1, 2, 3)}, 1, 1, 2},
		{"mixed", []topology.Element{topology.Quad(0, 1, 2, 3), topology.Tri(0, 1, 2), topology.Quad(0, 1, 2, 3)}, 3, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Elements: tt.elems}
			if got := m.ElementCount(); got != tt.wantElements {
				t.Errorf("ElementCount() = %d, want %d", got, tt.wantElements)
			}
			if got := m.QuadCount(); got != tt.wantQuads {
				t.Errorf("QuadCount() = %d, want %d", got, tt.wantQuads)
			}
			if got := m.TriangleCount(); got != tt.wantTriangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTriangles)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("points only", func(t *testing.T) {
		m := &Mesh{Points: []v3.Vec{{X: 1}}}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for a mesh without elements, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		pts, elems := unitSquare()
		m := &Mesh{Points: pts, Elements: elems}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestAssemble(t *testing.T) {
	pts, elems := tetrahedron()
	m, err := Assemble(pts, elems)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if m.VertexCount() != 4 || m.ElementCount() != 4 {
		t.Fatalf("Assemble() = %d points %d elements, want 4 and 4", m.VertexCount(), m.ElementCount())
	}

	// The mesh owns its storage.
	pts[0] = v3.Vec{X: 9}
	elems[0] = topology.Tri(3, 3, 3)
	if m.Points[0] != (v3.Vec{}) || m.Elements[0] != topology.Tri(0, 2, 1) {
		t.Error("Assemble() result aliases its inputs")
	}
}

func TestAssembleRejectsBadIndices(t *testing.T) {
	pts, _ := unitSquare()
	tests := []struct {
		name  string
		elems []topology.Element
	}{
		{"past end", []topology.Element{topology.Quad(0, 1, 2, 4)}},
		{"negative", []topology.Element{topology.Tri(-1, 1, 2)}},
		{"later element", []topology.Element{topology.Tri(0, 1, 2), topology.Tri(0, 2, 7)}},
		{"zero element", []topology.Element{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Assemble(pts, tt.elems)
			if !errors.Is(err, geom.ErrIndexOutOfRange) {
				t.Fatalf("Assemble() error = %v, want ErrIndexOutOfRange", err)
			}
			if m != nil {
				t.Error("Assemble() returned a partial mesh")
			}
		})
	}
}

func TestTriangles(t *testing.T) {
	pts, elems := unitSquare()
	m, _ := Assemble(pts, elems)
	var got [][3]int
	for tri := range m.Triangles() {
		got = append(got, tri)
	}
	want := [][3]int{{0, 1, 2}, {0, 2, 3}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Triangles() = %v, want %v", got, want)
	}
}

func TestSignedVolume(t *testing.T) {
	pts, elems := tetrahedron()
	m, _ := Assemble(pts, elems)
	if got := m.SignedVolume(); math.Abs(got-1.0/6) > 1e-15 {
		t.Errorf("SignedVolume() = %g, want 1/6", got)
	}
	for i, e := range m.Elements {
		m.Elements[i] = topology.Tri(e.V[0], e.V[2], e.V[1])
	}
	if got := m.SignedVolume(); got >= 0 {
		t.Errorf("SignedVolume() = %g for an inward mesh, want negative", got)
	}
}

func TestBuffers(t *testing.T) {
	pts, elems := unitSquare()
	m, _ := Assemble(pts, elems)
	m.PartName = "plate"
	b := m.Buffers()

	if b.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", b.VertexCount())
	}
	if b.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", b.TriangleCount())
	}
	if len(b.Vertices) != len(b.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(b.Vertices), len(b.Normals))
	}
	if b.PartName != "plate" {
		t.Errorf("PartName = %q, want %q", b.PartName, "plate")
	}
	for i := range b.VertexCount() {
		n := b.Normals[3*i : 3*i+3]
		if n[0] != 0 || n[1] != 0 || n[2] != 1 {
			t.Errorf("normal %d = %v, want [0 0 1]", i, n)
		}
	}
	wantIdx := []uint32{0, 1, 2, 0, 2, 3}
	for i, idx := range wantIdx {
		if b.Indices[i] != idx {
			t.Fatalf("Indices = %v, want %v", b.Indices, wantIdx)
		}
	}
}

func TestBuffersIsEmpty(t *testing.T) {
	if b := (&Mesh{}).Buffers(); !b.IsEmpty() {
		t.Error("IsEmpty() = false for buffers of an empty mesh, want true")
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Clip(p geom.Polygon, _ clip.Region) (geom.Polygon, error) {
	return p, nil
}

func (k *stubKernel) Discretize(_ primitive.Geometry, _ ...int) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Kernel = (*stubKernel)(nil)

func TestStubKernelDiscretize(t *testing.T) {
	var k Kernel = &stubKernel{}
	m, err := k.Discretize(primitive.Sphere{Radius: 1})
	if err != nil {
		t.Fatalf("Discretize() error = %v", err)
	}
	if m == nil {
		t.Fatal("Discretize() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub Discretize() should return empty mesh")
	}
}
