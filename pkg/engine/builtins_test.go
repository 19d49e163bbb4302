package engine

import (
	"math"
	"strings"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/facet/pkg/graph"
	"github.com/chazu/facet/pkg/primitive"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 2)`,
			expect: `(sphere "__kw_radius" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(torus :major 3 :minor 1)`,
			expect: `(torus "__kw_major" 3 "__kw_minor" 1)`,
		},
		{
			name:   "keyword with digit",
			input:  `(frustum :r0 2 :r1 1)`,
			expect: `(frustum "__kw_r0" 2 "__kw_r1" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def outer-ring (ring))`,
			expect: `(def outer_ring (ring))`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:cut-out`,
			expect: `"__kw_cut-out"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalOK evaluates source and fails the test on any error.
func evalOK(t *testing.T, source string) *graph.DesignGraph {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

// evalErr evaluates source and returns the eval errors, failing the test if
// there are none.
func evalErr(t *testing.T, source string) []EvalError {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil graph on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs
}

func shapeOf(t *testing.T, g *graph.DesignGraph, name string) primitive.Discretizable {
	t.Helper()
	n := g.Lookup(name)
	if n == nil {
		t.Fatalf("expected node named %q", name)
	}
	if n.Kind != graph.NodeGeometry {
		t.Fatalf("node %q kind = %s, want geometry", name, n.Kind)
	}
	pd, ok := n.Data.(graph.PrimitiveData)
	if !ok {
		t.Fatalf("node %q data = %T, want PrimitiveData", name, n.Data)
	}
	return pd.Shape
}

// ---------------------------------------------------------------------------
// Primitive builtins
// ---------------------------------------------------------------------------

func TestPrimitives(t *testing.T) {
	source := `
(sphere :radius 2 :name "ball")
(cylinder :radius 1 :height 4 :capped true :name "rod")
(cone :radius 1.5 :height 3 :name "spike")
(frustum :r0 2 :r1 1 :height 3 :capped false :name "bucket")
(torus :major 3 :minor 0.5 :name "ring")
(box :min (vec2 1 2) :size (vec2 4 2) :name "plate")
(disk :radius 2 :center (vec2 1 1) :segments 12 :name "lens")
`
	g := evalOK(t, source)
	if g.NodeCount() != 7 {
		t.Fatalf("expected 7 nodes, got %d", g.NodeCount())
	}

	tests := []struct {
		name string
		want primitive.Discretizable
	}{
		{"ball", primitive.Sphere{Radius: 2}},
		{"rod", primitive.Cylinder{Radius: 1, Height: 4, Capped: true}},
		{"spike", primitive.Cone{Radius: 1.5, Height: 3}},
		{"bucket", primitive.Frustum{R0: 2, R1: 1, Height: 3}},
		{"ring", primitive.Torus{Major: 3, Minor: 0.5}},
		{"plate", primitive.Box{Min: v2.Vec{X: 1, Y: 2}, Max: v2.Vec{X: 5, Y: 4}}},
		{"lens", primitive.Disk{Center: v2.Vec{X: 1, Y: 1}, Radius: 2, Segments: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shapeOf(t, g, tt.name); got != tt.want {
				t.Errorf("shape = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestVariableReference(t *testing.T) {
	source := `
(def r 19)
(sphere :radius r :name "ball")
`
	g := evalOK(t, source)
	s, ok := shapeOf(t, g, "ball").(primitive.Sphere)
	if !ok {
		t.Fatalf("expected Sphere, got %T", shapeOf(t, g, "ball"))
	}
	if s.Radius != 19 {
		t.Errorf("expected radius=19 (from variable), got %f", s.Radius)
	}
}

func TestAnonymousNodesDeterministic(t *testing.T) {
	source := `
(discretize (sphere :radius 1) 8 8)
(discretize (sphere :radius 2))
`
	a := evalOK(t, source)
	b := evalOK(t, source)
	if a.NodeCount() != 4 {
		t.Fatalf("expected 4 nodes, got %d", a.NodeCount())
	}
	for id := range a.Nodes {
		if b.Get(id) == nil {
			t.Errorf("node %s missing from second evaluation", id.Short())
		}
	}
	if len(a.Roots) != 2 || a.Roots[0] != b.Roots[0] || a.Roots[1] != b.Roots[1] {
		t.Errorf("roots differ between evaluations: %v vs %v", a.Roots, b.Roots)
	}
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

func TestPolygonAndClip(t *testing.T) {
	source := `
(def outer (ring (vec2 0 0) (vec2 8 0) (vec2 8 8) (vec2 0 8)))
(def hole (ring (vec2 3 3) (vec2 3 5) (vec2 5 5) (vec2 5 3)))
(polygon outer hole :name "sheet")
(clip (shape "sheet") (box :size (vec2 4 4)) :name "corner")
`
	g := evalOK(t, source)

	sheet := g.MustLookup("sheet")
	pd, ok := sheet.Data.(graph.PolygonData)
	if !ok {
		t.Fatalf("expected PolygonData, got %T", sheet.Data)
	}
	if pd.Polygon.NumRings() != 2 {
		t.Errorf("rings = %d, want 2", pd.Polygon.NumRings())
	}
	if math.Abs(pd.Polygon.Area()-60) > 1e-9 {
		t.Errorf("area = %g, want 60", pd.Polygon.Area())
	}

	corner := g.MustLookup("corner")
	if corner.Kind != graph.NodeClip {
		t.Errorf("expected NodeClip, got %s", corner.Kind)
	}
	if len(corner.Children) != 2 || corner.Children[0] != sheet.ID {
		t.Errorf("clip children = %v, want sheet first", corner.Children)
	}
	if len(g.Roots) != 1 || g.Roots[0] != corner.ID {
		t.Errorf("roots = %v, want [corner]", g.Roots)
	}
}

func TestPolygonFromList(t *testing.T) {
	source := `
(def tri (polygon (list (vec2 0 0) (vec2 4 0) (vec2 0 4)) :name "tri"))
(clip tri (disk :radius 1))
`
	g := evalOK(t, source)
	pd := g.MustLookup("tri").Data.(graph.PolygonData)
	if math.Abs(pd.Polygon.Area()-8) > 1e-9 {
		t.Errorf("area = %g, want 8", pd.Polygon.Area())
	}
}

func TestPlaceAndDiscretize(t *testing.T) {
	source := `
(def ball (sphere :radius 1 :name "ball"))
(def moved (place ball :at (vec3 0 0 5) :rotate (vec3 0 0 90) :name "moved"))
(discretize moved 8 16 :name "mesh")
`
	g := evalOK(t, source)

	moved := g.MustLookup("moved")
	if moved.Kind != graph.NodeTransform {
		t.Fatalf("expected NodeTransform, got %s", moved.Kind)
	}
	td := moved.Data.(graph.TransformData)
	if td.Translation == nil || td.Translation.Z != 5 {
		t.Errorf("translation = %v, want z=5", td.Translation)
	}
	if td.Rotation == nil || td.Rotation.Z != 90 {
		t.Errorf("rotation = %v, want z=90", td.Rotation)
	}

	mesh := g.MustLookup("mesh")
	dd, ok := mesh.Data.(graph.DiscretizeData)
	if !ok {
		t.Fatalf("expected DiscretizeData, got %T", mesh.Data)
	}
	if len(dd.Sizes) != 2 || dd.Sizes[0] != 8 || dd.Sizes[1] != 16 {
		t.Errorf("sizes = %v, want [8 16]", dd.Sizes)
	}
	if len(mesh.Children) != 1 || mesh.Children[0] != moved.ID {
		t.Errorf("discretize children = %v, want [moved]", mesh.Children)
	}

	placed, err := g.Resolve(mesh.Children[0])
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	north := placed.Poles()[0]
	if math.Abs(north.Z-6) > 1e-12 {
		t.Errorf("placed north pole = %v, want z=6", north)
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"missing shape", `(shape "nonexistent")`, "no shape named"},
		{"duplicate name", `(sphere :radius 1 :name "a") (torus :major 2 :minor 1 :name "a")`, `name "a" already used`},
		{"bad radius type", `(sphere :radius "big")`, "sphere: radius: expected number"},
		{"positional to primitive", `(sphere 1)`, "keyword arguments only"},
		{"box without size", `(box :min (vec2 0 0))`, "requires :size"},
		{"float segments", `(disk :radius 1 :segments 2.5)`, "expected integer"},
		{"capped not bool", `(cylinder :radius 1 :height 1 :capped 1)`, "expected true or false"},
		{"vec2 arity", `(vec2 1)`, "exactly 2 arguments"},
		{"ring of numbers", `(ring 1 2 3)`, "expected vec2"},
		{"clip arity", `(clip (disk :radius 1))`, "requires a subject and a region"},
		{"discretize float size", `(discretize (sphere :radius 1) 4.5)`, "expected integer"},
		{"place non-node", `(place 3)`, "expected node reference"},
		{"clip sphere region", `(clip (polygon (ring (vec2 0 0) (vec2 1 0) (vec2 0 1))) (sphere :radius 1))`, "not a polygon or planar primitive"},
		{"discretize polygon", `(discretize (polygon (ring (vec2 0 0) (vec2 1 0) (vec2 0 1))))`, "not a primitive"},
		{"degenerate torus", `(discretize (torus :major 1 :minor 2 :name "fat"))`, `primitive "fat"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalErrs := evalErr(t, tt.source)
			found := false
			for _, e := range evalErrs {
				if strings.Contains(e.Message, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %v, want one containing %q", evalErrs, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Non-DSL code still works
// ---------------------------------------------------------------------------

func TestEmptySourceStillWorks(t *testing.T) {
	g := evalOK(t, "")
	if g.NodeCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.NodeCount())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	g := evalOK(t, `(def r (* 2 3)) (discretize (sphere :radius r :name "ball"))`)
	s := shapeOf(t, g, "ball").(primitive.Sphere)
	if s.Radius != 6 {
		t.Errorf("radius = %g, want 6", s.Radius)
	}
}
