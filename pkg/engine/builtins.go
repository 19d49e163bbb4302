package engine

import (
	"fmt"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/graph"
	"github.com/chazu/facet/pkg/primitive"
)

// ---------------------------------------------------------------------------
// Node construction
// ---------------------------------------------------------------------------

// builder adds nodes to the graph of one evaluation. Anonymous nodes are
// numbered per evaluation, so the same source always yields the same IDs.
type builder struct {
	g    *graph.DesignGraph
	anon int
}

// add creates a node with an ID derived from kind and name. Names must be
// unique within a program.
func (b *builder) add(kind, name string, nk graph.NodeKind, children []graph.NodeID, data graph.NodeData) (*sexpNodeRef, error) {
	var path string
	if name == "" {
		b.anon++
		path = fmt.Sprintf("%s/_anon_%d", kind, b.anon)
	} else {
		if prev := b.g.Lookup(name); prev != nil {
			return nil, fmt.Errorf("%s: name %q already used by a %s node", kind, name, prev.Kind)
		}
		path = kind + "/" + name
	}

	id := graph.NewNodeID(path)
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     nk,
		Name:     name,
		Children: children,
		Data:     data,
	})
	return &sexpNodeRef{id: id, name: name}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// primitiveBuilders construct a shape from keyword arguments. Dimensions
// are not checked here; graph validation reports degenerate shapes with
// the node they belong to.
var primitiveBuilders = map[string]func(pa kwArgs) (primitive.Discretizable, error){
	// (box :min (vec2 0 0) :size (vec2 4 2))
	"box": func(pa kwArgs) (primitive.Discretizable, error) {
		var origin, size v2.Vec
		if v, ok := pa.kw["min"]; ok {
			p, err := toVec2(v)
			if err != nil {
				return nil, fmt.Errorf("min: %w", err)
			}
			origin = p
		}
		v, ok := pa.kw["size"]
		if !ok {
			return nil, fmt.Errorf("requires :size")
		}
		size, err := toVec2(v)
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		return primitive.NewBox(origin, size), nil
	},

	// (disk :radius 2 :center (vec2 1 1) :segments 32)
	"disk": func(pa kwArgs) (primitive.Discretizable, error) {
		var d primitive.Disk
		if err := pa.float("radius", &d.Radius); err != nil {
			return nil, err
		}
		if v, ok := pa.kw["center"]; ok {
			c, err := toVec2(v)
			if err != nil {
				return nil, fmt.Errorf("center: %w", err)
			}
			d.Center = c
		}
		if v, ok := pa.kw["segments"]; ok {
			n, err := toInt(v)
			if err != nil {
				return nil, fmt.Errorf("segments: %w", err)
			}
			d.Segments = n
		}
		return d, nil
	},

	// (sphere :radius 1)
	"sphere": func(pa kwArgs) (primitive.Discretizable, error) {
		var s primitive.Sphere
		if err := pa.float("radius", &s.Radius); err != nil {
			return nil, err
		}
		return s, nil
	},

	// (cylinder :radius 1 :height 2 :capped true)
	"cylinder": func(pa kwArgs) (primitive.Discretizable, error) {
		var c primitive.Cylinder
		if err := pa.floats(map[string]*float64{"radius": &c.Radius, "height": &c.Height}); err != nil {
			return nil, err
		}
		var err error
		c.Capped, err = cappedArg(pa)
		return c, err
	},

	// (cone :radius 1 :height 2 :capped true)
	"cone": func(pa kwArgs) (primitive.Discretizable, error) {
		var c primitive.Cone
		if err := pa.floats(map[string]*float64{"radius": &c.Radius, "height": &c.Height}); err != nil {
			return nil, err
		}
		var err error
		c.Capped, err = cappedArg(pa)
		return c, err
	},

	// (frustum :r0 2 :r1 1 :height 3)
	"frustum": func(pa kwArgs) (primitive.Discretizable, error) {
		var f primitive.Frustum
		if err := pa.floats(map[string]*float64{"r0": &f.R0, "r1": &f.R1, "height": &f.Height}); err != nil {
			return nil, err
		}
		var err error
		f.Capped, err = cappedArg(pa)
		return f, err
	},

	// (torus :major 3 :minor 1)
	"torus": func(pa kwArgs) (primitive.Discretizable, error) {
		var t primitive.Torus
		if err := pa.floats(map[string]*float64{"major": &t.Major, "minor": &t.Minor}); err != nil {
			return nil, err
		}
		return t, nil
	},
}

func cappedArg(pa kwArgs) (bool, error) {
	v, ok := pa.kw["capped"]
	if !ok {
		return false, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("capped: %w", err)
	}
	return b, nil
}

// registerBuiltins installs all facet DSL builtins into a zygomys environment.
// The builtins operate on the provided DesignGraph, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	b := &builder{g: g}

	for _, kind := range sortedKeys(primitiveBuilders) {
		build := primitiveBuilders[kind]
		env.AddFunction(kind, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) > 0 {
				return zygo.SexpNull, fmt.Errorf("%s takes keyword arguments only", kind)
			}
			shape, err := build(pa)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			nodeName, err := pa.name()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			ref, err := b.add(kind, nodeName, graph.NodeGeometry, nil, graph.PrimitiveData{Shape: shape})
			if err != nil {
				return zygo.SexpNull, err
			}
			return ref, nil
		})
	}

	// -----------------------------------------------------------------------
	// (vec2 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}

		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (ring (vec2 0 0) (vec2 4 0) (vec2 4 4))
	// -----------------------------------------------------------------------
	env.AddFunction("ring", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ring, err := pointsToRing(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ring: %w", err)
		}
		return &sexpRing{ring: ring}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (ring ...) (ring ...) :name "sheet")
	//
	// The first ring is the outer boundary, the rest are holes.
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("polygon requires an outer ring")
		}

		rings := make([]geom.Ring, 0, len(pa.positional))
		for i, arg := range pa.positional {
			r, err := toRing(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: ring %d: %w", i, err)
			}
			rings = append(rings, r)
		}

		nodeName, err := pa.name()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		ref, err := b.add("polygon", nodeName, graph.NodeGeometry, nil, graph.PolygonData{Polygon: geom.NewPolygon(rings...)})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (shape "name")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}

		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}

		n := g.Lookup(shapeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}

		return &sexpNodeRef{id: n.ID, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (shape "ball") :at (vec3 0 0 5) :rotate (vec3 0 90 0))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("place requires exactly one shape reference")
		}

		childID, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: shape: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}

		nodeName, err := pa.name()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		ref, err := b.add("place", nodeName, graph.NodeTransform, []graph.NodeID{childID}, td)
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (clip (shape "sheet") (box :size (vec2 2 2)) :name "cut")
	// -----------------------------------------------------------------------
	env.AddFunction("clip", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("clip requires a subject and a region, got %d arguments", len(pa.positional))
		}

		subject, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: subject: %w", err)
		}
		region, err := toNodeRef(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: region: %w", err)
		}

		nodeName, err := pa.name()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: %w", err)
		}
		ref, err := b.add("clip", nodeName, graph.NodeClip, []graph.NodeID{subject, region}, graph.ClipData{})
		if err != nil {
			return zygo.SexpNull, err
		}
		g.AddRoot(ref.id)
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (discretize (shape "ball") 16 32 :name "ball-mesh")
	//
	// Positional integers are samples per parameter axis; missing axes use
	// the kernel default.
	// -----------------------------------------------------------------------
	env.AddFunction("discretize", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("discretize requires a shape reference")
		}

		childID, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("discretize: shape: %w", err)
		}

		var dd graph.DiscretizeData
		for i, arg := range pa.positional[1:] {
			n, err := toInt(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("discretize: size %d: %w", i, err)
			}
			dd.Sizes = append(dd.Sizes, n)
		}

		nodeName, err := pa.name()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("discretize: %w", err)
		}
		ref, err := b.add("discretize", nodeName, graph.NodeDiscretize, []graph.NodeID{childID}, dd)
		if err != nil {
			return zygo.SexpNull, err
		}
		g.AddRoot(ref.id)
		return ref, nil
	})
}
