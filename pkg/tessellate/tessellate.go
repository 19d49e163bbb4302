// Package tessellate walks a design graph and runs its operations on a
// geometry kernel: discretize nodes become meshes, clip nodes become
// clipped polygons.
package tessellate

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/facet/pkg/clip"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/graph"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/logging"
	"github.com/chazu/facet/pkg/primitive"
)

// Region is a named planar result: a clip output or a polygon root.
type Region struct {
	Name    string
	Polygon geom.Polygon
}

// Output collects everything produced from a graph, in root order.
type Output struct {
	Meshes  []*kernel.Mesh
	Regions []Region
}

// transformStack accumulates placements during graph traversal.
type transformStack struct {
	ms []sdf.M44
}

func (ts *transformStack) push(m sdf.M44) { ts.ms = append(ts.ms, m) }
func (ts *transformStack) pop()           { ts.ms = ts.ms[:len(ts.ms)-1] }
func (ts *transformStack) empty() bool    { return len(ts.ms) == 0 }

// current returns the composed placement. Outer transforms were pushed
// first, so they apply last.
func (ts *transformStack) current() sdf.M44 {
	m := sdf.Identity3d()
	for _, t := range ts.ms {
		m = m.Mul(t)
	}
	return m
}

// Tessellate walks the roots of g and runs each operation on k. A root
// primitive, or a placed one, is discretized at the kernel's default
// resolution; a root polygon is passed through. The tessellator is
// read-only and never mutates the graph.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) (*Output, error) {
	out := &Output{}
	if g == nil {
		return out, nil
	}

	w := &walker{g: g, k: k, out: out}
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		if err := w.walk(root, nil, ""); err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
	}

	logging.Logger().Debug("tessellate: done",
		"roots", len(g.Roots), "meshes", len(out.Meshes), "regions", len(out.Regions))
	return out, nil
}

type walker struct {
	g   *graph.DesignGraph
	k   kernel.Kernel
	ts  transformStack
	out *Output
}

// walk visits n. sizes and part are inherited from the nearest enclosing
// discretize node.
func (w *walker) walk(n *graph.Node, sizes []int, part string) error {
	switch n.Kind {
	case graph.NodeGeometry:
		return w.handleGeometry(n, sizes, part)

	case graph.NodeTransform:
		return w.handleTransform(n, sizes, part)

	case graph.NodeDiscretize:
		dd, ok := n.Data.(graph.DiscretizeData)
		if !ok {
			return fmt.Errorf("discretize node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		if n.Name != "" {
			part = n.Name
		}
		for _, child := range w.g.Children(n) {
			if err := w.walk(child, dd.Sizes, part); err != nil {
				return err
			}
		}
		return nil

	case graph.NodeClip:
		return w.handleClip(n)

	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handleGeometry meshes a primitive under the current placement, or emits
// a polygon as a region.
func (w *walker) handleGeometry(n *graph.Node, sizes []int, part string) error {
	switch data := n.Data.(type) {
	case graph.PrimitiveData:
		shape := data.Shape
		if !w.ts.empty() {
			shape = primitive.Place(shape, w.ts.current())
		}

		mesh, err := w.k.Discretize(shape, sizes...)
		if err != nil {
			return fmt.Errorf("tessellate: Discretize failed for node %s: %w", n.ID.Short(), err)
		}

		// Set the part name: prefer the discretize node's name, then the
		// primitive's, then its short ID.
		if part == "" {
			part = n.Label()
		}
		mesh.PartName = part
		w.out.Meshes = append(w.out.Meshes, mesh)
		return nil

	case graph.PolygonData:
		if !w.ts.empty() {
			return fmt.Errorf("polygon node %s cannot be placed in 3-D: %w", n.ID.Short(), geom.ErrPrecondition)
		}
		w.out.Regions = append(w.out.Regions, Region{Name: n.Label(), Polygon: data.Polygon})
		return nil

	default:
		return fmt.Errorf("geometry node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// handleTransform pushes the transform, recurses into children, then pops.
func (w *walker) handleTransform(n *graph.Node, sizes []int, part string) error {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	w.ts.push(td.Matrix())
	defer w.ts.pop()

	for _, child := range w.g.Children(n) {
		if err := w.walk(child, sizes, part); err != nil {
			return err
		}
	}
	return nil
}

// handleClip clips the subject polygon against the region operand.
func (w *walker) handleClip(n *graph.Node) error {
	children := w.g.Children(n)
	if len(children) != 2 {
		return fmt.Errorf("clip node %s has %d operands, want 2", n.ID.Short(), len(children))
	}

	subject, ok := children[0].Data.(graph.PolygonData)
	if !ok {
		return fmt.Errorf("clip node %s: subject %s is not a polygon: %w", n.ID.Short(), children[0].Label(), geom.ErrPrecondition)
	}
	region, err := clipRegion(children[1])
	if err != nil {
		return fmt.Errorf("clip node %s: %w", n.ID.Short(), err)
	}

	p, err := w.k.Clip(subject.Polygon, region)
	if err != nil {
		return fmt.Errorf("tessellate: Clip failed for node %s: %w", n.ID.Short(), err)
	}
	w.out.Regions = append(w.out.Regions, Region{Name: n.Label(), Polygon: p})
	return nil
}

func clipRegion(n *graph.Node) (clip.Region, error) {
	switch data := n.Data.(type) {
	case graph.PolygonData:
		return data.Polygon, nil
	case graph.PrimitiveData:
		if r, ok := data.Shape.(clip.Region); ok {
			return r, nil
		}
	}
	return nil, fmt.Errorf("region %s is not a polygon or planar primitive: %w", n.Label(), geom.ErrPrecondition)
}
