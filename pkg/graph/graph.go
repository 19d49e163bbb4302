package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/primitive"
)

// DesignGraph is the top-level immutable data structure produced by Lisp evaluation.
// It is never mutated in place; each evaluation produces a new graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node
	Roots     []NodeID
	NameIndex map[string]NodeID
}

// New creates an empty DesignGraph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// SortedNodes returns every node ordered by ID, so the result does not
// depend on map iteration order.
func (g *DesignGraph) SortedNodes() []*Node {
	nodes := lo.Values(g.Nodes)
	slices.SortFunc(nodes, func(a, b *Node) int {
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return nodes
}

// OfKind returns the nodes of kind k ordered by ID.
func (g *DesignGraph) OfKind(k NodeKind) []*Node {
	return lo.Filter(g.SortedNodes(), func(n *Node, _ int) bool {
		return n.Kind == k
	})
}

// Names returns every node name in sorted order.
func (g *DesignGraph) Names() []string {
	return sortedKeys(g.NameIndex)
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}

// ErrNotPrimitive is returned by Resolve when a node does not lead to a
// parametric primitive.
var ErrNotPrimitive = errors.New("graph: not a primitive")

// Resolve follows a chain of transform nodes down to a primitive and
// returns the primitive placed by the composed transforms.
func (g *DesignGraph) Resolve(id NodeID) (primitive.Discretizable, error) {
	seen := make(map[NodeID]bool)
	var walk func(id NodeID) (primitive.Discretizable, error)
	walk = func(id NodeID) (primitive.Discretizable, error) {
		if seen[id] {
			return nil, fmt.Errorf("node %s: cycle: %w", id.Short(), geom.ErrPrecondition)
		}
		seen[id] = true

		n := g.Nodes[id]
		if n == nil {
			return nil, fmt.Errorf("node %s does not exist: %w", id.Short(), ErrNotPrimitive)
		}
		switch d := n.Data.(type) {
		case PrimitiveData:
			if d.Shape == nil {
				return nil, fmt.Errorf("node %q has no shape: %w", n.Label(), ErrNotPrimitive)
			}
			return d.Shape, nil
		case TransformData:
			if len(n.Children) != 1 {
				return nil, fmt.Errorf("transform %q has %d children: %w", n.Label(), len(n.Children), ErrNotPrimitive)
			}
			inner, err := walk(n.Children[0])
			if err != nil {
				return nil, err
			}
			return primitive.Place(inner, d.Matrix()), nil
		default:
			return nil, fmt.Errorf("%s node %q: %w", n.Kind, n.Label(), ErrNotPrimitive)
		}
	}
	return walk(id)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
