package graph

import (
	"fmt"

	"github.com/chazu/facet/pkg/clip"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs all structural and geometric checks on the design graph
// and returns the findings. An empty slice means the graph is valid. This
// function is read-only and never mutates the graph.
func Validate(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateArity(g)...)
	errs = append(errs, validateOperands(g)...)
	errs = append(errs, validateGeometry(g)...)
	return errs
}

// Errors returns only the blocking findings.
func Errors(findings []ValidationError) []ValidationError {
	var errs []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		}
	}
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(g *DesignGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int) // default zero = white
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	// Start DFS from every node to catch disconnected components.
	for _, n := range g.SortedNodes() {
		if color[n.ID] == white {
			if visit(n.ID) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child ID points to a node that
// actually exists in g.Nodes.
func validateReferences(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.SortedNodes() {
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that every entry in NameIndex points to an existing
// node carrying that name, and that no two nodes share a name.
func validateNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, name := range g.Names() {
		id := g.NameIndex[name]
		n, ok := g.Nodes[id]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if n.Name != name {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("name index entry %q points at a node named %q", name, n.Name),
				Severity: SeverityError,
			})
		}
	}

	seen := make(map[string]int)
	for _, node := range g.SortedNodes() {
		if node.Name != "" {
			seen[node.Name]++
		}
	}
	for _, name := range sortedKeys(seen) {
		if seen[name] > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, seen[name]),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root ID references an existing node and
// warns about orphan nodes (nodes unreachable from any root).
func validateRoots(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	// Orphan detection: BFS from all roots through Children edges.
	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		node := g.Nodes[queue[0]]
		queue = queue[1:]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for _, node := range g.SortedNodes() {
		if !reachable[node.ID] {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", node.Label()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateArity checks each node has the children its kind consumes and
// data of the matching type.
func validateArity(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range g.SortedNodes() {
		want := 0
		switch n.Kind {
		case NodeGeometry:
			switch n.Data.(type) {
			case PrimitiveData, PolygonData:
			default:
				bad(n, "geometry node has %T data", n.Data)
			}
		case NodeTransform:
			want = 1
			if _, ok := n.Data.(TransformData); !ok {
				bad(n, "transform node has %T data", n.Data)
			}
		case NodeClip:
			want = 2
			if _, ok := n.Data.(ClipData); !ok {
				bad(n, "clip node has %T data", n.Data)
			}
		case NodeDiscretize:
			want = 1
			if _, ok := n.Data.(DiscretizeData); !ok {
				bad(n, "discretize node has %T data", n.Data)
			}
		default:
			bad(n, "unknown node kind %d", int(n.Kind))
			continue
		}
		if len(n.Children) != want {
			bad(n, "%s node %q has %d children, want %d", n.Kind, n.Label(), len(n.Children), want)
		}
	}
	return errs
}

// validateOperands checks that operations are applied to geometry they
// accept: a clip takes a polygon and a planar region, a discretize node
// takes a (possibly placed) primitive.
func validateOperands(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range g.SortedNodes() {
		switch n.Kind {
		case NodeClip:
			if len(n.Children) != 2 {
				continue
			}
			subject, region := g.Get(n.Children[0]), g.Get(n.Children[1])
			if subject != nil {
				if _, ok := subject.Data.(PolygonData); !ok {
					bad(n, "clip %q subject %q is not a polygon", n.Label(), subject.Label())
				}
			}
			if region != nil && !isRegion(region) {
				bad(n, "clip %q region %q is not a polygon or planar primitive", n.Label(), region.Label())
			}
		case NodeDiscretize, NodeTransform:
			if len(n.Children) != 1 {
				continue
			}
			if _, err := g.Resolve(n.Children[0]); err != nil {
				bad(n, "%s %q: %v", n.Kind, n.Label(), err)
			}
		}
	}
	return errs
}

func isRegion(n *Node) bool {
	switch d := n.Data.(type) {
	case PolygonData:
		return true
	case PrimitiveData:
		_, ok := d.Shape.(clip.Region)
		return ok
	}
	return false
}

// validateGeometry reports primitives with degenerate dimensions.
func validateGeometry(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, n := range g.OfKind(NodeGeometry) {
		d, ok := n.Data.(PrimitiveData)
		if !ok {
			continue
		}
		if d.Shape == nil {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("primitive %q has no shape", n.Label()),
				Severity: SeverityError,
			})
			continue
		}
		if err := d.Shape.Validate(); err != nil {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("primitive %q: %v", n.Label(), err),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
