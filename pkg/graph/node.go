package graph

import "github.com/google/uuid"

// namespace scopes every node ID to facet designs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/facet/graph"))

// NodeID identifies a node. IDs are name-based UUIDs derived from the
// node's path in the source, so evaluating the same program twice yields
// the same IDs.
type NodeID uuid.UUID

// ZeroID is the NodeID that refers to nothing.
var ZeroID NodeID

// NewNodeID returns the ID for a node path such as "sphere/ball".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(namespace, []byte(path)))
}

// IsZero reports whether id is ZeroID.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first 8 hex digits, enough to tell nodes apart in
// messages.
func (id NodeID) Short() string {
	return id.String()[:8]
}

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodeGeometry   NodeKind = iota // primitive or polygon
	NodeTransform                  // rigid placement (place)
	NodeClip                       // convex clip of a polygon
	NodeDiscretize                 // mesh of a primitive
)

func (k NodeKind) String() string {
	switch k {
	case NodeGeometry:
		return "geometry"
	case NodeTransform:
		return "transform"
	case NodeClip:
		return "clip"
	case NodeDiscretize:
		return "discretize"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	Children []NodeID
	Data     NodeData
}

// Label returns the node's name, or its short ID when it has none.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
