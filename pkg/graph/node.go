package graph

// NodeKind enumerates the types of nodes in the build tree.
type NodeKind int

const (
	NodePrimitive  NodeKind = iota // geometric primitive (box, cylinder, extrusion, text)
	NodeUnion                      // additive boolean of two children
	NodeDifference                 // first child minus second child
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeUnion:
		return "union"
	case NodeDifference:
		return "difference"
	default:
		return "unknown"
	}
}

// IsBoolean reports whether the kind combines two children.
func (k NodeKind) IsBoolean() bool {
	return k == NodeUnion || k == NodeDifference
}

// Node is the fundamental element of the build tree.
// Primitive nodes carry Data and no children; boolean nodes carry exactly
// two children and no Data.
type Node struct {
	Kind      NodeKind  `json:"kind"`
	Name      string    `json:"name,omitempty"`
	Placement Placement `json:"placement"`
	Children  []*Node   `json:"children,omitempty"`
	Data      NodeData  `json:"data,omitempty"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
