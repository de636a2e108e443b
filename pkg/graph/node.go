package graph

import (
	"github.com/google/uuid"
)

// NodeKind enumerates the types of nodes in the detector graph.
type NodeKind int

const (
	NodeShape     NodeKind = iota // primitive solid (box, cylinder, tube, sphere)
	NodeBoolean                   // union, difference or intersection of two nodes
	NodeTransform                 // placement of a child node (place)
	NodeVolume                    // named root volume
)

func (k NodeKind) String() string {
	switch k {
	case NodeShape:
		return "shape"
	case NodeBoolean:
		return "boolean"
	case NodeTransform:
		return "transform"
	case NodeVolume:
		return "volume"
	default:
		return "unknown"
	}
}

// arity is the number of children a node of this kind must have.
func (k NodeKind) arity() int {
	switch k {
	case NodeBoolean:
		return 2
	case NodeTransform, NodeVolume:
		return 1
	default:
		return 0
	}
}

// NodeID is a name-derived identifier for graph nodes. The same path always
// yields the same ID.
type NodeID uuid.UUID

// ZeroID is the empty NodeID.
var ZeroID NodeID

var idSpace = uuid.MustParse("5b4c7f0e-3f7a-4b59-9a2e-d1e7c0a8d9f1")

// NewNodeID derives a NodeID from a path such as "volume/calo".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(idSpace, []byte(path)))
}

// IsZero reports whether id is the ZeroID.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first 8 hex digits of the ID.
func (id NodeID) Short() string {
	return id.String()[:8]
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

// Node is the fundamental element of the detector graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
