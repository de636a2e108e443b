package graph

import "fmt"

// DetectorGraph is the top-level immutable data structure produced by
// evaluating a detector description. Roots are the root volumes in the
// order they were declared.
type DetectorGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
}

// New creates an empty DetectorGraph.
func New() *DetectorGraph {
	return &DetectorGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *DetectorGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DetectorGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given name, or nil.
func (g *DetectorGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DetectorGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DetectorGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Volumes returns the root volume nodes in declaration order. Roots that do
// not exist or are not volumes are skipped.
func (g *DetectorGraph) Volumes() []*Node {
	vols := make([]*Node, 0, len(g.Roots))
	for _, id := range g.Roots {
		if n := g.Nodes[id]; n != nil && n.Kind == NodeVolume {
			vols = append(vols, n)
		}
	}
	return vols
}

// Children returns the child nodes of the given node.
func (g *DetectorGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DetectorGraph) NodeCount() int {
	return len(g.Nodes)
}
