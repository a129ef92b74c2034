// Package tree implements syntax tree produced by parser.
//
// Tree is an arena: nodes and edges are stored in creation order and referenced by integer ids.
// Parent id is stored at node creation and never changes.
package tree

import (
	"strings"
)

// NoNode is the parent id of root and the result of failed lookups.
const NoNode = -1

// Node is a syntax tree node. Label is a grammar symbol, a matched lexeme, or epsilon.
// Token is the index of matched token in parser input or -1.
type Node struct {
	ID       int
	Label    string
	Terminal bool
	Parent   int
	Token    int
}

// Edge connects parent (Source) and child (Target) nodes.
type Edge struct {
	ID, Source, Target int
}

// Tree is a syntax tree. Tree is not safe for concurrent modification.
type Tree struct {
	nodes    []Node
	edges    []Edge
	children [][]int
}

// New creates empty tree.
func New() *Tree {
	return &Tree{}
}

// Add creates a node and an edge from parent to it, returns node id.
// Parent must be NoNode for root. Returns NoNode if parent does not exist.
func (t *Tree) Add(parent int, label string, terminal bool) int {
	if parent != NoNode && !t.has(parent) {
		return NoNode
	}

	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{id, label, terminal, parent, -1})
	t.children = append(t.children, nil)
	if parent != NoNode {
		t.edges = append(t.edges, Edge{len(t.edges), parent, id})
		t.children[parent] = append(t.children[parent], id)
	}
	return id
}

// SetToken binds matched token index to a node.
func (t *Tree) SetToken(id, token int) {
	if t.has(id) {
		t.nodes[id].Token = token
	}
}

func (t *Tree) has(id int) bool {
	return id >= 0 && id < len(t.nodes)
}

// Node returns node by id.
func (t *Tree) Node(id int) (Node, bool) {
	if !t.has(id) {
		return Node{ID: NoNode, Parent: NoNode, Token: -1}, false
	}
	return t.nodes[id], true
}

// Root returns id of the first root node or NoNode.
func (t *Tree) Root() int {
	for _, n := range t.nodes {
		if n.Parent == NoNode {
			return n.ID
		}
	}
	return NoNode
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Nodes returns a copy of nodes in creation order.
func (t *Tree) Nodes() []Node {
	return append([]Node(nil), t.nodes...)
}

// Edges returns a copy of edges in creation order.
func (t *Tree) Edges() []Edge {
	return append([]Edge(nil), t.edges...)
}

// Children returns child ids in left-to-right order.
func (t *Tree) Children(id int) []int {
	if !t.has(id) {
		return nil
	}
	return append([]int(nil), t.children[id]...)
}

// Reset removes all nodes.
func (t *Tree) Reset() {
	t.nodes = nil
	t.edges = nil
	t.children = nil
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	res := &Tree{
		nodes:    t.Nodes(),
		edges:    t.Edges(),
		children: make([][]int, len(t.children)),
	}
	for i, c := range t.children {
		res.children[i] = append([]int(nil), c...)
	}
	return res
}

// String returns indented text representation, one node per line.
func (t *Tree) String() string {
	var sb strings.Builder
	root := t.Root()
	if root == NoNode {
		return ""
	}

	Walk(t, root, WalkLtr, func(n Node) (bool, bool) {
		sb.WriteString(strings.Repeat("  ", NodeLevel(t, n.ID)))
		sb.WriteString(n.Label)
		sb.WriteByte('\n')
		return true, true
	})
	return sb.String()
}
