package model

import "fmt"

// NodeID identifies a node inside its Tree
type NodeID int

// NoNode is the absent node reference (the root's parent)
const NoNode NodeID = -1

// Node is one element of the structure tree. The tree owns its nodes; Parent
// is a lookup index, not an ownership link.
type Node struct {
	Kind Kind
	BBox BBox

	// Type is the current classification; TypeNone means unclassified
	Type SemanticType

	// InitialType is the structure hint from the source document. It is set
	// once by the extractor and never overwritten.
	InitialType SemanticType

	// Score is the correctness score in [0,1], valid when HasScore is set
	Score    float64
	HasScore bool

	// Payload: Lines for Span leaves, Image for Image leaves, LineArt for
	// Figure leaves
	Lines   []TextLine
	Image   *ImageChunk
	LineArt *LineArtChunk

	Children []NodeID
	Parent   NodeID

	// StructureID is the ID of the recognized table a cell node belongs to
	StructureID int
}

// SetScore records a correctness score
func (n *Node) SetScore(score float64) {
	n.Score = score
	n.HasScore = true
}

// Tree is an arena of nodes. IDs are indices into the arena and stay stable
// for the lifetime of the tree.
type Tree struct {
	nodes []*Node
	root  NodeID
}

// NewTree creates a tree whose root is the given node
func NewTree(root Node) *Tree {
	t := &Tree{root: NoNode}
	root.Parent = NoNode
	root.Children = nil
	t.nodes = append(t.nodes, &root)
	t.root = 0
	return t
}

// Root returns the root node ID
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes in the arena
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID. The pointer stays valid when
// further nodes are added.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

// Valid reports whether id refers to a node of this tree
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// AddNode appends n as the last child of parent and returns its ID
func (t *Tree) AddNode(parent NodeID, n Node) NodeID {
	if !t.Valid(parent) {
		panic(fmt.Sprintf("model: AddNode with invalid parent %d", parent))
	}
	id := NodeID(len(t.nodes))
	n.Parent = parent
	n.Children = nil
	t.nodes = append(t.nodes, &n)
	p := t.nodes[parent]
	p.Children = append(p.Children, id)
	return id
}

// Parent returns the parent ID, or NoNode for the root
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].Parent
}

// Children returns the child IDs in document order
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].Children
}

// IsLeaf reports whether the node has no children
func (t *Tree) IsLeaf(id NodeID) bool {
	return len(t.nodes[id].Children) == 0
}

// IsRoot reports whether the node is the tree root
func (t *Tree) IsRoot(id NodeID) bool {
	return t.nodes[id].Parent == NoNode
}

// Depth returns the distance from the root
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		d++
	}
	return d
}

// PreOrder returns the reachable node IDs in document order (parents first)
func (t *Tree) PreOrder() []NodeID {
	order := make([]NodeID, 0, len(t.nodes))
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		children := t.nodes[id].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return order
}

// PostOrder returns the reachable node IDs with every child before its
// parent and siblings in document order.
func (t *Tree) PostOrder() []NodeID {
	type frame struct {
		id   NodeID
		next int
	}
	order := make([]NodeID, 0, len(t.nodes))
	stack := []frame{{id: t.root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := t.nodes[top.id].Children
		if top.next < len(children) {
			child := children[top.next]
			top.next++
			stack = append(stack, frame{id: child})
			continue
		}
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}
	return order
}

// Leaves returns the leaf IDs under id in document order
func (t *Tree) Leaves(id NodeID) []NodeID {
	var leaves []NodeID
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children := t.nodes[cur].Children
		if len(children) == 0 {
			leaves = append(leaves, cur)
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return leaves
}

// Wrap moves the children of parent in positions [from, to] under a new node
// n, which takes their place, and returns the new node's ID.
func (t *Tree) Wrap(parent NodeID, from, to int, n Node) NodeID {
	p := t.nodes[parent]
	if from < 0 || to >= len(p.Children) || from > to {
		panic(fmt.Sprintf("model: Wrap range [%d,%d] out of bounds for %d children", from, to, len(p.Children)))
	}
	id := NodeID(len(t.nodes))
	moved := append([]NodeID(nil), p.Children[from:to+1]...)
	n.Parent = parent
	n.Children = moved
	t.nodes = append(t.nodes, &n)
	for _, c := range moved {
		t.nodes[c].Parent = id
	}

	children := make([]NodeID, 0, len(p.Children)-len(moved)+1)
	children = append(children, p.Children[:from]...)
	children = append(children, id)
	children = append(children, p.Children[to+1:]...)
	p.Children = children
	return id
}

// IsAncestor reports whether a is a proper ancestor of b
func (t *Tree) IsAncestor(a, b NodeID) bool {
	for p := t.nodes[b].Parent; p != NoNode; p = t.nodes[p].Parent {
		if p == a {
			return true
		}
	}
	return false
}
