// Package metrictree indexes the hierarchy of metrics a report can display and exposes it
// as a checkbox tree.
//
// Internal nodes are categories that only group metrics. Leaf nodes are individually
// selectable series. Node ids are unique across the whole tree.
package metrictree

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyID is returned when a description node has no id.
	ErrEmptyID = errors.New("metric node has empty id")
	// ErrDuplicateID is returned when two description nodes share an id.
	ErrDuplicateID = errors.New("duplicate metric node id")
	// ErrUnknownParent is returned by FromFlat when a record names a parent that does not exist.
	ErrUnknownParent = errors.New("unknown parent id")
	// ErrCycle is returned by FromFlat when parent links never reach a root.
	ErrCycle = errors.New("metric tree contains a cycle")
	// ErrUnknownNode is returned when a widget operation names a node not in the tree.
	ErrUnknownNode = errors.New("unknown metric node")
)

// Description is the nested node shape supplied by the caller. Either Text or Label may carry
// the display label.
type Description struct {
	ID       string        `json:"id" yaml:"id"`
	Text     string        `json:"text,omitempty" yaml:"text,omitempty"`
	Label    string        `json:"label,omitempty" yaml:"label,omitempty"`
	Children []Description `json:"children,omitempty" yaml:"children,omitempty"`
}

// DisplayLabel returns Label, then Text, then the id.
func (d Description) DisplayLabel() string {
	switch {
	case d.Label != "":
		return d.Label
	case d.Text != "":
		return d.Text
	default:
		return d.ID
	}
}

// Node is one entry of a built tree.
type Node struct {
	ID       string
	Label    string
	Children []*Node
	Parent   *Node
	Depth    int
}

// IsLeaf reports whether the node carries data (has no children).
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is an immutable metric hierarchy.
type Tree struct {
	roots []*Node
	index map[string]*Node
	order []*Node // pre-order, i.e. display order
}

// New builds a tree from a nested description, root-first.
func New(desc []Description) (*Tree, error) {
	t := &Tree{index: make(map[string]*Node)}
	for _, d := range desc {
		root, err := t.buildNode(d, 0, nil)
		if err != nil {
			return nil, err
		}
		t.roots = append(t.roots, root)
	}
	t.rebuildOrder()
	return t, nil
}

func (t *Tree) buildNode(d Description, depth int, parent *Node) (*Node, error) {
	if d.ID == "" {
		return nil, ErrEmptyID
	}
	if _, exists := t.index[d.ID]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, d.ID)
	}
	node := &Node{ID: d.ID, Label: d.DisplayLabel(), Parent: parent, Depth: depth}
	t.index[d.ID] = node
	for _, c := range d.Children {
		child, err := t.buildNode(c, depth+1, node)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (t *Tree) rebuildOrder() {
	t.order = t.order[:0]
	var walk func(n *Node)
	walk = func(n *Node) {
		t.order = append(t.order, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range t.roots {
		walk(r)
	}
}

// Roots returns the top-level nodes.
func (t *Tree) Roots() []*Node { return t.roots }

// Nodes returns every node in display order.
func (t *Tree) Nodes() []*Node { return t.order }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.order) }

// Node looks up a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Leaves returns every leaf id in display order.
func (t *Tree) Leaves() []string {
	var out []string
	for _, n := range t.order {
		if n.IsLeaf() {
			out = append(out, n.ID)
		}
	}
	return out
}

// Subtree returns id and all of its descendants in display order.
func (t *Tree) Subtree(id string) ([]*Node, error) {
	n, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out, nil
}

// DescendantLeaves returns the leaf ids below id (or id itself when it is a leaf).
func (t *Tree) DescendantLeaves(id string) ([]string, error) {
	nodes, err := t.Subtree(id)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range nodes {
		if n.IsLeaf() {
			out = append(out, n.ID)
		}
	}
	return out, nil
}
