package livedom

import (
	"sort"
	"strings"
)

// Node is one element or text node in the live tree.
type Node struct {
	id       uint32
	tag      string
	text     string
	isText   bool
	attrs    map[string]string
	children []*Node
	parent   *Node
}

// ID returns the node's document-unique identifier.
func (n *Node) ID() uint32 { return n.id }

// Tag returns the element tag, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.isText }

// Text returns the text content of a text node.
func (n *Node) Text() string { return n.text }

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in document order. The returned
// slice is the node's own; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// ChildAt returns the i-th child, or nil when out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Attr returns the attribute value and whether it is set. Boolean
// attributes that are present report ("", true).
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// AttrNames returns the set attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// TextContent returns the concatenated text of the subtree, the way a DOM
// textContent read would.
func (n *Node) TextContent() string {
	if n.isText {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// detach removes the node from its parent's child list.
func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// insertAt places child at index among n's children. A negative index or
// one past the end appends. The child is detached from any previous parent
// first.
func (n *Node) insertAt(child *Node, index int) {
	child.detach()
	child.parent = n
	if index < 0 || index >= len(n.children) {
		n.children = append(n.children, child)
		return
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
}

// indexIn returns n's position among parent's children, or -1.
func (n *Node) indexIn(parent *Node) int {
	for i, c := range parent.children {
		if c == n {
			return i
		}
	}
	return -1
}
