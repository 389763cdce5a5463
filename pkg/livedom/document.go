package livedom

import (
	"fmt"

	"github.com/loom-ui/loom/pkg/runtime"
	"github.com/loom-ui/loom/pkg/vdom"
)

// Document owns a forest of live nodes and implements runtime.Adapter.
// Every Handle it produces or accepts is a *Node; passing a handle from a
// different adapter panics.
type Document struct {
	body   *Node
	nextID uint32
	byID   map[uint32]*Node
}

// NewDocument returns an empty document with a body node ready to be used
// as a render container.
func NewDocument() *Document {
	d := &Document{byID: make(map[uint32]*Node)}
	d.body = d.newElement("body")
	return d
}

// Body returns the document's root container.
func (d *Document) Body() *Node { return d.body }

// NewContainer creates a detached element, useful as an extra render
// container or a portal target.
func (d *Document) NewContainer(tag string) *Node {
	return d.newElement(tag)
}

// ByID returns the live node with the given identifier, or nil.
func (d *Document) ByID(id uint32) *Node { return d.byID[id] }

func (d *Document) newElement(tag string) *Node {
	d.nextID++
	n := &Node{id: d.nextID, tag: tag, attrs: make(map[string]string)}
	d.byID[n.id] = n
	return n
}

func (d *Document) newText(text string) *Node {
	d.nextID++
	n := &Node{id: d.nextID, isText: true, text: text}
	d.byID[n.id] = n
	return n
}

func asNode(h runtime.Handle) *Node {
	if h == nil {
		return nil
	}
	n, ok := h.(*Node)
	if !ok {
		panic(fmt.Sprintf("livedom: foreign handle of type %T", h))
	}
	return n
}

// CreateNode realizes a text or host description as a detached live node.
// Host props are applied as attributes; event-handler props and the
// reserved "children" and "key" props never become attributes.
func (d *Document) CreateNode(vnode *vdom.VNode) runtime.Handle {
	if vnode.Kind == vdom.KindText {
		return d.newText(vnode.Text)
	}
	n := d.newElement(vnode.Tag)
	for key, value := range vnode.Props {
		if vdom.IsEventProp(key) || key == "children" || key == "key" {
			continue
		}
		n.setAttr(key, value)
	}
	return n
}

// SetAttribute sets one attribute, applying the adapter-side conventions:
// "className" and "htmlFor" map to their HTML names, nil and false values
// remove the attribute, and everything else stringifies.
func (d *Document) SetAttribute(h runtime.Handle, key string, value any) {
	asNode(h).setAttr(key, value)
}

// RemoveAttribute removes one attribute.
func (d *Document) RemoveAttribute(h runtime.Handle, key string) {
	delete(asNode(h).attrs, CanonicalAttr(key))
}

// SetText replaces a text node's content.
func (d *Document) SetText(h runtime.Handle, text string) {
	asNode(h).text = text
}

// InsertNode attaches child under parent at index (-1 appends). A child
// already attached elsewhere is moved.
func (d *Document) InsertNode(parent, child runtime.Handle, index int) {
	asNode(parent).insertAt(asNode(child), index)
}

// MoveNode repositions child so it ends up at index among parent's
// children.
func (d *Document) MoveNode(parent, child runtime.Handle, index int) {
	asNode(parent).insertAt(asNode(child), index)
}

// RemoveNode detaches the node and drops its subtree from the ID registry.
func (d *Document) RemoveNode(h runtime.Handle) {
	n := asNode(h)
	n.detach()
	d.unregister(n)
}

// ReplaceNode swaps newNode into oldNode's position.
func (d *Document) ReplaceNode(oldNode, newNode runtime.Handle) {
	o, nn := asNode(oldNode), asNode(newNode)
	parent := o.parent
	if parent == nil {
		d.unregister(o)
		return
	}
	idx := o.indexIn(parent)
	o.detach()
	d.unregister(o)
	parent.insertAt(nn, idx)
}

func (d *Document) unregister(n *Node) {
	delete(d.byID, n.id)
	for _, c := range n.children {
		d.unregister(c)
	}
}

func (n *Node) setAttr(key string, value any) {
	key = CanonicalAttr(key)
	switch v := value.(type) {
	case nil:
		delete(n.attrs, key)
	case bool:
		switch {
		case !v:
			delete(n.attrs, key)
		case isBooleanAttr(key):
			n.attrs[key] = ""
		default:
			n.attrs[key] = "true"
		}
	default:
		n.attrs[key] = attrString(value)
	}
}

// CanonicalAttr maps a prop key to the attribute name actually stored:
// "className" becomes "class" and "htmlFor" becomes "for".
func CanonicalAttr(key string) string {
	switch key {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return key
}

func attrString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
