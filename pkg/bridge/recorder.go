package bridge

import (
	"github.com/loom-ui/loom/pkg/livedom"
	"github.com/loom-ui/loom/pkg/protocol"
	"github.com/loom-ui/loom/pkg/runtime"
	"github.com/loom-ui/loom/pkg/vdom"
)

// Recorder is a runtime.Adapter that applies every mutation to a livedom
// document and records the equivalent wire patch. Draining the recorder
// after a render yields exactly the patch batch the client needs to catch
// up.
type Recorder struct {
	doc     *livedom.Document
	patches []protocol.Patch
}

// NewRecorder wraps a document.
func NewRecorder(doc *livedom.Document) *Recorder {
	return &Recorder{doc: doc}
}

// Document returns the underlying live tree.
func (r *Recorder) Document() *livedom.Document { return r.doc }

// Drain returns the patches recorded since the last call and resets the
// buffer.
func (r *Recorder) Drain() []protocol.Patch {
	out := r.patches
	r.patches = nil
	return out
}

// Pending returns the number of undrained patches.
func (r *Recorder) Pending() int { return len(r.patches) }

func (r *Recorder) record(p protocol.Patch) {
	r.patches = append(r.patches, p)
}

// CreateNode realizes the node and records its full wire description.
func (r *Recorder) CreateNode(vnode *vdom.VNode) runtime.Handle {
	h := r.doc.CreateNode(vnode)
	n := h.(*livedom.Node)

	wire := &protocol.NodeWire{ID: n.ID()}
	if n.IsText() {
		wire.IsText = true
		wire.Text = n.Text()
	} else {
		wire.Tag = n.Tag()
		if names := n.AttrNames(); len(names) > 0 {
			wire.Attrs = make(map[string]string, len(names))
			for _, k := range names {
				v, _ := n.Attr(k)
				wire.Attrs[k] = v
			}
		}
	}
	r.record(protocol.NewCreateNodePatch(wire))
	return h
}

// SetAttribute applies the attribute and records the canonical result. A
// boolean attribute set to false stores nothing, so it is recorded as a
// removal.
func (r *Recorder) SetAttribute(h runtime.Handle, key string, value any) {
	r.doc.SetAttribute(h, key, value)
	n := h.(*livedom.Node)
	k := livedom.CanonicalAttr(key)
	if v, ok := n.Attr(k); ok {
		r.record(protocol.NewSetAttrPatch(n.ID(), k, v))
	} else {
		r.record(protocol.NewRemoveAttrPatch(n.ID(), k))
	}
}

// RemoveAttribute removes the attribute and records it.
func (r *Recorder) RemoveAttribute(h runtime.Handle, key string) {
	r.doc.RemoveAttribute(h, key)
	n := h.(*livedom.Node)
	r.record(protocol.NewRemoveAttrPatch(n.ID(), livedom.CanonicalAttr(key)))
}

// SetText updates a text node and records it.
func (r *Recorder) SetText(h runtime.Handle, text string) {
	r.doc.SetText(h, text)
	r.record(protocol.NewSetTextPatch(h.(*livedom.Node).ID(), text))
}

// InsertNode attaches child under parent and records it.
func (r *Recorder) InsertNode(parent, child runtime.Handle, index int) {
	r.doc.InsertNode(parent, child, index)
	r.record(protocol.NewInsertNodePatch(
		parent.(*livedom.Node).ID(), child.(*livedom.Node).ID(), index))
}

// MoveNode repositions child and records it.
func (r *Recorder) MoveNode(parent, child runtime.Handle, index int) {
	r.doc.MoveNode(parent, child, index)
	r.record(protocol.NewMoveNodePatch(
		parent.(*livedom.Node).ID(), child.(*livedom.Node).ID(), index))
}

// RemoveNode detaches the node and records it.
func (r *Recorder) RemoveNode(h runtime.Handle) {
	id := h.(*livedom.Node).ID()
	r.doc.RemoveNode(h)
	r.record(protocol.NewRemoveNodePatch(id))
}

// ReplaceNode swaps the nodes and records it.
func (r *Recorder) ReplaceNode(oldNode, newNode runtime.Handle) {
	oldID := oldNode.(*livedom.Node).ID()
	newID := newNode.(*livedom.Node).ID()
	r.doc.ReplaceNode(oldNode, newNode)
	r.record(protocol.NewReplaceNodePatch(oldID, newID))
}
