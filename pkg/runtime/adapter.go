package runtime

import "github.com/loom-ui/loom/pkg/vdom"

// Handle identifies one live node owned by an adapter. Handles are opaque
// to the runtime and must be comparable with ==.
type Handle = any

// Adapter is the live-tree collaborator contract. The runtime decides what
// changes; the adapter realizes them on the platform tree.
//
// Conventions the adapter owns (the runtime passes values through):
//   - boolean true sets an empty-valued attribute, false/nil removes it
//   - "className" maps to the "class" attribute
//   - all other non-nil values stringify
//   - event-handler props ("on*") never reach SetAttribute; event wiring is
//     the adapter's (or a dispatcher collaborator's) responsibility
type Adapter interface {
	// CreateNode realizes a host or text description as a live node,
	// including its initial attributes. Children are attached separately.
	CreateNode(vnode *vdom.VNode) Handle

	// SetAttribute sets or updates one attribute.
	SetAttribute(h Handle, key string, value any)

	// RemoveAttribute removes one attribute.
	RemoveAttribute(h Handle, key string)

	// SetText replaces a text node's value in place.
	SetText(h Handle, text string)

	// InsertNode attaches child under parent at index; index -1 appends.
	InsertNode(parent, child Handle, index int)

	// MoveNode repositions an existing child of parent to index. The node's
	// identity is preserved: this is a move, never a remove plus recreate.
	MoveNode(parent, child Handle, index int)

	// RemoveNode detaches the node (and its platform subtree).
	RemoveNode(h Handle)

	// ReplaceNode swaps old for new in a single operation, preserving the
	// position among surrounding siblings.
	ReplaceNode(old, new Handle)
}
