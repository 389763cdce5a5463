package runtime

import "github.com/loom-ui/loom/pkg/vdom"

// Instance is the mutable record for one mounted VNode position: the last
// description rendered there, the live node it owns (if any), its child
// instances, and its hook slots.
type Instance struct {
	vnode    *vdom.VNode
	handle   Handle // owned live node; nil for components, fragments, portals
	children []*Instance

	// Hook store. Slots are addressed by call order; hookCount locks in the
	// slot count after the first completed execution (-1 before).
	hooks      []any
	hookCursor int
	hookCount  int

	// snapshot holds the context values this instance's provider published,
	// keyed by context token. Nil for non-providers.
	snapshot map[uint64]any

	// parent is a back-reference used only for root lookup, never ownership.
	parent *Instance

	// root is the owning root entry, set at mount and cleared on teardown.
	root *rootEntry
}

// VNode returns the description last rendered at this position.
func (inst *Instance) VNode() *vdom.VNode { return inst.vnode }

// LiveHandle returns the live node this instance owns, or nil for
// components, fragments, and portals.
func (inst *Instance) LiveHandle() Handle { return inst.handle }

// rootEntry pairs a container with its mounted instance and the original
// top-level description, which setter-triggered re-renders rebuild from.
type rootEntry struct {
	container Handle
	instance  *Instance
	vnode     *vdom.VNode
}

// ownedTopHandles collects the highest live handles owned by the subtree:
// the handles whose nearest live ancestor lies outside it. Portal children
// attach under a foreign target, so the walk descends through live nodes to
// find portals nested beneath them, but only reports handles that are
// foreign-rooted or subtree roots.
func ownedTopHandles(inst *Instance, out []Handle, underLive bool) []Handle {
	if inst == nil {
		return out
	}
	if inst.vnode != nil && inst.vnode.Kind == vdom.KindPortal {
		for _, c := range inst.children {
			out = ownedTopHandles(c, out, false)
		}
		return out
	}
	if inst.handle != nil {
		if !underLive {
			out = append(out, inst.handle)
		}
		for _, c := range inst.children {
			out = ownedTopHandles(c, out, true)
		}
		return out
	}
	for _, c := range inst.children {
		out = ownedTopHandles(c, out, underLive)
	}
	return out
}

// parentOwnedHandles collects the handles a subtree contributes to its
// parent's live child list, in tree order. Portal subtrees contribute
// nothing here: their nodes live under a foreign target.
func parentOwnedHandles(inst *Instance, out []Handle) []Handle {
	if inst == nil {
		return out
	}
	if inst.vnode != nil && inst.vnode.Kind == vdom.KindPortal {
		return out
	}
	if inst.handle != nil {
		return append(out, inst.handle)
	}
	for _, c := range inst.children {
		out = parentOwnedHandles(c, out)
	}
	return out
}

// liveChildCount reports how many slots of the parent's live child list the
// subtree occupies. A host or text instance occupies one; fragments and
// components occupy the sum of their children; portals occupy none.
func liveChildCount(inst *Instance) int {
	if inst == nil {
		return 0
	}
	if inst.vnode != nil && inst.vnode.Kind == vdom.KindPortal {
		return 0
	}
	if inst.handle != nil {
		return 1
	}
	n := 0
	for _, c := range inst.children {
		n += liveChildCount(c)
	}
	return n
}

// containsInstance reports whether needle is root or one of its descendants.
func containsInstance(root, needle *Instance) bool {
	if root == nil {
		return false
	}
	if root == needle {
		return true
	}
	for _, c := range root.children {
		if containsInstance(c, needle) {
			return true
		}
	}
	return false
}
