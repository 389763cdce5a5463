package runtime

import (
	"fmt"

	"github.com/loom-ui/loom/pkg/vdom"
)

// reconcile turns (new description, old instance) into an updated instance
// plus live-tree mutations under parent. liveIdx is the position among
// parent's *live* children where this instance's handles start (-1 appends);
// it is not the vnode child index, which diverges from the live index as
// soon as a preceding sibling is a fragment or a component that rendered
// nil.
//
// Case precedence: removal, mount, type-change replace, update in place.
func (rc *RenderingContext) reconcile(parent Handle, n *vdom.VNode, old *Instance, liveIdx int) *Instance {
	switch {
	case n == nil:
		if old != nil {
			rc.removeInstance(old, true)
		}
		return nil
	case old == nil:
		return rc.mount(parent, n, liveIdx)
	case !vdom.SameType(old.vnode, n):
		return rc.replace(parent, n, old, liveIdx)
	default:
		return rc.update(parent, n, old, liveIdx)
	}
}

// mount allocates a fresh Instance for n and realizes it under parent.
// A nil parent builds the subtree detached (used by the replace path).
func (rc *RenderingContext) mount(parent Handle, n *vdom.VNode, liveIdx int) *Instance {
	inst := &Instance{vnode: n, hookCount: -1, root: rc.renderingRoot}

	switch n.Kind {
	case vdom.KindText:
		inst.handle = rc.adapter.CreateNode(n)
		rc.attach(parent, inst.handle, liveIdx)

	case vdom.KindHost:
		inst.handle = rc.adapter.CreateNode(n)
		for _, c := range n.Children {
			child := rc.mount(inst.handle, c, -1)
			child.parent = inst
			inst.children = append(inst.children, child)
		}
		rc.attach(parent, inst.handle, liveIdx)

	case vdom.KindComponent:
		rc.renderComponent(inst, parent, liveIdx)

	case vdom.KindFragment:
		// children advance the live index by their handle count, not by one
		off := 0
		for _, c := range n.Children {
			idx := -1
			if liveIdx >= 0 {
				idx = liveIdx + off
			}
			child := rc.mount(parent, c, idx)
			child.parent = inst
			inst.children = append(inst.children, child)
			off += liveChildCount(child)
		}

	case vdom.KindPortal:
		// children attach under the portal target, never under parent
		for _, c := range n.Children {
			child := rc.mount(n.Target, c, -1)
			child.parent = inst
			inst.children = append(inst.children, child)
		}
	}

	return inst
}

func (rc *RenderingContext) attach(parent, h Handle, idx int) {
	if parent == nil || h == nil {
		return
	}
	rc.adapter.InsertNode(parent, h, idx)
}

// replace handles a type change at an occupied position: the old subtree's
// effects are torn down first, then the live node swaps in a single adapter
// call so sibling order is preserved without visible flicker. The fast path
// needs the old instance to own its live node directly; anything else
// (components that rendered nil, fragments, portals whose nodes live under
// a foreign target) falls back to remove plus positional mount.
func (rc *RenderingContext) replace(parent Handle, n *vdom.VNode, old *Instance, liveIdx int) *Instance {
	oldTops := ownedTopHandles(old, nil, false)
	rc.teardown(old)

	if old.handle != nil && (n.Kind == vdom.KindHost || n.Kind == vdom.KindText) {
		inst := rc.mount(nil, n, -1)
		rc.adapter.ReplaceNode(old.handle, inst.handle)
		return inst
	}

	for _, h := range oldTops {
		rc.adapter.RemoveNode(h)
	}
	return rc.mount(parent, n, liveIdx)
}

// update reuses the existing instance for a same-type description.
func (rc *RenderingContext) update(parent Handle, n *vdom.VNode, inst *Instance, liveIdx int) *Instance {
	old := inst.vnode
	inst.vnode = n

	switch n.Kind {
	case vdom.KindText:
		if old.Text != n.Text {
			rc.adapter.SetText(inst.handle, n.Text)
		}

	case vdom.KindHost:
		rc.updateHostAttributes(inst.handle, old.Props, n.Props)
		rc.reconcileChildren(inst, inst.handle, n.Children, 0)

	case vdom.KindComponent:
		rc.renderComponent(inst, parent, liveIdx)

	case vdom.KindFragment:
		// the fragment's children start at its own live position
		rc.reconcileChildren(inst, parent, n.Children, liveIdx)

	case vdom.KindPortal:
		// portal children own the target's child list from index 0
		rc.reconcileChildren(inst, n.Target, n.Children, 0)
	}

	return inst
}

// renderComponent executes the component function and reconciles its single
// produced child. parent is the nearest live ancestor handle: a component
// can return nil, so the parent for its children is not always its own
// position's handle. If the execution published a provider snapshot, it is
// pushed for the child walk and popped immediately after.
func (rc *RenderingContext) renderComponent(inst *Instance, parent Handle, liveIdx int) {
	out := rc.executeComponent(inst)

	var oldChild *Instance
	if len(inst.children) > 0 {
		oldChild = inst.children[0]
	}

	pushed := false
	if len(inst.snapshot) > 0 {
		rc.providers = append(rc.providers, inst.snapshot)
		pushed = true
	}
	child := rc.reconcile(parent, out, oldChild, liveIdx)
	if pushed {
		rc.providers = rc.providers[:len(rc.providers)-1]
	}

	if child != nil {
		child.parent = inst
		inst.children = []*Instance{child}
	} else {
		inst.children = nil
	}
}

// executeComponent runs the component function with the hook cursor reset,
// then checks the slot-count invariant: every execution must make the same
// number of hook calls. A panic from the function itself propagates with
// the hook slots left in their pre-panic state.
func (rc *RenderingContext) executeComponent(inst *Instance) *vdom.VNode {
	prev := rc.current
	rc.current = inst
	inst.hookCursor = 0
	inst.snapshot = nil
	defer func() { rc.current = prev }()

	out := inst.vnode.Fn(inst.vnode.Props)

	if inst.hookCount >= 0 && inst.hookCursor != inst.hookCount {
		panic(&HookOrderError{
			Slot:   inst.hookCursor,
			Hook:   "render",
			Reason: fmt.Sprintf("component made %d hook calls, previous render made %d", inst.hookCursor, inst.hookCount),
		})
	}
	if inst.hookCount < 0 {
		inst.hookCount = inst.hookCursor
	}
	metrics().componentRenders.Inc()
	return out
}

// updateHostAttributes diffs the symmetric difference of old and new prop
// keys. Event-handler-shaped keys never reach the adapter here; event
// wiring belongs to the dispatcher collaborator.
func (rc *RenderingContext) updateHostAttributes(h Handle, oldProps, newProps vdom.Props) {
	for key, oldVal := range oldProps {
		if vdom.IsEventProp(key) || key == "children" {
			continue
		}
		newVal, ok := newProps[key]
		if !ok {
			rc.adapter.RemoveAttribute(h, key)
			continue
		}
		if !valuesEqual(oldVal, newVal) {
			rc.adapter.SetAttribute(h, key, newVal)
		}
	}
	for key, newVal := range newProps {
		if vdom.IsEventProp(key) || key == "children" {
			continue
		}
		if _, ok := oldProps[key]; !ok {
			rc.adapter.SetAttribute(h, key, newVal)
		}
	}
}

// reconcileChildren picks the child algorithm per list: keyed when any
// entry on either side carries a key, positional otherwise. base is the
// live index within parent where this list starts; only host child lists
// and dedicated containers start at 0.
func (rc *RenderingContext) reconcileChildren(inst *Instance, parent Handle, newChildren []*vdom.VNode, base int) {
	if base < 0 {
		base = 0
	}
	keyed := false
	for _, c := range inst.children {
		if c.vnode.Key != "" {
			keyed = true
			break
		}
	}
	if !keyed {
		for _, c := range newChildren {
			if c.Key != "" {
				keyed = true
				break
			}
		}
	}
	if keyed {
		rc.reconcileKeyed(inst, parent, newChildren, base)
	} else {
		rc.reconcilePositional(inst, parent, newChildren, base)
	}
}

// reconcilePositional pairs index i of the new list against index i of the
// old instances, padding the shorter side with nil; trailing excess is
// removed. The live index advances by each result's handle count, so a
// sibling after a fragment or a nil-rendering component still lands at the
// right live position. Reorders recreate live nodes here; keyed
// reconciliation exists for that case.
func (rc *RenderingContext) reconcilePositional(inst *Instance, parent Handle, newChildren []*vdom.VNode, base int) {
	old := inst.children
	max := len(old)
	if len(newChildren) > max {
		max = len(newChildren)
	}

	next := make([]*Instance, 0, len(newChildren))
	liveIdx := base
	for i := 0; i < max; i++ {
		var o *Instance
		var n *vdom.VNode
		if i < len(old) {
			o = old[i]
		}
		if i < len(newChildren) {
			n = newChildren[i]
		}
		if res := rc.reconcile(parent, n, o, liveIdx); res != nil {
			res.parent = inst
			next = append(next, res)
			liveIdx += liveChildCount(res)
		}
	}
	inst.children = next
}

// reconcileKeyed reuses old instances by key, preserving live-handle
// identity across reordering. Unkeyed entries in a keyed list pair
// positionally among themselves. Unclaimed old instances are removed
// (cleanup first); surviving instances whose position changed are moved,
// never recreated.
func (rc *RenderingContext) reconcileKeyed(inst *Instance, parent Handle, newChildren []*vdom.VNode, base int) {
	old := inst.children

	byKey := make(map[string]*Instance, len(old))
	var unkeyed []*Instance
	for _, o := range old {
		if k := o.vnode.Key; k != "" {
			byKey[k] = o
		} else {
			unkeyed = append(unkeyed, o)
		}
	}

	// claim pass: pair each new child with a surviving old instance
	claims := make([]*Instance, len(newChildren))
	used := make(map[*Instance]bool, len(old))
	unkeyedIdx := 0
	for i, n := range newChildren {
		var o *Instance
		if n.Key != "" {
			if match, ok := byKey[n.Key]; ok && !used[match] {
				o = match
			}
		} else if unkeyedIdx < len(unkeyed) {
			o = unkeyed[unkeyedIdx]
			unkeyedIdx++
		}
		if o != nil {
			used[o] = true
		}
		claims[i] = o
	}

	// unclaimed instances are removed first, so the survivors sit in old
	// order when the placement pass starts
	var survivors []*Instance
	for _, o := range old {
		if used[o] {
			survivors = append(survivors, o)
		} else {
			rc.removeInstance(o, true)
		}
	}

	// placement pass, left to right: positions base..liveIdx-1 always hold
	// the finished prefix, with the unplaced survivors after it in old
	// order. A claimed instance that is the next unplaced survivor is
	// therefore already in position; anything else moves (or mounts) at the
	// running live index.
	next := make([]*Instance, 0, len(newChildren))
	placed := make(map[*Instance]bool, len(survivors))
	liveIdx := base
	cursor := 0
	for i, n := range newChildren {
		o := claims[i]
		inPlace := false
		if o != nil {
			for cursor < len(survivors) && placed[survivors[cursor]] {
				cursor++
			}
			if cursor < len(survivors) && survivors[cursor] == o {
				inPlace = true
				cursor++
			}
			placed[o] = true
		}

		res := rc.reconcile(parent, n, o, liveIdx)
		res.parent = inst
		next = append(next, res)

		if o != nil && !inPlace {
			pos := liveIdx
			for _, h := range parentOwnedHandles(res, nil) {
				rc.adapter.MoveNode(parent, h, pos)
				pos++
			}
		}
		liveIdx += liveChildCount(res)
	}

	inst.children = next
}

// removeInstance is the only deletion path: effect cleanups run for the
// whole subtree (depth-first, post-order) while the parent chain is still
// live, then the owned top handles detach.
func (rc *RenderingContext) removeInstance(inst *Instance, detach bool) {
	if inst == nil {
		return
	}
	tops := ownedTopHandles(inst, nil, false)
	rc.teardown(inst)
	if detach {
		for _, h := range tops {
			rc.adapter.RemoveNode(h)
		}
	}
}

// teardown runs effect cleanups bottom-up and severs root back-references
// so late setters on this subtree resolve to nothing and get skipped.
func (rc *RenderingContext) teardown(inst *Instance) {
	for _, c := range inst.children {
		rc.teardown(c)
	}
	for _, slot := range inst.hooks {
		if es, ok := slot.(*effectSlot); ok && es.cleanup != nil {
			cleanup := es.cleanup
			es.cleanup = nil
			rc.runRecovered("effect cleanup", cleanup)
		}
	}
	inst.root = nil
}
