package runtime

// MountedInstance returns the live instance tree mounted under container.
func (rc *RenderingContext) MountedInstance(container Handle) (*Instance, bool) {
	root, ok := rc.roots[container]
	if !ok || root.instance == nil {
		return nil, false
	}
	return root.instance, true
}

// HandlerAt returns the event handler currently attached to the instance
// owning target, looked up fresh from the latest description so dispatcher
// collaborators never invoke stale closures. The event name is the prop key
// ("onclick", "oninput", ...).
func (rc *RenderingContext) HandlerAt(container, target Handle, event string) (any, bool) {
	root, ok := rc.roots[container]
	if !ok {
		return nil, false
	}
	inst := findByHandle(root.instance, target)
	if inst == nil || inst.vnode == nil || inst.vnode.Props == nil {
		return nil, false
	}
	h, ok := inst.vnode.Props[event]
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}

// Dispatch invokes the handler registered for event on target, if any.
// Handlers may be func(), func(any), or vdom-typed variants; anything else
// is ignored and reported false.
func (rc *RenderingContext) Dispatch(container, target Handle, event string, payload any) bool {
	h, ok := rc.HandlerAt(container, target, event)
	if !ok {
		return false
	}
	switch fn := h.(type) {
	case func():
		fn()
	case func(any):
		fn(payload)
	case func(string):
		s, _ := payload.(string)
		fn(s)
	default:
		return false
	}
	return true
}

func findByHandle(inst *Instance, target Handle) *Instance {
	if inst == nil {
		return nil
	}
	if inst.handle == target {
		return inst
	}
	for _, c := range inst.children {
		if found := findByHandle(c, target); found != nil {
			return found
		}
	}
	return nil
}
