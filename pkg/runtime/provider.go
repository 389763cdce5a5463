package runtime

import "github.com/loom-ui/loom/pkg/vdom"

// Context carries a value to an entire subtree without prop passing. Each
// Context owns a unique token and a default returned when no provider is
// in scope.
type Context[T any] struct {
	id           uint64
	defaultValue T
	providerFn   vdom.ComponentFn
}

// CreateContext returns a fresh context with the given default value. The
// provider component function is created once here so provider nodes keep
// a stable identity across renders.
func CreateContext[T any](defaultValue T) *Context[T] {
	c := &Context[T]{id: nextID(), defaultValue: defaultValue}
	c.providerFn = func(props vdom.Props) *vdom.VNode {
		_, inst := hookEnv("Provider")
		if inst.snapshot == nil {
			inst.snapshot = make(map[uint64]any, 1)
		}
		inst.snapshot[c.id] = props["value"]

		children, _ := props["children"].([]*vdom.VNode)
		switch len(children) {
		case 0:
			return nil
		case 1:
			return children[0]
		default:
			// multiple children get an implicit wrapping host node
			return &vdom.VNode{Kind: vdom.KindHost, Tag: "div", Props: vdom.Props{}, Children: children}
		}
	}
	return c
}

// DefaultValue returns the value UseContext yields with no provider in scope.
func (c *Context[T]) DefaultValue() T {
	return c.defaultValue
}

// Provider returns a plain component node that publishes value to every
// descendant for the duration of its subtree's walk. Nested providers of
// the same context shadow outer ones; siblings outside the inner provider
// still see the outer value.
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	return vdom.H(c.providerFn, vdom.Props{"value": value}, children...)
}

// contextSlot pins a UseContext call to its slot position so the hook
// order invariant covers context reads too.
type contextSlot struct {
	contextID uint64
	lastValue any
}

// UseContext returns the value published by the innermost active provider
// of c, or c's default when none is in scope. Visibility crosses
// intervening plain host elements: only provider nesting matters.
func UseContext[T any](c *Context[T]) T {
	rc, inst := hookEnv("UseContext")
	slot := slotAt(inst, "UseContext", func() *contextSlot {
		return &contextSlot{contextID: c.id}
	})

	for i := len(rc.providers) - 1; i >= 0; i-- {
		if v, ok := rc.providers[i][c.id]; ok {
			slot.lastValue = v
			return v.(T)
		}
	}
	slot.lastValue = c.defaultValue
	return c.defaultValue
}
