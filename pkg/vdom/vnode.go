package vdom

import "reflect"

// Kind is the node type discriminator. The reconciler dispatches on Kind
// exhaustively; there is no fallback case.
type Kind uint8

const (
	KindHost      Kind = iota // <div>, <button>, etc.
	KindText                  // plain text node
	KindComponent             // component function invocation
	KindFragment              // grouping without a wrapper element
	KindPortal                // children mounted under a foreign live node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindHost:
		return "Host"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	case KindFragment:
		return "Fragment"
	case KindPortal:
		return "Portal"
	default:
		return "Unknown"
	}
}

// Props holds attributes and event handlers. For component nodes the
// normalized children slice is also published under the "children" key so
// component functions can forward it.
type Props map[string]any

// ComponentFn is a component: a function from props to a VNode description.
// It may return nil to render nothing. Hook calls inside a ComponentFn must
// occur in the same order and count on every execution.
type ComponentFn func(props Props) *VNode

// VNode is an immutable description of one tree position.
//
// Which fields are meaningful depends on Kind:
//
//	KindHost:      Tag, Props, Children, Key
//	KindText:      Text
//	KindComponent: Fn, Props (with normalized "children"), Key
//	KindFragment:  Children, Key
//	KindPortal:    Children, Target
type VNode struct {
	Kind     Kind
	Tag      string   // host element tag name
	Props    Props    // attributes and event handlers
	Children []*VNode // normalized child list (never nil after factory)
	Key      string   // reconciliation key, "" if unkeyed
	Text     string   // for KindText
	Fn       ComponentFn
	Target   any // portal mount point (an adapter handle)
}

// SameType reports whether two descriptions occupy the same identity for
// reconciliation purposes. Hosts compare by tag, components by function
// identity, portals by target handle. Structural equality of props or
// children is never consulted.
func SameType(a, b *VNode) bool {
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindHost:
		return a.Tag == b.Tag
	case KindComponent:
		return reflect.ValueOf(a.Fn).Pointer() == reflect.ValueOf(b.Fn).Pointer()
	case KindPortal:
		return a.Target == b.Target
	default:
		return true
	}
}

// IsEventProp reports whether the prop key names an event handler.
// Case-insensitive on the prefix to catch onclick, OnClick, ONCLICK.
func IsEventProp(key string) bool {
	return len(key) > 2 && (key[0] == 'o' || key[0] == 'O') && (key[1] == 'n' || key[1] == 'N')
}

// Attr represents a single attribute passed to an element factory.
type Attr struct {
	Key   string
	Value any
}

// EventHandler pairs an event prop name with its handler function.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any
}
