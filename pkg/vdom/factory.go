package vdom

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNilPortalTarget is the panic value raised by CreatePortal when the
// target handle is nil. It fires at call time, not at render time.
var ErrNilPortalTarget = errors.New("loom: portal target handle is nil")

// H creates a VNode description ("createElement"). The node type is either
// a tag name (string) or a ComponentFn. Props may be nil. Children are
// normalized: nested slices are flattened, nil entries dropped, strings and
// numbers wrapped as text nodes.
//
// A "key" entry in props is lifted into the node's Key field and removed
// from the attribute set.
func H(typ any, props Props, children ...any) *VNode {
	node := newNode(typ, props)
	node.Children = normalizeChildren(children)
	finishNode(node)
	return node
}

// Jsx is the 2/3-argument JSX-style factory. Children arrive inside props
// under the "children" key (a single child or a slice); the optional third
// argument sets the reconciliation key.
func Jsx(typ any, props Props, key ...string) *VNode {
	node := newNode(typ, props)
	if raw, ok := node.Props["children"]; ok {
		delete(node.Props, "children")
		node.Children = normalizeChildren([]any{raw})
	} else {
		node.Children = []*VNode{}
	}
	if len(key) > 0 {
		node.Key = key[0]
	}
	finishNode(node)
	return node
}

// CreatePortal returns a portal node whose children mount under target
// instead of the portal's logical tree position. Panics with
// ErrNilPortalTarget if target is nil.
func CreatePortal(children any, target any) *VNode {
	if target == nil {
		panic(ErrNilPortalTarget)
	}
	return &VNode{
		Kind:     KindPortal,
		Children: normalizeChildren([]any{children}),
		Target:   target,
	}
}

func newNode(typ any, props Props) *VNode {
	node := &VNode{Props: make(Props, len(props))}
	for k, v := range props {
		node.Props[k] = v
	}
	if key, ok := node.Props["key"]; ok {
		delete(node.Props, "key")
		node.Key = fmt.Sprintf("%v", key)
	}

	switch t := typ.(type) {
	case string:
		node.Kind = KindHost
		node.Tag = t
	case ComponentFn:
		node.Kind = KindComponent
		node.Fn = t
	case func(Props) *VNode:
		node.Kind = KindComponent
		node.Fn = t
	default:
		panic(fmt.Sprintf("loom: invalid node type %T (want string tag or ComponentFn)", typ))
	}
	return node
}

// finishNode publishes the normalized children to component props so
// component functions can forward them.
func finishNode(node *VNode) {
	if node.Kind == KindComponent {
		node.Props["children"] = node.Children
	}
}

// normalizeChildren flattens and wraps a raw child list. nil entries are
// dropped, strings and numbers become text nodes, nested slices are
// flattened recursively. The result is never nil.
func normalizeChildren(raw []any) []*VNode {
	out := make([]*VNode, 0, len(raw))
	for _, child := range raw {
		out = appendChild(out, child)
	}
	return out
}

func appendChild(out []*VNode, child any) []*VNode {
	switch v := child.(type) {
	case nil:
		return out
	case *VNode:
		if v != nil {
			out = append(out, v)
		}
		return out
	case []*VNode:
		for _, c := range v {
			if c != nil {
				out = append(out, c)
			}
		}
		return out
	case []any:
		for _, c := range v {
			out = appendChild(out, c)
		}
		return out
	case string:
		return append(out, Text(v))
	case int:
		return append(out, Text(strconv.Itoa(v)))
	case int64:
		return append(out, Text(strconv.FormatInt(v, 10)))
	case float64:
		return append(out, Text(strconv.FormatFloat(v, 'f', -1, 64)))
	case ComponentFn:
		return append(out, H(v, nil))
	case func(Props) *VNode:
		return append(out, H(ComponentFn(v), nil))
	default:
		return append(out, Text(fmt.Sprintf("%v", v)))
	}
}
