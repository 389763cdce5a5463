// Package vdom provides the virtual node model for Loom.
//
// A VNode is an immutable description of one position in the UI tree.
// VNodes come in five kinds: host elements, text, component invocations,
// fragments, and portals. The runtime package reconciles a new VNode tree
// against the previously mounted one and mutates the live tree through an
// adapter.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    OnClick(handler),
//	)
//
// The generic factories H and Jsx accept either a tag name or a component
// function as the node type. All factories normalize children the same way:
// nested child slices are flattened, nil entries are dropped, and string or
// numeric children are wrapped as text nodes.
package vdom
