package vdom

// element builds a host node from a mixed argument list. Arguments can be
// nil, Attr, []Attr, Props, EventHandler, or anything normalizeChildren
// accepts (*VNode, []*VNode, string, numbers, ComponentFn).
func element(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindHost,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0, len(args)),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// allows conditional attributes and children
			continue
		case Attr:
			setAttr(node, v)
		case []Attr:
			for _, a := range v {
				setAttr(node, a)
			}
		case Props:
			for k, val := range v {
				setAttr(node, Attr{Key: k, Value: val})
			}
		case EventHandler:
			node.Props[v.Event] = v.Handler
		default:
			node.Children = appendChild(node.Children, arg)
		}
	}

	return node
}

func setAttr(node *VNode, a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "key" {
		node.Key, _ = a.Value.(string)
		return
	}
	node.Props[a.Key] = a.Value
}

// Document structure

func Html(args ...any) *VNode { return element("html", args) }
func Head(args ...any) *VNode { return element("head", args) }
func Body(args ...any) *VNode { return element("body", args) }

// Content sectioning

func Header(args ...any) *VNode  { return element("header", args) }
func Footer(args ...any) *VNode  { return element("footer", args) }
func Main(args ...any) *VNode    { return element("main", args) }
func Nav(args ...any) *VNode     { return element("nav", args) }
func Section(args ...any) *VNode { return element("section", args) }
func Article(args ...any) *VNode { return element("article", args) }
func H1(args ...any) *VNode      { return element("h1", args) }
func H2(args ...any) *VNode      { return element("h2", args) }
func H3(args ...any) *VNode      { return element("h3", args) }
func H4(args ...any) *VNode      { return element("h4", args) }

// Text content

func Div(args ...any) *VNode  { return element("div", args) }
func P(args ...any) *VNode    { return element("p", args) }
func Span(args ...any) *VNode { return element("span", args) }
func Pre(args ...any) *VNode  { return element("pre", args) }
func Ul(args ...any) *VNode   { return element("ul", args) }
func Ol(args ...any) *VNode   { return element("ol", args) }
func Li(args ...any) *VNode   { return element("li", args) }
func Hr(args ...any) *VNode   { return element("hr", args) }
func Br(args ...any) *VNode   { return element("br", args) }

// Inline text semantics

func A(args ...any) *VNode      { return element("a", args) }
func Strong(args ...any) *VNode { return element("strong", args) }
func Em(args ...any) *VNode     { return element("em", args) }
func Code(args ...any) *VNode   { return element("code", args) }
func Small(args ...any) *VNode  { return element("small", args) }

// Forms

func Form(args ...any) *VNode     { return element("form", args) }
func Input(args ...any) *VNode    { return element("input", args) }
func Textarea(args ...any) *VNode { return element("textarea", args) }
func Select(args ...any) *VNode   { return element("select", args) }
func Option(args ...any) *VNode   { return element("option", args) }
func Button(args ...any) *VNode   { return element("button", args) }
func Label(args ...any) *VNode    { return element("label", args) }

// Tables

func Table(args ...any) *VNode { return element("table", args) }
func Thead(args ...any) *VNode { return element("thead", args) }
func Tbody(args ...any) *VNode { return element("tbody", args) }
func Tr(args ...any) *VNode    { return element("tr", args) }
func Th(args ...any) *VNode    { return element("th", args) }
func Td(args ...any) *VNode    { return element("td", args) }

// Media

func Img(args ...any) *VNode    { return element("img", args) }
func Canvas(args ...any) *VNode { return element("canvas", args) }
func Svg(args ...any) *VNode    { return element("svg", args) }

// CustomElement creates an element with a custom tag name.
func CustomElement(tag string, args ...any) *VNode {
	return element(tag, args)
}
