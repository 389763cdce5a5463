package livedom

import (
	"testing"

	"github.com/loom-ui/loom/pkg/vdom"
)

func TestCreateNodeElement(t *testing.T) {
	d := NewDocument()
	h := d.CreateNode(&vdom.VNode{
		Kind: vdom.KindHost,
		Tag:  "input",
		Props: vdom.Props{
			"className": "field",
			"disabled":  true,
			"checked":   false,
			"value":     42,
			"onclick":   func() {},
			"children":  []*vdom.VNode{},
		},
	})
	n := h.(*Node)

	if n.Tag() != "input" {
		t.Fatalf("Tag() = %q, want input", n.Tag())
	}
	if v, ok := n.Attr("class"); !ok || v != "field" {
		t.Errorf("class = %q, %v", v, ok)
	}
	if _, ok := n.Attr("disabled"); !ok {
		t.Error("disabled should be present")
	}
	if _, ok := n.Attr("checked"); ok {
		t.Error("checked=false should be absent")
	}
	if v, _ := n.Attr("value"); v != "42" {
		t.Errorf("value = %q, want 42", v)
	}
	if _, ok := n.Attr("onclick"); ok {
		t.Error("event props must not become attributes")
	}
	if _, ok := n.Attr("children"); ok {
		t.Error("children prop must not become an attribute")
	}
}

func TestCreateNodeText(t *testing.T) {
	d := NewDocument()
	n := d.CreateNode(&vdom.VNode{Kind: vdom.KindText, Text: "hi"}).(*Node)
	if !n.IsText() || n.Text() != "hi" {
		t.Fatalf("got isText=%v text=%q", n.IsText(), n.Text())
	}

	d.SetText(n, "bye")
	if n.Text() != "bye" {
		t.Fatalf("SetText: got %q", n.Text())
	}
}

func TestInsertAndAppend(t *testing.T) {
	d := NewDocument()
	body := d.Body()
	a := d.NewContainer("a")
	b := d.NewContainer("b")
	c := d.NewContainer("c")

	d.InsertNode(body, a, -1)
	d.InsertNode(body, c, -1)
	d.InsertNode(body, b, 1)

	if got := tags(body); got != "a,b,c" {
		t.Fatalf("children = %s", got)
	}
	if a.Parent() != body {
		t.Error("parent not set on insert")
	}
}

func TestInsertMovesFromPreviousParent(t *testing.T) {
	d := NewDocument()
	p1 := d.NewContainer("div")
	p2 := d.NewContainer("div")
	child := d.NewContainer("span")

	d.InsertNode(p1, child, -1)
	d.InsertNode(p2, child, -1)

	if len(p1.Children()) != 0 {
		t.Error("child still attached to old parent")
	}
	if child.Parent() != p2 {
		t.Error("child not reparented")
	}
}

func TestMoveNodeFinalIndex(t *testing.T) {
	d := NewDocument()
	body := d.Body()
	a := d.NewContainer("a")
	b := d.NewContainer("b")
	c := d.NewContainer("c")
	for _, n := range []*Node{a, b, c} {
		d.InsertNode(body, n, -1)
	}

	d.MoveNode(body, c, 0)
	if got := tags(body); got != "c,a,b" {
		t.Fatalf("after move to front: %s", got)
	}

	d.MoveNode(body, c, 2)
	if got := tags(body); got != "a,b,c" {
		t.Fatalf("after move to back: %s", got)
	}
}

func TestRemoveNodeUnregistersSubtree(t *testing.T) {
	d := NewDocument()
	body := d.Body()
	outer := d.NewContainer("div")
	inner := d.NewContainer("span")
	d.InsertNode(body, outer, -1)
	d.InsertNode(outer, inner, -1)

	if d.ByID(inner.ID()) != inner {
		t.Fatal("inner not registered")
	}

	d.RemoveNode(outer)
	if len(body.Children()) != 0 {
		t.Error("outer still attached")
	}
	if d.ByID(outer.ID()) != nil || d.ByID(inner.ID()) != nil {
		t.Error("removed subtree still registered")
	}
}

func TestReplaceNodeKeepsPosition(t *testing.T) {
	d := NewDocument()
	body := d.Body()
	a := d.NewContainer("a")
	b := d.NewContainer("b")
	c := d.NewContainer("c")
	for _, n := range []*Node{a, b, c} {
		d.InsertNode(body, n, -1)
	}

	x := d.NewContainer("x")
	d.ReplaceNode(b, x)

	if got := tags(body); got != "a,x,c" {
		t.Fatalf("after replace: %s", got)
	}
	if d.ByID(b.ID()) != nil {
		t.Error("replaced node still registered")
	}
}

func TestSetAttributeConventions(t *testing.T) {
	d := NewDocument()
	n := d.NewContainer("div")

	d.SetAttribute(n, "className", "box")
	if v, _ := n.Attr("class"); v != "box" {
		t.Errorf("className mapping: got %q", v)
	}

	d.SetAttribute(n, "htmlFor", "field")
	if v, _ := n.Attr("for"); v != "field" {
		t.Errorf("htmlFor mapping: got %q", v)
	}

	d.SetAttribute(n, "disabled", true)
	if _, ok := n.Attr("disabled"); !ok {
		t.Error("boolean true should set the attribute")
	}
	d.SetAttribute(n, "disabled", false)
	if _, ok := n.Attr("disabled"); ok {
		t.Error("boolean false should remove the attribute")
	}

	d.RemoveAttribute(n, "className")
	if _, ok := n.Attr("class"); ok {
		t.Error("RemoveAttribute should honor the className mapping")
	}
}

func TestSetAttributeNilAndFalseRemove(t *testing.T) {
	d := NewDocument()
	n := d.NewContainer("div")

	d.SetAttribute(n, "title", "x")
	d.SetAttribute(n, "title", nil)
	if v, ok := n.Attr("title"); ok {
		t.Errorf("nil value should remove the attribute, got %q", v)
	}

	// false removes even outside the boolean-attribute table
	d.SetAttribute(n, "data-active", "yes")
	d.SetAttribute(n, "data-active", false)
	if _, ok := n.Attr("data-active"); ok {
		t.Error("false value should remove the attribute")
	}

	// true on a non-boolean attribute stringifies
	d.SetAttribute(n, "data-active", true)
	if v, _ := n.Attr("data-active"); v != "true" {
		t.Errorf("data-active = %q, want true", v)
	}
}

func tags(n *Node) string {
	s := ""
	for i, c := range n.Children() {
		if i > 0 {
			s += ","
		}
		s += c.Tag()
	}
	return s
}
