package runtime_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/loom-ui/loom/pkg/livedom"
	"github.com/loom-ui/loom/pkg/runtime"
	"github.com/loom-ui/loom/pkg/vdom"
)

// newTestContext returns a fresh document and a rendering context driving
// it, with logging silenced.
func newTestContext() (*livedom.Document, *runtime.RenderingContext) {
	doc := livedom.NewDocument()
	rc := runtime.New(doc, runtime.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return doc, rc
}

func findTag(n *livedom.Node, tag string) *livedom.Node {
	if n == nil {
		return nil
	}
	if n.Tag() == tag {
		return n
	}
	for _, c := range n.Children() {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func childIDs(n *livedom.Node) []uint32 {
	ids := make([]uint32, 0, len(n.Children()))
	for _, c := range n.Children() {
		ids = append(ids, c.ID())
	}
	return ids
}

func TestRenderMountsTree(t *testing.T) {
	doc, rc := newTestContext()

	rc.Render(vdom.H("div", vdom.Props{"className": "app"},
		vdom.H("h1", nil, "Hello"),
		vdom.H("p", nil, "world"),
	), doc.Body())

	want := `<div class="app"><h1>Hello</h1><p>world</p></div>`
	if got := doc.Body().InnerHTML(); got != want {
		t.Fatalf("InnerHTML() = %s, want %s", got, want)
	}
}

func TestRenderNilContainerPanics(t *testing.T) {
	_, rc := newTestContext()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, runtime.ErrNilContainer) {
			t.Fatalf("recovered %v, want ErrNilContainer", r)
		}
	}()
	rc.Render(vdom.H("div", nil), nil)
}

func TestRenderIsIdempotent(t *testing.T) {
	doc, rc := newTestContext()
	desc := func() *vdom.VNode {
		return vdom.H("div", vdom.Props{"id": "x"}, vdom.H("span", nil, "hi"))
	}

	rc.Render(desc(), doc.Body())
	div := findTag(doc.Body(), "div")
	span := findTag(doc.Body(), "span")

	rc.Render(desc(), doc.Body())

	if findTag(doc.Body(), "div") != div {
		t.Error("div was recreated by a no-op update")
	}
	if findTag(doc.Body(), "span") != span {
		t.Error("span was recreated by a no-op update")
	}
}

func TestRenderUpdatesTextInPlace(t *testing.T) {
	doc, rc := newTestContext()

	rc.Render(vdom.H("p", nil, "before"), doc.Body())
	p := findTag(doc.Body(), "p")
	textNode := p.ChildAt(0)

	rc.Render(vdom.H("p", nil, "after"), doc.Body())

	if p.ChildAt(0) != textNode {
		t.Fatal("text node was recreated instead of updated")
	}
	if textNode.Text() != "after" {
		t.Fatalf("text = %q, want after", textNode.Text())
	}
}

func TestRenderDiffsAttributes(t *testing.T) {
	doc, rc := newTestContext()

	rc.Render(vdom.H("input", vdom.Props{
		"className": "a",
		"value":     "1",
		"disabled":  true,
	}), doc.Body())
	input := findTag(doc.Body(), "input")

	rc.Render(vdom.H("input", vdom.Props{
		"className":   "b",
		"placeholder": "type here",
	}), doc.Body())

	if v, _ := input.Attr("class"); v != "b" {
		t.Errorf("class = %q, want b", v)
	}
	if _, ok := input.Attr("value"); ok {
		t.Error("dropped prop should be removed")
	}
	if _, ok := input.Attr("disabled"); ok {
		t.Error("dropped boolean prop should be removed")
	}
	if v, _ := input.Attr("placeholder"); v != "type here" {
		t.Errorf("placeholder = %q", v)
	}
}

func TestNilPropValueRemovesAttribute(t *testing.T) {
	doc, rc := newTestContext()

	rc.Render(vdom.H("div", vdom.Props{"title": "x"}), doc.Body())
	div := findTag(doc.Body(), "div")
	if v, _ := div.Attr("title"); v != "x" {
		t.Fatalf("title = %q, want x", v)
	}

	rc.Render(vdom.H("div", vdom.Props{"title": nil}), doc.Body())
	if v, ok := div.Attr("title"); ok {
		t.Fatalf("title still present as %q after nil value", v)
	}
}

func TestTypeChangeReplacesNode(t *testing.T) {
	doc, rc := newTestContext()

	rc.Render(vdom.H("main", nil,
		vdom.H("a", nil, "first"),
		vdom.H("div", nil, "middle"),
		vdom.H("b", nil, "last"),
	), doc.Body())
	main := findTag(doc.Body(), "main")
	oldDiv := findTag(main, "div")

	rc.Render(vdom.H("main", nil,
		vdom.H("a", nil, "first"),
		vdom.H("span", nil, "middle"),
		vdom.H("b", nil, "last"),
	), doc.Body())

	if findTag(main, "div") != nil {
		t.Error("old node survived a type change")
	}
	span := findTag(main, "span")
	if span == nil {
		t.Fatal("replacement not mounted")
	}
	if span.ID() == oldDiv.ID() {
		t.Error("replacement reused the old node")
	}
	if got := tagsOf(main); got != "a,span,b" {
		t.Fatalf("sibling order after replace: %s", got)
	}
}

func TestComponentTypeChangeReplaces(t *testing.T) {
	doc, rc := newTestContext()

	first := func(props vdom.Props) *vdom.VNode { return vdom.H("p", nil, "one") }
	second := func(props vdom.Props) *vdom.VNode { return vdom.H("p", nil, "two") }

	rc.Render(vdom.H(first, nil), doc.Body())
	oldP := findTag(doc.Body(), "p")

	rc.Render(vdom.H(second, nil), doc.Body())
	newP := findTag(doc.Body(), "p")

	if newP == nil {
		t.Fatal("second component not mounted")
	}
	if newP == oldP {
		t.Error("different component functions must not share an instance")
	}
	if got := newP.TextContent(); got != "two" {
		t.Fatalf("text = %q", got)
	}
}

func TestUnkeyedGrowthAndShrink(t *testing.T) {
	doc, rc := newTestContext()
	list := func(n int) *vdom.VNode {
		items := make([]*vdom.VNode, n)
		for i := range items {
			items[i] = vdom.H("li", nil, vdom.Textf("item %d", i))
		}
		return vdom.H("ul", nil, items)
	}

	rc.Render(list(2), doc.Body())
	ul := findTag(doc.Body(), "ul")
	before := childIDs(ul)

	rc.Render(list(4), doc.Body())
	grown := childIDs(ul)
	if len(grown) != 4 {
		t.Fatalf("len = %d, want 4", len(grown))
	}
	if diff := cmp.Diff(before, grown[:2]); diff != "" {
		t.Errorf("existing prefix recreated on growth (-before +after):\n%s", diff)
	}

	rc.Render(list(1), doc.Body())
	shrunk := childIDs(ul)
	if len(shrunk) != 1 || shrunk[0] != before[0] {
		t.Errorf("shrink: got %v, want [%d]", shrunk, before[0])
	}
}

func TestKeyedReorderPreservesIdentity(t *testing.T) {
	doc, rc := newTestContext()
	list := func(keys ...string) *vdom.VNode {
		items := vdom.Range(keys, func(k string, _ int) *vdom.VNode {
			return vdom.H("li", vdom.Props{"key": k}, k)
		})
		return vdom.H("ul", nil, items)
	}

	rc.Render(list("a", "b", "c"), doc.Body())
	ul := findTag(doc.Body(), "ul")
	byKey := make(map[string]uint32, 3)
	for _, c := range ul.Children() {
		byKey[c.TextContent()] = c.ID()
	}

	rc.Render(list("c", "a", "b"), doc.Body())

	want := []uint32{byKey["c"], byKey["a"], byKey["b"]}
	if diff := cmp.Diff(want, childIDs(ul)); diff != "" {
		t.Fatalf("reorder recreated nodes (-want +got):\n%s", diff)
	}
}

func TestKeyedRemovalAndInsertion(t *testing.T) {
	doc, rc := newTestContext()
	list := func(keys ...string) *vdom.VNode {
		items := vdom.Range(keys, func(k string, _ int) *vdom.VNode {
			return vdom.H("li", vdom.Props{"key": k}, k)
		})
		return vdom.H("ul", nil, items)
	}

	rc.Render(list("a", "b", "c"), doc.Body())
	ul := findTag(doc.Body(), "ul")
	byKey := make(map[string]uint32, 3)
	for _, c := range ul.Children() {
		byKey[c.TextContent()] = c.ID()
	}

	rc.Render(list("c", "x", "a"), doc.Body())

	texts := make([]string, 0, 3)
	for _, c := range ul.Children() {
		texts = append(texts, c.TextContent())
	}
	if diff := cmp.Diff([]string{"c", "x", "a"}, texts); diff != "" {
		t.Fatalf("content (-want +got):\n%s", diff)
	}
	if ul.ChildAt(0).ID() != byKey["c"] || ul.ChildAt(2).ID() != byKey["a"] {
		t.Error("surviving keyed nodes were recreated")
	}
	if ul.ChildAt(1).ID() == byKey["b"] {
		t.Error("removed key's node was reused for a new key")
	}
}

func TestFragmentChildrenFlatten(t *testing.T) {
	doc, rc := newTestContext()

	rc.Render(vdom.H("div", nil,
		vdom.H("i", nil),
		vdom.Fragment(vdom.H("b", nil), vdom.H("u", nil)),
		vdom.H("s", nil),
	), doc.Body())

	div := findTag(doc.Body(), "div")
	if got := tagsOf(div); got != "i,b,u,s" {
		t.Fatalf("children = %s, want i,b,u,s", got)
	}
}

func TestFragmentGrowthAfterSiblingKeepsOrder(t *testing.T) {
	doc, rc := newTestContext()
	view := func(extra bool) *vdom.VNode {
		spans := []*vdom.VNode{vdom.H("span", vdom.Props{"id": "a"})}
		if extra {
			spans = append(spans, vdom.H("span", vdom.Props{"id": "b"}))
		}
		return vdom.H("div", nil,
			vdom.H("p", nil),
			vdom.Fragment(spans),
		)
	}

	rc.Render(view(false), doc.Body())
	rc.Render(view(true), doc.Body())

	div := findTag(doc.Body(), "div")
	if got := tagsOf(div); got != "p,span,span" {
		t.Fatalf("children = %s, want p,span,span", got)
	}
	ids := make([]string, 0, 2)
	for _, c := range div.Children()[1:] {
		id, _ := c.Attr("id")
		ids = append(ids, id)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Fatalf("fragment order (-want +got):\n%s", diff)
	}
}

func TestSiblingAfterAppearingComponentKeepsOrder(t *testing.T) {
	doc, rc := newTestContext()

	show := false
	var set runtime.SetState[int]
	gate := func(props vdom.Props) *vdom.VNode {
		_, s := runtime.UseState(0)
		set = s
		return vdom.If(show, vdom.H("em", nil))
	}

	rc.Render(vdom.H("div", nil,
		vdom.H(gate, nil),
		vdom.H("p", nil),
	), doc.Body())

	show = true
	set.Set(1)

	div := findTag(doc.Body(), "div")
	if got := tagsOf(div); got != "em,p" {
		t.Fatalf("children = %s, want em,p", got)
	}
}

func TestKeyedMoveAfterFragmentSibling(t *testing.T) {
	doc, rc := newTestContext()
	view := func(keys ...string) *vdom.VNode {
		items := vdom.Range(keys, func(k string, _ int) *vdom.VNode {
			return vdom.H("li", vdom.Props{"key": k}, k)
		})
		return vdom.H("div", nil,
			vdom.Fragment(vdom.H("i", nil), vdom.H("b", nil)),
			items,
		)
	}

	rc.Render(view("x", "y"), doc.Body())
	div := findTag(doc.Body(), "div")
	byKey := make(map[string]uint32, 2)
	for _, c := range div.Children() {
		if c.Tag() == "li" {
			byKey[c.TextContent()] = c.ID()
		}
	}

	rc.Render(view("y", "x"), doc.Body())

	if got := tagsOf(div); got != "i,b,li,li" {
		t.Fatalf("children = %s, want i,b,li,li", got)
	}
	if div.ChildAt(2).ID() != byKey["y"] || div.ChildAt(3).ID() != byKey["x"] {
		t.Errorf("keyed nodes after the fragment landed wrong: %s,%s",
			div.ChildAt(2).TextContent(), div.ChildAt(3).TextContent())
	}
}

func TestMixedKeyedUnkeyedChildren(t *testing.T) {
	doc, rc := newTestContext()
	item := func(key, text string) *vdom.VNode {
		if key == "" {
			return vdom.H("li", nil, text)
		}
		return vdom.H("li", vdom.Props{"key": key}, text)
	}

	rc.Render(vdom.H("ul", nil,
		item("a", "a"), item("", "u1"), item("b", "b"), item("", "u2"),
	), doc.Body())
	ul := findTag(doc.Body(), "ul")
	byText := make(map[string]uint32, 4)
	for _, c := range ul.Children() {
		byText[c.TextContent()] = c.ID()
	}

	rc.Render(vdom.H("ul", nil,
		item("b", "b"), item("", "one"), item("a", "a"), item("", "two"),
	), doc.Body())

	texts := make([]string, 0, 4)
	for _, c := range ul.Children() {
		texts = append(texts, c.TextContent())
	}
	if diff := cmp.Diff([]string{"b", "one", "a", "two"}, texts); diff != "" {
		t.Fatalf("content (-want +got):\n%s", diff)
	}
	// unkeyed entries pair positionally among themselves
	if ul.ChildAt(1).ID() != byText["u1"] {
		t.Error("first unkeyed entry was not paired with the first old unkeyed node")
	}
	if ul.ChildAt(3).ID() != byText["u2"] {
		t.Error("second unkeyed entry was not paired with the second old unkeyed node")
	}
	if ul.ChildAt(0).ID() != byText["b"] || ul.ChildAt(2).ID() != byText["a"] {
		t.Error("keyed nodes were recreated in a mixed list")
	}
}

func TestPortalMountsUnderTarget(t *testing.T) {
	doc, rc := newTestContext()
	target := doc.NewContainer("div")

	rc.Render(vdom.H("main", nil,
		vdom.H("p", nil, "inline"),
		vdom.CreatePortal(vdom.H("span", nil, "floated"), target),
	), doc.Body())

	if findTag(findTag(doc.Body(), "main"), "span") != nil {
		t.Error("portal child mounted at its logical position")
	}
	span := findTag(target, "span")
	if span == nil {
		t.Fatal("portal child not mounted under target")
	}

	rc.Render(nil, doc.Body())
	if findTag(target, "span") != nil {
		t.Error("portal child survived unmount")
	}
}

func TestRenderNilUnmounts(t *testing.T) {
	doc, rc := newTestContext()

	rc.Render(vdom.H("div", nil, "content"), doc.Body())
	rc.Render(nil, doc.Body())

	if got := doc.Body().InnerHTML(); got != "" {
		t.Fatalf("InnerHTML() = %s, want empty", got)
	}

	// a fresh mount after unmount starts clean
	rc.Render(vdom.H("p", nil, "again"), doc.Body())
	if got := doc.Body().InnerHTML(); got != "<p>again</p>" {
		t.Fatalf("remount: %s", got)
	}
}

func TestMultipleRootsAreIndependent(t *testing.T) {
	doc, rc := newTestContext()
	other := doc.NewContainer("section")

	var setA runtime.SetState[int]
	counterA := func(props vdom.Props) *vdom.VNode {
		n, set := runtime.UseState(0)
		setA = set
		return vdom.H("p", nil, vdom.Textf("a=%d", n))
	}
	counterB := func(props vdom.Props) *vdom.VNode {
		n, _ := runtime.UseState(100)
		return vdom.H("p", nil, vdom.Textf("b=%d", n))
	}

	rc.Render(vdom.H(counterA, nil), doc.Body())
	rc.Render(vdom.H(counterB, nil), other)

	setA.Set(1)

	if got := doc.Body().TextContent(); got != "a=1" {
		t.Errorf("root A = %q", got)
	}
	if got := other.TextContent(); got != "b=100" {
		t.Errorf("root B = %q, update leaked across roots", got)
	}
}

func TestComponentPanicPropagates(t *testing.T) {
	doc, rc := newTestContext()
	boom := func(props vdom.Props) *vdom.VNode {
		panic("component exploded")
	}

	defer func() {
		if r := recover(); r != "component exploded" {
			t.Fatalf("recovered %v", r)
		}
	}()
	rc.Render(vdom.H(boom, nil), doc.Body())
}

func tagsOf(n *livedom.Node) string {
	s := ""
	for i, c := range n.Children() {
		if i > 0 {
			s += ","
		}
		s += c.Tag()
	}
	return s
}
