package vdom

import "testing"

func TestSameTypeHosts(t *testing.T) {
	if !SameType(Div(), Div()) {
		t.Error("two divs should be the same type")
	}
	if SameType(Div(), P()) {
		t.Error("div and p should differ")
	}
	if SameType(Div(), Text("x")) {
		t.Error("host and text should differ")
	}
}

func TestSameTypeComponents(t *testing.T) {
	a := ComponentFn(func(Props) *VNode { return Div() })
	b := ComponentFn(func(Props) *VNode { return Div() })

	if !SameType(H(a, nil), H(a, nil)) {
		t.Error("same function should be the same type")
	}
	if SameType(H(a, nil), H(b, nil)) {
		t.Error("different functions should differ")
	}
}

func TestSameTypeNil(t *testing.T) {
	if SameType(nil, Div()) || SameType(Div(), nil) || SameType(nil, nil) {
		t.Error("nil never matches")
	}
}

func TestIsEventProp(t *testing.T) {
	cases := map[string]bool{
		"onclick":  true,
		"OnClick":  true,
		"ONCLICK":  true,
		"oninput":  true,
		"on":       false,
		"class":    false,
		"once":     true, // prefix rule is deliberately dumb; adapters own event keys
		"disabled": false,
	}
	for key, want := range cases {
		if got := IsEventProp(key); got != want {
			t.Errorf("IsEventProp(%q) = %v, want %v", key, got, want)
		}
	}
}
