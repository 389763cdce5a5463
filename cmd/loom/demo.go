package main

import (
	"github.com/loom-ui/loom/pkg/runtime"
	"github.com/loom-ui/loom/pkg/vdom"
)

// demoApp is the built-in counter served by "loom serve". It exercises
// state and memoized values so a fresh checkout has something live to
// poke at.
func demoApp(props vdom.Props) *vdom.VNode {
	count, setCount := runtime.UseState(0)
	parity := runtime.UseMemo(func() string {
		if count%2 == 0 {
			return "even"
		}
		return "odd"
	}, []any{count})

	return vdom.Div(vdom.Props{"className": "demo"},
		vdom.H1(nil, vdom.Text("Loom demo")),
		vdom.P(vdom.Props{"className": "count"},
			vdom.Textf("count: %d (%s)", count, parity),
		),
		vdom.Button(vdom.Props{
			"onclick": func() { setCount.Update(func(n int) int { return n + 1 }) },
		}, vdom.Text("increment")),
		vdom.Button(vdom.Props{
			"onclick": func() { setCount.Set(0) },
		}, vdom.Text("reset")),
	)
}
