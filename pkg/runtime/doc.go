// Package runtime is the Loom rendering core: it reconciles virtual node
// trees against mounted instances, mutates the live tree through an Adapter,
// gives component functions an order-indexed hook store, batches side
// effects into a deferred queue, and propagates context values down the
// tree.
//
// # Rendering
//
// A RenderingContext owns everything one rendering environment needs: the
// container-to-root map, the effect queue, and the provider stack. Contexts
// are fully isolated from one another, so tests never share state:
//
//	rc := runtime.New(adapter)
//	rc.Render(app, container)       // mount or update
//	rc.Render(nil, container)       // unmount
//
// All reconciliation work for one Render call executes synchronously to
// completion. Effects queued during the render are flushed after the walk
// finishes, before Render returns to its caller.
//
// # Hooks
//
// UseState, UseReducer, UseRef, UseMemo, UseCallback, UseEffect, and
// UseContext may only be called while a component function is executing.
// Slots are addressed purely by call order: the i-th hook call always maps
// to the i-th slot, on every execution. A component that changes its hook
// count or hook types between renders panics with *HookOrderError; a hook
// called outside a render panics with *HookContextError.
//
// # State updates
//
// Setters re-enter the reconciler synchronously with the owning root's
// original top-level description. A setter invoked with a value identical
// to the current one (reference or primitive equality) is a no-op and does
// not re-render.
package runtime
