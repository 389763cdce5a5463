package runtime

import "fmt"

// hookEnv returns the rendering context and instance for the component
// currently executing. Panics with *HookContextError when no component is
// executing: hooks are only callable during a render.
func hookEnv(hook string) (*RenderingContext, *Instance) {
	rc := activeContext()
	if rc == nil || rc.current == nil {
		panic(&HookContextError{Hook: hook})
	}
	return rc, rc.current
}

// slotAt fetches the slot at the current cursor position, creating it on
// the instance's first execution. Slot identity is purely positional: the
// i-th hook call always maps to the i-th slot. A type mismatch or an extra
// hook call after the first completed render panics with *HookOrderError.
func slotAt[S any](inst *Instance, hook string, create func() S) S {
	i := inst.hookCursor
	inst.hookCursor++

	if i < len(inst.hooks) {
		s, ok := inst.hooks[i].(S)
		if !ok {
			panic(&HookOrderError{Slot: i, Hook: hook,
				Reason: fmt.Sprintf("slot holds a %T", inst.hooks[i])})
		}
		return s
	}

	if inst.hookCount >= 0 {
		panic(&HookOrderError{Slot: i, Hook: hook,
			Reason: "more hook calls than the previous render"})
	}

	s := create()
	inst.hooks = append(inst.hooks, s)
	return s
}

// =============================================================================
// State
// =============================================================================

type stateSlot[T any] struct {
	rc    *RenderingContext
	inst  *Instance
	value T
}

// SetState is the stable setter bound to one state slot. Its identity is
// the same on every render of the owning component, so it is safe in
// dependency lists.
type SetState[T any] struct {
	slot *stateSlot[T]
}

// Set replaces the slot value and synchronously re-renders the owning
// root from its original top-level description. Setting a value identical
// to the current one (reference or primitive equality) is a no-op.
func (s SetState[T]) Set(next T) {
	if valuesEqual(s.slot.value, next) {
		return
	}
	s.slot.value = next
	s.slot.rc.requestRender(s.slot.inst)
}

// Update derives the next value from the previous one, with Set semantics.
func (s SetState[T]) Update(fn func(T) T) {
	s.Set(fn(s.slot.value))
}

// UseState returns the slot's current value and its setter. The initial
// value is only consulted on the slot's first execution.
func UseState[T any](initial T) (T, SetState[T]) {
	return useState("UseState", func() T { return initial })
}

// UseStateFunc is UseState with lazy initialization: init runs once, on the
// slot's first execution.
func UseStateFunc[T any](init func() T) (T, SetState[T]) {
	return useState("UseStateFunc", init)
}

func useState[T any](hook string, init func() T) (T, SetState[T]) {
	rc, inst := hookEnv(hook)
	slot := slotAt(inst, hook, func() *stateSlot[T] {
		return &stateSlot[T]{rc: rc, inst: inst, value: init()}
	})
	return slot.value, SetState[T]{slot: slot}
}

// =============================================================================
// Reducer
// =============================================================================

type reducerSlot[S, A any] struct {
	rc      *RenderingContext
	inst    *Instance
	state   S
	reducer func(S, A) S
}

// Dispatch sends actions to one reducer slot. Stable across renders.
type Dispatch[S, A any] struct {
	slot *reducerSlot[S, A]
}

// Dispatch resolves the next state via the slot's current reducer and
// re-renders the owning root unless the state is identical.
func (d Dispatch[S, A]) Dispatch(action A) {
	next := d.slot.reducer(d.slot.state, action)
	if valuesEqual(d.slot.state, next) {
		return
	}
	d.slot.state = next
	d.slot.rc.requestRender(d.slot.inst)
}

// UseReducer returns the slot's current state and a dispatcher. The reducer
// reference is refreshed on every execution, so a reducer closing over new
// values may safely change between renders without invalidating the slot.
func UseReducer[S, A any](reducer func(S, A) S, initial S) (S, Dispatch[S, A]) {
	return useReducer("UseReducer", reducer, func() S { return initial })
}

// UseReducerInit is UseReducer with lazy initialization: init(initialArg)
// computes the initial state once, on the slot's first execution.
func UseReducerInit[S, A, I any](reducer func(S, A) S, initialArg I, init func(I) S) (S, Dispatch[S, A]) {
	return useReducer("UseReducerInit", reducer, func() S { return init(initialArg) })
}

func useReducer[S, A any](hook string, reducer func(S, A) S, init func() S) (S, Dispatch[S, A]) {
	rc, inst := hookEnv(hook)
	slot := slotAt(inst, hook, func() *reducerSlot[S, A] {
		return &reducerSlot[S, A]{rc: rc, inst: inst, state: init()}
	})
	slot.reducer = reducer
	return slot.state, Dispatch[S, A]{slot: slot}
}

// =============================================================================
// Ref
// =============================================================================

// Ref is an owned mutable cell stored in the slot array. The returned
// pointer is the slot itself: it is never reallocated across re-renders,
// and mutating Current never triggers a re-render.
type Ref[T any] struct {
	Current T
}

// UseRef returns the slot's cell, creating it with initial on the slot's
// first execution.
func UseRef[T any](initial T) *Ref[T] {
	_, inst := hookEnv("UseRef")
	return slotAt(inst, "UseRef", func() *Ref[T] {
		return &Ref[T]{Current: initial}
	})
}

// =============================================================================
// Memo and Callback
// =============================================================================

type memoSlot[T any] struct {
	value    T
	deps     []any
	hasDeps  bool
	computed bool
}

// UseMemo returns a cached computation, recomputing when the dependency
// list's length changes or any element fails the identity check. A nil
// dependency list disables memoization: compute runs every render.
func UseMemo[T any](compute func() T, deps []any) T {
	_, inst := hookEnv("UseMemo")
	slot := slotAt(inst, "UseMemo", func() *memoSlot[T] {
		return &memoSlot[T]{}
	})
	if !slot.computed || deps == nil || !slot.hasDeps || depsChanged(slot.deps, deps) {
		slot.value = compute()
		slot.computed = true
	}
	slot.deps, slot.hasDeps = deps, deps != nil
	return slot.value
}

type callbackSlot[T any] struct {
	fn      T
	deps    []any
	hasDeps bool
	stored  bool
}

// UseCallback returns a stable function identity, swapping in the new fn
// only when the dependency list changes (same rule as UseMemo).
func UseCallback[T any](fn T, deps []any) T {
	_, inst := hookEnv("UseCallback")
	slot := slotAt(inst, "UseCallback", func() *callbackSlot[T] {
		return &callbackSlot[T]{}
	})
	if !slot.stored || deps == nil || !slot.hasDeps || depsChanged(slot.deps, deps) {
		slot.fn = fn
		slot.stored = true
	}
	slot.deps, slot.hasDeps = deps, deps != nil
	return slot.fn
}

// =============================================================================
// Effect
// =============================================================================

// Cleanup undoes an effect. It runs before the effect re-runs and when the
// owning component unmounts.
type Cleanup = func()

type effectSlot struct {
	cleanup Cleanup
	deps    []any
	hasDeps bool
	hasRun  bool
}

// UseEffect schedules fn to run after the current render completes, iff
// this is the slot's first execution, deps is nil, or any dependency
// changed. The previous cleanup (if any) runs before the new body; panics
// in cleanup and body are recovered and logged independently, each
// continuing past the other.
func UseEffect(fn func() Cleanup, deps []any) {
	rc, inst := hookEnv("UseEffect")
	slot := slotAt(inst, "UseEffect", func() *effectSlot {
		return &effectSlot{}
	})

	run := !slot.hasRun || deps == nil || !slot.hasDeps || depsChanged(slot.deps, deps)
	slot.hasRun = true
	slot.deps, slot.hasDeps = deps, deps != nil
	if !run {
		return
	}

	rc.scheduleEffect(func() {
		if slot.cleanup != nil {
			cleanup := slot.cleanup
			slot.cleanup = nil
			rc.runRecovered("effect cleanup", cleanup)
		}
		rc.runRecovered("effect", func() {
			slot.cleanup = fn()
		})
		metrics().effectsRun.Inc()
	})
}
