package runtime

import (
	"log/slog"

	"github.com/loom-ui/loom/pkg/vdom"
)

// RenderingContext owns one rendering environment: the container-to-root
// map, the effect queue, and the provider stack. Contexts never share
// state; create one per adapter (and one per test).
//
// A RenderingContext is single-threaded by contract: all reconciliation for
// one Render call runs synchronously to completion on the calling
// goroutine.
type RenderingContext struct {
	adapter Adapter
	logger  *slog.Logger

	// roots maps container handles to mounted trees.
	roots map[Handle]*rootEntry

	// Effect queue: FIFO, drained to empty after the triggering render
	// returns. flushing is the re-entrancy guard.
	queue    []func()
	flushing bool

	// providers is the stack of active provider snapshots, pushed on
	// descent into a provider's children and popped on return. Empty
	// between top-level renders.
	providers []map[uint64]any

	// current is the instance whose component function is executing; hooks
	// address its slots. Nil outside component execution.
	current *Instance

	// renderingRoot is the root being (re)rendered; mounts stamp it onto
	// new instances for direct root back-references.
	renderingRoot *rootEntry
}

// Option configures a RenderingContext.
type Option func(*RenderingContext)

// WithLogger sets the logger used for recoverable diagnostics (effect
// errors, skipped re-renders).
func WithLogger(logger *slog.Logger) Option {
	return func(rc *RenderingContext) {
		rc.logger = logger
	}
}

// New creates an isolated RenderingContext driving the given adapter.
func New(adapter Adapter, opts ...Option) *RenderingContext {
	rc := &RenderingContext{
		adapter: adapter,
		logger:  slog.Default(),
		roots:   make(map[Handle]*rootEntry),
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Render mounts, updates, or unmounts the tree under container.
//
// A nil vnode unmounts: every effect cleanup in the subtree runs
// (depth-first, post-order), live nodes detach, and the container's root
// entry is deleted. Otherwise the description is reconciled against the
// previous instance for this container, and the root entry keeps the
// original description for later setter-triggered re-renders.
//
// Component panics propagate to the caller; the tree is left in its
// pre-panic state.
func (rc *RenderingContext) Render(vnode *vdom.VNode, container Handle) {
	if container == nil {
		panic(ErrNilContainer)
	}

	prev := setActiveContext(rc)
	defer setActiveContext(prev)

	if vnode == nil {
		if root, ok := rc.roots[container]; ok {
			rc.removeInstance(root.instance, true)
			delete(rc.roots, container)
			metrics().activeRoots.Dec()
		}
		rc.flushEffects()
		return
	}

	root, ok := rc.roots[container]
	if !ok {
		root = &rootEntry{container: container}
		rc.roots[container] = root
		metrics().activeRoots.Inc()
	}
	root.vnode = vnode
	rc.renderRoot(root)
	rc.flushEffects()
}

// renderRoot reconciles a root against its original description. The
// provider stack is guaranteed empty at entry and exit of every top-level
// walk; a non-empty stack here would mean an unbalanced push, so it is
// reset rather than trusted.
func (rc *RenderingContext) renderRoot(root *rootEntry) {
	rc.providers = rc.providers[:0]
	prevRoot := rc.renderingRoot
	rc.renderingRoot = root
	defer func() {
		rc.renderingRoot = prevRoot
		rc.providers = rc.providers[:0]
	}()

	root.instance = rc.reconcile(root.container, root.vnode, root.instance, -1)
	metrics().rendersTotal.Inc()
}

// requestRender is the setter entry point: it finds the owning root for the
// instance and re-runs reconciliation from that root's original top-level
// description. An unresolvable root logs a warning and skips the re-render.
func (rc *RenderingContext) requestRender(inst *Instance) {
	prev := setActiveContext(rc)
	defer setActiveContext(prev)

	root := rc.resolveRoot(inst)
	if root == nil {
		rc.logger.Warn("loom: state update on detached instance, re-render skipped")
		metrics().skippedRenders.Inc()
		return
	}
	rc.renderRoot(root)
	rc.flushEffects()
}

// resolveRoot locates the root entry owning inst. The direct back-reference
// set at mount is authoritative; the parent walk and full-forest search
// (which also covers portal subtrees, since portal children stay in the
// instance tree) remain as recovery for instances detached mid-flight.
func (rc *RenderingContext) resolveRoot(inst *Instance) *rootEntry {
	for p := inst; p != nil; p = p.parent {
		if p.root != nil && rc.roots[p.root.container] == p.root {
			return p.root
		}
	}
	for _, root := range rc.roots {
		if containsInstance(root.instance, inst) {
			return root
		}
	}
	return nil
}

// scheduleEffect appends a thunk to the effect queue. The queue is drained
// after the current synchronous render unwinds.
func (rc *RenderingContext) scheduleEffect(thunk func()) {
	rc.queue = append(rc.queue, thunk)
}

// flushEffects drains the queue to empty. Effects that schedule further
// effects during the flush are drained in the same pass. The re-entrancy
// flag always clears, even if a thunk panics.
func (rc *RenderingContext) flushEffects() {
	if rc.flushing {
		return
	}
	rc.flushing = true
	defer func() { rc.flushing = false }()

	for len(rc.queue) > 0 {
		thunk := rc.queue[0]
		rc.queue = rc.queue[1:]
		thunk()
	}
}

// runRecovered invokes fn, converting a panic into an error log. Used for
// effect bodies and cleanups, which degrade gracefully instead of aborting
// the queue.
func (rc *RenderingContext) runRecovered(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rc.logger.Error("loom: "+what+" panicked", "panic", r)
			metrics().effectErrors.Inc()
		}
	}()
	fn()
}
