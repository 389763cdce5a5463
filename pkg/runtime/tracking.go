package runtime

import (
	goruntime "runtime"
	"sync"
)

// activeContexts stores the RenderingContext currently rendering on each
// goroutine. Hooks have no receiver, so this is how they find their
// environment; keying by goroutine keeps independent contexts (and parallel
// tests) from observing each other.
var activeContexts sync.Map

// getGoroutineID extracts the current goroutine's ID from the runtime
// stack header ("goroutine <id> ..."). Implementation detail; never exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := goruntime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// activeContext returns the RenderingContext rendering on this goroutine,
// or nil when no render is in progress.
func activeContext() *RenderingContext {
	if rc, ok := activeContexts.Load(getGoroutineID()); ok {
		return rc.(*RenderingContext)
	}
	return nil
}

// setActiveContext installs rc for this goroutine and returns the previous
// value so callers can restore it.
func setActiveContext(rc *RenderingContext) *RenderingContext {
	gid := getGoroutineID()
	var old *RenderingContext
	if prev, ok := activeContexts.Load(gid); ok {
		old = prev.(*RenderingContext)
	}
	if rc == nil {
		activeContexts.Delete(gid)
	} else {
		activeContexts.Store(gid, rc)
	}
	return old
}
