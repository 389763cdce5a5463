package runtime

import "sync/atomic"

// idCounter is the global ID source for context tokens.
var idCounter atomic.Uint64

// nextID returns a process-unique identifier.
func nextID() uint64 {
	return idCounter.Add(1)
}
