package runtime

import (
	"errors"
	"fmt"
)

// ErrNilContainer is the panic value raised by Render when the container
// handle is nil.
var ErrNilContainer = errors.New("loom: render container handle is nil")

// HookContextError is the panic value raised when a hook primitive is
// called while no component function is executing.
type HookContextError struct {
	// Hook is the name of the primitive that was misused.
	Hook string
}

func (e *HookContextError) Error() string {
	return fmt.Sprintf("loom: %s called outside a component render", e.Hook)
}

// HookOrderError is the panic value raised when a component's hook calls
// stop lining up with the slots recorded on its first render: a different
// count, or a different hook type at the same slot index. This is a
// programmer error, not a recoverable state, but it is reported as a
// distinguishable kind so tests can pin the contract.
type HookOrderError struct {
	Slot   int    // slot index of the mismatch
	Hook   string // the hook primitive that observed it
	Reason string
}

func (e *HookOrderError) Error() string {
	return fmt.Sprintf("loom: hook order changed at slot %d (%s): %s", e.Slot, e.Hook, e.Reason)
}
