package protocol

import (
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Event is a client interaction: the node it happened on and the handler
// prop to invoke ("onclick", "oninput", ...). Payload is an opaque value
// forwarded to the handler, typically an input's current value.
type Event struct {
	Seq     uint64 `msgpack:"seq"`
	Node    uint32 `msgpack:"node"`
	Name    string `msgpack:"name"`
	Payload string `msgpack:"payload,omitempty"`
}

// Validate checks the event against protocol limits.
func (ev *Event) Validate() error {
	if !isHandlerName(ev.Name) {
		return ErrBadEventName
	}
	if len(ev.Payload) > MaxEventPayloadBytes {
		return ErrPayloadTooLarge
	}
	return nil
}

// isHandlerName reports whether name is shaped like a handler prop: a
// lowercase "on" prefix with a non-empty event name.
func isHandlerName(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on")
}

// EncodeEvent serializes an event.
func EncodeEvent(ev *Event) ([]byte, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return msgpack.Marshal(ev)
}

// DecodeEvent deserializes and validates an event.
func DecodeEvent(data []byte) (*Event, error) {
	var ev Event
	if err := msgpack.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
