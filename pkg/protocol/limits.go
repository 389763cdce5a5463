package protocol

import "errors"

// Version is the protocol version carried in the client hello.
const Version = 1

// Decode-side limits.
const (
	// MaxFrameBytes caps a whole frame including the envelope byte.
	MaxFrameBytes = 1 << 20

	// MaxPatchesPerFrame caps the patch count in one patches frame.
	MaxPatchesPerFrame = 4096

	// MaxEventPayloadBytes caps the opaque payload of one client event.
	MaxEventPayloadBytes = 64 << 10
)

var (
	ErrEmptyFrame       = errors.New("loom: empty frame")
	ErrFrameTooLarge    = errors.New("loom: frame exceeds size limit")
	ErrUnknownFrameType = errors.New("loom: unknown frame type")
	ErrTooManyPatches   = errors.New("loom: patch count exceeds limit")
	ErrPayloadTooLarge  = errors.New("loom: event payload exceeds size limit")
	ErrBadEventName     = errors.New("loom: event name is not a handler prop")
	ErrVersionMismatch  = errors.New("loom: protocol version mismatch")
)
