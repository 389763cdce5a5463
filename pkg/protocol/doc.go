// Package protocol defines the wire format between a server-side rendering
// session and its client. Patches flow server to client and describe live
// tree mutations by node ID; events flow client to server and name the node
// and handler prop to invoke.
//
// Payloads are MessagePack-encoded and wrapped in a one-byte frame envelope:
//
//	[FrameType: 1 byte][payload: msgpack]
//
// Decoding enforces the size and count limits in limits.go so a hostile
// peer cannot force unbounded allocation.
package protocol
