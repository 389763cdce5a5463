// Package bridge serves rendering sessions over HTTP and WebSocket. Each
// connection gets its own livedom document and rendering context; the
// Recorder adapter turns every live-tree mutation into a protocol patch,
// and client events are dispatched back into the component tree.
//
// The HTTP surface is a chi router exposing the WebSocket endpoint, a
// server-rendered page shell, a health check, and Prometheus metrics.
package bridge
