// Package livedom provides an in-memory live tree that implements the
// runtime.Adapter contract. It is the reference adapter: the bridge drives
// it for server-side sessions, and tests use it to observe exactly what a
// rendering pass did to the live tree.
//
// Nodes carry stable numeric IDs assigned at creation, so a wire protocol
// can address them after the fact.
package livedom
