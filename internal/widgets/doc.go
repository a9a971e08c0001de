// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing helpers (star glyph rows, pane chrome, stacks)
// - geometry helpers that invert a drawing (column -> slot hit testing)
//
// Not allowed here:
// - key or mouse handling, rating state transitions, persistence
package widgets
