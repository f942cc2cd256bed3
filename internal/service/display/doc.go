// Package display wires the kitchen display process together.
//
// Run loads the configuration, builds the event loop, clock, alarm manager,
// board, feed poller and terminal renderer, and serves the optional metrics
// and health endpoints until the context is canceled.
package display
