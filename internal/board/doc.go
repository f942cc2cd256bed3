// Package board keeps the render state of every order on the kitchen display.
//
// Board is the presenter between the order feed and the timing core: Update
// reconciles the tracked orders with the latest feed, and a clock subscriber
// recomputes every countdown on each tick and starts the alarm of an order
// whose countdown reaches zero. Render state lives in an explicit map keyed
// by order code; Snapshot exposes it to renderers.
package board
