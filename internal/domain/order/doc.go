// Package order contains the core domain types of the kitchen display.
//
// It defines Order (a ticket read from the order feed) and TimerStatus (the
// countdown derived from an order at one clock instant).
package order
