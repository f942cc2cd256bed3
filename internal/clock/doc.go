// Package clock implements the board's discrete virtual clock.
//
// The clock ticks at a fixed period on an eventloop.Scheduler and derives the
// current time from the tick counter instead of reading the wall clock, so
// every order timer computed during one tick sees the same instant:
//
//	TimeSeconds = startEpochSeconds + tickCount * tickPeriod
//
// Note: Clock is not goroutine-safe. Register subscribers and read the time
// from callbacks running on the clock's scheduler.
package clock
