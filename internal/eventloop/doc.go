// Package eventloop provides the single-threaded cooperative scheduler that
// every timing component of the board runs on.
//
// Callbacks posted to a Scheduler never run concurrently with each other, so
// state owned by the clock, the alarm manager and the board needs no locks.
// Two implementations exist: Loop, driven by real timers, and Virtual, a
// deterministic scheduler whose time only moves when Advance is called.
package eventloop
