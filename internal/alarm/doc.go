// Package alarm schedules audible alarms for overdue orders.
//
// Scheduler turns one alarm into a bounded train of tone bursts shaped by an
// Envelope. Manager keeps the set of orders currently beeping and gives each
// new alarm a frequency one step above the previous ones, so several overdue
// orders are heard as distinct pitches.
//
// Both types run on an eventloop.Scheduler and are not goroutine-safe.
package alarm
