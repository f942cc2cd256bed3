package eventloop

import "time"

// Handle cancels a scheduled callback.
type Handle interface {
	// Stop prevents any further invocation of the callback. Stopping an already
	// fired one-shot callback or an already stopped handle is a no-op.
	Stop()
}

// Scheduler runs callbacks one at a time on a single logical thread.
type Scheduler interface {
	// Now returns the scheduler's notion of the current instant.
	Now() time.Time
	// Post queues fn to run as soon as the loop is free.
	Post(fn func())
	// AfterFunc runs fn once after d has elapsed.
	AfterFunc(d time.Duration, fn func()) Handle
	// Every runs fn right away and then once per period until the handle is stopped.
	// A non-positive period runs fn only once.
	Every(period time.Duration, fn func()) Handle
}
