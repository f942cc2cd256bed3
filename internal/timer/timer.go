// Package timer computes order countdowns against the virtual clock.
package timer

import (
	"math"

	"github.com/oshokin/kitchen-display/internal/domain/order"
)

// secondsPerMinute converts preparation minutes into seconds.
const secondsPerMinute = 60

// TimeSource is the part of the clock the calculator reads.
type TimeSource interface {
	TimeSeconds() float64
}

// Compute returns the countdown of o at the clock's current instant.
// Minutes are truncated toward zero and the remainder keeps the sign of the
// total, so a ticket 30 seconds late reads 0 minutes and -30 seconds.
// Timestamps are not validated.
func Compute(o *order.Order, clock TimeSource) order.TimerStatus {
	endSeconds := float64(o.StartDate.Unix()) + float64(o.DurationMinutes*secondsPerMinute)
	secondsLeft := endSeconds - clock.TimeSeconds()

	minutes := math.Trunc(secondsLeft / secondsPerMinute)
	seconds := secondsLeft - minutes*secondsPerMinute

	return order.TimerStatus{
		Minutes:   int(minutes),
		Seconds:   seconds,
		IsDelayed: secondsLeft < 0,
		IsExpired: minutes == 0 && seconds == 0,
	}
}
