package order

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Order is a ticket shown on the board. The core only reads it.
type Order struct {
	// Code uniquely identifies the order on the board.
	Code string
	// CustomerName is displayed on the ticket.
	CustomerName string
	// CustomerNote is an optional free-text note from the customer.
	CustomerNote string
	// Platform is the channel the order came from (delivery app or counter).
	Platform string
	// StartDate is the instant preparation started.
	StartDate time.Time
	// DurationMinutes is the expected preparation time.
	DurationMinutes int
	// HideAfterMinutes hides the ticket once it is this many minutes overdue.
	HideAfterMinutes int
	// ExpireAfterMinutes is carried from the feed for display purposes.
	ExpireAfterMinutes int
	// Accepted reports whether the kitchen confirmed the order.
	Accepted bool
	// Completed reports whether the order left the kitchen.
	Completed bool
	// Canceled reports whether the order was canceled upstream.
	Canceled bool
}

// TimerStatus is the countdown of an order at one instant.
type TimerStatus struct {
	// Minutes left, truncated toward zero. Negative when overdue.
	Minutes int
	// Seconds is the remainder with the same sign as the total.
	Seconds float64
	// IsDelayed reports that the countdown went negative.
	IsDelayed bool
	// IsExpired reports that the countdown is exactly zero.
	IsExpired bool
}

// Label renders the countdown as "M:S", seconds without sign.
func (s TimerStatus) Label() string {
	return fmt.Sprintf("%d:%s", s.Minutes, strconv.FormatFloat(math.Abs(s.Seconds), 'f', -1, 64))
}

// IsExpiring reports an order that just went overdue and is still in its first minute.
func (s TimerStatus) IsExpiring() bool {
	return s.IsDelayed && s.Minutes == 0
}

// ShouldHide reports whether an overdue ticket has been late long enough to hide.
func (s TimerStatus) ShouldHide(o *Order) bool {
	return s.Minutes <= -o.HideAfterMinutes
}
