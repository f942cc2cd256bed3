package board

import (
	"context"

	"github.com/oshokin/kitchen-display/internal/domain/order"
	"github.com/oshokin/kitchen-display/internal/logger"
	"github.com/oshokin/kitchen-display/internal/metrics"
	"github.com/oshokin/kitchen-display/internal/timer"
)

// Clock is the clock surface the board depends on.
type Clock interface {
	OnTick(fn func())
	OnNextTick(fn func())
	TimeSeconds() float64
}

// Alarms starts the alarm of an overdue order.
type Alarms interface {
	StartAlarm(ctx context.Context, code string) bool
}

// View is the render state of one order.
type View struct {
	// Order is the latest copy received from the feed.
	Order order.Order
	// Timer is the countdown computed on the last tick.
	Timer order.TimerStatus
	// TimerVisible turns true on the tick after the order first appears.
	TimerVisible bool
	// Expiring marks an order late by less than a minute.
	Expiring bool
	// Expired marks an order past its ready time.
	Expired bool
	// Hidden marks a completed order or one late beyond its hide threshold.
	Hidden bool
	// Unaccepted marks an order the kitchen has not confirmed yet.
	Unaccepted bool
}

// entry is the board-owned state of one order.
type entry struct {
	order        order.Order
	timer        order.TimerStatus
	ticked       bool
	timerVisible bool
}

// Board tracks orders and drives their countdowns from the clock.
// It is not goroutine-safe; call it from the clock's scheduler.
type Board struct {
	ctx     context.Context //nolint:containedctx // Used by tick callbacks for logging.
	clock   Clock
	alarms  Alarms
	metrics *metrics.Metrics
	// entries maps order codes to render state.
	entries map[string]*entry
	// codes keeps display order: first appearance in the feed.
	codes []string
}

// New creates a Board and subscribes it to clock ticks. m may be nil.
func New(ctx context.Context, clock Clock, alarms Alarms, m *metrics.Metrics) *Board {
	b := &Board{
		ctx:     logger.WithName(ctx, "board"),
		clock:   clock,
		alarms:  alarms,
		metrics: m,
		entries: make(map[string]*entry),
	}

	clock.OnTick(b.tick)

	return b
}

// Update reconciles the board with the latest feed: orders missing from it
// are dropped, new ones are added and existing ones get the fresh record.
func (b *Board) Update(orders []order.Order) {
	present := make(map[string]struct{}, len(orders))
	for i := range orders {
		present[orders[i].Code] = struct{}{}
	}

	kept := b.codes[:0]

	for _, code := range b.codes {
		if _, found := present[code]; found {
			kept = append(kept, code)

			continue
		}

		delete(b.entries, code)
		logger.DebugKV(b.ctx, "Order removed", "order", code)
	}

	b.codes = kept

	for i := range orders {
		o := orders[i]

		if current, found := b.entries[o.Code]; found {
			current.order = o

			continue
		}

		added := &entry{
			order: o,
		}

		b.entries[o.Code] = added
		b.codes = append(b.codes, o.Code)

		b.clock.OnNextTick(func() {
			added.timerVisible = true
		})

		logger.DebugKV(b.ctx, "Order added", "order", o.Code, "customer", o.CustomerName)
	}

	b.metrics.SetOrdersOnBoard(len(b.codes))
}

// Snapshot returns the views of all tracked orders in display order.
func (b *Board) Snapshot() []View {
	views := make([]View, 0, len(b.codes))

	for _, code := range b.codes {
		views = append(views, b.entries[code].view())
	}

	return views
}

// Len returns the number of tracked orders.
func (b *Board) Len() int {
	return len(b.codes)
}

// tick recomputes every countdown and starts the alarm of expired orders.
func (b *Board) tick() {
	for _, code := range b.codes {
		current := b.entries[code]
		current.timer = timer.Compute(&current.order, b.clock)
		current.ticked = true

		if current.timer.IsExpired {
			b.alarms.StartAlarm(b.ctx, code)
		}
	}
}

// view derives the render flags from the latest order and countdown.
func (e *entry) view() View {
	v := View{
		Order:        e.order,
		Timer:        e.timer,
		TimerVisible: e.timerVisible,
		Unaccepted:   !e.order.Accepted,
		Hidden:       e.order.Completed,
	}

	if !e.ticked {
		return v
	}

	v.Expiring = e.timer.IsExpiring()
	v.Expired = e.timer.IsDelayed
	v.Hidden = v.Hidden || e.timer.ShouldHide(&e.order)

	return v
}
