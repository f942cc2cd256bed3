package display

import (
	"context"
	"time"

	"github.com/oshokin/kitchen-display/internal/board"
	"github.com/oshokin/kitchen-display/internal/domain/order"
	"github.com/oshokin/kitchen-display/internal/eventloop"
	"github.com/oshokin/kitchen-display/internal/logger"
	"github.com/oshokin/kitchen-display/internal/metrics"
)

// Fetcher returns the current list of orders.
type Fetcher interface {
	Fetch(ctx context.Context) ([]order.Order, error)
}

// poller refreshes the board from the feed: once right away, then every
// interval. Fetching runs off the loop; the result is posted back to it.
type poller struct {
	ctx      context.Context //nolint:containedctx // Process-lifetime context for background fetches.
	loop     eventloop.Scheduler
	fetcher  Fetcher
	board    *board.Board
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	// inFlight is set while a fetch is running; only touched on the loop.
	inFlight bool
}

// start schedules the refreshes for the lifetime of the loop.
func (p *poller) start() {
	p.loop.Every(p.interval, p.refresh)
}

// refresh launches a fetch unless the previous one is still running.
func (p *poller) refresh() {
	if p.inFlight {
		p.metrics.FeedRefreshed(metrics.FeedStatusSkipped)
		logger.DebugKV(p.ctx, "Previous feed refresh still running, skipping")

		return
	}

	p.inFlight = true

	go func() {
		ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
		defer cancel()

		orders, err := p.fetcher.Fetch(ctx)

		p.loop.Post(func() {
			p.apply(orders, err)
		})
	}()
}

// apply updates the board with a fetch result. A failed refresh keeps the
// previous board; the next period simply tries again.
func (p *poller) apply(orders []order.Order, err error) {
	p.inFlight = false

	if err != nil {
		p.metrics.FeedRefreshed(metrics.FeedStatusError)
		logger.ErrorKV(p.ctx, "Failed to refresh orders", "error", err)

		return
	}

	p.board.Update(orders)
	p.metrics.FeedRefreshed(metrics.FeedStatusOK)
	logger.DebugKV(p.ctx, "Orders refreshed", "orders", len(orders))
}
