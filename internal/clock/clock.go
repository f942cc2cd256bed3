package clock

import (
	"time"

	"github.com/oshokin/kitchen-display/internal/eventloop"
)

// DefaultTickPeriod is the tick period used by the board.
const DefaultTickPeriod = time.Second

// Clock is a tick-driven time source that notifies subscribers on every tick.
type Clock struct {
	// scheduler runs the tick callback.
	scheduler eventloop.Scheduler
	// wallClock is read once by Start to fix the epoch origin.
	wallClock func() time.Time
	// tickPeriod is the distance between two ticks.
	tickPeriod time.Duration
	// tickCount is the number of completed ticks.
	tickCount int64
	// startEpochSeconds is the wall-clock second recorded by Start.
	startEpochSeconds int64
	// repeat holds subscribers that run on every tick.
	repeat []func()
	// once holds subscribers that run on the next tick only.
	once []func()
}

// Option configures a Clock.
type Option func(*Clock)

// WithWallClock overrides the wall-clock source read by Start.
func WithWallClock(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.wallClock = now
		}
	}
}

// New creates a clock ticking every tickPeriod on scheduler.
// A non-positive period falls back to DefaultTickPeriod.
func New(scheduler eventloop.Scheduler, tickPeriod time.Duration, opts ...Option) *Clock {
	if tickPeriod <= 0 {
		tickPeriod = DefaultTickPeriod
	}

	c := &Clock{
		scheduler:  scheduler,
		wallClock:  time.Now,
		tickPeriod: tickPeriod,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start records the epoch origin and begins ticking, first tick right away.
// It must be called once; the tick schedule runs for the scheduler's lifetime.
func (c *Clock) Start() {
	c.startEpochSeconds = c.wallClock().Unix()
	c.scheduler.Every(c.tickPeriod, c.tick)
}

// OnTick registers fn to run on every following tick, in registration order.
func (c *Clock) OnTick(fn func()) {
	c.repeat = append(c.repeat, fn)
}

// OnNextTick registers fn to run once, on the next tick.
func (c *Clock) OnNextTick(fn func()) {
	c.once = append(c.once, fn)
}

// TimeSeconds returns the virtual time in Unix seconds.
func (c *Clock) TimeSeconds() float64 {
	return float64(c.startEpochSeconds) + float64(c.tickCount)*c.tickPeriod.Seconds()
}

// TickCount returns the number of completed ticks.
func (c *Clock) TickCount() int64 {
	return c.tickCount
}

// TickPeriod returns the configured tick period.
func (c *Clock) TickPeriod() time.Duration {
	return c.tickPeriod
}

// tick runs repeat subscribers, then the pending one-shots, then advances the
// counter. Both subscriber lists are snapshotted first, so anything
// registered during the tick waits for the next one.
func (c *Clock) tick() {
	repeat := c.repeat[:len(c.repeat):len(c.repeat)]
	once := c.once
	c.once = nil

	for _, fn := range repeat {
		fn()
	}

	for _, fn := range once {
		fn()
	}

	c.tickCount++
}
