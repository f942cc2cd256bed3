package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopClosed is returned by Run when the loop has already been closed.
var ErrLoopClosed = errors.New("event loop closed")

// Loop is a Scheduler backed by real timers. Callbacks are executed by the
// goroutine that calls Run, in the order they became due.
type Loop struct {
	// mu protects queue and closed.
	mu sync.Mutex
	// queue holds callbacks waiting for the loop goroutine.
	queue []func()
	// closed is set once Close is called; later posts are dropped.
	closed bool
	// wake signals Run that the queue is not empty.
	wake chan struct{}
	// done is closed by Close to release Run and pending Every goroutines.
	done chan struct{}
	// closeOnce guards done.
	closeOnce sync.Once
}

// New creates a loop. Nothing runs until Run is called.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post queues fn. It never blocks, so callbacks may post from inside the loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}

	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc runs fn on the loop once d has elapsed.
//
//nolint:ireturn // Handle is the scheduler contract.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	h := new(loopHandle)

	h.timer = time.AfterFunc(d, func() {
		l.Post(h.guard(fn))
	})

	return h
}

// Every runs fn on the loop immediately and then on each tick of a ticker
// with the given period. The ticker goroutine lives until the handle is
// stopped or the loop is closed.
//
//nolint:ireturn // Handle is the scheduler contract.
func (l *Loop) Every(period time.Duration, fn func()) Handle {
	h := &loopHandle{
		stop: make(chan struct{}),
	}

	guarded := h.guard(fn)
	l.Post(guarded)

	if period <= 0 {
		return h
	}

	ticker := time.NewTicker(period)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.Post(guarded)
			case <-h.stop:
				return
			case <-l.done:
				return
			}
		}
	}()

	return h
}

// Run executes queued callbacks until ctx is canceled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}

	defer l.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.done:
			return nil
		case <-l.wake:
			l.drain(ctx)
		}
	}
}

// Close stops the loop. Queued callbacks that have not run yet are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.queue = nil
		l.mu.Unlock()

		close(l.done)
	})
}

// drain runs every callback queued at the time of the call and any that those
// callbacks post in turn.
func (l *Loop) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}

		for _, fn := range batch {
			fn()
		}
	}
}

// loopHandle cancels a real timer or ticker.
type loopHandle struct {
	// timer is set for AfterFunc handles.
	timer *time.Timer
	// stop is closed to end an Every ticker goroutine.
	stop chan struct{}
	// stopped is checked on the loop so a callback already queued is skipped too.
	stopped atomic.Bool
}

// Stop cancels the handle.
func (h *loopHandle) Stop() {
	if h.stopped.Swap(true) {
		return
	}

	if h.timer != nil {
		h.timer.Stop()
	}

	if h.stop != nil {
		close(h.stop)
	}
}

// guard wraps fn so it becomes a no-op once the handle is stopped.
func (h *loopHandle) guard(fn func()) func() {
	return func() {
		if h.stopped.Load() {
			return
		}

		fn()
	}
}
