package display

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/kitchen-display/internal/alarm"
	"github.com/oshokin/kitchen-display/internal/board"
	"github.com/oshokin/kitchen-display/internal/config"
	"github.com/oshokin/kitchen-display/internal/domain/order"
	"github.com/oshokin/kitchen-display/internal/eventloop"
	"github.com/oshokin/kitchen-display/internal/metrics"
)

var errFeedDown = errors.New("feed down")

// staticFetcher returns the same orders on every call.
type staticFetcher struct {
	orders []order.Order
	err    error
	calls  atomic.Int32
}

// Fetch counts the call and returns the fixed result.
func (f *staticFetcher) Fetch(context.Context) ([]order.Order, error) {
	f.calls.Add(1)

	return f.orders, f.err
}

// blockingFetcher blocks until release is closed.
type blockingFetcher struct {
	release chan struct{}
	calls   atomic.Int32
}

// Fetch waits for release or ctx.
func (f *blockingFetcher) Fetch(ctx context.Context) ([]order.Order, error) {
	f.calls.Add(1)

	select {
	case <-f.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// recordingRenderer keeps the last frame.
type recordingRenderer struct {
	mu     sync.Mutex
	frames int
	last   []board.View
}

// Render stores views.
func (r *recordingRenderer) Render(views []board.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	r.last = views

	return nil
}

// silentOutput is a ToneOutput with no sound.
type silentOutput struct{}

// StartTone returns a tone that does nothing.
//
//nolint:ireturn // Tone is the output contract.
func (silentOutput) StartTone(float64) (alarm.Tone, error) {
	return silentTone{}, nil
}

// silentTone has nothing to stop.
type silentTone struct{}

// Stop does nothing.
func (silentTone) Stop() {}

// onLoop runs fn on the loop goroutine and returns its result.
func onLoop[T any](loop eventloop.Scheduler, fn func() T) T {
	result := make(chan T, 1)

	loop.Post(func() { result <- fn() })

	return <-result
}

// testConfig returns defaults with a fast refresh.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.TickPeriod = time.Second
	cfg.RefreshInterval = 2 * time.Second
	cfg.FetchTimeout = time.Second

	return cfg
}

// TestDisplay_RefreshTickAndAlarm runs the wired display on the real loop in a bubble.
func TestDisplay_RefreshTickAndAlarm(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var (
			now     = time.Now()
			loop    = eventloop.New()
			fetcher = &staticFetcher{orders: []order.Order{
				{Code: "A", StartDate: now, DurationMinutes: 1, HideAfterMinutes: 5, Accepted: true},
			}}
			renderer = new(recordingRenderer)
			d        = newDisplay(ctx, loop, testConfig(), silentOutput{}, fetcher, renderer, nil)
			errCh    = make(chan error, 1)
		)

		go func() { errCh <- loop.Run(ctx) }()

		d.start()

		time.Sleep(2500 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, onLoop(loop, d.board.Len))
		require.EqualValues(t, 2, fetcher.calls.Load())

		renderer.mu.Lock()
		require.Len(t, renderer.last, 1)
		require.True(t, renderer.last[0].TimerVisible)
		require.Equal(t, "0:58", renderer.last[0].Timer.Label())
		renderer.mu.Unlock()

		time.Sleep(58 * time.Second)
		synctest.Wait()

		require.True(t, onLoop(loop, func() bool { return d.alarms.IsBeeping("A") }))
		require.EqualValues(t, 31, fetcher.calls.Load())

		cancel()
		require.NoError(t, <-errCh)
	})
}

// TestPoller_SkipsWhileFetchInFlight ensures a slow feed is never fetched twice at once.
func TestPoller_SkipsWhileFetchInFlight(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var (
			registry = prometheus.NewRegistry()
			m        = metrics.MustNewMetrics(registry)
			loop     = eventloop.New()
			fetcher  = &blockingFetcher{release: make(chan struct{})}
			cfg      = testConfig()
		)

		cfg.FetchTimeout = time.Minute

		d := newDisplay(ctx, loop, cfg, silentOutput{}, fetcher, nil, m)
		errCh := make(chan error, 1)

		go func() { errCh <- loop.Run(ctx) }()

		d.poller.start()

		time.Sleep(3 * time.Second)
		synctest.Wait()

		require.EqualValues(t, 1, fetcher.calls.Load())

		close(fetcher.release)
		synctest.Wait()

		expected := `
# HELP kitchen_display_feed_refreshes_total Order feed refreshes by outcome.
# TYPE kitchen_display_feed_refreshes_total counter
kitchen_display_feed_refreshes_total{status="ok"} 1
kitchen_display_feed_refreshes_total{status="skipped"} 1
`
		require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
			"kitchen_display_feed_refreshes_total"))

		cancel()
		require.NoError(t, <-errCh)
	})
}

// TestPoller_FailureKeepsBoard checks a failed refresh leaves the previous orders in place.
func TestPoller_FailureKeepsBoard(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var (
			now     = time.Now()
			loop    = eventloop.New()
			fetcher = &staticFetcher{orders: []order.Order{
				{Code: "A", StartDate: now, DurationMinutes: 10, Accepted: true},
			}}
			d     = newDisplay(ctx, loop, testConfig(), silentOutput{}, fetcher, nil, nil)
			errCh = make(chan error, 1)
		)

		go func() { errCh <- loop.Run(ctx) }()

		d.start()
		synctest.Wait()

		require.Equal(t, 1, onLoop(loop, d.board.Len))

		onLoop(loop, func() struct{} {
			fetcher.orders, fetcher.err = nil, errFeedDown

			return struct{}{}
		})

		time.Sleep(2 * time.Second)
		synctest.Wait()

		require.EqualValues(t, 2, fetcher.calls.Load())
		require.Equal(t, 1, onLoop(loop, d.board.Len))

		cancel()
		require.NoError(t, <-errCh)
	})
}

// TestApplyOverrides verifies only non-empty options replace settings.
func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	applyOverrides(cfg, &Options{
		OrdersSource:   "http://pos.local/orders.json",
		ToneOutput:     "log",
		MetricsAddress: ":9108",
	})

	require.Equal(t, "http://pos.local/orders.json", cfg.OrdersSource)
	require.Equal(t, "log", cfg.ToneOutput)
	require.Equal(t, ":9108", cfg.MetricsAddress)
	require.Equal(t, config.Default().ManualOrdersSource, cfg.ManualOrdersSource)
	require.Equal(t, config.Default().LogLevel, cfg.LogLevel)
}
