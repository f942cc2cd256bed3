package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestVirtual_OrdersByDueTimeThenSequence checks that callbacks run by due time and FIFO on ties.
func TestVirtual_OrdersByDueTimeThenSequence(t *testing.T) {
	t.Parallel()

	v := NewVirtual(time.Unix(1000, 0))

	var got []string

	v.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	v.AfterFunc(time.Second, func() { got = append(got, "a1") })
	v.AfterFunc(time.Second, func() { got = append(got, "a2") })
	v.Post(func() { got = append(got, "now") })

	v.Advance(time.Second)
	require.Equal(t, []string{"now", "a1", "a2"}, got)
	require.Equal(t, time.Unix(1001, 0), v.Now())

	v.Advance(time.Second)
	require.Equal(t, []string{"now", "a1", "a2", "b"}, got)
}

// TestVirtual_EveryRunsImmediatelyAndRepeats verifies the run-now-then-periodically shape and Stop.
func TestVirtual_EveryRunsImmediatelyAndRepeats(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	v := NewVirtual(start)

	var at []time.Duration

	h := v.Every(500*time.Millisecond, func() { at = append(at, v.Now().Sub(start)) })

	v.Advance(1200 * time.Millisecond)
	require.Equal(t, []time.Duration{0, 500 * time.Millisecond, time.Second}, at)

	h.Stop()
	v.Advance(5 * time.Second)
	require.Len(t, at, 3)
	require.Zero(t, v.Pending())
}

// TestVirtual_CallbacksScheduledWhileAdvancing ensures nested schedules inside the window fire.
func TestVirtual_CallbacksScheduledWhileAdvancing(t *testing.T) {
	t.Parallel()

	v := NewVirtual(time.Unix(0, 0))
	fired := false

	v.AfterFunc(time.Second, func() {
		v.AfterFunc(time.Second, func() { fired = true })
	})

	v.Advance(1500 * time.Millisecond)
	require.False(t, fired)

	v.Advance(time.Second)
	require.True(t, fired)
}

// TestVirtual_NonPositivePeriodRunsOnce guards against an infinite loop on a zero period.
func TestVirtual_NonPositivePeriodRunsOnce(t *testing.T) {
	t.Parallel()

	v := NewVirtual(time.Unix(0, 0))
	count := 0

	v.Every(0, func() { count++ })
	v.Advance(time.Minute)

	require.Equal(t, 1, count)
}

// TestLoop_RunsPostedCallbacksSerially checks that real-loop callbacks run on one goroutine in order.
func TestLoop_RunsPostedCallbacksSerially(t *testing.T) {
	t.Parallel()

	loop := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- loop.Run(ctx)
	}()

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)

	wg.Add(3)

	for i := range 3 {
		loop.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		})
	}

	wg.Wait()
	cancel()

	require.NoError(t, <-done)
	require.Equal(t, []int{0, 1, 2}, got)
}

// TestLoop_StoppedTimerDoesNotFire ensures Stop cancels a pending AfterFunc.
func TestLoop_StoppedTimerDoesNotFire(t *testing.T) {
	t.Parallel()

	loop := New()
	ctx, cancel := context.WithCancel(context.Background())

	defer cancel()

	go func() {
		_ = loop.Run(ctx)
	}()

	fired := make(chan struct{}, 1)
	h := loop.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })
	h.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

// TestLoop_EveryFiresRepeatedly verifies the ticker-driven repeat on the real loop.
func TestLoop_EveryFiresRepeatedly(t *testing.T) {
	t.Parallel()

	loop := New()
	ctx, cancel := context.WithCancel(context.Background())

	defer cancel()

	go func() {
		_ = loop.Run(ctx)
	}()

	ticks := make(chan struct{}, 16)
	h := loop.Every(10*time.Millisecond, func() { ticks <- struct{}{} })

	defer h.Stop()

	for range 3 {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("tick not delivered")
		}
	}
}

// TestLoop_RunAfterCloseFails checks that a closed loop cannot be restarted.
func TestLoop_RunAfterCloseFails(t *testing.T) {
	t.Parallel()

	loop := New()
	loop.Close()

	require.ErrorIs(t, loop.Run(context.Background()), ErrLoopClosed)
}
