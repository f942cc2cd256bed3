package eventloop

import (
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// Virtual is a deterministic Scheduler. Its time stands still until Advance
// is called; callbacks then run in (due time, scheduling order) order on the
// caller's goroutine. It is not safe for concurrent use.
type Virtual struct {
	// now is the current virtual instant.
	now time.Time
	// seq breaks ties between callbacks due at the same instant.
	seq uint64
	// pending is a min-heap of scheduled callbacks.
	pending *binaryheap.Heap
}

// virtualTask is one scheduled callback.
type virtualTask struct {
	at     time.Time
	seq    uint64
	fn     func()
	period time.Duration
	handle *virtualHandle
}

// virtualHandle cancels a virtual task.
type virtualHandle struct {
	stopped bool
}

// Stop cancels the task.
func (h *virtualHandle) Stop() {
	h.stopped = true
}

// NewVirtual creates a virtual scheduler whose clock starts at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{
		now:     start,
		pending: binaryheap.NewWith(compareTasks),
	}
}

// compareTasks orders tasks by due time, then by scheduling order.
func compareTasks(a, b any) int {
	left := a.(*virtualTask)  //nolint:forcetypeassert // Heap only holds tasks.
	right := b.(*virtualTask) //nolint:forcetypeassert // Heap only holds tasks.

	switch {
	case left.at.Before(right.at):
		return -1
	case left.at.After(right.at):
		return 1
	case left.seq < right.seq:
		return -1
	case left.seq > right.seq:
		return 1
	default:
		return 0
	}
}

// Now returns the current virtual instant.
func (v *Virtual) Now() time.Time {
	return v.now
}

// Post schedules fn at the current virtual instant.
func (v *Virtual) Post(fn func()) {
	v.schedule(v.now, 0, fn)
}

// AfterFunc schedules fn d after the current virtual instant.
//
//nolint:ireturn // Handle is the scheduler contract.
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Handle {
	return v.schedule(v.now.Add(d), 0, fn)
}

// Every schedules fn at the current virtual instant and then once per period.
//
//nolint:ireturn // Handle is the scheduler contract.
func (v *Virtual) Every(period time.Duration, fn func()) Handle {
	return v.schedule(v.now, period, fn)
}

// Advance moves virtual time forward by d, running every callback that
// becomes due on the way. Callbacks scheduled while advancing run too when
// their due time falls inside the window.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now.Add(d)

	for {
		top, ok := v.pending.Peek()
		if !ok {
			break
		}

		task := top.(*virtualTask) //nolint:forcetypeassert // Heap only holds tasks.
		if task.at.After(target) {
			break
		}

		v.pending.Pop()

		if task.handle.stopped {
			continue
		}

		v.now = task.at
		task.fn()

		if task.period > 0 && !task.handle.stopped {
			v.seq++
			task.at = task.at.Add(task.period)
			task.seq = v.seq
			v.pending.Push(task)
		}
	}

	v.now = target
}

// RunPending runs callbacks due at the current instant without moving time.
func (v *Virtual) RunPending() {
	v.Advance(0)
}

// Pending reports how many live callbacks are still scheduled.
func (v *Virtual) Pending() int {
	count := 0

	for _, value := range v.pending.Values() {
		if !value.(*virtualTask).handle.stopped { //nolint:forcetypeassert // Heap only holds tasks.
			count++
		}
	}

	return count
}

// schedule pushes a new task onto the heap.
func (v *Virtual) schedule(at time.Time, period time.Duration, fn func()) *virtualHandle {
	v.seq++

	handle := new(virtualHandle)
	v.pending.Push(&virtualTask{
		at:     at,
		seq:    v.seq,
		fn:     fn,
		period: period,
		handle: handle,
	})

	return handle
}
