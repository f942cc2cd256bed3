package alarm

import (
	"context"

	"github.com/google/uuid"

	"github.com/oshokin/kitchen-display/internal/logger"
	"github.com/oshokin/kitchen-display/internal/metrics"
)

// Manager tracks which orders are beeping. Each order moves Idle -> Beeping
// when its alarm starts and back to Idle when the envelope completes.
// A running alarm cannot be stopped early.
type Manager struct {
	// scheduler plays the envelopes.
	scheduler *Scheduler
	// beeping maps order codes to their running alarm.
	beeping map[string]*lifecycle
	// metrics tracks started and active alarms.
	metrics *metrics.Metrics
}

// lifecycle is one Beeping period of an order.
type lifecycle struct {
	id       uuid.UUID
	playback *Playback
}

// NewManager creates a Manager playing alarms through scheduler. m may be nil.
func NewManager(scheduler *Scheduler, m *metrics.Metrics) *Manager {
	return &Manager{
		scheduler: scheduler,
		beeping:   make(map[string]*lifecycle),
		metrics:   m,
	}
}

// StartAlarm starts beeping for code and reports whether a new alarm began.
// Starting an order that is already beeping is a no-op. The frequency is
// fixed at start from the number of alarms already beeping.
func (m *Manager) StartAlarm(ctx context.Context, code string) bool {
	if _, found := m.beeping[code]; found {
		return false
	}

	var (
		frequency = m.scheduler.Envelope().Frequency(len(m.beeping))
		current   = &lifecycle{
			id: uuid.New(),
		}
	)

	m.beeping[code] = current
	m.metrics.AlarmStarted(frequency)

	ctx = logger.WithKV(ctx, "order", code, "alarm_id", current.id.String())
	logger.InfoKV(ctx, "Alarm started", "frequency", frequency, "active", len(m.beeping))

	current.playback = m.scheduler.Run(ctx, frequency, func() {
		if m.beeping[code] == current {
			delete(m.beeping, code)
		}

		m.metrics.AlarmFinished()
		logger.InfoKV(ctx, "Alarm finished", "bursts", current.playback.Bursts(), "active", len(m.beeping))
	})

	return true
}

// IsBeeping reports whether code has a running alarm.
func (m *Manager) IsBeeping(code string) bool {
	_, found := m.beeping[code]

	return found
}

// Active returns the number of running alarms.
func (m *Manager) Active() int {
	return len(m.beeping)
}

// Frequency returns the pitch of the running alarm for code.
func (m *Manager) Frequency(code string) (float64, bool) {
	current, found := m.beeping[code]
	if !found || current.playback == nil {
		return 0, false
	}

	return current.playback.Frequency(), true
}
