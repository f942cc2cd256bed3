package alarm

import (
	"context"

	"github.com/oshokin/kitchen-display/internal/eventloop"
	"github.com/oshokin/kitchen-display/internal/logger"
	"github.com/oshokin/kitchen-display/internal/metrics"
)

// Scheduler plays alarm envelopes on a tone output.
type Scheduler struct {
	// loop runs burst and cutoff callbacks.
	loop eventloop.Scheduler
	// output produces the tones.
	output ToneOutput
	// envelope shapes every alarm.
	envelope Envelope
	// metrics counts bursts and tone failures.
	metrics *metrics.Metrics
}

// NewScheduler creates a Scheduler. m may be nil.
func NewScheduler(loop eventloop.Scheduler, output ToneOutput, envelope Envelope, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		loop:     loop,
		output:   output,
		envelope: envelope,
		metrics:  m,
	}
}

// Envelope returns the envelope shared by all alarms.
func (s *Scheduler) Envelope() Envelope {
	return s.envelope
}

// Playback is one running alarm envelope.
type Playback struct {
	frequency float64
	bursts    int
	done      chan struct{}
}

// Done is closed once the envelope duration has elapsed.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Frequency returns the pitch of every burst of this playback.
func (p *Playback) Frequency() float64 {
	return p.frequency
}

// Bursts returns how many bursts were started so far.
// Read it from the loop or after Done is closed.
func (p *Playback) Bursts() int {
	return p.bursts
}

// Run starts an alarm at frequency: one burst now, another every play+pause
// period, until the envelope duration elapses. Then the burst schedule is
// canceled, Done is closed and onDone runs on the loop. A burst still
// sounding at the cutoff is left to finish on its own stop timer.
func (s *Scheduler) Run(ctx context.Context, frequency float64, onDone func()) *Playback {
	var (
		play     = s.envelope.Play()
		duration = s.envelope.Duration()
		deadline = s.loop.Now().Add(duration)
		playback = &Playback{
			frequency: frequency,
			done:      make(chan struct{}),
		}
	)

	burst := func() {
		// Only bursts due strictly before the cutoff may start.
		if !s.loop.Now().Before(deadline) {
			return
		}

		playback.bursts++
		s.metrics.BurstEmitted()

		tone, err := s.output.StartTone(frequency)
		if err != nil {
			s.metrics.ToneFailed()
			logger.ErrorKV(ctx, "Failed to start tone", "frequency", frequency, "error", err)

			return
		}

		s.loop.AfterFunc(play, tone.Stop)
	}

	repeat := s.loop.Every(s.envelope.Period(), burst)

	s.loop.AfterFunc(duration, func() {
		repeat.Stop()
		close(playback.done)

		if onDone != nil {
			onDone()
		}
	})

	return playback
}
