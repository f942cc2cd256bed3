package alarm

import (
	"errors"
	"fmt"
	"time"
)

// Envelope shapes an alarm: bursts of PlaySeconds separated by PauseSeconds,
// repeated for DurationSeconds. BaseFreq and StepFreq control pitch escalation.
type Envelope struct {
	// BaseFreq is the frequency in hertz of the first concurrent alarm.
	BaseFreq float64 `yaml:"base_freq"`
	// StepFreq is added once per alarm already beeping.
	StepFreq float64 `yaml:"step_freq"`
	// PlaySeconds is how long each burst sounds.
	PlaySeconds float64 `yaml:"play_seconds"`
	// PauseSeconds is the silence between bursts.
	PauseSeconds float64 `yaml:"pause_seconds"`
	// DurationSeconds is how long new bursts keep being scheduled.
	DurationSeconds float64 `yaml:"duration_seconds"`
}

// Defaults used by the board.
const (
	DefaultBaseFreq        = 500
	DefaultStepFreq        = 28
	DefaultPlaySeconds     = 0.5
	DefaultPauseSeconds    = 1
	DefaultDurationSeconds = 30
)

// ErrInvalidEnvelope is returned by Validate for unusable envelope values.
var ErrInvalidEnvelope = errors.New("invalid alarm envelope")

// DefaultEnvelope returns the envelope used when none is configured.
func DefaultEnvelope() Envelope {
	return Envelope{
		BaseFreq:        DefaultBaseFreq,
		StepFreq:        DefaultStepFreq,
		PlaySeconds:     DefaultPlaySeconds,
		PauseSeconds:    DefaultPauseSeconds,
		DurationSeconds: DefaultDurationSeconds,
	}
}

// IsZero reports whether no field was set.
func (e Envelope) IsZero() bool {
	return e == Envelope{}
}

// Validate rejects negative values and a zero burst period.
func (e Envelope) Validate() error {
	switch {
	case e.BaseFreq <= 0:
		return fmt.Errorf("%w: base_freq must be positive", ErrInvalidEnvelope)
	case e.StepFreq < 0, e.PlaySeconds < 0, e.PauseSeconds < 0, e.DurationSeconds < 0:
		return fmt.Errorf("%w: values must not be negative", ErrInvalidEnvelope)
	case e.PlaySeconds+e.PauseSeconds == 0:
		return fmt.Errorf("%w: play_seconds + pause_seconds must be positive", ErrInvalidEnvelope)
	default:
		return nil
	}
}

// Frequency returns the pitch of an alarm started while active others beep.
func (e Envelope) Frequency(active int) float64 {
	return e.BaseFreq + float64(active)*e.StepFreq
}

// Play returns the burst length.
func (e Envelope) Play() time.Duration {
	return seconds(e.PlaySeconds)
}

// Period returns the distance between two burst starts.
func (e Envelope) Period() time.Duration {
	return seconds(e.PlaySeconds + e.PauseSeconds)
}

// Duration returns how long bursts keep being scheduled.
func (e Envelope) Duration() time.Duration {
	return seconds(e.DurationSeconds)
}

// seconds converts fractional seconds to a duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
