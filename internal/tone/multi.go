package tone

import (
	"errors"

	"github.com/oshokin/kitchen-display/internal/alarm"
)

// Multi plays every tone on all of its outputs.
type Multi []alarm.ToneOutput

// StartTone starts the tone on each output. It fails only when every output
// fails; partial failures are dropped since the alarm is still audible.
//
//nolint:ireturn // Tone is the output contract.
func (m Multi) StartTone(frequency float64) (alarm.Tone, error) {
	var (
		tones multiTone
		errs  []error
	)

	for _, output := range m {
		tone, err := output.StartTone(frequency)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		tones = append(tones, tone)
	}

	if len(tones) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return tones, nil
}

// multiTone stops a group of tones together.
type multiTone []alarm.Tone

// Stop stops every tone.
func (m multiTone) Stop() {
	for _, tone := range m {
		tone.Stop()
	}
}
