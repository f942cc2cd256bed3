package tone

import (
	"fmt"
	"io"

	"github.com/oshokin/kitchen-display/internal/alarm"
)

// bellCharacter makes terminals beep.
const bellCharacter = "\a"

// Bell rings the terminal bell once per tone. Terminals have no pitch
// control, so the frequency is ignored.
type Bell struct {
	out io.Writer
}

// NewBell creates a Bell writing to out.
func NewBell(out io.Writer) *Bell {
	return &Bell{
		out: out,
	}
}

// StartTone rings the bell.
//
//nolint:ireturn // Tone is the output contract.
func (b *Bell) StartTone(float64) (alarm.Tone, error) {
	if _, err := io.WriteString(b.out, bellCharacter); err != nil {
		return nil, fmt.Errorf("ring bell: %w", err)
	}

	return silentTone{}, nil
}

// silentTone has nothing to stop.
type silentTone struct{}

// Stop does nothing.
func (silentTone) Stop() {}
