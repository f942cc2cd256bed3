package tone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oshokin/kitchen-display/internal/alarm"
)

// Output names accepted by Parse.
const (
	OutputLog     = "log"
	OutputBell    = "bell"
	OutputSpeaker = "speaker"
)

var (
	// ErrUnknownOutput is returned for an unrecognised output name.
	ErrUnknownOutput = errors.New("unknown tone output")
	// ErrNoOutput is returned when the list names no output.
	ErrNoOutput = errors.New("no tone output configured")
)

// Parse builds the output described by names, a comma separated list such as
// "log,bell". The bell writes to terminal.
//
//nolint:ireturn // Callers only need the output contract.
func Parse(ctx context.Context, names string, terminal io.Writer) (alarm.ToneOutput, error) {
	var outputs Multi

	for _, name := range strings.Split(names, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
			continue
		case OutputLog:
			outputs = append(outputs, NewLogger(ctx))
		case OutputBell:
			outputs = append(outputs, NewBell(terminal))
		case OutputSpeaker:
			outputs = append(outputs, NewSpeaker())
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, name)
		}
	}

	switch len(outputs) {
	case 0:
		return nil, ErrNoOutput
	case 1:
		return outputs[0], nil
	default:
		return outputs, nil
	}
}
