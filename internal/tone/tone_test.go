package tone

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/kitchen-display/internal/alarm"
)

var errBroken = errors.New("broken output")

// countingOutput counts starts and stops, optionally failing.
type countingOutput struct {
	starts int
	stops  int
	err    error
}

// StartTone counts a start.
//
//nolint:ireturn // Tone is the output contract.
func (c *countingOutput) StartTone(float64) (alarm.Tone, error) {
	if c.err != nil {
		return nil, c.err
	}

	c.starts++

	return stopFunc(func() { c.stops++ }), nil
}

// stopFunc adapts a function to alarm.Tone.
type stopFunc func()

// Stop calls the function.
func (f stopFunc) Stop() { f() }

// TestBell_WritesBellCharacter checks that a bell tone rings once and stops silently.
func TestBell_WritesBellCharacter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	tone, err := NewBell(&buf).StartTone(500)
	require.NoError(t, err)

	tone.Stop()
	require.Equal(t, "\a", buf.String())
}

// TestMulti_FansOutAndToleratesPartialFailure verifies fan-out and the all-failed error.
func TestMulti_FansOutAndToleratesPartialFailure(t *testing.T) {
	t.Parallel()

	good := new(countingOutput)
	bad := &countingOutput{err: errBroken}

	tone, err := Multi{good, bad}.StartTone(528)
	require.NoError(t, err)

	tone.Stop()
	require.Equal(t, 1, good.starts)
	require.Equal(t, 1, good.stops)

	_, err = Multi{bad, bad}.StartTone(528)
	require.ErrorIs(t, err, errBroken)
}

// TestParse resolves output names and rejects unknown or empty lists.
func TestParse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	output, err := Parse(ctx, "log", nil)
	require.NoError(t, err)
	require.IsType(t, new(Logger), output)

	output, err = Parse(ctx, " log , BELL ", new(bytes.Buffer))
	require.NoError(t, err)
	require.IsType(t, Multi{}, output)
	require.Len(t, output.(Multi), 2) //nolint:forcetypeassert // Checked above.

	_, err = Parse(ctx, "log,siren", nil)
	require.ErrorIs(t, err, ErrUnknownOutput)

	_, err = Parse(ctx, " , ", nil)
	require.ErrorIs(t, err, ErrNoOutput)
}

// TestSpeaker_ReportsCommandErrors ensures command build and start failures surface as errors.
func TestSpeaker_ReportsCommandErrors(t *testing.T) {
	t.Parallel()

	s := &Speaker{
		command: func(context.Context, float64) (*exec.Cmd, error) {
			return nil, ErrUnsupportedOS
		},
	}

	_, err := s.StartTone(500)
	require.ErrorIs(t, err, ErrUnsupportedOS)

	s.command = func(ctx context.Context, _ float64) (*exec.Cmd, error) {
		return exec.CommandContext(ctx, "kitchen-display-no-such-beep-binary"), nil
	}

	_, err = s.StartTone(500)
	require.Error(t, err)
}

// TestLogger_StartStop ensures the logging output never fails.
func TestLogger_StartStop(t *testing.T) {
	t.Parallel()

	tone, err := NewLogger(context.Background()).StartTone(556)
	require.NoError(t, err)
	require.NotPanics(t, tone.Stop)
}
