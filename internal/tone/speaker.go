package tone

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/kitchen-display/internal/alarm"
)

// maxToneLength bounds a speaker tone whose Stop is never called.
const maxToneLength = time.Minute

// ErrUnsupportedOS indicates the current OS has no known beep command.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Speaker plays tones with a built-in or common platform command:
// - Linux:   `beep -f <hz> -l <ms>`
// - Windows: PowerShell `[console]::beep(<hz>, <ms>)`
// The command is started asynchronously and killed when the tone stops.
type Speaker struct {
	// command builds the process for a tone; replaced in tests.
	command func(ctx context.Context, frequency float64) (*exec.Cmd, error)
}

// NewSpeaker creates a Speaker for the current platform.
func NewSpeaker() *Speaker {
	return &Speaker{
		command: beepCommand,
	}
}

// StartTone starts the beep process.
//
//nolint:ireturn // Tone is the output contract.
func (s *Speaker) StartTone(frequency float64) (alarm.Tone, error) {
	ctx, cancel := context.WithTimeout(context.Background(), maxToneLength)

	cmd, err := s.command(ctx, frequency)
	if err != nil {
		cancel()

		return nil, err
	}

	if err = cmd.Start(); err != nil {
		cancel()

		return nil, fmt.Errorf("start beep command: %w", err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return &speakerTone{
		cancel: cancel,
	}, nil
}

// speakerTone kills its process on Stop.
type speakerTone struct {
	cancel context.CancelFunc
}

// Stop kills the beep process; the waiter goroutine reaps it.
func (t *speakerTone) Stop() {
	t.cancel()
}

// beepCommand returns the platform command playing frequency for maxToneLength.
func beepCommand(ctx context.Context, frequency float64) (*exec.Cmd, error) {
	var (
		osName   = strings.ToLower(runtime.GOOS)
		hertz    = strconv.Itoa(int(frequency))
		lengthMS = strconv.FormatInt(maxToneLength.Milliseconds(), 10)
	)

	switch {
	case strings.Contains(osName, "linux"):
		return exec.CommandContext(ctx, "beep", "-f", hertz, "-l", lengthMS), nil
	case strings.Contains(osName, "windows"):
		script := fmt.Sprintf("[console]::beep(%s, %s)", hertz, lengthMS)

		return exec.CommandContext(ctx, "powershell.exe", "-NoProfile", "-Command", script), nil
	default:
		return nil, fmt.Errorf("no beep command for %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}
