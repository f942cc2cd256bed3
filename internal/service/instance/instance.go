// Package instance keeps a single board process running per machine.
//
// Two boards on one kitchen screen would double every alarm, so the display
// service refuses to start while another process with the same executable
// name is alive.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another board process is alive.
var ErrAlreadyRunning = errors.New("another instance is already running")

// processLister lists running processes; replaced in tests.
type processLister func() ([]ps.Process, error)

// Guard detects other processes with the same executable name.
type Guard struct {
	// name is the executable name to look for.
	name string
	// pid is this process, which is always skipped.
	pid int
	// list enumerates processes.
	list processLister
}

// NewGuard creates a Guard for the current executable.
func NewGuard() *Guard {
	return &Guard{
		name: filepath.Base(os.Args[0]),
		pid:  os.Getpid(),
		list: ps.Processes,
	}
}

// Ensure returns ErrAlreadyRunning when another process has our executable name.
func (g *Guard) Ensure() error {
	processList, err := g.list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == g.pid {
			continue
		}

		if process.Executable() != g.name {
			continue
		}

		return fmt.Errorf("%w: %s (pid %d)", ErrAlreadyRunning, g.name, process.Pid())
	}

	return nil
}
