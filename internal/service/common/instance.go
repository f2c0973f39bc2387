//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another process owns the hardware.
var ErrAlreadyRunning = errors.New("another instance is already running")

// processLister returns the running processes.
type processLister func() ([]ps.Process, error)

// EnsureSingleInstance fails when another process runs the same executable.
// The reader and the GPIO lines cannot be shared.
func EnsureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	return ensureSingleInstance(ps.Processes, filepath.Base(executable), os.Getpid())
}

func ensureSingleInstance(list processLister, name string, selfPID int) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == selfPID {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, process.Pid())
	}

	return nil
}

// sameExecutable compares names; Linux truncates process names to 15 bytes.
func sameExecutable(candidate, name string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(candidate, name)
	}

	if candidate == name {
		return true
	}

	const commLen = 15

	return len(name) > commLen && candidate == name[:commLen]
}
