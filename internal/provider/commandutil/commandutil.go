// Package commandutil provides helpers shared by the provider steps.
package commandutil

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
)

// RunLogged executes a command and streams its combined output verbatim
// to the run context's output sink, so a failed step stays diagnosable
// from the log alone.
func RunLogged(rc seq.RunContext, runner ports.CommandRunner, name string, args ...string) (ports.CommandResult, error) {
	result, err := runner.Run(rc.Context(), name, args...)
	if out := result.Combined(); out != "" {
		_, _ = io.WriteString(rc.Output(), out)
	}
	return result, err
}

// IsCommandNotFound reports whether an error indicates a missing executable.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return true
	}
	return false
}
