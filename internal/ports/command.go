// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// CommandResult represents the result of executing a shell command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Combined returns stdout followed by stderr, suitable for verbatim logging.
func (r CommandResult) Combined() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	}
	return r.Stdout + r.Stderr
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}
