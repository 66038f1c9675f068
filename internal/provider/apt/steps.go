// Package apt provides the steps that prepare the base system: the
// package index refresh and the prerequisite package installs.
package apt

import (
	"fmt"
	"strings"

	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/provider/commandutil"
)

// UpdateStep refreshes and upgrades the package index. Everything later
// in the sequence depends on a trustworthy index, so its failure is fatal.
type UpdateStep struct {
	id     seq.StepID
	cfg    *config.Config
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewUpdateStep creates the package index refresh step.
func NewUpdateStep(cfg *config.Config, runner ports.CommandRunner, fs ports.FileSystem) *UpdateStep {
	return &UpdateStep{
		id:     seq.MustNewStepID("apt:update"),
		cfg:    cfg,
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *UpdateStep) ID() seq.StepID {
	return s.id
}

// Policy returns the failure policy.
func (s *UpdateStep) Policy() seq.FailurePolicy {
	return seq.PolicyFatal
}

// Check reports satisfied once this machine's index was refreshed by a
// previous run. Delete the stamp file to force a refresh.
func (s *UpdateStep) Check(_ seq.RunContext) (seq.StepStatus, error) {
	if s.fs.Exists(s.cfg.AptStampPath()) {
		return seq.StatusSatisfied, nil
	}
	return seq.StatusNeedsApply, nil
}

// Apply refreshes the index and upgrades installed packages.
func (s *UpdateStep) Apply(rc seq.RunContext) error {
	result, err := commandutil.RunLogged(rc, s.runner, "sudo", "apt-get", "update")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get update failed: %s", result.Stderr)
	}

	result, err = commandutil.RunLogged(rc, s.runner, "sudo", "apt-get", "upgrade", "-y")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get upgrade failed: %s", result.Stderr)
	}

	if err := s.fs.MkdirAll(s.cfg.StateDir(), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := s.fs.WriteFile(s.cfg.AptStampPath(), []byte("refreshed\n"), 0o644); err != nil {
		return fmt.Errorf("write refresh stamp: %w", err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *UpdateStep) Explain() seq.Explanation {
	return seq.NewExplanation(
		"Refresh package index",
		"Runs apt-get update and upgrade so every later install works against a current index.",
	)
}

// PackageStep installs one apt package.
type PackageStep struct {
	pkg    string
	id     seq.StepID
	runner ports.CommandRunner
}

// NewPackageStep creates a step installing the named package.
func NewPackageStep(pkg string, runner ports.CommandRunner) *PackageStep {
	return &PackageStep{
		pkg:    pkg,
		id:     seq.MustNewStepID("apt:package:" + pkg),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *PackageStep) ID() seq.StepID {
	return s.id
}

// Policy returns the failure policy. Base packages are hard
// dependencies for every later step.
func (s *PackageStep) Policy() seq.FailurePolicy {
	return seq.PolicyFatal
}

// Check determines if the package is already installed.
func (s *PackageStep) Check(rc seq.RunContext) (seq.StepStatus, error) {
	result, err := s.runner.Run(rc.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", s.pkg)
	if err != nil {
		if commandutil.IsCommandNotFound(err) {
			return seq.StatusNeedsApply, nil
		}
		return seq.StatusUnknown, err
	}

	// dpkg-query exits non-zero when the package is unknown.
	if !result.Success() {
		return seq.StatusNeedsApply, nil
	}
	if strings.Contains(result.Stdout, "installed") {
		return seq.StatusSatisfied, nil
	}
	return seq.StatusNeedsApply, nil
}

// Apply installs the package.
func (s *PackageStep) Apply(rc seq.RunContext) error {
	result, err := commandutil.RunLogged(rc, s.runner, "sudo", "apt-get", "install", "-y", s.pkg)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", s.pkg, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain() seq.Explanation {
	return seq.NewExplanation(
		"Install "+s.pkg,
		fmt.Sprintf("Installs the %s package via apt.", s.pkg),
	)
}
