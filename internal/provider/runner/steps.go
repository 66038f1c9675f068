// Package runner provides the step that installs the local model
// runner application. The runner serves an OpenAI-compatible API on
// the loopback interface; the chat interface connects to it through
// the container host gateway.
package runner

import (
	"fmt"
	"strings"

	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/provider/commandutil"
)

// InstallStep downloads and installs the model runner's .deb package.
// The installer is a third-party download, so its failure policy is
// configurable; by default a failure logs a warning and the run
// continues, because the rest of the stack works and the runner can be
// installed by hand afterwards.
type InstallStep struct {
	id     seq.StepID
	cfg    *config.Config
	runner ports.CommandRunner
}

// NewInstallStep creates the model runner installation step.
func NewInstallStep(cfg *config.Config, runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     seq.MustNewStepID("runner:install"),
		cfg:    cfg,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() seq.StepID {
	return s.id
}

// Policy returns the configured failure policy.
func (s *InstallStep) Policy() seq.FailurePolicy {
	return s.cfg.Runner.InstallPolicy
}

// Check determines if the runner package is already installed.
func (s *InstallStep) Check(rc seq.RunContext) (seq.StepStatus, error) {
	result, err := s.runner.Run(rc.Context(),
		"dpkg-query", "-W", "-f=${db:Status-Status}", s.cfg.Runner.Package)
	if err != nil {
		return seq.StatusUnknown, err
	}
	if result.Success() && strings.Contains(result.Stdout, "installed") {
		return seq.StatusSatisfied, nil
	}
	return seq.StatusNeedsApply, nil
}

// Apply downloads the installer and installs it, then fixes up any
// missing dependencies dpkg could not resolve on its own.
func (s *InstallStep) Apply(rc seq.RunContext) error {
	debPath := "/tmp/" + s.cfg.Runner.Package + ".deb"

	download, err := commandutil.RunLogged(rc, s.runner,
		"curl", "-fsSL", "-o", debPath, s.cfg.Runner.InstallerURL)
	if err != nil {
		return err
	}
	if !download.Success() {
		return fmt.Errorf("downloading %s installer failed: %s", s.cfg.Runner.Name, download.Stderr)
	}

	install, err := commandutil.RunLogged(rc, s.runner, "sudo", "dpkg", "-i", debPath)
	if err != nil {
		return err
	}
	if !install.Success() {
		// dpkg leaves the package half-configured on missing deps;
		// apt-get -f pulls them in and completes the configuration.
		fix, ferr := commandutil.RunLogged(rc, s.runner, "sudo", "apt-get", "install", "-f", "-y")
		if ferr != nil {
			return ferr
		}
		if !fix.Success() {
			return fmt.Errorf("installing %s failed: %s", s.cfg.Runner.Name, install.Stderr)
		}
	}
	return nil
}

// Verify confirms the package registered with dpkg after the install.
func (s *InstallStep) Verify(rc seq.RunContext) error {
	result, err := s.runner.Run(rc.Context(),
		"dpkg-query", "-W", "-f=${db:Status-Status}", s.cfg.Runner.Package)
	if err != nil {
		return err
	}
	if !result.Success() || !strings.Contains(result.Stdout, "installed") {
		return fmt.Errorf("%s not registered with dpkg after install", s.cfg.Runner.Package)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain() seq.Explanation {
	return seq.NewExplanation(
		fmt.Sprintf("Install %s", s.cfg.Runner.Name),
		fmt.Sprintf("Downloads the %s .deb installer and installs it with dpkg.", s.cfg.Runner.Name),
	)
}
