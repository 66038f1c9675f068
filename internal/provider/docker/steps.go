// Package docker provides the steps that install and enable the
// container engine and grant the invoking user access to it.
package docker

import (
	"fmt"
	"strings"

	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/provider/commandutil"
)

// EngineStep installs the Docker engine. The chat interface cannot run
// without it, so its failure is fatal.
type EngineStep struct {
	id     seq.StepID
	runner ports.CommandRunner
}

// NewEngineStep creates the engine installation step.
func NewEngineStep(runner ports.CommandRunner) *EngineStep {
	return &EngineStep{
		id:     seq.MustNewStepID("docker:engine"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *EngineStep) ID() seq.StepID {
	return s.id
}

// Policy returns the failure policy.
func (s *EngineStep) Policy() seq.FailurePolicy {
	return seq.PolicyFatal
}

// Check determines if the engine CLI is resolvable and working.
func (s *EngineStep) Check(rc seq.RunContext) (seq.StepStatus, error) {
	result, err := s.runner.Run(rc.Context(), "docker", "--version")
	if commandutil.IsCommandNotFound(err) {
		return seq.StatusNeedsApply, nil
	}
	if err != nil {
		return seq.StatusUnknown, err
	}
	if result.Success() && strings.Contains(result.Stdout, "Docker version") {
		return seq.StatusSatisfied, nil
	}
	return seq.StatusNeedsApply, nil
}

// Apply installs the engine via the upstream convenience script.
func (s *EngineStep) Apply(rc seq.RunContext) error {
	result, err := commandutil.RunLogged(rc, s.runner, "sh", "-c",
		"curl -fsSL https://get.docker.com | sudo sh")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("docker installation failed: %s", result.Stderr)
	}
	return nil
}

// Verify confirms the CLI answers after the install.
func (s *EngineStep) Verify(rc seq.RunContext) error {
	result, err := s.runner.Run(rc.Context(), "docker", "--version")
	if err != nil {
		return fmt.Errorf("docker CLI not resolvable after install: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("docker CLI failing after install: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *EngineStep) Explain() seq.Explanation {
	return seq.NewExplanation(
		"Install Docker engine",
		"Installs the container engine via the get.docker.com convenience script.",
	)
}

// ServiceStep enables and starts the engine's system service.
type ServiceStep struct {
	id     seq.StepID
	runner ports.CommandRunner
}

// NewServiceStep creates the service enablement step.
func NewServiceStep(runner ports.CommandRunner) *ServiceStep {
	return &ServiceStep{
		id:     seq.MustNewStepID("docker:service"),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *ServiceStep) ID() seq.StepID {
	return s.id
}

// Policy returns the failure policy.
func (s *ServiceStep) Policy() seq.FailurePolicy {
	return seq.PolicyFatal
}

// Check determines if the service is already active.
func (s *ServiceStep) Check(rc seq.RunContext) (seq.StepStatus, error) {
	result, err := s.runner.Run(rc.Context(), "systemctl", "is-active", "docker")
	if err != nil {
		return seq.StatusUnknown, err
	}
	if result.Success() && strings.TrimSpace(result.Stdout) == "active" {
		return seq.StatusSatisfied, nil
	}
	return seq.StatusNeedsApply, nil
}

// Apply enables and starts the service.
func (s *ServiceStep) Apply(rc seq.RunContext) error {
	result, err := commandutil.RunLogged(rc, s.runner, "sudo", "systemctl", "enable", "--now", "docker")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("enabling docker service failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ServiceStep) Explain() seq.Explanation {
	return seq.NewExplanation(
		"Enable Docker service",
		"Enables and starts the engine's systemd service so containers survive reboots.",
	)
}

// GroupStep adds the invoking user to the docker group. This is a
// convenience only: the engine stays usable via sudo, so failure is a
// warning and the run continues.
type GroupStep struct {
	id     seq.StepID
	user   string
	runner ports.CommandRunner
}

// NewGroupStep creates the group membership step.
func NewGroupStep(cfg *config.Config, runner ports.CommandRunner) *GroupStep {
	return &GroupStep{
		id:     seq.MustNewStepID("docker:group"),
		user:   cfg.User,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *GroupStep) ID() seq.StepID {
	return s.id
}

// Policy returns the failure policy.
func (s *GroupStep) Policy() seq.FailurePolicy {
	return seq.PolicyWarn
}

// Check determines if the user already belongs to the docker group.
func (s *GroupStep) Check(rc seq.RunContext) (seq.StepStatus, error) {
	result, err := s.runner.Run(rc.Context(), "id", "-nG", s.user)
	if err != nil {
		return seq.StatusUnknown, err
	}
	for _, group := range strings.Fields(result.Stdout) {
		if group == "docker" {
			return seq.StatusSatisfied, nil
		}
	}
	return seq.StatusNeedsApply, nil
}

// Apply adds the user to the group.
func (s *GroupStep) Apply(rc seq.RunContext) error {
	result, err := commandutil.RunLogged(rc, s.runner, "sudo", "usermod", "-aG", "docker", s.user)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("adding %s to docker group failed: %s", s.user, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *GroupStep) Explain() seq.Explanation {
	return seq.NewExplanation(
		"Add user to docker group",
		fmt.Sprintf("Lets %s run docker without sudo. Takes effect at next login.", s.user),
	)
}
