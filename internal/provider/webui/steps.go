// Package webui provides the step that brings up the containerized
// chat interface from the generated compose descriptor.
package webui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/provider/commandutil"
)

// Prober checks whether the chat interface answers over HTTP.
type Prober interface {
	WaitThenProbe(ctx context.Context, delay time.Duration, url string) error
}

// ServiceStep starts the chat interface container. Bringing it up is a
// clean-slate operation: any container or volume left under the
// reserved names is removed first so a broken earlier attempt cannot
// poison the new one. The step is only skipped when the container is
// actually running.
type ServiceStep struct {
	id     seq.StepID
	cfg    *config.Config
	runner ports.CommandRunner
	prober Prober
}

// NewServiceStep creates the chat interface step.
func NewServiceStep(cfg *config.Config, runner ports.CommandRunner, prober Prober) *ServiceStep {
	return &ServiceStep{
		id:     seq.MustNewStepID("webui:service"),
		cfg:    cfg,
		runner: runner,
		prober: prober,
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

// Check reports satisfied only when a container with the reserved name
// is running. A stopped or exited container still needs apply, which
// tears it down and recreates it.
func (s *ServiceStep) Check(rc seq.RunContext) (seq.StepStatus, error) {
	name := s.cfg.WebUI.Container
	result, err := s.runner.Run(rc.Context(), "docker", "ps",
		"--filter", "name=^/"+name+"$", "--format", "{{.Names}}")
	if err != nil {
		return seq.StatusUnknown, err
	}
	if !result.Success() {
		return seq.StatusNeedsApply, nil
	}
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(line) == name {
			return seq.StatusSatisfied, nil
		}
	}
	return seq.StatusNeedsApply, nil
}

// Apply removes any leftover container and volume under the reserved
// names, then starts the service from the compose descriptor. The
// removals are best effort; on a first run there is nothing to remove
// and both commands fail harmlessly.
func (s *ServiceStep) Apply(rc seq.RunContext) error {
	if _, err := commandutil.RunLogged(rc, s.runner,
		"docker", "rm", "-f", s.cfg.WebUI.Container); err != nil {
		return err
	}
	if _, err := commandutil.RunLogged(rc, s.runner,
		"docker", "volume", "rm", s.cfg.WebUI.Volume); err != nil {
		return err
	}

	up, err := commandutil.RunLogged(rc, s.runner,
		"docker", "compose", "-f", s.cfg.ComposePath(), "up", "-d")
	if err != nil {
		return err
	}
	if !up.Success() {
		return fmt.Errorf("starting %s failed: %s", s.cfg.WebUI.Container, up.Stderr)
	}
	return nil
}

// Verify waits out the configured startup delay, then probes the
// interface exactly once. The image pull and first boot dominate the
// delay; a second probe would not tell us anything new.
func (s *ServiceStep) Verify(rc seq.RunContext) error {
	delay := s.cfg.WebUI.StartupDelay.Std()
	if err := s.prober.WaitThenProbe(rc.Context(), delay, s.cfg.WebUIURL()); err != nil {
		return fmt.Errorf("%s not answering on %s: %w", s.cfg.WebUI.Container, s.cfg.WebUIURL(), err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ServiceStep) Explain() seq.Explanation {
	return seq.NewExplanation(
		"Start chat interface",
		fmt.Sprintf("Recreates the %s container from the compose descriptor and probes %s.",
			s.cfg.WebUI.Container, s.cfg.WebUIURL()),
	)
}
