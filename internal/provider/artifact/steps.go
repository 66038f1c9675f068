// Package artifact provides the steps that write the generated files
// onto disk. All five artifacts are rendered from the same
// configuration, so a rerun with unchanged configuration produces
// byte-identical content and the steps skip.
package artifact

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/aidock-dev/aidock/internal/artifacts"
	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
)

// Renderer produces an artifact from the configuration.
type Renderer func(cfg *config.Config) (artifacts.Artifact, error)

// WriteStep writes one rendered artifact to its configured path.
// Check compares the on-disk bytes with the rendered content, so an
// edited or missing file is rewritten and an identical one is skipped.
type WriteStep struct {
	id     seq.StepID
	cfg    *config.Config
	fs     ports.FileSystem
	render Renderer
}

// NewWriteStep creates an artifact step. The name becomes the suffix
// of the step identifier, for example "compose" yields
// "artifacts:compose".
func NewWriteStep(name string, cfg *config.Config, fs ports.FileSystem, render Renderer) *WriteStep {
	return &WriteStep{
		id:     seq.MustNewStepID("artifacts:" + name),
		cfg:    cfg,
		fs:     fs,
		render: render,
	}
}

// ID returns the step identifier.
func (s *WriteStep) ID() seq.StepID {
	return s.id
}

// Policy returns the failure policy. Later steps consume the artifacts
// they describe, so a write failure aborts the run.
func (s *WriteStep) Policy() seq.FailurePolicy {
	return seq.PolicyFatal
}

// Check renders the artifact and compares it with the file on disk.
func (s *WriteStep) Check(_ seq.RunContext) (seq.StepStatus, error) {
	art, err := s.render(s.cfg)
	if err != nil {
		return seq.StatusUnknown, err
	}
	if !s.fs.Exists(art.Path) {
		return seq.StatusNeedsApply, nil
	}
	existing, err := s.fs.ReadFile(art.Path)
	if err != nil {
		return seq.StatusUnknown, err
	}
	if bytes.Equal(existing, art.Content) {
		return seq.StatusSatisfied, nil
	}
	return seq.StatusNeedsApply, nil
}

// Apply writes the rendered artifact, creating parent directories as
// needed.
func (s *WriteStep) Apply(_ seq.RunContext) error {
	art, err := s.render(s.cfg)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", s.id, err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(art.Path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", art.Path, err)
	}
	if err := s.fs.WriteFile(art.Path, art.Content, art.Mode); err != nil {
		return fmt.Errorf("writing %s: %w", art.Path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *WriteStep) Explain() seq.Explanation {
	art, err := s.render(s.cfg)
	if err != nil {
		return seq.NewExplanation("Write generated file", "")
	}
	return seq.NewExplanation(
		fmt.Sprintf("Write %s", filepath.Base(art.Path)),
		fmt.Sprintf("Renders the file from configuration and writes it to %s.", art.Path),
	)
}

// ComposeStep writes the compose descriptor.
func ComposeStep(cfg *config.Config, fs ports.FileSystem) *WriteStep {
	return NewWriteStep("compose", cfg, fs, artifacts.Compose)
}

// LaunchHelperStep writes the launch helper script.
func LaunchHelperStep(cfg *config.Config, fs ports.FileSystem) *WriteStep {
	return NewWriteStep("launch-helper", cfg, fs, artifacts.LaunchHelper)
}

// VerifyHelperStep writes the verification helper script.
func VerifyHelperStep(cfg *config.Config, fs ports.FileSystem) *WriteStep {
	return NewWriteStep("verify-helper", cfg, fs, artifacts.VerifyHelper)
}

// RunnerSettingsStep writes the sample runner settings file.
func RunnerSettingsStep(cfg *config.Config, fs ports.FileSystem) *WriteStep {
	return NewWriteStep("runner-settings", cfg, fs, artifacts.RunnerSettings)
}

// InstructionsStep writes the instructions document.
func InstructionsStep(cfg *config.Config, fs ports.FileSystem) *WriteStep {
	return NewWriteStep("instructions", cfg, fs, artifacts.Instructions)
}
