// Package app wires the adapters, providers, and sequencer into the
// operations the CLI exposes.
package app

import (
	"context"
	"fmt"

	"github.com/aidock-dev/aidock/internal/adapters/logging"
	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/run"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/provider/apt"
	"github.com/aidock-dev/aidock/internal/provider/artifact"
	"github.com/aidock-dev/aidock/internal/provider/docker"
	"github.com/aidock-dev/aidock/internal/provider/runner"
	"github.com/aidock-dev/aidock/internal/provider/webui"
)

// Prober checks URLs over HTTP. Satisfied by probe.Prober.
type Prober interface {
	webui.Prober
	Probe(ctx context.Context, url string) error
}

// App holds the wired dependencies for one CLI invocation.
type App struct {
	cfg    *config.Config
	cmd    ports.CommandRunner
	fs     ports.FileSystem
	prober Prober
	echo   ports.Logger
}

// New creates an App from explicit dependencies. The CLI passes real
// adapters; tests pass mocks.
func New(cfg *config.Config, cmd ports.CommandRunner, fs ports.FileSystem, prober Prober, echo ports.Logger) *App {
	return &App{cfg: cfg, cmd: cmd, fs: fs, prober: prober, echo: echo}
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Steps returns the full step list in execution order. The order is
// fixed: system packages first, then the engine, then the runner, then
// the compose descriptor and the service it describes, then the
// remaining generated files.
func (a *App) Steps() []seq.Step {
	steps := make([]seq.Step, 0, 16)
	steps = append(steps, apt.Steps(a.cfg, a.cmd, a.fs)...)
	steps = append(steps, docker.Steps(a.cfg, a.cmd)...)
	steps = append(steps, runner.NewInstallStep(a.cfg, a.cmd))
	steps = append(steps,
		artifact.ComposeStep(a.cfg, a.fs),
		webui.NewServiceStep(a.cfg, a.cmd, a.prober),
		artifact.LaunchHelperStep(a.cfg, a.fs),
		artifact.VerifyHelperStep(a.cfg, a.fs),
		artifact.RunnerSettingsStep(a.cfg, a.fs),
		artifact.InstructionsStep(a.cfg, a.fs),
	)
	return steps
}

// Plan evaluates every step's presence check without changing the
// system.
func (a *App) Plan(ctx context.Context) (*run.Plan, error) {
	return run.NewPlanner().Plan(ctx, a.Steps())
}

// Apply plans and then executes the steps, logging every action to a
// fresh run log under the state directory. It returns the run record
// alongside the result so callers can point the user at the log.
func (a *App) Apply(ctx context.Context, dryRun bool) (run.Result, run.Record, error) {
	plan, err := a.Plan(ctx)
	if err != nil {
		return run.Result{}, run.Record{}, err
	}

	if err := a.fs.MkdirAll(a.cfg.LogDir(), 0o755); err != nil {
		return run.Result{}, run.Record{}, fmt.Errorf("creating log directory: %w", err)
	}

	record := run.NewRecord("")
	sink, err := logging.NewFileSink(a.cfg.LogDir(), record.StartedAt)
	if err != nil {
		return run.Result{}, run.Record{}, fmt.Errorf("opening run log: %w", err)
	}
	defer sink.Close()
	record.LogPath = sink.Path()

	sequencer := run.NewSequencer(sink).
		WithEcho(a.echo).
		WithTimeout(a.cfg.StepTimeout.Std()).
		WithDryRun(dryRun)

	result := sequencer.Run(ctx, plan)
	return result, record, nil
}

