package docker

import (
	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
)

// Steps returns the engine steps in execution order: install the
// engine, enable its service, then grant the user group access.
func Steps(cfg *config.Config, runner ports.CommandRunner) []seq.Step {
	return []seq.Step{
		NewEngineStep(runner),
		NewServiceStep(runner),
		NewGroupStep(cfg, runner),
	}
}
