package apt

import (
	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
)

// Steps builds the apt steps in order: the index refresh first, then
// one install step per configured package.
func Steps(cfg *config.Config, runner ports.CommandRunner, fs ports.FileSystem) []seq.Step {
	steps := make([]seq.Step, 0, 1+len(cfg.Packages))
	steps = append(steps, NewUpdateStep(cfg, runner, fs))
	for _, pkg := range cfg.Packages {
		steps = append(steps, NewPackageStep(pkg, runner))
	}
	return steps
}
