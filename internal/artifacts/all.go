package artifacts

import (
	"github.com/aidock-dev/aidock/internal/compose"
	"github.com/aidock-dev/aidock/internal/config"
)

// Compose renders the compose descriptor artifact.
func Compose(cfg *config.Config) (Artifact, error) {
	content, err := compose.Render(compose.FromConfig(cfg))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: cfg.ComposePath(), Content: content, Mode: 0o644}, nil
}

// LaunchHelper renders the launch helper artifact.
func LaunchHelper(cfg *config.Config) (Artifact, error) {
	content, err := RenderLaunchHelper(NewData(cfg))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: cfg.LaunchHelperPath(), Content: content, Mode: 0o755}, nil
}

// VerifyHelper renders the verification helper artifact.
func VerifyHelper(cfg *config.Config) (Artifact, error) {
	content, err := RenderVerifyHelper(NewData(cfg))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: cfg.VerifyHelperPath(), Content: content, Mode: 0o755}, nil
}

// RunnerSettings renders the sample runner settings artifact.
func RunnerSettings(cfg *config.Config) (Artifact, error) {
	content, err := RenderRunnerSettings(cfg)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: cfg.RunnerSettingsPath(), Content: content, Mode: 0o644}, nil
}

// Instructions renders the instructions document artifact.
func Instructions(cfg *config.Config) (Artifact, error) {
	content, err := RenderInstructions(NewData(cfg))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: cfg.InstructionsPath(), Content: content, Mode: 0o644}, nil
}
