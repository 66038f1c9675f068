package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := config.Default()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.NotEmpty(t, cfg.Home)
	assert.Equal(t, "3000:8080", cfg.PortMapping())
	assert.Equal(t, seq.PolicyWarn, cfg.Runner.InstallPolicy)
	assert.Equal(t, 15*time.Minute, cfg.StepTimeout.Std())
	assert.Equal(t, 20*time.Second, cfg.WebUI.StartupDelay.Std())
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "open-webui", cfg.WebUI.Container)
}

func TestLoad_OverlaysFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "aidock.yaml")
	content := `
home: /home/alice
user: alice
model: llama-3.1-8b
packages: [curl, jq, libfuse2]
step_timeout: 5m
runner:
  name: LM Studio
  package: lmstudio
  installer_url: https://example.com/runner.deb
  port: 4891
  install_policy: fatal
webui:
  host_port: 3030
  container_port: 8080
  startup_delay: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/home/alice", cfg.Home)
	assert.Equal(t, []string{"curl", "jq", "libfuse2"}, cfg.Packages)
	assert.Equal(t, 5*time.Minute, cfg.StepTimeout.Std())
	assert.Equal(t, seq.PolicyFatal, cfg.Runner.InstallPolicy)
	assert.Equal(t, "3030:8080", cfg.PortMapping())
	assert.Equal(t, "http://localhost:4891/v1", cfg.RunnerLocalURL())
	assert.Equal(t, "http://host.docker.internal:4891/v1", cfg.RunnerGatewayURL())

	// Fields the file does not mention keep their defaults.
	assert.Equal(t, "ghcr.io/open-webui/open-webui:main", cfg.WebUI.Image)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadPolicy(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "aidock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runner:\n  install_policy: retry\n"), 0o644))

	_, err := config.Load(path)
	assert.ErrorContains(t, err, "install_policy")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	base := func(t *testing.T) *config.Config {
		t.Helper()
		cfg, err := config.Default()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"missing home", func(c *config.Config) { c.Home = "" }, "home directory"},
		{"missing model", func(c *config.Config) { c.Model = "" }, "model identifier"},
		{"runner port", func(c *config.Config) { c.Runner.Port = 0 }, "runner port"},
		{"host port", func(c *config.Config) { c.WebUI.HostPort = 70000 }, "host port"},
		{"container name", func(c *config.Config) { c.WebUI.Container = "" }, "container and volume"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := base(t)
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	t.Parallel()

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Home = "/home/alice"

	assert.Equal(t, "/home/alice/docker-compose.yml", cfg.ComposePath())
	assert.Equal(t, "/home/alice/start-webui.sh", cfg.LaunchHelperPath())
	assert.Equal(t, "/home/alice/check-stack.sh", cfg.VerifyHelperPath())
	assert.Equal(t, "/home/alice/AI_STACK_README.md", cfg.InstructionsPath())
	assert.Equal(t, "/home/alice/runner-settings.toml", cfg.RunnerSettingsPath())
	assert.Equal(t, "/home/alice/.aidock/logs", cfg.LogDir())
	assert.Equal(t, "/home/alice/.aidock/apt-updated", cfg.AptStampPath())
	assert.Equal(t, "http://localhost:3000", cfg.WebUIURL())
}
