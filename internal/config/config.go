// Package config loads the aidock configuration. The configuration is
// built once at process start and passed by reference to every step;
// nothing mutates it afterwards.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidock-dev/aidock/internal/domain/seq"
)

// Generated artifact file names, all placed in the user's home directory.
const (
	ComposeFileName        = "docker-compose.yml"
	LaunchHelperFileName   = "start-webui.sh"
	VerifyHelperFileName   = "check-stack.sh"
	InstructionsFileName   = "AI_STACK_README.md"
	RunnerSettingsFileName = "runner-settings.toml"
)

// stateDirName holds aidock's own state under the home directory: run
// logs and the package-index refresh stamp.
const stateDirName = ".aidock"

// Duration wraps time.Duration so YAML values can be written as "15m"
// or "20s" instead of nanosecond integers.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration notation.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Runner describes the external model-runner application. The runner is
// installed by the sequencer but started manually by the user; aidock
// only ever probes its OpenAI-compatible loopback API for liveness.
type Runner struct {
	// Name is the human-readable application name used in logs and docs.
	Name string `yaml:"name"`
	// Package is the dpkg package name used for the presence check.
	Package string `yaml:"package"`
	// InstallerURL points at the .deb installer to download.
	InstallerURL string `yaml:"installer_url"`
	// Port is the loopback port of the runner's OpenAI-compatible API.
	Port int `yaml:"port"`
	// InstallPolicy decides whether a failed runner install aborts the
	// run ("fatal") or is recorded and skipped ("warn"). The source
	// scripts disagreed on this, so it is an explicit choice here.
	InstallPolicy seq.FailurePolicy `yaml:"install_policy"`
}

// WebUI describes the containerized chat interface.
type WebUI struct {
	Image         string `yaml:"image"`
	Container     string `yaml:"container"`
	Volume        string `yaml:"volume"`
	HostPort      int    `yaml:"host_port"`
	ContainerPort int    `yaml:"container_port"`
	// StartupDelay is the fixed wait before the single readiness probe.
	StartupDelay Duration `yaml:"startup_delay"`
}

// Config is the immutable configuration for one aidock process.
type Config struct {
	// Home is the invoking user's home directory; all generated
	// artifacts are written there.
	Home string `yaml:"home"`
	// User is the invoking user, added to the docker group.
	User string `yaml:"user"`
	// Model is the model identifier rendered into the runner settings
	// and the instructions document.
	Model string `yaml:"model"`
	// Packages is the base apt package list. Variants that install a
	// GUI runner extend it with desktop libraries.
	Packages []string `yaml:"packages"`
	// StepTimeout bounds each step's apply action. Zero disables it.
	StepTimeout Duration `yaml:"step_timeout"`

	Runner Runner `yaml:"runner"`
	WebUI  WebUI  `yaml:"webui"`
}

// Default returns the configuration used when no file overrides it.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}

	return &Config{
		Home:        home,
		User:        username,
		Model:       "qwen2.5-7b-instruct",
		Packages:    []string{"curl", "ca-certificates", "jq"},
		StepTimeout: Duration(15 * time.Minute),
		Runner: Runner{
			Name:          "LM Studio",
			Package:       "lmstudio",
			InstallerURL:  "https://installers.lmstudio.ai/linux/x64/stable/lmstudio.deb",
			Port:          1234,
			InstallPolicy: seq.PolicyWarn,
		},
		WebUI: WebUI{
			Image:         "ghcr.io/open-webui/open-webui:main",
			Container:     "open-webui",
			Volume:        "open-webui",
			HostPort:      3000,
			ContainerPort: 8080,
			StartupDelay:  Duration(20 * time.Second),
		},
	}, nil
}

// Load builds the configuration from defaults overlaid with the YAML
// file at path. An empty path means defaults only; a missing file at an
// explicitly given path is an error.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home directory must be set")
	}
	if c.Model == "" {
		return fmt.Errorf("model identifier must be set")
	}
	if c.Runner.Port <= 0 || c.Runner.Port > 65535 {
		return fmt.Errorf("runner port %d out of range", c.Runner.Port)
	}
	if c.WebUI.HostPort <= 0 || c.WebUI.HostPort > 65535 {
		return fmt.Errorf("webui host port %d out of range", c.WebUI.HostPort)
	}
	if c.WebUI.ContainerPort <= 0 || c.WebUI.ContainerPort > 65535 {
		return fmt.Errorf("webui container port %d out of range", c.WebUI.ContainerPort)
	}
	if c.WebUI.Container == "" || c.WebUI.Volume == "" {
		return fmt.Errorf("webui container and volume names must be set")
	}
	if _, err := seq.ParseFailurePolicy(c.Runner.InstallPolicy.String()); err != nil {
		return fmt.Errorf("runner install_policy: %w", err)
	}
	return nil
}

// StateDir returns aidock's state directory under the home directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.Home, stateDirName)
}

// LogDir returns the directory holding per-run log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.StateDir(), "logs")
}

// AptStampPath returns the stamp file marking a refreshed package index.
func (c *Config) AptStampPath() string {
	return filepath.Join(c.StateDir(), "apt-updated")
}

// ComposePath returns the path of the generated compose descriptor.
func (c *Config) ComposePath() string {
	return filepath.Join(c.Home, ComposeFileName)
}

// LaunchHelperPath returns the path of the generated launch helper.
func (c *Config) LaunchHelperPath() string {
	return filepath.Join(c.Home, LaunchHelperFileName)
}

// VerifyHelperPath returns the path of the generated verification helper.
func (c *Config) VerifyHelperPath() string {
	return filepath.Join(c.Home, VerifyHelperFileName)
}

// InstructionsPath returns the path of the generated instructions document.
func (c *Config) InstructionsPath() string {
	return filepath.Join(c.Home, InstructionsFileName)
}

// RunnerSettingsPath returns the path of the generated runner settings file.
func (c *Config) RunnerSettingsPath() string {
	return filepath.Join(c.Home, RunnerSettingsFileName)
}

// RunnerLocalURL returns the runner API base URL as seen from the host.
func (c *Config) RunnerLocalURL() string {
	return fmt.Sprintf("http://localhost:%d/v1", c.Runner.Port)
}

// RunnerGatewayURL returns the runner API base URL as seen from inside
// the web UI container, through the host-gateway alias.
func (c *Config) RunnerGatewayURL() string {
	return fmt.Sprintf("http://host.docker.internal:%d/v1", c.Runner.Port)
}

// WebUIURL returns the chat interface URL on the mapped host port.
func (c *Config) WebUIURL() string {
	return fmt.Sprintf("http://localhost:%d", c.WebUI.HostPort)
}

// PortMapping returns the compose port mapping, host:container.
func (c *Config) PortMapping() string {
	return fmt.Sprintf("%d:%d", c.WebUI.HostPort, c.WebUI.ContainerPort)
}
