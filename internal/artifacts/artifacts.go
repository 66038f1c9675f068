// Package artifacts renders the files the sequencer leaves behind for
// the user: the launch and verification helpers, the instructions
// document, and a sample settings file for the model runner. Rendering
// is pure and deterministic; writing is the artifact steps' concern.
package artifacts

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/pelletier/go-toml/v2"

	"github.com/aidock-dev/aidock/internal/config"
)

// Artifact is one generated file: where it goes, what it contains, and
// whether it must be executable. Writing an artifact always overwrites
// deterministically, never appends.
type Artifact struct {
	Path    string
	Content []byte
	Mode    os.FileMode
}

// Data carries everything the templates need, all derived from the
// immutable configuration so regenerated artifacts stay in sync with
// the descriptor and with each other.
type Data struct {
	Model           string
	RunnerName      string
	RunnerLocalURL  string
	WebUIURL        string
	ComposePath     string
	LaunchHelper    string
	VerifyHelper    string
	Container       string
	Volume          string
	HostPort        int
	StartupDelaySec int
}

// NewData builds template data from the configuration.
func NewData(cfg *config.Config) Data {
	return Data{
		Model:           cfg.Model,
		RunnerName:      cfg.Runner.Name,
		RunnerLocalURL:  cfg.RunnerLocalURL(),
		WebUIURL:        cfg.WebUIURL(),
		ComposePath:     cfg.ComposePath(),
		LaunchHelper:    cfg.LaunchHelperPath(),
		VerifyHelper:    cfg.VerifyHelperPath(),
		Container:       cfg.WebUI.Container,
		Volume:          cfg.WebUI.Volume,
		HostPort:        cfg.WebUI.HostPort,
		StartupDelaySec: int(cfg.WebUI.StartupDelay.Std().Seconds()),
	}
}

const launchHelperTemplateStr = `#!/usr/bin/env bash
# Recreates the {{.Container}} container from a clean slate and waits
# for it to answer on port {{.HostPort}}.
set -u

echo "Resetting {{.Container}}..."
docker rm -f {{.Container}} >/dev/null 2>&1 || true
docker volume rm {{.Volume}} >/dev/null 2>&1 || true

docker compose -f {{.ComposePath}} up -d || exit 1

echo "Waiting {{.StartupDelaySec}}s for {{.Container}} to start..."
sleep {{.StartupDelaySec}}

if curl -fsS -o /dev/null {{.WebUIURL}}; then
    echo "Web UI is up: {{.WebUIURL}}"
else
    echo "Web UI is not answering yet; check 'docker logs {{.Container}}'"
fi

echo ""
echo "Next step: start {{.RunnerName}} manually and load the model"
echo "'{{.Model}}' so the chat interface can reach {{.RunnerLocalURL}}."
`

const verifyHelperTemplateStr = `#!/usr/bin/env bash
# Diagnostic only: prints the state of the container engine, the chat
# container, and the {{.RunnerName}} API. Changes nothing.

echo "== Container engine =="
docker --version 2>/dev/null || echo "docker: not installed"

echo ""
echo "== Chat container =="
docker ps --filter name=^{{.Container}}$ --format '{{"{{"}}.Names{{"}}"}}: {{"{{"}}.Status{{"}}"}}' 2>/dev/null \
    || echo "{{.Container}}: not running"

echo ""
echo "== {{.RunnerName}} API =="
if curl -fsS {{.RunnerLocalURL}}/models 2>/dev/null; then
    echo ""
    echo "{{.RunnerName}} is serving at {{.RunnerLocalURL}}"
else
    echo "{{.RunnerName}} is not answering at {{.RunnerLocalURL}}; start it manually"
fi
`

const instructionsTemplateStr = `# Local AI chat stack

This machine was provisioned with aidock. The stack has two halves:

- **{{.RunnerName}}** serves the model {{.Model}} on {{.RunnerLocalURL}}.
  It is a desktop application; aidock installs it but you start it and
  load the model yourself.
- **{{.Container}}** is the chat interface, a container listening on
  {{.WebUIURL}} and talking to the runner through the host gateway.

## Daily use

1. Start {{.RunnerName}} and load {{.Model}}.
2. Make sure the container is running: {{.LaunchHelper}}
3. Open {{.WebUIURL}} in a browser.

## Files

| File | Purpose |
|------|---------|
| {{.ComposePath}} | Compose descriptor for the chat interface |
| {{.LaunchHelper}} | Resets and relaunches the chat container |
| {{.VerifyHelper}} | Prints stack status without changing anything |

## Troubleshooting

- {{.VerifyHelper}} shows which half of the stack is down.
- The chat interface keeps its data in the {{.Volume}} volume;
  {{.LaunchHelper}} deletes and recreates it for a clean slate.
- If models are missing in the chat UI, the runner is not reachable:
  confirm {{.RunnerLocalURL}}/models answers on this machine.
`

// RunnerSettingsFile is the sample settings file for the runner application.
type RunnerSettingsFile struct {
	Server struct {
		Port int    `toml:"port"`
		Host string `toml:"host"`
	} `toml:"server"`
	Model struct {
		Identifier    string `toml:"identifier"`
		ContextLength int    `toml:"context_length"`
	} `toml:"model"`
}

func render(name, text string, data Data) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderLaunchHelper renders the launch helper script.
func RenderLaunchHelper(data Data) ([]byte, error) {
	return render("launch-helper", launchHelperTemplateStr, data)
}

// RenderVerifyHelper renders the verification helper script.
func RenderVerifyHelper(data Data) ([]byte, error) {
	return render("verify-helper", verifyHelperTemplateStr, data)
}

// RenderInstructions renders the instructions document.
func RenderInstructions(data Data) ([]byte, error) {
	return render("instructions", instructionsTemplateStr, data)
}

// RenderRunnerSettings renders the sample runner settings file.
func RenderRunnerSettings(cfg *config.Config) ([]byte, error) {
	var s RunnerSettingsFile
	s.Server.Port = cfg.Runner.Port
	s.Server.Host = "127.0.0.1"
	s.Model.Identifier = cfg.Model
	s.Model.ContextLength = 8192

	data, err := toml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("render runner settings: %w", err)
	}
	return data, nil
}
