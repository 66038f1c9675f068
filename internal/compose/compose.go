// Package compose models the generated service descriptor as typed data
// rendered through the YAML encoder, so descriptor syntax is validated
// independently of the sequencer logic instead of being assembled from
// string fragments.
package compose

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aidock-dev/aidock/internal/config"
)

// Healthcheck declares the container health probe.
type Healthcheck struct {
	Test        []string `yaml:"test"`
	Interval    string   `yaml:"interval"`
	Timeout     string   `yaml:"timeout"`
	Retries     int      `yaml:"retries"`
	StartPeriod string   `yaml:"start_period"`
}

// Service declares one compose service.
type Service struct {
	Image         string       `yaml:"image"`
	ContainerName string       `yaml:"container_name"`
	Ports         []string     `yaml:"ports"`
	Volumes       []string     `yaml:"volumes"`
	Environment   []string     `yaml:"environment"`
	ExtraHosts    []string     `yaml:"extra_hosts"`
	Restart       string       `yaml:"restart"`
	Healthcheck   *Healthcheck `yaml:"healthcheck,omitempty"`
}

// File is the root of the compose descriptor.
type File struct {
	Services map[string]Service    `yaml:"services"`
	Volumes  map[string]*yaml.Node `yaml:"volumes"`
}

// FromConfig builds the descriptor for the web chat interface: the
// mapped host port, the named persistent volume, the host-gateway alias,
// and the environment variable pointing the UI at the model runner's
// API through that alias.
func FromConfig(cfg *config.Config) File {
	service := Service{
		Image:         cfg.WebUI.Image,
		ContainerName: cfg.WebUI.Container,
		Ports:         []string{cfg.PortMapping()},
		Volumes:       []string{fmt.Sprintf("%s:/app/backend/data", cfg.WebUI.Volume)},
		Environment:   []string{"OPENAI_API_BASE_URL=" + cfg.RunnerGatewayURL()},
		ExtraHosts:    []string{"host.docker.internal:host-gateway"},
		Restart:       "unless-stopped",
		Healthcheck: &Healthcheck{
			Test: []string{"CMD-SHELL",
				fmt.Sprintf("curl -fsS http://localhost:%d/health || exit 1", cfg.WebUI.ContainerPort)},
			Interval:    "30s",
			Timeout:     "5s",
			Retries:     3,
			StartPeriod: "30s",
		},
	}

	return File{
		Services: map[string]Service{cfg.WebUI.Container: service},
		Volumes:  map[string]*yaml.Node{cfg.WebUI.Volume: nil},
	}
}

// Render marshals the descriptor. Output is deterministic for a given
// configuration: both top-level maps hold exactly one key.
func Render(f File) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("render compose descriptor: %w", err)
	}
	return data, nil
}
