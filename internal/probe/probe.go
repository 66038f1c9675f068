// Package probe issues single liveness probes against the stack's HTTP
// endpoints. Probes are one-shot by design: the sequencer waits a fixed
// delay and then asks once, it never polls in a retry loop.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Prober issues HTTP GET liveness probes.
type Prober struct {
	client *http.Client
}

// New creates a Prober with the given per-probe timeout.
func New(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{Timeout: timeout},
	}
}

// NewWithClient creates a Prober with a caller-supplied client. Used in
// tests to point probes at a local test server.
func NewWithClient(client *http.Client) *Prober {
	return &Prober{client: client}
}

// Probe issues one GET against url and reports whether the endpoint
// answered with a success status. The response body is discarded; the
// sequencer only cares about liveness, never about inference.
func (p *Prober) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe %s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}

// WaitThenProbe sleeps for delay (or until the context is cancelled) and
// then issues exactly one probe.
func (p *Prober) WaitThenProbe(ctx context.Context, delay time.Duration, url string) error {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return p.Probe(ctx, url)
}
