package webui_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/provider/webui"
	"github.com/aidock-dev/aidock/internal/testutil/mocks"
)

type fakeProber struct {
	err   error
	calls int
	delay time.Duration
	url   string
}

func (p *fakeProber) WaitThenProbe(_ context.Context, delay time.Duration, url string) error {
	p.calls++
	p.delay = delay
	p.url = url
	return p.err
}

func runContext() seq.RunContext {
	return seq.NewRunContext(context.Background())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Home = "/home/dev"
	cfg.User = "dev"
	return cfg
}

func TestServiceStep_Identity(t *testing.T) {
	t.Parallel()

	step := webui.NewServiceStep(testConfig(t), mocks.NewCommandRunner(), &fakeProber{})

	assert.Equal(t, "webui:service", step.ID().String())
	assert.Equal(t, seq.PolicyFatal, step.Policy())
}

func TestServiceStep_Check_RunningContainerIsSatisfied(t *testing.T) {
	t.Parallel()

	cmd := mocks.NewCommandRunner()
	cmd.AddResult("docker", []string{"ps", "--filter", "name=^/open-webui$", "--format", "{{.Names}}"},
		ports.CommandResult{ExitCode: 0, Stdout: "open-webui\n"})

	step := webui.NewServiceStep(testConfig(t), cmd, &fakeProber{})
	status, err := step.Check(runContext())

	require.NoError(t, err)
	assert.Equal(t, seq.StatusSatisfied, status)
}

func TestServiceStep_Check_NoContainerNeedsApply(t *testing.T) {
	t.Parallel()

	cmd := mocks.NewCommandRunner()
	cmd.AddResult("docker", []string{"ps", "--filter", "name=^/open-webui$", "--format", "{{.Names}}"},
		ports.CommandResult{ExitCode: 0, Stdout: ""})

	step := webui.NewServiceStep(testConfig(t), cmd, &fakeProber{})
	status, err := step.Check(runContext())

	require.NoError(t, err)
	assert.Equal(t, seq.StatusNeedsApply, status)
}

func TestServiceStep_Apply_TearsDownThenStarts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cmd := mocks.NewCommandRunner()
	// First run: nothing to remove, both teardown commands fail.
	cmd.AddResult("docker", []string{"rm", "-f", "open-webui"},
		ports.CommandResult{ExitCode: 1, Stderr: "Error: No such container: open-webui"})
	cmd.AddResult("docker", []string{"volume", "rm", "open-webui"},
		ports.CommandResult{ExitCode: 1, Stderr: "Error: No such volume: open-webui"})
	cmd.AddResult("docker", []string{"compose", "-f", cfg.ComposePath(), "up", "-d"},
		ports.CommandResult{ExitCode: 0, Stdout: "Container open-webui  Started\n"})

	step := webui.NewServiceStep(cfg, cmd, &fakeProber{})

	require.NoError(t, step.Apply(runContext()))
	assert.Equal(t, 1, cmd.CallCount("docker", "rm", "-f", "open-webui"))
	assert.Equal(t, 1, cmd.CallCount("docker", "volume", "rm", "open-webui"))
	assert.Equal(t, 1, cmd.CallCount("docker", "compose", "-f", cfg.ComposePath(), "up", "-d"))
}

func TestServiceStep_Apply_ComposeFailureIsFatal(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cmd := mocks.NewCommandRunner()
	cmd.AddResult("docker", []string{"rm", "-f", "open-webui"}, ports.CommandResult{ExitCode: 0})
	cmd.AddResult("docker", []string{"volume", "rm", "open-webui"}, ports.CommandResult{ExitCode: 0})
	cmd.AddResult("docker", []string{"compose", "-f", cfg.ComposePath(), "up", "-d"},
		ports.CommandResult{ExitCode: 1, Stderr: "no configuration file provided"})

	step := webui.NewServiceStep(cfg, cmd, &fakeProber{})
	err := step.Apply(runContext())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting open-webui failed")
}

func TestServiceStep_Verify_ProbesOnceWithConfiguredDelay(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	prober := &fakeProber{}
	step := webui.NewServiceStep(cfg, mocks.NewCommandRunner(), prober)

	require.NoError(t, step.Verify(runContext()))
	assert.Equal(t, 1, prober.calls)
	assert.Equal(t, cfg.WebUI.StartupDelay.Std(), prober.delay)
	assert.Equal(t, cfg.WebUIURL(), prober.url)
}

func TestServiceStep_Verify_ProbeFailureIsStepFailure(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{err: errors.New("connection refused")}
	step := webui.NewServiceStep(testConfig(t), mocks.NewCommandRunner(), prober)

	err := step.Verify(runContext())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not answering")
}
