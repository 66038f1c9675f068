package apt_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/domain/seq"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/provider/apt"
	"github.com/aidock-dev/aidock/internal/testutil/mocks"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Home = "/home/alice"
	cfg.User = "alice"
	return cfg
}

func rc() seq.RunContext {
	return seq.NewRunContext(context.Background())
}

func TestUpdateStep_ID(t *testing.T) {
	t.Parallel()

	step := apt.NewUpdateStep(testConfig(t), mocks.NewCommandRunner(), mocks.NewFileSystem())
	assert.Equal(t, "apt:update", step.ID().String())
	assert.Equal(t, seq.PolicyFatal, step.Policy())
}

func TestUpdateStep_Check_StampPresent(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fs := mocks.NewFileSystem()
	fs.AddFile(cfg.AptStampPath(), "refreshed\n")

	step := apt.NewUpdateStep(cfg, mocks.NewCommandRunner(), fs)
	status, err := step.Check(rc())

	require.NoError(t, err)
	assert.Equal(t, seq.StatusSatisfied, status)
}

func TestUpdateStep_Apply_WritesStamp(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "update"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "Reading package lists...\n",
	})
	runner.AddResult("sudo", []string{"apt-get", "upgrade", "-y"}, ports.CommandResult{ExitCode: 0})

	var out strings.Builder
	step := apt.NewUpdateStep(cfg, runner, fs)
	require.NoError(t, step.Apply(rc().WithOutput(&out)))

	assert.True(t, fs.Exists(cfg.AptStampPath()))
	assert.Contains(t, out.String(), "Reading package lists...")

	// And the next check skips.
	status, err := step.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, seq.StatusSatisfied, status)
}

func TestUpdateStep_Apply_UpdateFails(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "update"}, ports.CommandResult{
		ExitCode: 100,
		Stderr:   "Could not resolve archive.ubuntu.com",
	})

	step := apt.NewUpdateStep(testConfig(t), runner, mocks.NewFileSystem())
	err := step.Apply(rc())

	assert.ErrorContains(t, err, "apt-get update failed")
	assert.Equal(t, 0, runner.CallCount("sudo", "apt-get", "upgrade", "-y"))
}

func TestPackageStep_Check_Installed(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "curl"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "installed",
	})

	step := apt.NewPackageStep("curl", runner)
	status, err := step.Check(rc())

	require.NoError(t, err)
	assert.Equal(t, seq.StatusSatisfied, status)
}

func TestPackageStep_Check_Missing(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "jq"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "dpkg-query: no packages found matching jq",
	})

	step := apt.NewPackageStep("jq", runner)
	status, err := step.Check(rc())

	require.NoError(t, err)
	assert.Equal(t, seq.StatusNeedsApply, status)
}

func TestPackageStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", "jq"}, ports.CommandResult{ExitCode: 0})

	step := apt.NewPackageStep("jq", runner)
	require.NoError(t, step.Apply(rc()))
	assert.Equal(t, "apt:package:jq", step.ID().String())
}

func TestPackageStep_Apply_Fails(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("sudo", []string{"apt-get", "install", "-y", "jq"}, ports.CommandResult{
		ExitCode: 100,
		Stderr:   "Unable to locate package jq",
	})

	step := apt.NewPackageStep("jq", runner)
	assert.ErrorContains(t, step.Apply(rc()), "apt-get install jq failed")
}

func TestSteps_Order(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Packages = []string{"curl", "jq"}

	steps := apt.Steps(cfg, mocks.NewCommandRunner(), mocks.NewFileSystem())

	require.Len(t, steps, 3)
	assert.Equal(t, "apt:update", steps[0].ID().String())
	assert.Equal(t, "apt:package:curl", steps[1].ID().String())
	assert.Equal(t, "apt:package:jq", steps[2].ID().String())
}
