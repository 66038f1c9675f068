package app

import (
	"context"
	"fmt"
	"strings"
)

// DoctorCheck is the outcome of one diagnostic probe.
type DoctorCheck struct {
	Name   string
	Passed bool
	Detail string
}

// DoctorReport aggregates the diagnostic probes for the installed
// stack.
type DoctorReport struct {
	Checks []DoctorCheck
}

// Healthy reports whether every check passed.
func (r DoctorReport) Healthy() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Doctor probes the installed stack without changing anything: the
// engine CLI and service, the chat interface container and its HTTP
// endpoint, and the runner's API. Probes that need a service the user
// starts by hand, like the runner, fail with a pointer to the fix
// rather than an opaque error.
func (a *App) Doctor(ctx context.Context) DoctorReport {
	report := DoctorReport{}

	report.Checks = append(report.Checks, a.checkDockerCLI(ctx))
	report.Checks = append(report.Checks, a.checkDockerService(ctx))
	report.Checks = append(report.Checks, a.checkContainer(ctx))
	report.Checks = append(report.Checks, a.checkWebUI(ctx))
	report.Checks = append(report.Checks, a.checkRunnerAPI(ctx))

	return report
}

func (a *App) checkDockerCLI(ctx context.Context) DoctorCheck {
	check := DoctorCheck{Name: "docker CLI"}
	result, err := a.cmd.Run(ctx, "docker", "--version")
	if err != nil || !result.Success() {
		check.Detail = "docker not found; run aidock apply"
		return check
	}
	check.Passed = true
	check.Detail = strings.TrimSpace(result.Stdout)
	return check
}

func (a *App) checkDockerService(ctx context.Context) DoctorCheck {
	check := DoctorCheck{Name: "docker service"}
	result, err := a.cmd.Run(ctx, "systemctl", "is-active", "docker")
	if err != nil {
		check.Detail = err.Error()
		return check
	}
	state := strings.TrimSpace(result.Stdout)
	if state != "active" {
		check.Detail = fmt.Sprintf("service is %s; run sudo systemctl start docker", state)
		return check
	}
	check.Passed = true
	check.Detail = "active"
	return check
}

func (a *App) checkContainer(ctx context.Context) DoctorCheck {
	name := a.cfg.WebUI.Container
	check := DoctorCheck{Name: name + " container"}
	result, err := a.cmd.Run(ctx, "docker", "ps",
		"--filter", "name=^/"+name+"$", "--format", "{{.Names}}")
	if err != nil {
		check.Detail = err.Error()
		return check
	}
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(line) == name {
			check.Passed = true
			check.Detail = "running"
			return check
		}
	}
	check.Detail = "not running; run " + a.cfg.LaunchHelperPath()
	return check
}

func (a *App) checkWebUI(ctx context.Context) DoctorCheck {
	check := DoctorCheck{Name: "chat interface"}
	if err := a.prober.Probe(ctx, a.cfg.WebUIURL()); err != nil {
		check.Detail = fmt.Sprintf("%s not answering: %v", a.cfg.WebUIURL(), err)
		return check
	}
	check.Passed = true
	check.Detail = "answering on " + a.cfg.WebUIURL()
	return check
}

func (a *App) checkRunnerAPI(ctx context.Context) DoctorCheck {
	check := DoctorCheck{Name: a.cfg.Runner.Name + " API"}
	url := a.cfg.RunnerLocalURL() + "/models"
	if err := a.prober.Probe(ctx, url); err != nil {
		check.Detail = fmt.Sprintf("%s not answering; start %s and enable its local server",
			url, a.cfg.Runner.Name)
		return check
	}
	check.Passed = true
	check.Detail = "answering on " + url
	return check
}
