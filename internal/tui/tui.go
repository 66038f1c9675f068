// Package tui renders plans, run results, and doctor reports for the
// terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aidock-dev/aidock/internal/app"
	"github.com/aidock-dev/aidock/internal/domain/run"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// RenderPlan returns the plan as a step-per-line listing followed by a
// summary of how many steps would change the system.
func RenderPlan(plan *run.Plan) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Plan"))
	b.WriteString("\n\n")

	for _, entry := range plan.Entries() {
		icon := successStyle.Render("✓")
		note := mutedStyle.Render("already present")
		if entry.Status().NeedsApply() {
			icon = warningStyle.Render("+")
			note = "will apply"
		}
		fmt.Fprintf(&b, "  %s %-28s %s\n", icon, entry.Step().ID().String(), note)
	}

	summary := plan.Summary()
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d steps, %d to apply, %d already present\n",
		summary.Total, summary.NeedsApply, summary.Satisfied)

	if !plan.HasChanges() {
		b.WriteString(successStyle.Render("Nothing to do.") + "\n")
	}
	return b.String()
}

// RenderResult returns the run outcome step by step, then the failure
// or success footer.
func RenderResult(result run.Result, record run.Record) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Run"))
	b.WriteString("\n\n")

	for _, sr := range result.Steps {
		fmt.Fprintf(&b, "  %s %-28s %s\n",
			outcomeIcon(sr.Outcome()), sr.StepID().String(), outcomeNote(sr))
	}

	b.WriteString("\n")
	if result.Success() {
		b.WriteString(successStyle.Render("All steps completed.") + "\n")
	} else {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render(
			fmt.Sprintf("Failed at %s: %v", result.FailedStep.String(), result.Err)))
	}
	if record.LogPath != "" {
		b.WriteString(mutedStyle.Render("Log: "+record.LogPath) + "\n")
	}
	return b.String()
}

// RenderDoctor returns the diagnostic report with one line per check.
func RenderDoctor(report app.DoctorReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Doctor"))
	b.WriteString("\n\n")

	for _, check := range report.Checks {
		icon := successStyle.Render("✓")
		if !check.Passed {
			icon = errorStyle.Render("✗")
		}
		fmt.Fprintf(&b, "  %s %-24s %s\n", icon, check.Name, mutedStyle.Render(check.Detail))
	}

	b.WriteString("\n")
	if report.Healthy() {
		b.WriteString(successStyle.Render("Stack is healthy.") + "\n")
	} else {
		b.WriteString(errorStyle.Render("Stack has problems; see details above.") + "\n")
	}
	return b.String()
}

func outcomeIcon(outcome run.Outcome) string {
	switch outcome {
	case run.OutcomeApplied:
		return successStyle.Render("✓")
	case run.OutcomeSkipped:
		return mutedStyle.Render("○")
	case run.OutcomeWarned:
		return warningStyle.Render("⚠")
	case run.OutcomeFailed:
		return errorStyle.Render("✗")
	case run.OutcomeWouldApply:
		return warningStyle.Render("+")
	default:
		return "?"
	}
}

func outcomeNote(sr run.StepResult) string {
	switch sr.Outcome() {
	case run.OutcomeApplied:
		unit := time.Second
		if sr.Duration() < time.Second {
			unit = time.Millisecond
		}
		return fmt.Sprintf("applied in %s", sr.Duration().Round(unit))
	case run.OutcomeSkipped:
		return mutedStyle.Render("already present")
	case run.OutcomeWarned:
		return warningStyle.Render(fmt.Sprintf("warning: %v", sr.Error()))
	case run.OutcomeFailed:
		return errorStyle.Render(fmt.Sprintf("failed: %v", sr.Error()))
	case run.OutcomeWouldApply:
		return "would apply"
	default:
		return ""
	}
}
