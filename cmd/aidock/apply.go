package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidock-dev/aidock/internal/tui"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Install the stack",
	Long: `Apply runs the installation steps in order: system packages, the
Docker engine, the model runner, the generated files, and the chat
interface container.

Steps whose capability is already present are skipped. A fatal step
failure stops the run immediately; rerunning continues from where it
stopped. Every action and all captured command output goes to a
timestamped log under ~/.aidock/logs.

Use --dry-run to see what would happen without making changes.`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be done without making changes")
}

func runApply(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp()
	if err != nil {
		return err
	}

	result, record, err := a.Apply(ctx, applyDryRun)
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.RenderResult(result, record))

	if !result.Success() {
		return fmt.Errorf("apply stopped at %s", result.FailedStep.String())
	}
	return nil
}
