package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidock-dev/aidock/internal/tui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what apply would do without changing anything",
	Long: `Plan evaluates every step's presence check and lists which steps
would run and which are already satisfied. Nothing is installed,
started, or written.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	plan, err := a.Plan(cmd.Context())
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.RenderPlan(plan))
	return nil
}
