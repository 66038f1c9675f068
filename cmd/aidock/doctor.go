package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidock-dev/aidock/internal/tui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the installed stack",
	Long: `Doctor probes the installed stack without changing anything: the
Docker engine and its service, the chat interface container and its
HTTP endpoint, and the model runner's API.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	report := a.Doctor(cmd.Context())
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderDoctor(report))

	if !report.Healthy() {
		return fmt.Errorf("stack has problems")
	}
	return nil
}
