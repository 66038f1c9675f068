package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidock-dev/aidock/internal/adapters/command"
	"github.com/aidock-dev/aidock/internal/adapters/filesystem"
	"github.com/aidock-dev/aidock/internal/adapters/logging"
	"github.com/aidock-dev/aidock/internal/app"
	"github.com/aidock-dev/aidock/internal/config"
	"github.com/aidock-dev/aidock/internal/ports"
	"github.com/aidock-dev/aidock/internal/probe"
)

var (
	cfgFile string
	verbose bool
)

const probeTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "aidock",
	Short: "Install a local AI chat stack on Ubuntu",
	Long: `Aidock provisions a workstation with a local AI stack: system
packages, the Docker engine, a desktop model runner, and a containerized
chat interface wired to the runner's OpenAI-compatible API.

Every run is idempotent: capabilities that are already present are
skipped, so rerunning after a failure picks up where the last run
stopped.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// buildApp wires the real adapters into the application.
func buildApp() (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	echo := logging.NewConsoleLogger(
		logging.WithOutput(os.Stderr),
		logging.WithLevel(level),
	)

	return app.New(cfg,
		command.NewRealRunner(),
		filesystem.NewRealFileSystem(),
		probe.New(probeTimeout),
		echo,
	), nil
}

// printError prints an error message to stderr.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", err.Error())
}
