package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "aidock dev")
	assert.Contains(t, out, "commit:")
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "apply")
	assert.Contains(t, out, "doctor")
	assert.Contains(t, out, "version")
}

func TestUnknownCommandFails(t *testing.T) {
	_, err := execute(t, "frobnicate")

	assert.Error(t, err)
}

func TestPrintErrorTo(t *testing.T) {
	out := &bytes.Buffer{}
	printErrorTo(out, errors.New("boom"))

	assert.Equal(t, "Error: boom\n", out.String())
}
