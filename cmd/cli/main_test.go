package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridgate/internal/cli"
)

func writeGrid(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	base := []string{"--modules-path", t.TempDir(), "--log-format", "text"}
	err := run(context.Background(), out, append(base, args...))
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "expected *cli.ExitError, got %v", err)
	return exitErr.Code
}

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	_, err := runArgs(t, "--this-is-not-a-valid-flag")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, exitCode(t, err))
	assert.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_InvalidHCL(t *testing.T) {
	path := writeGrid(t, `
		step "print" "A" {
			arguments {
		// Missing closing brace here
	`)
	_, err := runArgs(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestRun_Success(t *testing.T) {
	path := writeGrid(t, `
step "print" "hello" {
  arguments {
    value = { greeting = "hi" }
  }
}
`)
	out, err := runArgs(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, `greeting = "hi"`)
}

func TestRun_FailedStep(t *testing.T) {
	path := writeGrid(t, `step "fail" "x" {}`)
	_, err := runArgs(t, path)
	require.Error(t, err)
	var exitErr *cli.ExitError
	assert.False(t, errors.As(err, &exitErr), "step failures use the default exit code")
}

func TestRun_PausedAndResumed(t *testing.T) {
	path := writeGrid(t, `
step "print" "approve" {
  trigger "manual_only" {}
}

step "print" "after" {
  depends_on = ["print.approve"]
}
`)

	_, err := runArgs(t, path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitPaused, exitCode(t, err))
	assert.Contains(t, err.Error(), "step.print.approve")

	_, err = runArgs(t, "--resume", "print.approve", path)
	assert.NoError(t, err)
}
