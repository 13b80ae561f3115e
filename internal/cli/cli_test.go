package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, exit, err := Parse([]string{"grid.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "grid.hcl", cfg.GridPath)
		assert.Equal(t, "modules", cfg.ModulesPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 10, cfg.WorkerCount)
		assert.Empty(t, cfg.Resume)
	})

	t.Run("grid flag wins over positional argument", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-g", "b.hcl", "a.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "b.hcl", cfg.GridPath)
	})

	t.Run("repeatable resume", func(t *testing.T) {
		cfg, _, err := Parse([]string{
			"--resume", "print.approve",
			"--resume", "step.http_request.deploy, fail.x",
			"--report", "out.yaml",
			"--log-format", "TEXT",
			"grid",
		}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, []string{"print.approve", "step.http_request.deploy", "fail.x"}, cfg.Resume)
		assert.Equal(t, "out.yaml", cfg.ReportPath)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("help", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, exit, err := Parse([]string{"-h"}, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("no grid path prints usage", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, exit, err := Parse(nil, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Contains(t, out.String(), "--resume")
	})
}

func TestParse_UsageErrors(t *testing.T) {
	tests := map[string][]string{
		"unknown flag":     {"--nope", "grid"},
		"bad log format":   {"--log-format", "xml", "grid"},
		"bad log level":    {"--log-level", "loud", "grid"},
		"no workers":       {"--workers", "0", "grid"},
		"empty resume ref": {"--resume", "", "grid"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(args, &bytes.Buffer{})
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
			assert.Equal(t, ExitUsage, exitErr.Code)
		})
	}
}
