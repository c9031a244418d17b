package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvforge/internal/logger"
)

func TestResolveLogLevel(t *testing.T) {
	writeConfig := func(t *testing.T, level string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.toml")
		content := "[general]\nlog_level = \"" + level + "\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("config file sets the base level", func(t *testing.T) {
		verbose = false
		t.Setenv("CSVFORGE_LOG_LEVEL", "")

		assert.Equal(t, logger.WarnLevel, resolveLogLevel(writeConfig(t, "warn")))
	})

	t.Run("missing config defaults to info", func(t *testing.T) {
		verbose = false
		t.Setenv("CSVFORGE_LOG_LEVEL", "")

		assert.Equal(t, logger.InfoLevel, resolveLogLevel(filepath.Join(t.TempDir(), "nope.toml")))
	})

	t.Run("environment overrides config", func(t *testing.T) {
		verbose = false
		t.Setenv("CSVFORGE_LOG_LEVEL", "error")

		assert.Equal(t, logger.ErrorLevel, resolveLogLevel(writeConfig(t, "warn")))
	})

	t.Run("verbose overrides both", func(t *testing.T) {
		verbose = true
		defer func() { verbose = false }()
		t.Setenv("CSVFORGE_LOG_LEVEL", "error")

		assert.Equal(t, logger.DebugLevel, resolveLogLevel(writeConfig(t, "warn")))
	})
}

func TestRootCommandReportsErrorsOnce(t *testing.T) {
	// execute prints failures to stderr itself, so cobra's own reporting
	// stays off.
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}
