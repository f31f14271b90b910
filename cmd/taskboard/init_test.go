package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/metalagman/taskboard/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigYAML_IsLoadable(t *testing.T) {
	resetViper(t)

	workDir := t.TempDir()
	written, err := writeDefaultConfig(filepath.Join(workDir, defaultConfigPath), false)
	require.NoError(t, err)
	require.True(t, written)

	viper.Set("config", defaultConfigPath)
	cfg, err := loadConfig(workDir)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDefaultConfigYAML_UsesDurationStrings(t *testing.T) {
	t.Parallel()

	data, err := defaultConfigYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "read_timeout: 10s")
	assert.Contains(t, string(data), "driver: file")
}

func TestWriteDefaultConfig_KeepsExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", defaultConfigPath)
	require.NoError(t, writeTestFile(path, "store:\n  driver: sqlite\n"))

	written, err := writeDefaultConfig(path, false)
	require.NoError(t, err)
	assert.False(t, written)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "store:\n  driver: sqlite\n", string(data))

	written, err = writeDefaultConfig(path, true)
	require.NoError(t, err)
	assert.True(t, written)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: file")
}
