package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalagman/taskboard/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestResolveConfigPath(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	assert.Equal(t, filepath.Join(workDir, defaultConfigPath), resolveConfigPath(workDir, ""))
	assert.Equal(t, filepath.Join(workDir, "conf", "a.yaml"), resolveConfigPath(workDir, "conf/a.yaml"))
	abs := filepath.Join(t.TempDir(), "b.yaml")
	assert.Equal(t, abs, resolveConfigPath(workDir, abs))
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	resetViper(t)

	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_UsesYAML(t *testing.T) {
	resetViper(t)

	workDir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(workDir, defaultConfigPath), `server:
  addr: 127.0.0.1:8080
  static_dir: web
  read_timeout: 1m30s
store:
  driver: sqlite
log:
  format: json
`))

	cfg, err := loadConfig(workDir)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "web", cfg.Server.StaticDir)
	assert.Equal(t, 90*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "tasks.db", cfg.Store.Path)
	assert.Equal(t, config.FormatJSON, cfg.Log.Format)
}

func TestLoadConfig_ExplicitJSONPath(t *testing.T) {
	resetViper(t)

	workDir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(workDir, "conf", "board.json"),
		`{"store": {"path": "data/board.json"}}`))
	viper.Set("config", "conf/board.json")

	cfg, err := loadConfig(workDir)
	require.NoError(t, err)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "data/board.json", cfg.Store.Path)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	resetViper(t)

	workDir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(workDir, defaultConfigPath), "server:\n  addr: :7000\n"))
	t.Setenv("TASKBOARD_SERVER_ADDR", ":9000")
	t.Setenv("TASKBOARD_STORE_PATH", "/var/lib/taskboard/tasks.json")
	t.Setenv("TASKBOARD_LOG_DEBUG", "true")

	cfg, err := loadConfig(workDir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/taskboard/tasks.json", cfg.Store.Path)
	assert.True(t, cfg.Log.Debug)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	resetViper(t)

	workDir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(workDir, dotEnvFile),
		"TASKBOARD_SERVER_STATIC_DIR=public\nTASKBOARD_SERVER_INDEX_FILE=board.html\n"))
	t.Cleanup(func() { _ = os.Unsetenv("TASKBOARD_SERVER_STATIC_DIR") })
	// Values already in the environment win over .env.
	t.Setenv("TASKBOARD_SERVER_INDEX_FILE", "main.html")

	cfg, err := loadConfig(workDir)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Equal(t, "main.html", cfg.Server.IndexFile)
}

func TestLoadConfig_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown driver",
			content: "store:\n  driver: postgres\n",
			wantErr: "store.driver",
		},
		{
			name:    "bad duration",
			content: "server:\n  read_timeout: soon\n",
			wantErr: "server.read_timeout",
		},
		{
			name:    "unknown key",
			content: "server:\n  port: 5000\n",
			wantErr: "port",
		},
		{
			name:    "empty addr",
			content: "server:\n  addr: \"\"\n",
			wantErr: "server.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			workDir := t.TempDir()
			require.NoError(t, writeTestFile(filepath.Join(workDir, defaultConfigPath), tt.content))

			_, err := loadConfig(workDir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	resetViper(t)

	workDir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(workDir, defaultConfigPath), "server: [\n"))

	_, err := loadConfig(workDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func writeTestFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
