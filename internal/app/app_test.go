package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/metalagman/taskboard/internal/config"
	"github.com/metalagman/taskboard/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/fx/fxtest"
)

func testConfig(t *testing.T, driver string) config.Config {
	t.Helper()

	dir := t.TempDir()
	static := filepath.Join(dir, "frontend")
	require.NoError(t, os.MkdirAll(static, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("board"), 0o644))

	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.StaticDir = static
	cfg.Store.Driver = driver
	cfg.Store.Path = filepath.Join(dir, config.DefaultStorePath(driver))
	return cfg
}

func startApp(t *testing.T, cfg config.Config) *HTTPServer {
	t.Helper()

	var srv *HTTPServer
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module,
		fx.WithLogger(func() fxevent.Logger { return &eventLogger{} }),
		fx.Populate(&srv),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	return srv
}

func TestApp_ServesAPIWithFileStore(t *testing.T) {
	cfg := testConfig(t, config.DriverFile)
	srv := startApp(t, cfg)
	base := "http://" + srv.Addr()

	resp, err := http.Post(base+"/api/tasks", "application/json", strings.NewReader(`{"content":"A"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(base + "/api/tasks")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var got []task.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []task.Task{{ID: 1, Content: "A", State: task.DefaultState}}, got)
	assert.FileExists(t, cfg.Store.Path)

	resp, err = http.Get(base + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "board", string(body))
}

func TestApp_ServesAPIWithSQLiteStore(t *testing.T) {
	cfg := testConfig(t, config.DriverSQLite)
	srv := startApp(t, cfg)

	resp, err := http.Get("http://" + srv.Addr() + "/api/tasks")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(body))
	assert.FileExists(t, cfg.Store.Path)
}

func TestApp_UnknownDriverFailsToStart(t *testing.T) {
	cfg := testConfig(t, config.DriverFile)
	cfg.Store.Driver = "postgres"

	app := New(cfg)
	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), `unknown store driver "postgres"`)
}

func TestApp_StartStop(t *testing.T) {
	cfg := testConfig(t, config.DriverFile)
	app := New(cfg)
	require.NoError(t, app.Err())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Stop(ctx))
}

func TestOpenStore_SQLiteRegistersCloseHook(t *testing.T) {
	var hooks []fx.Hook
	store, err := OpenStore(context.Background(), config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "db", "tasks.db"),
	}, func(h fx.Hook) { hooks = append(hooks, h) })
	require.NoError(t, err)
	require.Len(t, hooks, 1)

	require.NoError(t, store.Save(context.Background(), []task.Task{{ID: 1, Content: "a", State: "b"}}))
	require.NoError(t, hooks[0].OnStop(context.Background()))
}
