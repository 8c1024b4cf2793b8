package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"todoList/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestLoad_MissingFileUsesDefaults тестирует значения по умолчанию
func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, ":8080", cfg.GetServerAddr())
	assert.Equal(t, "inmemory", cfg.Storage.Type)
}

// TestLoad_File тестирует чтение YAML
func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: "9090"
  request_timeout: 3s
storage:
  type: sqlite
  path: /tmp/todos.db
worker:
  stats_interval: 1m
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddr())
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/todos.db", cfg.Storage.Path)
	assert.Equal(t, time.Minute, cfg.Worker.StatsInterval)
	// не указанные в файле поля остаются по умолчанию
	assert.Equal(t, 100, cfg.Server.RateLimitRPM)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

// TestLoad_EnvOverrides тестирует переменные окружения
func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
storage:
  type: jsonfile
  path: data/todos.json
`)

	t.Setenv("TODO_SERVER_PORT", "7070")
	t.Setenv("TODO_STORAGE_TYPE", "postgres")
	t.Setenv("TODO_DATABASE_URL", "postgres://u:p@db:5432/todo")
	t.Setenv("TODO_SERVER_RATE_LIMIT_RPM", "5")
	t.Setenv("TODO_WORKER_STATS_INTERVAL", "2s")
	t.Setenv("TODO_LOGGING_DEVELOPMENT", "false")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "postgres://u:p@db:5432/todo", cfg.Database.URL)
	assert.Equal(t, 5, cfg.Server.RateLimitRPM)
	assert.Equal(t, 2*time.Second, cfg.Worker.StatsInterval)
	assert.False(t, cfg.Logging.Development)
}

// TestLoad_Errors тестирует ошибки разбора и валидации
func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid yaml", body: "server: [unclosed"},
		{name: "unknown storage type", body: "storage:\n  type: mongo\n"},
		{name: "postgres without url", body: "storage:\n  type: postgres\n"},
		{name: "sqlite without path", body: "storage:\n  type: sqlite\n  path: \"\"\n"},
		{name: "empty port", body: "server:\n  port: \"\"\n"},
		{name: "min above max", body: "database:\n  max_connections: 1\n  min_connections: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
