package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/bulletin/internal/config"
	"github.com/JaimeStill/bulletin/pkg/formatting"
)

const azurite = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=a2V5;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

const baseConfig = `
shutdown_timeout = "20s"
version = "1.2.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "2m"

[logging]
level = "debug"

[database]
name = "bulletin"
user = "bulletin"
password = "bulletin"
max_conns = 20

[storage]
container_name = "attachments"
connection_string = "` + azurite + `"

[api]
base_path = "/api"
max_upload_size = "8MB"

[api.pagination]
default_page_size = 10
max_page_size = 40
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "db.campus.internal"

[logging]
format = "json"
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, "attachments", cfg.Storage.ContainerName)
	assert.Equal(t, formatting.ByteSize(8<<20), cfg.API.MaxUploadSize)
	assert.Equal(t, 40, cfg.API.Pagination.MaxPageSize)
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)
	writeFile(t, dir, "config.staging.toml", overlayConfig)
	t.Setenv(config.EnvBulletinEnv, "staging")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.campus.internal", cfg.Database.Host)
	assert.Equal(t, "bulletin", cfg.Database.Name)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)

	t.Setenv("BULLETIN_SERVER_PORT", "7070")
	t.Setenv("BULLETIN_DB_PASSWORD", "from-env")
	t.Setenv("BULLETIN_API_MAX_UPLOAD_SIZE", "2MB")
	t.Setenv("BULLETIN_CORS_ORIGINS", "http://portal.campus.edu")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, formatting.ByteSize(2<<20), cfg.API.MaxUploadSize)
	assert.Equal(t, []string{"http://portal.campus.edu"}, cfg.API.CORS.Origins)
}

func TestLoadNoConfigFile(t *testing.T) {
	t.Setenv("BULLETIN_DB_NAME", "bulletin")
	t.Setenv("BULLETIN_DB_USER", "bulletin")
	t.Setenv("BULLETIN_STORAGE_CONNECTION_STRING", azurite)

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env())
	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.Equal(t, formatting.ByteSize(10<<20), cfg.API.MaxUploadSize)
	assert.Equal(t, 10, cfg.API.Pagination.DefaultPageSize)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"malformed toml", "[server\nport = ", nil},
		{"missing database name", `[storage]
connection_string = "` + azurite + `"`, nil},
		{"bad upload size env", baseConfig, map[string]string{"BULLETIN_API_MAX_UPLOAD_SIZE": "huge"}},
		{"bad log level", baseConfig, map[string]string{"BULLETIN_LOG_LEVEL": "chatty"}},
		{"bad port", baseConfig, map[string]string{"BULLETIN_SERVER_PORT": "70000"}},
		{"bad idle timeout", baseConfig, map[string]string{"BULLETIN_SERVER_IDLE_TIMEOUT": "forever"}},
		{"header timeout above read timeout", baseConfig, map[string]string{"BULLETIN_SERVER_READ_HEADER_TIMEOUT": "5m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.BaseConfigFile, tt.content)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestServerConfigTimeouts(t *testing.T) {
	t.Setenv(config.EnvServerIdleTimeout, "90s")

	cfg := config.ServerConfig{Host: "::1", WriteTimeout: "2m"}
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, "[::1]:8080", cfg.Addr())
	assert.Equal(t, time.Minute, cfg.ReadTimeoutDuration())
	assert.Equal(t, 10*time.Second, cfg.ReadHeaderTimeoutDuration())
	assert.Equal(t, 2*time.Minute, cfg.WriteTimeoutDuration())
	assert.Equal(t, 90*time.Second, cfg.IdleTimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())

	cfg.Merge(&config.ServerConfig{ReadHeaderTimeout: "5s", Port: 9000})
	assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeoutDuration())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.WriteTimeoutDuration())
}

func TestLoggingNewLogger(t *testing.T) {
	cfg := config.LoggingConfig{Level: "warn", Format: "json"}
	require.NoError(t, cfg.Finalize())

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "kind", "notice")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"kind":"notice"`)
}
