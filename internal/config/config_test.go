package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestBuildDefaults(t *testing.T) {
	clearEnv(t, "SERVER_PORT", "DATA_ROOT", "GRAPH_SOURCE", "OPENAI_MODEL", "OPENAI_API_KEY", "TASK_WORKERS", "OPENAI_TEMPERATURE")

	cfg, err := build(source{})
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, "./data", cfg.Data.Root)
	assert.Equal(t, SourceCSV, cfg.Graph.Source)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 1.0, cfg.LLM.Temperature)
	assert.Equal(t, defaultTaskWorkers, cfg.Tasks.Workers)
	assert.False(t, cfg.LLM.Enabled())
}

func TestBuildEnvOverridesFile(t *testing.T) {
	clearEnv(t, "SERVER_PORT", "DATA_ROOT", "OPENAI_TIMEOUT")
	t.Setenv("DATA_ROOT", "/srv/data")

	cfg, err := build(source{file: map[string]string{
		"DATA_ROOT":      "/ignored",
		"SERVER_PORT":    "9090",
		"OPENAI_TIMEOUT": "5s",
	}})
	require.NoError(t, err)

	assert.Equal(t, "/srv/data", cfg.Data.Root)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
}

func TestBuildRejectsInvalidValues(t *testing.T) {
	clearEnv(t, "SERVER_PORT", "GRAPH_SOURCE", "SERVER_READ_TIMEOUT")

	t.Setenv("SERVER_PORT", "70000")
	_, err := build(source{})
	require.Error(t, err)

	t.Setenv("SERVER_PORT", "")
	t.Setenv("GRAPH_SOURCE", "postgres")
	_, err = build(source{})
	require.Error(t, err)

	t.Setenv("GRAPH_SOURCE", "")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	_, err = build(source{})
	require.Error(t, err)
}

func TestReadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demolab.yml")
	require.NoError(t, os.WriteFile(path, []byte("data_root: ./fixtures\nserver_port: 9000\nlog_format: json\n"), 0o600))

	values, err := readOverlay(path)
	require.NoError(t, err)
	assert.Equal(t, "./fixtures", values["DATA_ROOT"])
	assert.Equal(t, "9000", values["SERVER_PORT"])
	assert.Equal(t, "json", values["LOG_FORMAT"])

	none, err := readOverlay("")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestLoadLayersDotenvBelowOverlay(t *testing.T) {
	clearEnv(t, "DATA_ROOT", "LOG_FORMAT", "SERVER_PORT", ConfigFileEnv)
	dir := t.TempDir()

	overlay := filepath.Join(dir, "demolab.yml")
	require.NoError(t, os.WriteFile(overlay, []byte("data_root: /from-yaml\nlog_format: json\n"), 0o600))
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte(
		"DATA_ROOT=/from-dotenv\nSERVER_PORT=9100\nLOG_FORMAT=text\n"+ConfigFileEnv+"="+overlay+"\n"), 0o600))

	cfg, err := loadFrom(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "/from-yaml", cfg.Data.Root)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Empty(t, os.Getenv("DATA_ROOT"))

	t.Setenv("DATA_ROOT", "/from-env")
	cfg, err = loadFrom(dotenv)
	require.NoError(t, err)
	assert.Equal(t, "/from-env", cfg.Data.Root)
}

func TestLoadWithoutDotenv(t *testing.T) {
	clearEnv(t, "DATA_ROOT", ConfigFileEnv)

	cfg, err := loadFrom(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.Data.Root)
}
