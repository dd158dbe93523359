package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir isolates config discovery from the working directory and $HOME.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.True(t, cfg.Sanitize)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "yaml", cfg.OpenAPI.Format)
	assert.Equal(t, "1.0.0", cfg.OpenAPI.Version)
}

func TestLoad_FileEnvAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formstate.yaml")
	doc := []byte("log:\n  level: info\n  file: /tmp/formstate.log\nschemas: ./screens\nsanitize: false\nopenapi:\n  format: json\n")
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	t.Setenv("FORMSTATE_OUTPUT", "json")
	t.Setenv("FORMSTATE_LOG_LEVEL", "error")

	cfg, err := Load(path, map[string]any{"schemas": "./override"})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "env wins over file")
	assert.Equal(t, "/tmp/formstate.log", cfg.Log.File)
	assert.Equal(t, "json", cfg.Output)
	assert.False(t, cfg.Sanitize)
	assert.Equal(t, "json", cfg.OpenAPI.Format)
	assert.Equal(t, "./override", cfg.Schemas, "overrides win over file")
}

func TestLoad_DiscoversFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formstate.yaml"), []byte("output: json\n"), 0o600))
	chdir(t, dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = Load("", map[string]any{"log.level": "loud"})
	assert.ErrorContains(t, err, "log.level")

	_, err = Load("", map[string]any{"output": "xml"})
	assert.ErrorContains(t, err, "output must be text or json")

	_, err = Load("", map[string]any{"openapi.format": "toml"})
	assert.ErrorContains(t, err, "openapi.format")

	_, err = Load("", map[string]any{"log.max_backups": -1})
	assert.ErrorContains(t, err, "must not be negative")
}
