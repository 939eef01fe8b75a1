package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{EnvConfig, EnvAPIBaseURL, EnvTheme, EnvLogLevel, EnvLogFormat, EnvLogFile, EnvValidateResponses} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	home := clearEnv(t)

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", cfg.APIBaseURL)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ValidateResponses)
	assert.Equal(t, filepath.Join(home, ".tada", "tada.log"), cfg.LogFile)
	assert.Empty(t, cfg.Path)
}

func TestLayering(t *testing.T) {
	home := clearEnv(t)
	writeFile(t, filepath.Join(home, ".tada", "config.toml"), `
api_base_url = "http://file:1"
theme = "dark"
log_level = "debug"
validate_responses = false
`)

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "http://file:1", cfg.APIBaseURL)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.ValidateResponses)
	assert.Equal(t, filepath.Join(home, ".tada", "config.toml"), cfg.Path)

	t.Setenv(EnvAPIBaseURL, "http://env:2/")
	t.Setenv(EnvValidateResponses, "yes")
	cfg, err = Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.APIBaseURL)
	assert.True(t, cfg.ValidateResponses)

	flagURL, flagTheme := "http://flag:3", "LIGHT"
	cfg, err = Load("", Overrides{APIBaseURL: &flagURL, Theme: &flagTheme})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:3", cfg.APIBaseURL)
	assert.Equal(t, "light", cfg.Theme)
}

func TestExplicitPathMustExist(t *testing.T) {
	home := clearEnv(t)
	_, err := Load(filepath.Join(home, "missing.toml"), Overrides{})
	assert.Error(t, err)

	t.Setenv(EnvConfig, filepath.Join(home, "also-missing.toml"))
	_, err = Load("", Overrides{})
	assert.Error(t, err)
}

func TestRejectsUnknownTheme(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTheme, "neon")
	_, err := Load("", Overrides{})
	assert.Error(t, err)
}

func TestBadTOML(t *testing.T) {
	home := clearEnv(t)
	p := filepath.Join(home, "bad.toml")
	writeFile(t, p, "theme = [")
	_, err := Load(p, Overrides{})
	assert.Error(t, err)
}

func TestExpandHomeLogFile(t *testing.T) {
	home := clearEnv(t)
	t.Setenv(EnvLogFile, "~/logs/tada.log")
	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "tada.log"), cfg.LogFile)
}
