package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, ThemeClassic, cfg.UI.Theme)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 10000, cfg.Cache.MaxEntries)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 15*time.Second, GetDuration(cfg.Server.ReadTimeout))

	paths := cfg.ArtifactPaths()
	assert.Equal(t, filepath.Join("artifacts", "logistic_model.json"), paths.Model)
	assert.Equal(t, filepath.Join("artifacts", "scaler.json"), paths.Scaler)
	assert.Equal(t, filepath.Join("artifacts", "label_encoders.json"), paths.Encoders)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("UI_THEME", "styled")

	cfg, err := LoadFromFile(writeConfig(t, "server:\n  address: \":8080\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, ThemeStyled, cfg.UI.Theme)
}

func TestLoadFromFile_InvalidTheme(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "ui:\n  theme: neon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.theme")
}

func TestLoadFromFile_RedisNeedsAddress(t *testing.T) {
	body := "cache:\n  enabled: true\n  backend: redis\n"
	_, err := LoadFromFile(writeConfig(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.redis.address")
}

func TestLoadFromFile_UnknownBackend(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "cache:\n  backend: memcached\n"))
	assert.Error(t, err)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestArtifactPaths_Absolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "model.json")
	cfg := &Config{Artifacts: ArtifactsConfig{Dir: "artifacts", Model: abs, Scaler: "s.json", Encoders: "e.json"}}

	paths := cfg.ArtifactPaths()
	assert.Equal(t, abs, paths.Model)
	assert.Equal(t, filepath.Join("artifacts", "s.json"), paths.Scaler)
}

func writeConfigDir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_MergesEnvironmentFile(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "staging")
	writeConfigDir(t, map[string]string{
		"config.yaml":         "ui:\n  theme: classic\n",
		"config.staging.yaml": "ui:\n  theme: styled\n",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ThemeStyled, cfg.UI.Theme)
}

func TestLoad_MissingEnvironmentFileIsFine(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "staging")
	writeConfigDir(t, map[string]string{"config.yaml": "app:\n  name: base\n"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "base", cfg.App.Name)
}

func TestLoad_MalformedEnvironmentFile(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "staging")
	writeConfigDir(t, map[string]string{
		"config.yaml":         "app:\n  name: base\n",
		"config.staging.yaml": "server: [unclosed\n",
	})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging")
}

func TestLoadFromFile_NegativeMaxEntries(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "cache:\n  max_entries: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.max_entries")
}
