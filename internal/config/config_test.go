package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "CASES_URL", "CASES_FILE", "ATLAS_URL", "ATLAS_CACHE",
		"ATLAS_CACHE_TTL", "MAP_TITLE", "MISSING_FIELD_POLICY", "MINIO_USE_SSL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultAtlasURL, cfg.Atlas.URL)
	assert.Equal(t, DefaultTitle, cfg.Map.Title)
	assert.Equal(t, "skip", cfg.Map.MissingFieldPolicy)
	assert.Equal(t, 24*time.Hour, cfg.Atlas.CacheTTL)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "casemap.yaml")
	yml := `
port: "9090"
atlas:
  cache: redis
  cache_ttl: 1h
map:
  title: From file
store:
  redis_addr: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	clearEnv(t)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAP_TITLE", "From env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.Atlas.Cache)
	assert.Equal(t, time.Hour, cfg.Atlas.CacheTTL)
	assert.Equal(t, "From env", cfg.Map.Title)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"ATLAS_CACHE_TTL": "soon"}},
		{"unknown cache", map[string]string{"ATLAS_CACHE": "memcached"}},
		{"postgres without url", map[string]string{"ATLAS_CACHE": "postgres", "DATABASE_URL": ""}},
		{"bad ssl flag", map[string]string{"MINIO_USE_SSL": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("CASEMAP_TEST_KEY", "")
	assert.Equal(t, "fallback", Get("CASEMAP_TEST_KEY", "fallback"))

	t.Setenv("CASEMAP_TEST_KEY", "set")
	assert.Equal(t, "set", Get("CASEMAP_TEST_KEY", "fallback"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	const key = "CASEMAP_DOTENV_CHECK"
	t.Cleanup(func() { os.Unsetenv(key) })

	assert.Error(t, LoadDotEnv(), "missing .env is reported to the caller")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=from-file\n"), 0o600))
	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "from-file", os.Getenv(key))
}
