package app

import (
	"case-map-service/internal/adapters/atlas"
	"case-map-service/internal/adapters/cache"
	"case-map-service/internal/adapters/cases"
	"case-map-service/internal/config"
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCaseSourcePrefersFile(t *testing.T) {
	src, err := NewCaseSource(config.CasesConfig{URL: "http://example.invalid", File: "cases.json"})
	require.NoError(t, err)
	assert.IsType(t, &cases.FileSource{}, src)

	src, err = NewCaseSource(config.CasesConfig{URL: "http://example.invalid"})
	require.NoError(t, err)
	assert.IsType(t, &cases.HTTPSource{}, src)
}

func TestNewAtlasCache(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	c, closeFn, err := NewAtlasCache(ctx, cfg)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &atlas.MemoryCache{}, c)

	cfg.Atlas.Cache = "sqlite"
	cfg.Store.DBPath = filepath.Join(t.TempDir(), "atlas.db")
	c, closeFn, err = NewAtlasCache(ctx, cfg)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &cache.SqliteAtlasCache{}, c)

	mr := miniredis.RunT(t)
	cfg.Atlas.Cache = "redis"
	cfg.Store.RedisAddr = mr.Addr()
	c, closeFn, err = NewAtlasCache(ctx, cfg)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &cache.RedisAtlasCache{}, c)

	cfg.Atlas.Cache = "memcached"
	_, _, err = NewAtlasCache(ctx, cfg)
	assert.Error(t, err)
}
