// Package app builds the concrete adapters selected by configuration.
// The binaries under cmd/ share it so they wire sources and caches the same way.
package app

import (
	"case-map-service/internal/adapters/atlas"
	"case-map-service/internal/adapters/cache"
	"case-map-service/internal/adapters/cases"
	"case-map-service/internal/adapters/upstream"
	"case-map-service/internal/config"
	"case-map-service/internal/platform/db"
	"case-map-service/internal/ports"
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewCaseSource returns a file source when cfg names a file, otherwise an
// HTTP source for the configured URL.
func NewCaseSource(cfg config.CasesConfig) (ports.CaseSource, error) {
	if f := strings.TrimSpace(cfg.File); f != "" {
		return cases.NewFileSource(f), nil
	}
	src, err := cases.NewHTTPSource(cfg.URL, upstream.New("cases"))
	if err != nil {
		return nil, err
	}
	return src, nil
}

// NewAtlasCache opens the atlas cache named by cfg.Atlas.Cache. The returned
// close func releases the backing connection and is never nil.
func NewAtlasCache(ctx context.Context, cfg config.Config) (ports.AtlasCache, func(), error) {
	ttl := cfg.Atlas.CacheTTL

	switch cfg.Atlas.Cache {
	case "", "none":
		return atlas.NewMemoryCache(ttl), func() {}, nil

	case "sqlite":
		conn, err := db.OpenSqlite(cfg.Store.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("atlas cache: %w", err)
		}
		if err := cache.InitSqliteSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("atlas cache: %w", err)
		}
		return cache.NewSqliteAtlasCache(conn, ttl), func() { conn.Close() }, nil

	case "postgres":
		conn, err := db.Open(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("atlas cache: %w", err)
		}
		if err := cache.InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("atlas cache: %w", err)
		}
		return cache.NewSQLAtlasCache(conn, ttl), func() { conn.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("atlas cache: ping redis %q: %w", cfg.Store.RedisAddr, err)
		}
		return cache.NewRedisAtlasCache(client, ttl), func() { client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("atlas cache: unknown kind %q", cfg.Atlas.Cache)
}

// NewAtlasProvider wires the HTTP atlas provider over the configured cache.
func NewAtlasProvider(ctx context.Context, cfg config.Config) (ports.AtlasProvider, func(), error) {
	c, closeCache, err := NewAtlasCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	p, err := atlas.NewHTTPProvider(cfg.Atlas.URL, upstream.New("atlas"), c)
	if err != nil {
		closeCache()
		return nil, nil, fmt.Errorf("atlas provider: %w", err)
	}

	zap.L().Info("atlas provider ready", zap.String("url", cfg.Atlas.URL), zap.String("cache", cfg.Atlas.Cache))
	return p, closeCache, nil
}
