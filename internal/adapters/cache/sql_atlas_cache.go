package cache

import (
	"case-map-service/internal/platform/obs"
	"case-map-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLAtlasCache is a Postgres-backed cache of fetched atlases keyed by source URL.
type SQLAtlasCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSQLAtlasCache(db *sql.DB, ttl time.Duration) *SQLAtlasCache {
	return &SQLAtlasCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch the cached atlas for source unless it is older than TTL.
func (s *SQLAtlasCache) Get(ctx context.Context, source string) (_ ports.Atlas, _ bool, err error) {
	defer obs.Time(ctx, "atlas.cache.Get")(&err)

	if s.DB == nil {
		return ports.Atlas{}, false, errors.New("atlas cache: db is nil")
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return ports.Atlas{}, false, errors.New("get atlas cache: source must not be empty")
	}

	q := `
	SELECT data, fetched_at
    FROM atlas_cache
    WHERE source = $1;
	`

	var data []byte
	var fetchedAt time.Time
	err = s.DB.QueryRowContext(ctx, q, source).Scan(&data, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Atlas{}, false, nil
	}
	if err != nil {
		return ports.Atlas{}, false, fmt.Errorf("get atlas cache: query atlas_cache table: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(fetchedAt) > s.TTL {
		return ports.Atlas{}, false, nil
	}

	return ports.Atlas{Source: source, Data: data, FetchedAt: fetchedAt.UTC()}, true, nil
}

// Store or replace the atlas for its source.
func (s *SQLAtlasCache) Put(ctx context.Context, a ports.Atlas) (err error) {
	defer obs.Time(ctx, "atlas.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("atlas cache: db is nil")
	}

	if strings.TrimSpace(a.Source) == "" {
		return fmt.Errorf("insert atlas cache: empty source key")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO atlas_cache (source, data, fetched_at)
    VALUES ($1, $2, $3)
	ON CONFLICT (source) DO UPDATE
	SET data = EXCLUDED.data,
		fetched_at = EXCLUDED.fetched_at;
	`, a.Source, a.Data, a.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert atlas cache source=%q: %w", a.Source, err)
	}

	return nil
}
