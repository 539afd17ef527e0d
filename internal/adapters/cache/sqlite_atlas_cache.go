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

// SQLite backed atlas cache. fetched_at is stored as unix milliseconds.
type SqliteAtlasCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSqliteAtlasCache(db *sql.DB, ttl time.Duration) *SqliteAtlasCache {
	return &SqliteAtlasCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SqliteAtlasCache) Get(ctx context.Context, source string) (_ ports.Atlas, _ bool, err error) {
	defer obs.Time(ctx, "atlas.sqlite.Get")(&err)

	if s.DB == nil {
		return ports.Atlas{}, false, errors.New("atlas cache: db is nil")
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return ports.Atlas{}, false, errors.New("get atlas cache: source must not be empty")
	}

	q := `
	SELECT
        data,
        fetched_at
    FROM atlas_cache
    WHERE source = ?;
	`

	var data []byte
	var fetchedMillis int64
	err = s.DB.QueryRowContext(ctx, q, source).Scan(&data, &fetchedMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Atlas{}, false, nil
	}
	if err != nil {
		return ports.Atlas{}, false, fmt.Errorf("get atlas cache: query atlas_cache table: %w", err)
	}

	fetchedAt := time.UnixMilli(fetchedMillis).UTC()
	if s.TTL > 0 && s.now().Sub(fetchedAt) > s.TTL {
		return ports.Atlas{}, false, nil
	}

	return ports.Atlas{Source: source, Data: data, FetchedAt: fetchedAt}, true, nil
}

func (s *SqliteAtlasCache) Put(ctx context.Context, a ports.Atlas) (err error) {
	defer obs.Time(ctx, "atlas.sqlite.Put")(&err)

	if s.DB == nil {
		return errors.New("atlas cache: db is nil")
	}

	if strings.TrimSpace(a.Source) == "" {
		return fmt.Errorf("insert atlas cache: empty source key")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO atlas_cache (
        source,
        data,
        fetched_at
    )
    VALUES (?, ?, ?);
	`, a.Source, a.Data, a.FetchedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert atlas cache source=%q: %w", a.Source, err)
	}

	return nil
}
