package cache

import (
	"case-map-service/internal/platform/obs"
	"case-map-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "casemap:atlas:"

// RedisAtlasCache stores atlases as hashes {data, fetched_at} that expire after TTL.
type RedisAtlasCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisAtlasCache(client *redis.Client, ttl time.Duration) *RedisAtlasCache {
	return &RedisAtlasCache{Client: client, TTL: ttl}
}

func (r *RedisAtlasCache) Get(ctx context.Context, source string) (_ ports.Atlas, _ bool, err error) {
	defer obs.Time(ctx, "atlas.redis.Get")(&err)

	if r.Client == nil {
		return ports.Atlas{}, false, errors.New("atlas cache: redis client is nil")
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return ports.Atlas{}, false, errors.New("get atlas cache: source must not be empty")
	}

	vals, err := r.Client.HMGet(ctx, redisKeyPrefix+source, "data", "fetched_at").Result()
	if err != nil {
		return ports.Atlas{}, false, fmt.Errorf("get atlas cache: hmget: %w", err)
	}

	data, ok1 := vals[0].(string)
	fetched, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return ports.Atlas{}, false, nil
	}

	millis, err := strconv.ParseInt(fetched, 10, 64)
	if err != nil {
		return ports.Atlas{}, false, fmt.Errorf("get atlas cache: parse fetched_at %q: %w", fetched, err)
	}

	return ports.Atlas{
		Source:    source,
		Data:      []byte(data),
		FetchedAt: time.UnixMilli(millis).UTC(),
	}, true, nil
}

func (r *RedisAtlasCache) Put(ctx context.Context, a ports.Atlas) (err error) {
	defer obs.Time(ctx, "atlas.redis.Put")(&err)

	if r.Client == nil {
		return errors.New("atlas cache: redis client is nil")
	}

	if strings.TrimSpace(a.Source) == "" {
		return fmt.Errorf("insert atlas cache: empty source key")
	}

	key := redisKeyPrefix + a.Source
	_, err = r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, "data", a.Data, "fetched_at", a.FetchedAt.UnixMilli())
		if r.TTL > 0 {
			p.Expire(ctx, key, r.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert atlas cache source=%q: %w", a.Source, err)
	}

	return nil
}
