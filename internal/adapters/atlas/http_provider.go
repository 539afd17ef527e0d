package atlas

import (
	"case-map-service/internal/adapters/upstream"
	"case-map-service/internal/platform/metrics"
	"case-map-service/internal/platform/obs"
	"case-map-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// HTTPProvider implements AtlasProvider for a pinned TopoJSON URL.
//
// Lookups go to the persistent cache first; misses are fetched upstream,
// validated, and written back. Cache failures never fail a fetch.
type HTTPProvider struct {
	client *upstream.Client
	url    string
	cache  ports.AtlasCache
	now    func() time.Time
}

func NewHTTPProvider(url string, client *upstream.Client, cache ports.AtlasCache) (*HTTPProvider, error) {
	if url == "" {
		return nil, errors.New("atlas provider: url is empty")
	}
	if client == nil {
		client = upstream.New("atlas")
	}
	return &HTTPProvider{client: client, url: url, cache: cache, now: time.Now}, nil
}

func (p *HTTPProvider) Fetch(ctx context.Context) (_ ports.Atlas, err error) {
	defer obs.Time(ctx, "atlas.Fetch")(&err)

	if p.cache != nil {
		a, ok, err := p.cache.Get(ctx, p.url)
		switch {
		case err != nil:
			metrics.AtlasCacheTotal.WithLabelValues("error").Inc()
			zap.L().Warn("atlas cache read failed", zap.String("source", p.url), zap.Error(err))
		case ok:
			metrics.AtlasCacheTotal.WithLabelValues("hit").Inc()
			return a, nil
		default:
			metrics.AtlasCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	b, err := p.client.Get(ctx, p.url)
	if err != nil {
		return ports.Atlas{}, fmt.Errorf("%w: %w", ports.ErrAtlasUnavailable, err)
	}

	if err := Validate(b); err != nil {
		return ports.Atlas{}, fmt.Errorf("%w: %w", ports.ErrAtlasUnavailable, err)
	}

	a := ports.Atlas{Source: p.url, Data: b, FetchedAt: p.now().UTC()}

	if p.cache != nil {
		if err := p.cache.Put(ctx, a); err != nil {
			zap.L().Warn("atlas cache write failed", zap.String("source", p.url), zap.Error(err))
		}
	}

	return a, nil
}
