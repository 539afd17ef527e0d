package cases

import (
	"case-map-service/internal/adapters/upstream"
	"case-map-service/internal/domain"
	"case-map-service/internal/platform/obs"
	"case-map-service/internal/ports"
	"context"
	"errors"
	"fmt"
)

// HTTPSource reads case records from an upstream JSON API.
type HTTPSource struct {
	client *upstream.Client
	url    string
}

func NewHTTPSource(url string, client *upstream.Client) (*HTTPSource, error) {
	if url == "" {
		return nil, errors.New("cases http source: url is empty")
	}
	if client == nil {
		client = upstream.New("cases")
	}
	return &HTTPSource{client: client, url: url}, nil
}

func (s *HTTPSource) Records(ctx context.Context) (_ []domain.RawRecord, err error) {
	defer obs.Time(ctx, "cases.http.Records")(&err)

	b, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrSourceUnavailable, err)
	}

	recs, err := decodeRecords(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrSourceUnavailable, s.url, err)
	}
	return recs, nil
}
