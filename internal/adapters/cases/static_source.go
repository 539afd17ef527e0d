package cases

import (
	"case-map-service/internal/domain"
	"context"
)

// StaticSource serves a fixed record set, or a fixed error.
type StaticSource struct {
	recs []domain.RawRecord
	err  error
}

func NewStaticSource(recs ...domain.RawRecord) *StaticSource {
	return &StaticSource{recs: recs}
}

func NewFailingSource(err error) *StaticSource {
	return &StaticSource{err: err}
}

func (s *StaticSource) Records(ctx context.Context) ([]domain.RawRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.RawRecord, len(s.recs))
	copy(out, s.recs)
	return out, nil
}
