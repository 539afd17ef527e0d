package cases

import (
	"case-map-service/internal/domain"
	"case-map-service/internal/ports"
	"context"
	"fmt"
	"os"
)

// FileSource reads case records from a saved API response.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Records(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %w", ports.ErrSourceUnavailable, s.Path, err)
	}

	recs, err := decodeRecords(b)
	if err != nil {
		return nil, fmt.Errorf("%w: file %q: %w", ports.ErrSourceUnavailable, s.Path, err)
	}
	return recs, nil
}
