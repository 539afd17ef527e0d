package ports

import (
	"case-map-service/internal/domain"
	"context"
	"errors"
)

var ErrSourceUnavailable = errors.New("case source unavailable")

// Port: a boundary for retrieving raw per-location case records.
type CaseSource interface {
	// Return every record in upstream order.
	Records(ctx context.Context) ([]domain.RawRecord, error)
}
