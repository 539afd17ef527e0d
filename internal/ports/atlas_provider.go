package ports

import (
	"context"
	"errors"
	"time"
)

var ErrAtlasUnavailable = errors.New("world atlas unavailable")

// World-boundary geometry as raw TopoJSON.
type Atlas struct {
	Source    string
	Data      []byte
	FetchedAt time.Time
}

// Contract for retrieving the base-map geometry.
type AtlasProvider interface {
	Fetch(ctx context.Context) (Atlas, error)
}

// Persistent store for fetched atlases keyed by source URL.
// Get reports ok=false on a miss or an expired entry.
type AtlasCache interface {
	Get(ctx context.Context, source string) (atlas Atlas, ok bool, err error)
	Put(ctx context.Context, atlas Atlas) error
}
