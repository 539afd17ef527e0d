package ports

import "context"

// Destination for rendered map pages.
type SnapshotStore interface {
	// Store the page and return its object location.
	Put(ctx context.Context, name string, page []byte) (string, error)
}
