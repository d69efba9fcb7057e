package settings

import (
	"context"
)

// Repository defines settings persistence. The settings table holds one row
// per key; only GlobalKey is used today.
type Repository interface {
	// Get returns the stored document, or (nil, nil) when none exists yet.
	Get(ctx context.Context, key string) (*Document, error)

	// Upsert inserts or replaces the document for its key.
	Upsert(ctx context.Context, doc *Document) error
}
