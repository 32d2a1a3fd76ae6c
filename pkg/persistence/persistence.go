// Package persistence provides the storage abstraction for survey drafts.
package persistence

import (
	"context"
)

// Persistence is a storage backend selected by database URL.
type Persistence interface {
	DraftRepository() DraftRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// DraftRepository stores serialized draft documents under opaque keys.
// Documents are kept as raw bytes; decoding and schema checks belong to the caller.
type DraftRepository interface {
	// Get returns the document stored under key, or ErrDraftNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the document stored under key.
	Save(ctx context.Context, key string, document []byte) error

	// Delete removes the document stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
