package out

import (
	"context"

	"fivepillars/internal/modules/tracker/domain"
)

// BlobStore keeps one opaque JSON document per key. Get returns
// apperrors.ErrNotFound for absent keys. Put must be atomic: a concurrent
// or later Get sees either the old or the new document, never a mix.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// JournalStore renders sessions as notes outside the state store.
type JournalStore interface {
	WriteSession(ctx context.Context, session domain.SessionRecord) (string, error)
	Root() string
}
