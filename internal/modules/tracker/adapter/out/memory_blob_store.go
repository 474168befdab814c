package out

import (
	"context"

	"github.com/patrickmn/go-cache"

	trackerout "fivepillars/internal/modules/tracker/port/out"
	apperrors "fivepillars/internal/platform/errors"
)

// MemoryBlobStore backs --ephemeral runs and tests. Entries never expire.
type MemoryBlobStore struct {
	cache *cache.Cache
}

func NewMemoryBlobStore() trackerout.BlobStore {
	return &MemoryBlobStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	raw := v.([]byte)
	return append([]byte(nil), raw...), nil
}

func (s *MemoryBlobStore) Put(_ context.Context, key string, value []byte) error {
	s.cache.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	if _, ok := s.cache.Get(key); !ok {
		return apperrors.ErrNotFound
	}
	s.cache.Delete(key)
	return nil
}
