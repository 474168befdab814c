package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	trackerout "fivepillars/internal/modules/tracker/port/out"
	apperrors "fivepillars/internal/platform/errors"
)

func blobStores(t *testing.T) map[string]trackerout.BlobStore {
	t.Helper()
	fileStore, err := NewFileBlobStore(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	sqliteStore, err := NewSQLiteBlobStore(filepath.Join(t.TempDir(), "db", "test.db"))
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]trackerout.BlobStore{
		"file":   fileStore,
		"sqlite": sqliteStore,
		"memory": NewMemoryBlobStore(),
	}
}

func TestBlobStoreContract(t *testing.T) {
	t.Parallel()
	for name, store := range blobStores(t) {
		store := store
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.Get(ctx, "sessions"); !errors.Is(err, apperrors.ErrNotFound) {
				t.Fatalf("expected ErrNotFound for missing key, got %v", err)
			}
			if err := store.Put(ctx, "sessions", []byte(`[1]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := store.Put(ctx, "sessions", []byte(`[1,2]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := store.Get(ctx, "sessions")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != `[1,2]` {
				t.Fatalf("unexpected value %q", got)
			}
			if err := store.Delete(ctx, "sessions"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, "sessions"); !errors.Is(err, apperrors.ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := store.Delete(ctx, "sessions"); !errors.Is(err, apperrors.ErrNotFound) {
				t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
			}
		})
	}
}

func TestFileBlobStoreRejectsPathKeys(t *testing.T) {
	t.Parallel()
	store, err := NewFileBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := store.Put(context.Background(), "../escape", []byte("{}")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFileBlobStoreConcurrentPutsNeverTruncate(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := NewFileBlobStore(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	small := []byte(`{"v":"` + strings.Repeat("a", 10) + `"}`)
	large := []byte(`{"v":"` + strings.Repeat("b", 1<<16) + `"}`)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			payload := small
			if i%2 == 0 {
				payload = large
			}
			if err := store.Put(ctx, "user_profile", payload); err != nil {
				t.Errorf("put: %v", err)
				return
			}
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			entries, _ := os.ReadDir(dir)
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".tmp") {
					t.Fatalf("temp file left behind: %s", e.Name())
				}
			}
			return
		default:
			raw, err := store.Get(ctx, "user_profile")
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(raw) != string(small) && string(raw) != string(large) {
				t.Fatalf("observed partial document of %d bytes", len(raw))
			}
		}
	}
}
