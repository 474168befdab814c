package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "fivepillars/internal/platform/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type fakeID struct {
	mu sync.Mutex
	n  int
}

func (f *fakeID) New() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("id-%d", f.n)
}

// fakeBlobs records write order and detects overlapping writes per key.
type fakeBlobs struct {
	mu        sync.Mutex
	data      map[string][]byte
	puts      map[string]int
	inFlight  map[string]int
	overlap   bool
	delay     time.Duration
	failPut   error
	failGet   map[string]error
	putOrder  []string
	deleteLog []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{
		data:     map[string][]byte{},
		puts:     map[string]int{},
		inFlight: map[string]int{},
		failGet:  map[string]error{},
	}
}

func (f *fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failGet[key]; err != nil {
		return nil, err
	}
	raw, ok := f.data[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (f *fakeBlobs) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.inFlight[key]++
	if f.inFlight[key] > 1 {
		f.overlap = true
	}
	delay, fail := f.delay, f.failPut
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight[key]--
	if fail != nil {
		return fail
	}
	f.data[key] = append([]byte(nil), value...)
	f.puts[key]++
	f.putOrder = append(f.putOrder, key)
	return nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteLog = append(f.deleteLog, key)
	if _, ok := f.data[key]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.data, key)
	return nil
}

func (f *fakeBlobs) raw(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeBlobs) putCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts[key]
}

func (f *fakeBlobs) set(key string, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = []byte(raw)
}

var errDiskFull = errors.New("disk full")
