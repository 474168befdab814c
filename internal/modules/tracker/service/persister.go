package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	trackerout "fivepillars/internal/modules/tracker/port/out"
	apperrors "fivepillars/internal/platform/errors"
	"fivepillars/internal/platform/logger"
	"fivepillars/internal/platform/metrics"
)

const persistModule = "persister"

type writeOp struct {
	data   []byte
	delete bool
}

// keyWriter serialises operations on one key. Only the newest pending op is
// kept; older pending ones are superseded before they reach storage.
type keyWriter struct {
	pending *writeOp
	running bool
	idle    chan struct{}
}

// Persister writes JSON slices in the background, one writer goroutine per
// busy key. Writes to the same key never overlap and the last Save wins.
type Persister struct {
	blobs   trackerout.BlobStore
	log     logger.Logger
	metrics *metrics.Collector

	mu      sync.Mutex
	writers map[string]*keyWriter
}

func NewPersister(blobs trackerout.BlobStore, log logger.Logger, m *metrics.Collector) *Persister {
	return &Persister{
		blobs:   blobs,
		log:     log,
		metrics: m,
		writers: map[string]*keyWriter{},
	}
}

// Save marshals value now and queues the bytes. Later mutations of value do
// not affect what is written.
func (p *Persister) Save(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		p.log.Warn(persistModule, "marshal failed", map[string]any{"key": key, "error": err.Error()})
		p.metrics.RecordWrite(key, "put", err)
		return
	}
	p.enqueue(key, writeOp{data: data})
}

// Delete removes key through the same queue as Save, so it is ordered with
// the writes issued before it.
func (p *Persister) Delete(key string) {
	p.enqueue(key, writeOp{delete: true})
}

func (p *Persister) enqueue(key string, op writeOp) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, ok := p.writers[key]
	if !ok {
		w = &keyWriter{}
		p.writers[key] = w
	}
	w.pending = &op
	if w.running {
		return
	}
	w.running = true
	w.idle = make(chan struct{})
	go p.drain(key, w)
}

func (p *Persister) drain(key string, w *keyWriter) {
	for {
		p.mu.Lock()
		op := w.pending
		if op == nil {
			w.running = false
			close(w.idle)
			p.mu.Unlock()
			return
		}
		w.pending = nil
		p.mu.Unlock()

		p.apply(key, *op)
	}
}

func (p *Persister) apply(key string, op writeOp) {
	ctx := context.Background()
	if op.delete {
		err := p.blobs.Delete(ctx, key)
		if errors.Is(err, apperrors.ErrNotFound) {
			err = nil
		}
		p.metrics.RecordWrite(key, "delete", err)
		if err != nil {
			p.log.Warn(persistModule, "delete failed", map[string]any{"key": key, "error": err.Error()})
		}
		return
	}
	err := p.blobs.Put(ctx, key, op.data)
	p.metrics.RecordWrite(key, "put", err)
	if err != nil {
		p.log.Warn(persistModule, "write failed", map[string]any{"key": key, "bytes": len(op.data), "error": err.Error()})
		return
	}
	p.log.Debug(persistModule, "write complete", map[string]any{"key": key, "bytes": len(op.data)})
}

// Flush blocks until every queued operation has reached storage or ctx ends.
func (p *Persister) Flush(ctx context.Context) error {
	for {
		p.mu.Lock()
		waits := make([]chan struct{}, 0, len(p.writers))
		for _, w := range p.writers {
			if w.running {
				waits = append(waits, w.idle)
			}
		}
		p.mu.Unlock()

		if len(waits) == 0 {
			return nil
		}
		for _, ch := range waits {
			select {
			case <-ch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Load decodes key into dest. It reports false for a missing key, a storage
// error or malformed JSON; the last two are logged.
func (p *Persister) Load(ctx context.Context, key string, dest any) bool {
	return p.Read(ctx, key, dest) == nil
}

// Read is Load with the cause kept: apperrors.ErrNotFound for a missing key,
// apperrors.ErrInvalidInput for malformed JSON, anything else for storage
// failures.
func (p *Persister) Read(ctx context.Context, key string, dest any) error {
	raw, err := p.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			p.log.Debug(persistModule, "key absent", map[string]any{"key": key})
			return apperrors.ErrNotFound
		}
		p.log.Warn(persistModule, "read failed", map[string]any{"key": key, "error": err.Error()})
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		p.log.Warn(persistModule, "malformed document", map[string]any{"key": key, "error": err.Error()})
		return fmt.Errorf("%w: decode %s: %v", apperrors.ErrInvalidInput, key, err)
	}
	return nil
}
