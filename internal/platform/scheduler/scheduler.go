package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"fivepillars/internal/platform/logger"
)

const module = "scheduler"

// Job runs under the scheduler's context; errors are logged, never retried.
type Job func(ctx context.Context) error

type Scheduler struct {
	log  logger.Logger
	cron *rcron.Cron

	mu      sync.Mutex
	entries map[string]rcron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(log logger.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		log:     log,
		cron:    rcron.New(rcron.WithLocation(loc)),
		entries: map[string]rcron.EntryID{},
		ctx:     context.Background(),
	}
}

// Add registers a named job with a standard five-field spec or a descriptor
// such as "@daily" or "@every 1h". Re-adding a name replaces the old entry.
func (s *Scheduler) Add(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[name]; ok {
		s.cron.Remove(old)
		delete(s.entries, name)
	}
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("register job %s (%s): %w", name, spec, err)
	}
	s.entries[name] = id
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	started := time.Now()
	if err := job(ctx); err != nil {
		s.log.Warn(module, "job failed", map[string]any{"job": name, "error": err.Error()})
		return
	}
	s.log.Debug(module, "job finished", map[string]any{"job": name, "elapsed": time.Since(started).String()})
}

// Next reports the next activation of a named job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	entry := s.cron.Entry(id)
	return entry.Next, entry.Valid()
}

func (s *Scheduler) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.ctx = runCtx
	s.cancel = cancel
	count := len(s.entries)
	s.mu.Unlock()

	s.cron.Start()
	s.log.Info(module, "started", map[string]any{"jobs": count})
}

// Stop cancels running jobs and waits up to five seconds for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn(module, "stop timeout waiting for running jobs", nil)
	}
}
