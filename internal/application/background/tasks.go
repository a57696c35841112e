// Package background runs fire-and-forget writes to the remote store.
//
// A task is detached from the request that started it: it gets its own
// timeout, its failure is logged as a RemoteWriteError, and nothing is
// rolled back. Wait lets shutdown and tests drain in-flight tasks.
package background

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sangkips/trimtime-pos/pkg/apperror"
)

// Observer is told the outcome of every task.
type Observer interface {
	RemoteWrite(collection, op string, err error)
}

// Tasks tracks detached remote writes.
type Tasks struct {
	wg       sync.WaitGroup
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer

	mu       sync.Mutex
	failures []*apperror.RemoteWriteError
	keep     int
}

// Option configures Tasks.
type Option func(*Tasks)

// WithObserver reports task outcomes, e.g. to metrics.
func WithObserver(o Observer) Option {
	return func(t *Tasks) { t.observer = o }
}

// WithFailureHistory keeps the last n failures for inspection.
func WithFailureHistory(n int) Option {
	return func(t *Tasks) { t.keep = n }
}

// New creates a task group. A zero timeout means 10s.
func New(timeout time.Duration, logger *slog.Logger, opts ...Option) *Tasks {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tasks{timeout: timeout, logger: logger, keep: 50}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Go starts fn in its own goroutine without waiting for it.
func (t *Tasks) Go(collection, op string, ids []string, fn func(ctx context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		err := run(ctx, fn)
		if t.observer != nil {
			t.observer.RemoteWrite(collection, op, err)
		}
		if err == nil {
			return
		}

		rwErr := &apperror.RemoteWriteError{Collection: collection, Op: op, IDs: ids, Err: err}
		t.logger.Error("remote write failed",
			"collection", collection,
			"op", op,
			"ids", ids,
			"error", err,
		)
		t.record(rwErr)
	}()
}

func run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

func (t *Tasks) record(err *apperror.RemoteWriteError) {
	if t.keep <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = append(t.failures, err)
	if len(t.failures) > t.keep {
		t.failures = t.failures[len(t.failures)-t.keep:]
	}
}

// Failures returns the most recent failed writes, oldest first.
func (t *Tasks) Failures() []*apperror.RemoteWriteError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*apperror.RemoteWriteError(nil), t.failures...)
}

// Wait blocks until every started task has finished.
func (t *Tasks) Wait() {
	t.wg.Wait()
}

// Drain waits for in-flight tasks or until ctx is done.
func (t *Tasks) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
