// Package perkey provides a scheduler that serializes work per key while
// allowing work for different keys to execute concurrently.
//
// The live state-sync server uses it to apply inbound member updates and
// method invocations for one exposed object strictly in arrival order,
// while updates targeting different objects proceed in parallel.
package perkey

import (
	"context"
	"errors"
	"sync"
)

// ErrSchedulerClosed is returned when Do is called on a closed scheduler.
var ErrSchedulerClosed = errors.New("scheduler is closed")

// taskBuffer is the queue depth per key. Applies are short; a deep queue
// only delays backpressure.
const taskBuffer = 64

// Scheduler runs tasks such that for any given key K, tasks execute
// sequentially in submission order. Tasks for different keys can proceed
// in parallel.
type Scheduler[K comparable] struct {
	mu      sync.Mutex
	workers map[K]*worker
	closed  bool
	wg      sync.WaitGroup
}

type worker struct {
	tasks chan *task
}

type task struct {
	fn   func() error
	done chan error
}

// New creates a new Scheduler.
func New[K comparable]() *Scheduler[K] {
	return &Scheduler[K]{workers: make(map[K]*worker)}
}

// Do schedules fn to run for the given key and blocks until fn finishes,
// returning its error. All fn calls for the same key execute sequentially.
func (s *Scheduler[K]) Do(key K, fn func() error) error {
	return s.DoContext(context.Background(), key, fn)
}

// DoContext is like Do but respects context cancellation while waiting to
// enqueue or waiting for completion. A task that was already enqueued still
// executes even if the caller stops waiting.
func (s *Scheduler[K]) DoContext(ctx context.Context, key K, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSchedulerClosed
	}
	s.wg.Add(1)
	w, ok := s.workers[key]
	if !ok {
		w = &worker{tasks: make(chan *task, taskBuffer)}
		s.workers[key] = w
		go w.run()
	}
	s.mu.Unlock()
	defer s.wg.Done()

	t := &task{fn: fn, done: make(chan error, 1)}

	select {
	case w.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new tasks and shuts down all workers. Tasks already
// enqueued still run.
func (s *Scheduler[K]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	// Wait for in-flight Do calls to finish enqueueing before closing
	// worker channels.
	s.wg.Wait()

	s.mu.Lock()
	for _, w := range s.workers {
		close(w.tasks)
	}
	s.workers = nil
	s.mu.Unlock()
}

func (w *worker) run() {
	for t := range w.tasks {
		t.done <- t.fn()
	}
}
