// Package cleanup deletes remote image assets off the request path.
// Failures are reported on Errors and never reach the caller of Enqueue.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cafe/pkg/imagestore"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("cleanup queue closed")

// Queue accepts asset ids for deferred deletion.
type Queue interface {
	Enqueue(ctx context.Context, publicID string) error
	Errors() <-chan error
	Close()
}

// Job is one asset to delete.
type Job struct {
	PublicID string `json:"publicId"`
}

// JobError wraps a failed deletion with its asset id.
type JobError struct {
	PublicID string
	Err      error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("cleanup of %s failed: %v", e.PublicID, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }

// errorSink fans failures into a buffered channel, dropping them when nobody
// drains it.
type errorSink struct {
	errs chan error
}

func newErrorSink(size int) errorSink {
	return errorSink{errs: make(chan error, size)}
}

func (s errorSink) report(publicID string, err error) {
	select {
	case s.errs <- &JobError{PublicID: publicID, Err: err}:
	default:
	}
}

// WorkerQueue runs deletions on a pool of goroutines fed by a buffered channel.
type WorkerQueue struct {
	destroyer imagestore.Destroyer
	jobs      chan Job
	sink      errorSink
	wg        sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerQueue starts workers goroutines reading from a buffer of the given size.
func NewWorkerQueue(destroyer imagestore.Destroyer, workers, buffer int) *WorkerQueue {
	if workers < 1 {
		workers = 1
	}
	q := &WorkerQueue{
		destroyer: destroyer,
		jobs:      make(chan Job, buffer),
		sink:      newErrorSink(buffer + workers),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	return q
}

func (q *WorkerQueue) work() {
	defer q.wg.Done()
	for job := range q.jobs {
		if err := q.destroyer.Destroy(context.Background(), job.PublicID); err != nil {
			q.sink.report(job.PublicID, err)
		}
	}
}

// Enqueue schedules publicID for deletion. An empty id is ignored. It blocks
// while the buffer is full until ctx is done.
func (q *WorkerQueue) Enqueue(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.jobs <- Job{PublicID: publicID}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Errors reports failed deletions. It is closed by Close.
func (q *WorkerQueue) Errors() <-chan error {
	return q.sink.errs
}

// Close stops accepting jobs, waits for queued ones to finish and closes Errors.
func (q *WorkerQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	close(q.sink.errs)
}
