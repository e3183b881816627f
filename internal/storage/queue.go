package storage

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/breakfast/internal/shared"
)

const defaultQueueSize = 64

// Queue makes a [Backend] asynchronous. Every operation runs on one worker goroutine in
// submission order; writes return a channel instead of blocking, reads wait for their turn
// so they observe every write submitted before them. There are no retries: a failed write
// is logged and lost until the next one.
type Queue struct {
	backend Backend
	logger  *log.Logger
	ops     chan func()
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ AsyncBackend = (*Queue)(nil)

// NewQueue starts the worker for backend. size bounds the number of queued operations;
// submitting beyond it blocks.
func NewQueue(backend Backend, size int, logger *log.Logger) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	q := &Queue{
		backend: backend,
		logger:  shared.WithLogger(logger, "component", "queue", "backend", backend.Name()),
		ops:     make(chan func(), size),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for op := range q.ops {
		op()
	}
}

// submit enqueues op, or reports ErrClosed. While the queue is full it waits for room
// until ctx is done.
func (q *Queue) submit(ctx context.Context, op func()) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.ops <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Name() string { return q.backend.Name() }

// Get waits for all earlier operations, then reads key.
func (q *Queue) Get(ctx context.Context, key Key) ([]byte, error) {
	type result struct {
		value []byte
		err   error
	}
	out := make(chan result, 1)

	err := q.submit(ctx, func() {
		v, err := q.backend.Get(ctx, key)
		out <- result{v, err}
	})
	if err != nil {
		return nil, err
	}

	select {
	case r := <-out:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Set writes key and waits for the write to land.
func (q *Queue) Set(ctx context.Context, key Key, value []byte) error {
	return wait(ctx, q.SetAsync(ctx, key, value))
}

// Clear wipes the backend and waits for it.
func (q *Queue) Clear(ctx context.Context) error {
	return wait(ctx, q.ClearAsync(ctx))
}

// SetAsync enqueues a write. ctx bounds only the wait for room in the queue; cancelling it
// after the call does not abort the write.
func (q *Queue) SetAsync(ctx context.Context, key Key, value []byte) <-chan error {
	value = slices.Clone(value)
	return q.enqueue(ctx, "set", func(ctx context.Context) error {
		return q.backend.Set(ctx, key, value)
	})
}

// ClearAsync enqueues a wipe of the backend.
func (q *Queue) ClearAsync(ctx context.Context) <-chan error {
	return q.enqueue(ctx, "clear", q.backend.Clear)
}

func (q *Queue) enqueue(ctx context.Context, op string, fn func(context.Context) error) <-chan error {
	out := make(chan error, 1)
	detached := context.WithoutCancel(ctx)

	err := q.submit(ctx, func() {
		err := fn(detached)
		if err != nil {
			q.logger.Warn("async write failed", "op", op, "error", err)
		}
		out <- err
	})
	if err != nil {
		out <- err
	}
	return out
}

// Flush blocks until every operation submitted before it has run.
func (q *Queue) Flush(ctx context.Context) error {
	return wait(ctx, q.enqueue(ctx, "flush", func(context.Context) error { return nil }))
}

// Close drains the queue, stops the worker and closes the backend if it holds resources.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ops)
	q.mu.Unlock()

	<-q.done

	if c, ok := q.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func wait(ctx context.Context, ch <-chan error) error {
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
