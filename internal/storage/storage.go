package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/breakfast/internal/shared"
)

// Key identifies a persisted value. The same key is used on every backend.
type Key string

const (
	KeyCurrentIndex   Key = "currentIndex"
	KeyViewedCombos   Key = "viewedCombos"
	KeyShuffledCombos Key = "breakfastCombos"
	KeyCurrentMenu    Key = "currentMenu"
	KeyMenuName       Key = "menuName"
)

var (
	// ErrNotFound is returned by [Backend.Get] when the key holds no value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage: backend closed")
)

// Backend is one persistence mechanism. Implementations must be safe for use from
// multiple goroutines.
type Backend interface {
	Name() string
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	Clear(ctx context.Context) error
}

// AsyncBackend is a [Backend] whose writes can be issued without waiting for them to land.
// The returned channel receives exactly one value once the operation completes.
type AsyncBackend interface {
	Backend
	SetAsync(ctx context.Context, key Key, value []byte) <-chan error
	ClearAsync(ctx context.Context) <-chan error
	Flush(ctx context.Context) error
}

// WriteResult is the outcome of a write on a single backend. Pending is set instead of Err
// when the backend completes the write asynchronously.
type WriteResult struct {
	Backend string
	Err     error
	Pending <-chan error
}

// Wait returns the write error, blocking on Pending when the write is asynchronous.
func (r WriteResult) Wait(ctx context.Context) error {
	if r.Pending == nil {
		return r.Err
	}
	select {
	case err := <-r.Pending:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Layered is the storage facade over a ranked list of backends.
type Layered struct {
	backends []Backend
	logger   *log.Logger
}

// NewLayered creates a facade over backends, highest read priority first.
func NewLayered(logger *log.Logger, backends ...Backend) *Layered {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Layered{backends: backends, logger: shared.WithLogger(logger, "component", "storage")}
}

// Set writes the JSON encoding of value to every backend. A failure on one backend
// is logged and reported in its result; the other writes still happen.
func (l *Layered) Set(ctx context.Context, key Key, value any) []WriteResult {
	results := make([]WriteResult, 0, len(l.backends))

	data, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("failed to encode %s: %w", key, err)
		l.logger.Warn("encode failed", "key", key, "error", err)
		for _, b := range l.backends {
			results = append(results, WriteResult{Backend: b.Name(), Err: err})
		}
		return results
	}

	for _, b := range l.backends {
		if ab, ok := b.(AsyncBackend); ok {
			results = append(results, WriteResult{Backend: b.Name(), Pending: ab.SetAsync(ctx, key, data)})
			continue
		}

		err := b.Set(ctx, key, data)
		if err != nil {
			l.logger.Warn("write failed", "backend", b.Name(), "key", key, "error", err)
		}
		results = append(results, WriteResult{Backend: b.Name(), Err: err})
	}

	return results
}

// Clear wipes every backend, best effort.
func (l *Layered) Clear(ctx context.Context) []WriteResult {
	results := make([]WriteResult, 0, len(l.backends))

	for _, b := range l.backends {
		if ab, ok := b.(AsyncBackend); ok {
			results = append(results, WriteResult{Backend: b.Name(), Pending: ab.ClearAsync(ctx)})
			continue
		}

		err := b.Clear(ctx)
		if err != nil {
			l.logger.Warn("clear failed", "backend", b.Name(), "error", err)
		}
		results = append(results, WriteResult{Backend: b.Name(), Err: err})
	}

	return results
}

// Flush waits for outstanding asynchronous writes.
func (l *Layered) Flush(ctx context.Context) error {
	var errs []error
	for _, b := range l.backends {
		if ab, ok := b.(AsyncBackend); ok {
			if err := ab.Flush(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close flushes and closes every backend that holds resources.
func (l *Layered) Close(ctx context.Context) error {
	errs := []error{l.Flush(ctx)}
	for _, b := range l.backends {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Get reads key from the backends in priority order and decodes the first non-empty
// value that parses as T. Missing, empty, null and malformed values fall through to
// the next backend. The second return value is false when no backend had a usable value.
func Get[T any](ctx context.Context, l *Layered, key Key) (T, bool) {
	var zero T

	for _, b := range l.backends {
		data, err := b.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			l.logger.Warn("read failed", "backend", b.Name(), "key", key, "error", err)
			continue
		}
		if isEmpty(data) {
			continue
		}

		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			l.logger.Warn("malformed value", "backend", b.Name(), "key", key, "error", err)
			continue
		}

		l.logger.Debug("read", "backend", b.Name(), "key", key)
		return v, true
	}

	return zero, false
}

// Failed returns the results whose synchronous write failed.
func Failed(results []WriteResult) []WriteResult {
	var failed []WriteResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

func isEmpty(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}
