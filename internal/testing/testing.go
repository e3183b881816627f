// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/breakfast/internal/storage"
)

var _ storage.Backend = (*FailingBackend)(nil)

// FailingBackend is a [storage.Backend] whose every operation fails with Err.
type FailingBackend struct {
	ID  string
	Err error

	mu    sync.Mutex
	calls int
}

// NewFailingBackend returns a backend named name that always fails.
func NewFailingBackend(name string) *FailingBackend {
	return &FailingBackend{ID: name, Err: errors.New(name + ": quota exceeded")}
}

func (f *FailingBackend) Name() string { return f.ID }

func (f *FailingBackend) Get(context.Context, storage.Key) ([]byte, error) {
	f.count()
	return nil, f.Err
}

func (f *FailingBackend) Set(context.Context, storage.Key, []byte) error {
	f.count()
	return f.Err
}

func (f *FailingBackend) Clear(context.Context) error {
	f.count()
	return f.Err
}

// Calls returns how many operations reached the backend.
func (f *FailingBackend) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FailingBackend) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

// StaticMenu is a menu source returning a fixed list.
type StaticMenu []string

func (m StaticMenu) CurrentMenu() []string { return m }

// ScriptedRand replays Values for successive IntN calls, wrapping around.
// A value outside [0, n) is reduced modulo n.
type ScriptedRand struct {
	Values []int
	next   int
}

func (r *ScriptedRand) IntN(n int) int {
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[r.next%len(r.Values)]
	r.next++
	return ((v % n) + n) % n
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
