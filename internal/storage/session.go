package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/breakfast/internal/shared"
)

const sessionSnapshotVersion = 1

type sessionSnapshot struct {
	Version   int               `json:"version"`
	SessionID string            `json:"session_id"`
	Values    map[string]string `json:"values"`
	UpdatedAt string            `json:"updated_at,omitempty"`
}

// SessionStore keeps values for one session in a JSON file under dir. Sessions
// live in the OS temp dir, so they disappear with it, like a browser tab's storage.
type SessionStore struct {
	mu   sync.Mutex
	id   string
	path string
}

// NewSessionStore creates a store for sessionID inside dir.
func NewSessionStore(dir, sessionID string) (*SessionStore, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" || id != filepath.Base(id) || id == "." || id == ".." {
		return nil, fmt.Errorf("invalid session id %q", sessionID)
	}
	return &SessionStore{id: id, path: filepath.Join(dir, id+".json")}, nil
}

func (s *SessionStore) Name() string { return "session" }

// ID returns the session identifier.
func (s *SessionStore) ID() string { return s.id }

// Path returns the snapshot file location.
func (s *SessionStore) Path() string { return s.path }

func (s *SessionStore) Get(_ context.Context, key Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	v, ok := snap.Values[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *SessionStore) Set(_ context.Context, key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		// An unreadable snapshot is replaced rather than blocking every future write.
		snap = &sessionSnapshot{Values: map[string]string{}}
	}
	snap.Values[string(key)] = string(value)
	return s.save(snap)
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session snapshot: %w", err)
	}
	return nil
}

func (s *SessionStore) load() (*sessionSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &sessionSnapshot{Values: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session snapshot: %w", err)
	}

	var snap sessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse session snapshot: %w", err)
	}
	if snap.Version != sessionSnapshotVersion {
		return nil, fmt.Errorf("unsupported session snapshot version %d", snap.Version)
	}
	if snap.Values == nil {
		snap.Values = map[string]string{}
	}
	return &snap, nil
}

// save writes the snapshot with a temp file + rename so readers never see a partial file.
func (s *SessionStore) save(snap *sessionSnapshot) error {
	snap.Version = sessionSnapshotVersion
	snap.SessionID = s.id
	snap.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	return shared.WriteFileAtomic(s.path, data, 0o600)
}
