package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/pebble"
)

// keyPrefix namespaces progress keys so Clear never touches foreign data.
var keyPrefix = []byte("breakfast/")

// PebbleStore is the fast synchronous backend. Every write is synced before Set returns,
// which makes it read-after-write consistent.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebble opens (creating if needed) a pebble database in dir.
func OpenPebble(dir string, logger *log.Logger) (*PebbleStore, error) {
	opts := &pebble.Options{}
	if logger != nil {
		opts.Logger = logger
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Name() string { return "pebble" }

func (p *PebbleStore) Get(_ context.Context, key Key) ([]byte, error) {
	value, closer, err := p.db.Get(pebbleKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get %s: %w", key, err)
	}
	defer closer.Close()

	return slices.Clone(value), nil
}

func (p *PebbleStore) Set(_ context.Context, key Key, value []byte) error {
	if err := p.db.Set(pebbleKey(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the store's prefix.
func (p *PebbleStore) Clear(_ context.Context) error {
	if err := p.db.DeleteRange(keyPrefix, prefixEnd(keyPrefix), pebble.Sync); err != nil {
		return fmt.Errorf("pebble clear: %w", err)
	}
	return nil
}

// Close releases the database lock.
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

func pebbleKey(key Key) []byte {
	return append(slices.Clone(keyPrefix), key...)
}

// prefixEnd returns the smallest key greater than every key starting with prefix.
func prefixEnd(prefix []byte) []byte {
	end := slices.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
