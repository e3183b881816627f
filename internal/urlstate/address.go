package urlstate

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/desertthunder/breakfast/internal/shared"
)

// Address is the location whose fragment carries the state.
type Address interface {
	// URL returns the full current address.
	URL() string
	// Fragment returns the part after '#', without the '#'.
	Fragment() string
	// ReplaceFragment swaps the fragment in place. An empty fragment removes it.
	ReplaceFragment(fragment string) error
}

// Location is an in-memory [Address].
type Location struct {
	mu  sync.RWMutex
	url *url.URL
}

// NewLocation parses raw as the initial address.
func NewLocation(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", raw, err)
	}
	return &Location{url: u}, nil
}

func (l *Location) URL() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.url.String()
}

func (l *Location) Fragment() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.url.EscapedFragment()
}

func (l *Location) ReplaceFragment(fragment string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return setFragment(l.url, fragment)
}

// LinkFile is an [Address] persisted as a single line in a file, so the
// share link outlives the process. A missing file reads as base.
type LinkFile struct {
	mu   sync.Mutex
	path string
	base *url.URL
}

// NewLinkFile creates a link stored at path, defaulting to base when the file does not exist.
func NewLinkFile(path, base string) (*LinkFile, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	u.Fragment, u.RawFragment = "", ""
	return &LinkFile{path: path, base: u}, nil
}

// Path returns the file backing the link.
func (f *LinkFile) Path() string { return f.path }

func (f *LinkFile) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read().String()
}

func (f *LinkFile) Fragment() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read().EscapedFragment()
}

func (f *LinkFile) ReplaceFragment(fragment string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.read()
	if err := setFragment(u, fragment); err != nil {
		return err
	}

	return f.write(u)
}

// Navigate replaces the whole stored address, as when a shared link is opened.
func (f *LinkFile) Navigate(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", raw, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(u)
}

func (f *LinkFile) write(u *url.URL) error {
	if err := shared.WriteFileAtomic(f.path, []byte(u.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write link: %w", err)
	}
	return nil
}

// read returns the stored address, or a copy of base when none is usable.
func (f *LinkFile) read() *url.URL {
	base := *f.base

	data, err := os.ReadFile(f.path)
	if err != nil {
		return &base
	}
	u, err := url.Parse(strings.TrimSpace(string(data)))
	if err != nil || (u.Scheme == "" && u.Host == "" && u.Path == "") {
		return &base
	}
	return u
}

func setFragment(u *url.URL, fragment string) error {
	if fragment == "" {
		u.Fragment, u.RawFragment = "", ""
		return nil
	}
	unescaped, err := url.PathUnescape(fragment)
	if err != nil {
		return fmt.Errorf("invalid fragment: %w", err)
	}
	u.Fragment = unescaped
	u.RawFragment = fragment
	return nil
}
