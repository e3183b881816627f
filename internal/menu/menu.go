package menu

import (
	_ "embed"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/breakfast/internal/formatter"
	"github.com/desertthunder/breakfast/internal/models"
	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/desertthunder/breakfast/internal/storage"
	"gopkg.in/yaml.v3"
)

//go:embed default_menu.txt
var defaultMenu string

// DefaultName is used when no name is configured.
const DefaultName = "Default menu"

// ErrInvalidMenu is returned when imported data is not a non-empty list of combos.
var ErrInvalidMenu = errors.New("invalid menu format")

// Default returns a fresh copy of the built-in menu.
func Default() []string {
	return parseLines(defaultMenu)
}

// Document is a parsed menu file. Name is empty unless the file declares one.
type Document struct {
	Name   string   `json:"name" yaml:"name"`
	Combos []string `json:"combos" yaml:"combos"`
}

// Manager owns the current menu and persists it under [storage.KeyCurrentMenu] and [storage.KeyMenuName].
type Manager struct {
	store       *storage.Layered
	defaultName string
	clock       func() time.Time
	logger      *log.Logger

	combos   []string
	name     string
	loadedAt time.Time
}

// NewManager creates a manager backed by store. An empty defaultName falls back to [DefaultName].
// The manager holds the built-in menu until [Manager.Load] is called.
func NewManager(store *storage.Layered, defaultName string, logger *log.Logger) *Manager {
	if defaultName == "" {
		defaultName = DefaultName
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &Manager{
		store:       store,
		defaultName: defaultName,
		clock:       time.Now,
		logger:      shared.WithLogger(logger, "component", "menu"),
		combos:      Default(),
		name:        defaultName,
	}
}

// Load restores the saved menu, falling back to the built-in one when nothing usable is stored.
func (m *Manager) Load(ctx context.Context) {
	m.loadedAt = m.clock()

	combos, ok := storage.Get[[]string](ctx, m.store, storage.KeyCurrentMenu)
	if !ok || len(clean(combos)) == 0 {
		m.combos, m.name = Default(), m.defaultName
		m.logger.Debug("using default menu", "combos", len(m.combos))
		return
	}

	m.combos = clean(combos)
	m.name = m.defaultName
	if name, ok := storage.Get[string](ctx, m.store, storage.KeyMenuName); ok && name != "" {
		m.name = name
	}
	m.logger.Debug("menu loaded", "name", m.name, "combos", len(m.combos))
}

// CurrentMenu returns a copy of the current combos.
func (m *Manager) CurrentMenu() []string { return slices.Clone(m.combos) }

// Name returns the display name of the current menu.
func (m *Manager) Name() string { return m.name }

// LoadedAt returns when the menu was last loaded or replaced.
func (m *Manager) LoadedAt() time.Time { return m.loadedAt }

// IsDefault reports whether the current menu is the built-in one.
func (m *Manager) IsDefault() bool {
	return m.name == m.defaultName && slices.Equal(m.combos, Default())
}

// List returns the current menu as an exportable list.
func (m *Manager) List() *models.ComboList {
	return &models.ComboList{Name: m.name, Combos: m.CurrentMenu(), ExportedAt: m.clock()}
}

// Import replaces the current menu with the combos parsed from data. The format follows the
// extension of filename and the menu is named after its base name, unless the document names itself.
func (m *Manager) Import(ctx context.Context, filename string, data []byte) error {
	doc, err := Parse(filename, data)
	if err != nil {
		return err
	}

	name := doc.Name
	if name == "" {
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	m.save(ctx, doc.Combos, name)
	m.logger.Info("menu imported", "name", name, "combos", len(doc.Combos), "file", filename)
	return nil
}

// ImportFile reads path and imports it.
func (m *Manager) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read menu file: %w", err)
	}
	return m.Import(ctx, path, data)
}

// Export renders the current menu in format f.
func (m *Manager) Export(f formatter.Format) ([]byte, error) {
	return formatter.Export(m.List(), f)
}

// ResetToDefault restores and persists the built-in menu.
func (m *Manager) ResetToDefault(ctx context.Context) {
	m.save(ctx, Default(), m.defaultName)
	m.logger.Info("menu reset to default")
}

func (m *Manager) save(ctx context.Context, combos []string, name string) {
	m.combos = combos
	m.name = name
	m.loadedAt = m.clock()

	m.store.Set(ctx, storage.KeyCurrentMenu, m.combos)
	m.store.Set(ctx, storage.KeyMenuName, m.name)
}

// Parse decodes a menu file. ".json" holds a JSON array of strings, ".yaml" and ".yml" a YAML sequence;
// either may instead be an object with "name" and "combos". Any other extension is read as one combo per line.
// Combos are trimmed and blank ones dropped.
func Parse(filename string, data []byte) (*Document, error) {
	var (
		doc Document
		err error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		err = decodeList(data, &doc, json.Unmarshal)
	case ".yaml", ".yml":
		err = decodeList(data, &doc, yaml.Unmarshal)
	default:
		doc.Combos = parseLines(string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMenu, err)
	}

	doc.Combos = clean(doc.Combos)
	if len(doc.Combos) == 0 {
		return nil, fmt.Errorf("%w: no combos found", ErrInvalidMenu)
	}
	return &doc, nil
}

// decodeList tries the bare list form first, then the object form.
func decodeList(data []byte, doc *Document, unmarshal func([]byte, any) error) error {
	var list []string
	listErr := unmarshal(data, &list)
	if listErr == nil {
		doc.Combos = list
		return nil
	}

	if err := unmarshal(data, doc); err != nil || doc.Combos == nil {
		return listErr
	}
	return nil
}

func parseLines(s string) []string {
	return clean(strings.Split(s, "\n"))
}

func clean(combos []string) []string {
	out := make([]string, 0, len(combos))
	for _, c := range combos {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
