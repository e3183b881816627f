package menu

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/breakfast/internal/formatter"
	"github.com/desertthunder/breakfast/internal/storage"
	tu "github.com/desertthunder/breakfast/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*Manager, *storage.Layered) {
	t.Helper()
	store := storage.NewLayered(nil, storage.NewMemoryStore("fast"))
	return NewManager(store, "", nil), store
}

func TestDefault(t *testing.T) {
	combos := Default()
	require.NotEmpty(t, combos)
	for _, c := range combos {
		assert.Equal(t, strings.TrimSpace(c), c)
		assert.NotEmpty(t, c)
	}

	combos[0] = "mutated"
	assert.NotEqual(t, "mutated", Default()[0])
}

func TestParse(t *testing.T) {
	tc := []struct {
		name     string
		filename string
		data     string
		want     []string
		wantName string
	}{
		{"json list", "weekday.json", `["A = 1", " B = 2 ", ""]`, []string{"A = 1", "B = 2"}, ""},
		{"json object", "x.json", `{"name": "Weekend", "combos": ["C = 3"]}`, []string{"C = 3"}, "Weekend"},
		{"yaml list", "menu.yaml", "- A = 1\n- B = 2\n", []string{"A = 1", "B = 2"}, ""},
		{"yml object", "menu.YML", "name: Light\ncombos:\n  - Tea\n", []string{"Tea"}, "Light"},
		{"text", "menu.txt", "A = 1\r\n\n  B = 2  \n", []string{"A = 1", "B = 2"}, ""},
		{"no extension", "menu", "Toast", []string{"Toast"}, ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.filename, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Combos)
			assert.Equal(t, tt.wantName, doc.Name)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tc := []struct {
		name     string
		filename string
		data     string
	}{
		{"json empty array", "m.json", `[]`},
		{"json object without combos", "m.json", `{"a": 1}`},
		{"json scalar", "m.json", `"A = 1"`},
		{"json not a list of strings", "m.json", `[1, 2]`},
		{"json syntax", "m.json", `["A"`},
		{"yaml mapping", "m.yaml", "a: 1\n"},
		{"yaml blank entries", "m.yaml", "- ' '\n- ''\n"},
		{"empty text", "m.txt", "\n  \n"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.filename, []byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidMenu)
		})
	}
}

func TestManager_LoadDefault(t *testing.T) {
	m, _ := newManager(t)
	m.Load(context.Background())

	assert.Equal(t, DefaultName, m.Name())
	assert.Equal(t, Default(), m.CurrentMenu())
	assert.True(t, m.IsDefault())
	assert.False(t, m.LoadedAt().IsZero())
}

func TestManager_ImportPersists(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)
	m.Load(ctx)

	require.NoError(t, m.Import(ctx, "/tmp/weekday.json", []byte(`["A = 1", "B = 2"]`)))
	assert.Equal(t, "weekday", m.Name())
	assert.Equal(t, []string{"A = 1", "B = 2"}, m.CurrentMenu())
	assert.False(t, m.IsDefault())

	reloaded := NewManager(store, "", nil)
	reloaded.Load(ctx)
	assert.Equal(t, "weekday", reloaded.Name())
	assert.Equal(t, []string{"A = 1", "B = 2"}, reloaded.CurrentMenu())
}

func TestManager_ImportInvalidKeepsMenu(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	m.Load(ctx)
	before := m.CurrentMenu()

	err := m.Import(ctx, "bad.json", []byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalidMenu)
	assert.Equal(t, before, m.CurrentMenu())
	assert.Equal(t, DefaultName, m.Name())
}

func TestManager_ImportFile(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	path := filepath.Join(t.TempDir(), "Light breakfast.yml")
	require.NoError(t, os.WriteFile(path, []byte("- Tea\n- Toast = 3\n"), 0644))
	require.NoError(t, m.ImportFile(ctx, path))
	assert.Equal(t, "Light breakfast", m.Name())
	assert.Len(t, m.CurrentMenu(), 2)

	assert.Error(t, m.ImportFile(ctx, filepath.Join(t.TempDir(), "missing.txt")))
}

func TestManager_ResetToDefault(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)
	require.NoError(t, m.Import(ctx, "small.txt", []byte("A\nB\n")))

	m.ResetToDefault(ctx)
	assert.True(t, m.IsDefault())

	name, ok := storage.Get[string](ctx, store, storage.KeyMenuName)
	require.True(t, ok)
	assert.Equal(t, DefaultName, name)
}

func TestManager_CustomDefaultName(t *testing.T) {
	store := storage.NewLayered(nil, storage.NewMemoryStore("fast"))
	m := NewManager(store, "House menu", nil)
	m.Load(context.Background())
	assert.Equal(t, "House menu", m.Name())
}

func TestManager_StorageFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLayered(nil, tu.NewFailingBackend("fast"))
	m := NewManager(store, "", nil)
	m.Load(ctx)
	assert.True(t, m.IsDefault())

	require.NoError(t, m.Import(ctx, "a.txt", []byte("A")), "import still updates the in-memory menu")
	assert.Equal(t, []string{"A"}, m.CurrentMenu())
}

func TestManager_ExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	require.NoError(t, m.Import(ctx, "mine.txt", []byte("A = 1\nB = 2\n")))

	for _, f := range []formatter.Format{formatter.FormatJSON, formatter.FormatText} {
		data, err := m.Export(f)
		require.NoError(t, err)

		doc, err := Parse("export"+f.Ext(), data)
		require.NoError(t, err)
		assert.Equal(t, m.CurrentMenu(), doc.Combos, f)
	}

	md, err := m.Export(formatter.FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# mine")
}
