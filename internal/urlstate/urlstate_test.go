package urlstate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/breakfast/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// legacyToken was produced by btoa(encodeURIComponent(JSON.stringify(state))).
const legacyToken = "JTdCJTIyY3VycmVudEluZGV4JTIyJTNBMSUyQyUyMnZpZXdlZENvbWJvcyUyMiUzQSU1QiUyMiVFOCVCMSU4NiVFNiVCNSU4NiUyMCUyQiUyMCVFNiVCMiVCOSVFNiU5RCVBMSUyMCUzRCUyMDUlMjIlNUQlMkMlMjJzaHVmZmxlZENvbWJvcyUyMiUzQSU1QiUyMiVFOCVCMSU4NiVFNiVCNSU4NiUyMCUyQiUyMCVFNiVCMiVCOSVFNiU5RCVBMSUyMCUzRCUyMDUlMjIlMkMlMjJBJTIwJTNEJTIwMSUyMiUyQyUyMkMlMjAlM0QlMjAzJTIyJTVEJTJDJTIyc2F2ZVRpbWUlMjIlM0ElMjIyMDI0LTAxLTAyVDAzJTNBMDQlM0EwNS4wMDBaJTIyJTdE"

func stateGen() *rapid.Generator[models.ProgressState] {
	return rapid.Custom(func(t *rapid.T) models.ProgressState {
		shuffled := rapid.SliceOf(rapid.String()).Draw(t, "shuffled")
		index := rapid.IntRange(0, len(shuffled)).Draw(t, "index")
		sec := rapid.Int64Range(0, 4102444800).Draw(t, "sec")
		nsec := rapid.Int64Range(0, 999_999_999).Draw(t, "nsec")
		return models.ProgressState{
			CurrentIndex:   index,
			ViewedCombos:   append([]string{}, shuffled[:index]...),
			ShuffledCombos: shuffled,
			SaveTime:       time.Unix(sec, nsec).UTC(),
		}
	})
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		state := stateGen().Draw(rt, "state")

		token, err := Encode(state)
		require.NoError(rt, err)
		require.True(rt, strings.HasPrefix(token, Version+"."))
		require.NotContains(rt, token, "#")

		got, err := Decode(token)
		require.NoError(rt, err)
		assert.Equal(rt, state, got)
	})
}

func TestDecode_Legacy(t *testing.T) {
	got, err := Decode(legacyToken)
	require.NoError(t, err)

	assert.Equal(t, 1, got.CurrentIndex)
	assert.Equal(t, []string{"豆浆 + 油条 = 5"}, got.ViewedCombos)
	assert.Equal(t, []string{"豆浆 + 油条 = 5", "A = 1", "C = 3"}, got.ShuffledCombos)
	assert.True(t, got.SaveTime.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestDecode_Malformed(t *testing.T) {
	valid, err := Encode(models.ProgressState{CurrentIndex: 1, ShuffledCombos: []string{"A = 1", "B = 2"}})
	require.NoError(t, err)

	tc := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "only hash", token: "#"},
		{name: "truncated", token: valid[:len(valid)-7]},
		{name: "not base64", token: "v1.***"},
		{name: "unknown version", token: "v9." + strings.TrimPrefix(valid, "v1.")},
		{name: "legacy not base64", token: "%%%"},
		{name: "base64 but not json", token: "v1.aGVsbG8"},
		{name: "bad percent escape", token: "v1.JVpa"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			assert.True(t, errors.Is(err, ErrMalformedToken), "got %v", err)
		})
	}
}

func TestCodec_Location(t *testing.T) {
	loc, err := NewLocation("https://breakfast.local/app?lang=en")
	require.NoError(t, err)
	codec := NewCodec(loc, nil)

	_, ok := codec.Load()
	assert.False(t, ok, "no fragment yet")

	state := models.ProgressState{
		CurrentIndex:   1,
		ViewedCombos:   []string{"B=2"},
		ShuffledCombos: []string{"B=2", "A=1", "C=3"},
		SaveTime:       time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC),
	}
	require.NoError(t, codec.Save(state))
	assert.True(t, strings.HasPrefix(codec.ShareURL(), "https://breakfast.local/app?lang=en#v1."))

	got, ok := codec.Load()
	require.True(t, ok)
	assert.Equal(t, state, got)

	require.NoError(t, codec.Clear())
	assert.Equal(t, "https://breakfast.local/app?lang=en", codec.ShareURL())
	_, ok = codec.Load()
	assert.False(t, ok)
}

func TestCodec_MalformedFragmentIsAbsent(t *testing.T) {
	loc, err := NewLocation("https://breakfast.local/#v1.not-a-real-token")
	require.NoError(t, err)

	_, ok := NewCodec(loc, nil).Load()
	assert.False(t, ok)
}

func TestLinkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "link")
	link, err := NewLinkFile(path, "https://breakfast.local/#stale")
	require.NoError(t, err)

	assert.Equal(t, "https://breakfast.local/", link.URL(), "base fragment is dropped")
	assert.Equal(t, "", link.Fragment())

	codec := NewCodec(link, nil)
	state := models.ProgressState{CurrentIndex: 0, ViewedCombos: []string{}, ShuffledCombos: []string{"A = 1"}}
	require.NoError(t, codec.Save(state))

	reopened, err := NewLinkFile(path, "https://breakfast.local/")
	require.NoError(t, err)
	got, ok := NewCodec(reopened, nil).Load()
	require.True(t, ok)
	assert.Equal(t, state.ShuffledCombos, got.ShuffledCombos)

	t.Run("Navigate adopts a shared link", func(t *testing.T) {
		token, err := Encode(models.ProgressState{CurrentIndex: 1, ViewedCombos: []string{"X"}, ShuffledCombos: []string{"X", "Y"}})
		require.NoError(t, err)

		require.NoError(t, link.Navigate("https://friend.example/menu#"+token))
		got, ok := codec.Load()
		require.True(t, ok)
		assert.Equal(t, []string{"X", "Y"}, got.ShuffledCombos)
		assert.True(t, strings.HasPrefix(link.URL(), "https://friend.example/menu#"))
	})

	t.Run("writes leave only the link file", func(t *testing.T) {
		for i := range 3 {
			require.NoError(t, codec.Save(models.ProgressState{CurrentIndex: i, ShuffledCombos: []string{"A", "B", "C"}, ViewedCombos: []string{"A", "B", "C"}[:i]}))
		}
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "link", entries[0].Name())
	})

	t.Run("garbage file falls back to base", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0o644))
		assert.Equal(t, "https://breakfast.local/", link.URL())
	})
}
