package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/breakfast/internal/progress"
	"github.com/desertthunder/breakfast/internal/storage"
	tu "github.com/desertthunder/breakfast/internal/testing"
	"github.com/desertthunder/breakfast/internal/urlstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedMenu struct {
	tu.StaticMenu
	name string
}

func (m namedMenu) Name() string { return m.name }

func newTestAPI(t *testing.T) (*API, *BasicRouter, *storage.MemoryStore) {
	t.Helper()

	loc, err := urlstate.NewLocation("https://breakfast.local/")
	require.NoError(t, err)

	mem := storage.NewMemoryStore("fast")
	menu := namedMenu{StaticMenu: tu.StaticMenu{"A = 1", "B = 2", "C = 3"}, name: "Test menu"}
	session := progress.New(progress.Options{
		Menu:  menu,
		Store: storage.NewLayered(nil, mem),
		Codec: urlstate.NewCodec(loc, nil),
		Rand:  &tu.ScriptedRand{Values: []int{2, 0}},
	})
	session.Load(context.Background())

	api := NewAPI(session, menu, nil)
	router := NewBasicRouter()
	router.Use(Recover(nil), Logging(nil))
	router.Handler(api)
	return api, router, mem
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) StateResponse {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAPI_State(t *testing.T) {
	_, router, _ := newTestAPI(t)

	rec := do(t, router, http.MethodGet, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeState(t, rec)
	assert.Equal(t, "B", resp.CurrentText)
	assert.Equal(t, "2", resp.CurrentPrice)
	assert.Equal(t, "0/3", resp.Progress)
	assert.Equal(t, "Test menu", resp.Menu)
	assert.Equal(t, "fresh", resp.Origin)
	assert.Nil(t, resp.Advanced)
	assert.Contains(t, resp.ShareURL, "#v1.")
}

func TestAPI_NextUntilCompleted(t *testing.T) {
	_, router, mem := newTestAPI(t)

	rec := do(t, router, http.MethodPost, "/api/next")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeState(t, rec)
	require.NotNil(t, resp.Advanced)
	assert.True(t, *resp.Advanced)
	assert.Equal(t, "A", resp.CurrentText)
	assert.Equal(t, "1/3", resp.Progress)
	assert.Equal(t, 33, resp.Percent)
	assert.Equal(t, []string{"B = 2"}, resp.History)

	index, ok := storage.Get[int](context.Background(), storage.NewLayered(nil, mem), storage.KeyCurrentIndex)
	require.True(t, ok)
	assert.Equal(t, 1, index)

	do(t, router, http.MethodPost, "/api/next")
	do(t, router, http.MethodPost, "/api/next")
	resp = decodeState(t, do(t, router, http.MethodPost, "/api/next"))
	assert.False(t, *resp.Advanced)
	assert.True(t, resp.Completed)
	assert.Equal(t, progress.CompletedText, resp.CurrentText)
	assert.Equal(t, 100, resp.Percent)
}

func TestAPI_ResetAndReshuffle(t *testing.T) {
	_, router, _ := newTestAPI(t)
	do(t, router, http.MethodPost, "/api/next")

	resp := decodeState(t, do(t, router, http.MethodPost, "/api/reset"))
	assert.Equal(t, 0, resp.Index)
	assert.Equal(t, "B", resp.CurrentText)
	assert.Empty(t, resp.History)

	do(t, router, http.MethodPost, "/api/next")
	resp = decodeState(t, do(t, router, http.MethodPost, "/api/reshuffle"))
	assert.Equal(t, 0, resp.Index)
	assert.Equal(t, 3, resp.Total)
}

func TestAPI_Menu(t *testing.T) {
	_, router, _ := newTestAPI(t)

	rec := do(t, router, http.MethodGet, "/api/menu")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MenuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Test menu", resp.Name)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, []string{"A = 1", "B = 2", "C = 3"}, resp.Combos)
}

func TestAPI_Share(t *testing.T) {
	_, router, _ := newTestAPI(t)

	rec := do(t, router, http.MethodGet, "/share")
	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://breakfast.local/#v1."), location)

	token := location[strings.Index(location, "#")+1:]
	state, err := urlstate.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"B = 2", "A = 1", "C = 3"}, state.ShuffledCombos)
}

func TestAPI_ShareWithoutCodec(t *testing.T) {
	session := progress.New(progress.Options{
		Menu:  tu.StaticMenu{"A"},
		Store: storage.NewLayered(nil, storage.NewMemoryStore("")),
	})
	session.Load(context.Background())

	rec := do(t, NewAPI(session, nil, nil), http.MethodGet, "/share")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, NewAPI(session, nil, nil), http.MethodGet, "/api/menu")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	_, router, _ := newTestAPI(t)

	tc := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/next", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/state", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tc {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, router, tt.method, tt.path).Code)
		})
	}
}

func TestAPI_ConcurrentRequests(t *testing.T) {
	_, router, _ := newTestAPI(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(t, router, http.MethodPost, "/api/next")
			do(t, router, http.MethodGet, "/api/state")
		}()
	}
	wg.Wait()

	resp := decodeState(t, do(t, router, http.MethodGet, "/api/state"))
	assert.True(t, resp.Completed)
	assert.Equal(t, 3, resp.Index)
}

func TestBasicRouter(t *testing.T) {
	t.Run("method routing", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := do(t, r, http.MethodGet, "/ping")
		assert.Equal(t, "pong", rec.Body.String())
		assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodPost, "/ping").Code)
		assert.Equal(t, []string{"GET /ping"}, r.Routes())
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle("", "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))

		do(t, r, http.MethodGet, "/")
		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("recover", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(Recover(nil))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := do(t, r, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal error")
	})
}
