package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/breakfast/internal/progress"
	"github.com/desertthunder/breakfast/internal/shared"
)

// MenuSource is the read side of the menu manager used by the API.
type MenuSource interface {
	CurrentMenu() []string
	Name() string
}

// StateResponse is returned by every state endpoint.
type StateResponse struct {
	progress.View
	Menu     string `json:"menu"`
	Origin   string `json:"origin"`
	Advanced *bool  `json:"advanced,omitempty"`
}

// MenuResponse is returned by GET /api/menu.
type MenuResponse struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Combos []string `json:"combos"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// API serves a [progress.Session] over HTTP. The session is not goroutine-safe, so every
// request holds the API mutex for its whole duration.
type API struct {
	mu      sync.Mutex
	session *progress.Session
	menu    MenuSource
	logger  *log.Logger
	mux     *http.ServeMux
}

var _ Handler = (*API)(nil)

// NewAPI creates the handler over a loaded session.
func NewAPI(session *progress.Session, menu MenuSource, logger *log.Logger) *API {
	a := &API{
		session: session,
		menu:    menu,
		logger:  shared.WithLogger(orDiscard(logger), "component", "api"),
		mux:     http.NewServeMux(),
	}

	a.mux.HandleFunc("GET /api/state", a.handleState)
	a.mux.HandleFunc("POST /api/next", a.handleNext)
	a.mux.HandleFunc("POST /api/reset", a.handleReset)
	a.mux.HandleFunc("POST /api/reshuffle", a.handleReshuffle)
	a.mux.HandleFunc("GET /api/menu", a.handleMenu)
	a.mux.HandleFunc("GET /share", a.handleShare)
	return a
}

// Routes returns the HTTP routes this handler serves.
func (a *API) Routes() []string {
	return []string{"/api/", "/share"}
}

// ServeHTTP dispatches to the endpoint handlers.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) handleState(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, http.StatusOK, a.state(nil))
}

func (a *API) handleNext(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	advanced := a.session.Advance(r.Context())
	writeJSON(w, http.StatusOK, a.state(&advanced))
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Reset(r.Context())
	a.logger.Info("progress reset")
	writeJSON(w, http.StatusOK, a.state(nil))
}

func (a *API) handleReshuffle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Reshuffle(r.Context())
	a.logger.Info("combos reshuffled")
	writeJSON(w, http.StatusOK, a.state(nil))
}

func (a *API) handleMenu(w http.ResponseWriter, r *http.Request) {
	if a.menu == nil {
		writeError(w, http.StatusNotFound, "no menu configured")
		return
	}

	a.mu.Lock()
	combos := a.menu.CurrentMenu()
	name := a.menu.Name()
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, MenuResponse{Name: name, Count: len(combos), Combos: combos})
}

func (a *API) handleShare(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	target := a.session.View().ShareURL
	a.mu.Unlock()

	if target == "" {
		writeError(w, http.StatusNotFound, "no share link available")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// state must be called with a.mu held.
func (a *API) state(advanced *bool) StateResponse {
	resp := StateResponse{
		View:     a.session.View(),
		Origin:   string(a.session.Origin()),
		Advanced: advanced,
	}
	if a.menu != nil {
		resp.Menu = a.menu.Name()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
