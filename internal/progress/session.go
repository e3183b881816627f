package progress

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/breakfast/internal/models"
	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/desertthunder/breakfast/internal/storage"
	"github.com/desertthunder/breakfast/internal/urlstate"
)

// MenuSource supplies the ordered combos to shuffle.
type MenuSource interface {
	CurrentMenu() []string
}

// Origin records where a loaded state came from.
type Origin string

const (
	OriginNone    Origin = ""
	OriginURL     Origin = "url"
	OriginStorage Origin = "storage"
	OriginFresh   Origin = "fresh"
)

// Options configures a [Session]. Menu and Store are required.
type Options struct {
	Menu   MenuSource
	Store  *storage.Layered
	Codec  *urlstate.Codec
	Rand   Rand
	Clock  func() time.Time
	Logger *log.Logger
}

// Session is the in-memory owner of the current shuffle, position and history.
type Session struct {
	menu   MenuSource
	store  *storage.Layered
	codec  *urlstate.Codec
	rand   Rand
	clock  func() time.Time
	logger *log.Logger

	state       models.ProgressState
	origin      Origin
	initialized bool
}

// New builds a session from its collaborators. Call [Session.Load] before use.
func New(opts Options) *Session {
	if opts.Rand == nil {
		opts.Rand = defaultRand{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return &Session{
		menu:   opts.Menu,
		store:  opts.Store,
		codec:  opts.Codec,
		rand:   opts.Rand,
		clock:  opts.Clock,
		logger: shared.WithLogger(opts.Logger, "component", "progress"),
		state:  models.ProgressState{ViewedCombos: []string{}, ShuffledCombos: []string{}},
	}
}

// Load rehydrates the session: share link first, then storage, then a fresh shuffle
// when nothing usable was found or the menu changed underneath the saved sequence.
func (s *Session) Load(ctx context.Context) {
	s.state, s.origin = s.loadState(ctx)

	if s.state.Reconcile() {
		s.logger.Warn("reconciled inconsistent state",
			"index", s.state.CurrentIndex, "viewed", len(s.state.ViewedCombos), "total", s.state.Total())
	}

	s.initialized = true
	if s.reshuffleStale(ctx) {
		return
	}
	s.logger.Info("progress loaded", "origin", s.origin, "index", s.state.CurrentIndex, "total", s.state.Total())
}

func (s *Session) loadState(ctx context.Context) (models.ProgressState, Origin) {
	if s.codec != nil {
		if state, ok := s.codec.Load(); ok {
			return state, OriginURL
		}
	}

	var state models.ProgressState
	origin := OriginNone

	if index, ok := storage.Get[int](ctx, s.store, storage.KeyCurrentIndex); ok {
		state.CurrentIndex = index
		origin = OriginStorage
	}
	if viewed, ok := storage.Get[[]string](ctx, s.store, storage.KeyViewedCombos); ok {
		state.ViewedCombos = viewed
		origin = OriginStorage
	}
	if shuffled, ok := storage.Get[[]string](ctx, s.store, storage.KeyShuffledCombos); ok {
		state.ShuffledCombos = shuffled
		origin = OriginStorage
	}

	return state, origin
}

// Reshuffle replaces the sequence with a fresh permutation of the menu and clears progress.
func (s *Session) Reshuffle(ctx context.Context) {
	s.state.ShuffledCombos = Shuffle(s.menu.CurrentMenu(), s.rand)
	s.state.CurrentIndex = 0
	s.state.ViewedCombos = []string{}
	s.Persist(ctx)
}

// Advance moves past the current combo. It returns false, changing nothing, when
// every combo has already been viewed.
func (s *Session) Advance(ctx context.Context) bool {
	if s.state.Done() {
		return false
	}

	s.state.ViewedCombos = append(s.state.ViewedCombos, s.state.ShuffledCombos[s.state.CurrentIndex])
	s.state.CurrentIndex++
	s.Persist(ctx)
	return true
}

// Reset rewinds to the start of the same sequence.
func (s *Session) Reset(ctx context.Context) {
	s.state.CurrentIndex = 0
	s.state.ViewedCombos = []string{}
	s.Persist(ctx)
}

// Adopt replaces the session state with state, as when a shared link is opened.
// The state is reconciled and persisted. A sequence that does not match the length of
// the current menu is replaced by a fresh shuffle, the same as on [Session.Load], and
// Adopt reports false.
func (s *Session) Adopt(ctx context.Context, state models.ProgressState) bool {
	s.state = state.Clone()
	s.state.Reconcile()
	s.origin = OriginURL
	s.initialized = true
	if s.reshuffleStale(ctx) {
		return false
	}
	s.Persist(ctx)
	return true
}

// reshuffleStale starts a fresh shuffle when the sequence is empty or was built from a different menu.
func (s *Session) reshuffleStale(ctx context.Context) bool {
	menuLen := len(s.menu.CurrentMenu())
	if s.state.Total() != 0 && s.state.Total() == menuLen {
		return false
	}
	s.logger.Info("reshuffling", "saved", s.state.Total(), "menu", menuLen)
	s.origin = OriginFresh
	s.Reshuffle(ctx)
	return true
}

// Persist writes the three progress keys and the share-link token. It does nothing
// before the session is loaded. Failures are logged by the storage layer and the codec.
func (s *Session) Persist(ctx context.Context) []storage.WriteResult {
	if !s.initialized {
		return nil
	}

	s.state.SaveTime = s.clock().UTC()

	var results []storage.WriteResult
	results = append(results, s.store.Set(ctx, storage.KeyCurrentIndex, s.state.CurrentIndex)...)
	results = append(results, s.store.Set(ctx, storage.KeyViewedCombos, s.state.ViewedCombos)...)
	results = append(results, s.store.Set(ctx, storage.KeyShuffledCombos, s.state.ShuffledCombos)...)

	if s.codec != nil {
		_ = s.codec.Save(s.state)
	}

	s.logger.Debug("progress saved", "index", s.state.CurrentIndex, "total", s.state.Total(), "failed", len(storage.Failed(results)))
	return results
}

// Close persists a final time and waits for background writes, the equivalent of a page hide.
func (s *Session) Close(ctx context.Context) error {
	s.Persist(ctx)
	return s.store.Flush(ctx)
}

// State returns a copy of the current state.
func (s *Session) State() models.ProgressState { return s.state.Clone() }

// Origin reports where the state was loaded from.
func (s *Session) Origin() Origin { return s.origin }

// View derives the rendered fields from the current state.
func (s *Session) View() View {
	v := newView(s.state)
	if s.codec != nil {
		v.ShareURL = s.codec.ShareURL()
	}
	return v
}

// Remaining returns the combos not yet viewed, in order.
func (s *Session) Remaining() []string {
	return slices.Clone(s.state.ShuffledCombos[s.state.CurrentIndex:])
}
