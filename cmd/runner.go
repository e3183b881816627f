package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/breakfast/internal/menu"
	"github.com/desertthunder/breakfast/internal/progress"
	"github.com/desertthunder/breakfast/internal/shared"
	"github.com/desertthunder/breakfast/internal/storage"
	"github.com/desertthunder/breakfast/internal/urlstate"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage, menu and session are opened per command by [Runner.open] and released by [Runner.close].
type Runner struct {
	config    *shared.Config
	logger    *log.Logger
	output    io.Writer
	sessionID string
	backends  []storage.Backend
	rand      progress.Rand

	store   *storage.Layered
	menu    *menu.Manager
	link    *urlstate.LinkFile
	codec   *urlstate.Codec
	session *progress.Session
	cleared bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Logger    *log.Logger
	Output    io.Writer
	SessionID string
	// Backends replaces the configured pebble/session/sqlite stack when set.
	Backends []storage.Backend
	Rand     progress.Rand
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		output:    opts.Output,
		sessionID: opts.SessionID,
		backends:  opts.Backends,
		rand:      opts.Rand,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, nextCommand, showCommand, resetCommand, reshuffleCommand,
		linkCommand, openCommand, clearCommand, menuCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, e.g. with a file logger for the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Configure is the root Before hook: it loads the config file, applies --verbose and --session.
//
// A missing default config file is not an error; an explicitly requested one is.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil || cmd.IsSet("config") {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if id := cmd.String("session"); id != "" {
		r.sessionID = id
	}

	return ctx, nil
}

// defaultSessionID scopes the session store to the invoking shell, so repeated commands from one
// terminal share a session the way reloads of one tab do.
func defaultSessionID() string {
	return fmt.Sprintf("ppid-%d", os.Getppid())
}

// open wires storage, menu, share link and session, then loads progress.
// Initialization order: backends, facade, menu, address and codec, session.
func (r *Runner) open(ctx context.Context) error {
	if r.session != nil {
		return nil
	}

	backends := r.backends
	if backends == nil {
		var err error
		if backends, err = r.openBackends(ctx); err != nil {
			return err
		}
	}
	if len(backends) == 0 {
		r.logger.Warn("no storage backend available, progress will not survive this run")
		backends = []storage.Backend{storage.NewMemoryStore("memory")}
	}

	r.store = storage.NewLayered(r.logger, backends...)

	r.menu = menu.NewManager(r.store, r.config.Menu.DefaultName, r.logger)
	r.menu.Load(ctx)

	linkPath, err := r.config.LinkPath()
	if err != nil {
		return err
	}
	if r.link, err = urlstate.NewLinkFile(linkPath, r.config.Share.BaseURL); err != nil {
		return err
	}
	r.codec = urlstate.NewCodec(r.link, r.logger)

	r.session = progress.New(progress.Options{
		Menu:   r.menu,
		Store:  r.store,
		Codec:  r.codec,
		Rand:   r.rand,
		Logger: r.logger,
	})
	r.session.Load(ctx)
	return nil
}

// openBackends builds the ranked stack: pebble, then the session file store, then sqlite behind a queue.
// A backend that cannot be opened is logged and left out.
func (r *Runner) openBackends(ctx context.Context) ([]storage.Backend, error) {
	dataDir, err := r.config.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %v", shared.ErrStorageUnavailable, err)
	}

	var backends []storage.Backend

	if dir, err := r.config.PebblePath(); err != nil {
		r.logger.Warn("fast store unavailable", "error", err)
	} else if kv, err := storage.OpenPebble(dir, r.logger); err != nil {
		r.logger.Warn("fast store unavailable", "path", dir, "error", err)
	} else {
		backends = append(backends, kv)
	}

	if r.sessionID == "" {
		r.sessionID = defaultSessionID()
	}
	if ss, err := storage.NewSessionStore(r.config.SessionDir(), r.sessionID); err != nil {
		r.logger.Warn("session store unavailable", "error", err)
	} else {
		backends = append(backends, ss)
	}

	if q, err := r.openSQL(ctx); err != nil {
		r.logger.Warn("structured store unavailable", "error", err)
	} else {
		backends = append(backends, q)
	}

	r.logger.Debug("storage ready", "backends", len(backends), "session", r.sessionID)
	return backends, nil
}

func (r *Runner) openSQL(ctx context.Context) (*storage.Queue, error) {
	path, err := r.config.SQLitePath()
	if err != nil {
		return nil, err
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Storage.MaxOpenConns, r.config.Storage.MaxIdleConns)

	store, err := storage.NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return storage.NewQueue(store, 0, r.logger), nil
}

// close saves a final time, unless progress was just cleared, and releases every backend.
func (r *Runner) close(ctx context.Context) {
	if r.session == nil {
		return
	}

	if !r.cleared {
		if err := r.session.Close(ctx); err != nil {
			r.logger.Warn("final save incomplete", "error", err)
		}
	}
	if err := r.store.Close(ctx); err != nil {
		r.logger.Warn("failed to close storage", "error", err)
	}

	r.session, r.store, r.menu, r.link, r.codec = nil, nil, nil, nil, nil
	r.cleared = false
}

// withSession opens the session around action.
func (r *Runner) withSession(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.open(ctx); err != nil {
			return err
		}
		defer r.close(ctx)
		return action(ctx, cmd)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
