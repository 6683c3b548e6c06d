package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/habits/internal/config"
	"github.com/roach88/habits/internal/habit"
	"github.com/roach88/habits/internal/kv"
	"github.com/roach88/habits/internal/persist"
	"github.com/roach88/habits/internal/store"
	"github.com/roach88/habits/internal/tracker"
)

// SQLiteFile is the database name used by the sqlite backend.
const SQLiteFile = "habits.db"

// session is everything one command invocation needs.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	adapter  *persist.Adapter
	tracker  *tracker.Tracker
	location string
	close    func() error
}

// openSession loads config, opens the configured backend and seeds a
// tracker positioned on the requested week.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger, err := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	port, location, closeFn, err := openBackend(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open storage", err)
	}
	logger.Debug("storage ready", "backend", cfg.Backend, "location", location)

	adapter := persist.New(port, persist.WithLogger(logger))

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	trOpts := []tracker.Option{tracker.WithClock(now), tracker.WithLogger(logger)}
	if opts.IDs != nil {
		trOpts = append(trOpts, tracker.WithIDGenerator(opts.IDs))
	}
	tr := tracker.New(commandContext(cmd), adapter, trOpts...)

	if opts.Date != "" {
		ref, err := time.ParseInLocation(habit.WeekKeyLayout, opts.Date, now().Location())
		if err != nil {
			closeFn()
			return nil, WrapExitError(ExitFailure, "invalid --date", err)
		}
		tr.SetViewedDate(ref)
	}
	tr.ShiftWeeks(opts.Week)

	return &session{
		cfg:      cfg,
		logger:   logger,
		adapter:  adapter,
		tracker:  tr,
		location: location,
		close:    closeFn,
	}, nil
}

// resolveConfig applies flag overrides on top of the config file.
func resolveConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger. -v forces debug level.
func newLogger(cfg *config.Config, verbose bool, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

// openBackend returns the kv.Port for cfg, a human-readable location and a
// close function.
func openBackend(cfg *config.Config) (kv.Port, string, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), "memory", noop, nil

	case config.BackendFile:
		f, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			return nil, "", nil, err
		}
		path, err := f.Path(persist.Key)
		if err != nil {
			return nil, "", nil, err
		}
		return f, path, noop, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, "", nil, fmt.Errorf("create data dir: %w", err)
		}
		path := filepath.Join(cfg.DataDir, SQLiteFile)
		st, err := store.Open(path)
		if err != nil {
			return nil, "", nil, err
		}
		return st, path, st.Close, nil

	default:
		return nil, "", nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// closeSession closes the backend, logging rather than failing the command.
func (s *session) closeSession() {
	if err := s.close(); err != nil {
		s.logger.Error("error closing storage", "error", err)
	}
}

// warnIfUnsaved tells the user when the last write did not reach storage.
// The command still succeeds: the change was applied in memory.
func (s *session) warnIfUnsaved(out *OutputFormatter) {
	if err := s.tracker.LastSaveError(); err != nil {
		fmt.Fprintf(out.GetErrWriter(), "warning: change not saved: %v\n", err)
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
