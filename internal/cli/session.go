package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/pvz/internal/config"
	"github.com/roach88/pvz/internal/engine"
	"github.com/roach88/pvz/internal/store"
)

// loadConfig reads --config (or the defaults) and applies the session flags
// the user set explicitly.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if flags.Changed("locale") {
		cfg.Locale = opts.Locale
	}
	if flags.Changed("journal") {
		cfg.Journal = opts.Journal
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// session is an engine with its journal.
type session struct {
	cfg     config.Config
	engine  *engine.Engine
	journal *store.Store
}

// openSession opens and empties the journal, then creates the engine. extra options are
// applied after the defaults.
func openSession(ctx context.Context, opts *RootOptions, cfg config.Config, extra ...engine.Option) (*session, error) {
	j, err := store.Open(cfg.Journal)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	if err := j.Reset(ctx); err != nil {
		j.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}

	engineOpts := append([]engine.Option{
		engine.WithJournal(j),
		engine.WithLogger(opts.Logger()),
	}, extra...)
	eng, err := engine.New(cfg, engineOpts...)
	if err != nil {
		j.Close()
		return nil, WrapExitError(ExitCommandError, "failed to start session", err)
	}

	opts.Logger().Debug("session opened", "journal", cfg.Journal, "seed", cfg.Seed, "locale", cfg.Locale)
	return &session{cfg: cfg, engine: eng, journal: j}, nil
}

func (s *session) Close() error {
	return s.journal.Close()
}
