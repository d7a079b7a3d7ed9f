// Package app wires configuration, logging and the bulk edit client into
// the ftbatch CLI.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	bulkedit "github.com/marcelo-6/ftbatch-recipe-bulk-edit"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/appcontext"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/recipefile"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App holds the application's configuration, logger and client.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.Mutex
	client bulkedit.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string { return a.config.Format }

// Client returns the bulk edit client, creating it on first use.
func (a *App) Client() (bulkedit.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}
	c, err := bulkedit.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown releases the client.
func (a *App) Shutdown(context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// clientOptions builds client options from the configuration.
func (a *App) clientOptions() []bulkedit.Option {
	opts := []bulkedit.Option{
		bulkedit.WithStrategy(a.config.Strategy),
		bulkedit.WithProgress(a.logProgress),
	}
	if a.config.OutputDir != "" {
		opts = append(opts, bulkedit.WithOutputDir(a.config.OutputDir))
	}
	if a.config.HistoryEnabled {
		opts = append(opts, bulkedit.WithHistoryDSN(a.config.HistoryDSN))
	}
	return opts
}

// logProgress reports loader and writer progress at debug level.
func (a *App) logProgress(e recipefile.Event) {
	log := a.logger.Debug().Str("event", string(e.Type))
	switch e.Type {
	case recipefile.EventLoaded:
		log.Str("path", e.Path).Int("parameters", e.Parameters).Int("formula_values", e.FormulaValues)
	case recipefile.EventDiscovered, recipefile.EventMissingChild:
		log.Str("path", e.Path).Str("parent", e.Parent)
	case recipefile.EventFileWritten:
		log.Str("path", e.Path).Int("index", e.Index).Int("total", e.Total)
	case recipefile.EventFinished:
		log.Int("loaded", e.Loaded).Str("output_dir", e.OutputDir)
	}
	log.Msg("Progress")
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c bulkedit.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
