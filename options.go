package bulkedit

import (
	"time"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/recipefile"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Option is a function that configures a Client instance.
type Option func(*options) error

// options holds the client configuration.
type options struct {
	strategy  differ.ApplyStrategy
	outputDir string // base directory for written documents; "" means next to the parent file

	history    history.Store
	historyDSN *string // opened (and owned) by the client when set

	progress recipefile.ProgressFunc
	now      func() time.Time
}

// defaults returns the default client options.
func defaults() *options {
	return &options{
		strategy: differ.ApplyAll,
		now:      time.Now,
	}
}

// apply applies the given options, stopping at the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithStrategy sets the default apply strategy for imports.
func WithStrategy(strategy string) Option {
	return func(o *options) error {
		s, err := differ.ParseStrategy(strategy)
		if err != nil {
			return err
		}
		o.strategy = s
		return nil
	}
}

// WithOutputDir sets the base directory converted documents are written under.
func WithOutputDir(dir string) Option {
	return func(o *options) error {
		o.outputDir = dir
		return nil
	}
}

// WithHistory records applied imports in store. The caller keeps ownership.
func WithHistory(store history.Store) Option {
	return func(o *options) error {
		if store == nil {
			return &errors.ConfigError{Component: "history", Message: "store is nil"}
		}
		o.history = store
		return nil
	}
}

// WithHistoryDSN opens a history store from dsn when the client is created.
// The client closes it on Close.
func WithHistoryDSN(dsn string) Option {
	return func(o *options) error {
		o.historyDSN = &dsn
		return nil
	}
}

// WithProgress reports loader and writer events to fn.
func WithProgress(fn recipefile.ProgressFunc) Option {
	return func(o *options) error {
		o.progress = fn
		return nil
	}
}

// WithClock overrides the clock used for output directory stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ConfigError{Component: "clock", Message: "clock is nil"}
		}
		o.now = now
		return nil
	}
}

// ImportOption configures a single Import call.
type ImportOption func(*importOptions) error

// importOptions holds per-call import settings, seeded from the client.
type importOptions struct {
	strategy  differ.ApplyStrategy
	dryRun    bool
	outputDir string
	runID     string
}

// ImportWithStrategy overrides the client's apply strategy.
func ImportWithStrategy(strategy string) ImportOption {
	return func(o *importOptions) error {
		s, err := differ.ParseStrategy(strategy)
		if err != nil {
			return err
		}
		o.strategy = s
		return nil
	}
}

// ImportWithDryRun computes changes without writing files or recording history.
func ImportWithDryRun(enabled bool) ImportOption {
	return func(o *importOptions) error {
		o.dryRun = enabled
		return nil
	}
}

// ImportWithOutputDir overrides the client's output directory.
func ImportWithOutputDir(dir string) ImportOption {
	return func(o *importOptions) error {
		o.outputDir = dir
		return nil
	}
}

// ImportWithRunID sets the run id instead of generating one.
func ImportWithRunID(id string) ImportOption {
	return func(o *importOptions) error {
		if id == "" {
			return errors.NewValidationError("run_id", id, "run id cannot be empty")
		}
		o.runID = id
		return nil
	}
}

func (c *client) importOptions(opts ...ImportOption) (*importOptions, error) {
	o := &importOptions{
		strategy:  c.options.strategy,
		outputDir: c.options.outputDir,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
