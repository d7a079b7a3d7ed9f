package reconciler

import (
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	strategy differ.ApplyStrategy
	dryRun   bool
	runID    string // Generated when empty
}

func defaultOptions() *options {
	return &options{
		strategy: differ.ApplyAll,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStrategy limits which kinds of change are applied.
func WithStrategy(strategy differ.ApplyStrategy) Option {
	return func(o *options) error {
		s, err := differ.ParseStrategy(string(strategy))
		if err != nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Value:   string(strategy),
				Message: err.Error(),
			}
		}
		o.strategy = s
		return nil
	}
}

// WithDryRun reconciles copies of the documents and leaves the originals untouched.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}

// WithRunID sets the identifier attached to logs and the result.
func WithRunID(id string) Option {
	return func(o *options) error {
		if id == "" {
			return &errors.ValidationError{
				Field:   "run_id",
				Message: "cannot be empty",
			}
		}
		o.runID = id
		return nil
	}
}
