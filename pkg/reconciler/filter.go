package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
)

// filter gates changes by the configured apply strategy
type filter struct {
	strategy differ.ApplyStrategy
	logger   *zerolog.Logger
}

// newFilter creates a new filter
func newFilter(strategy differ.ApplyStrategy, logger *zerolog.Logger) *filter {
	return &filter{
		strategy: strategy,
		logger:   logger,
	}
}

// isEnabled returns true if the strategy suppresses anything
func (f *filter) isEnabled() bool {
	return f.strategy != differ.ApplyAll && f.strategy != ""
}

// permits reports whether a change of type t to path may be applied and
// logs the ones it suppresses
func (f *filter) permits(t differ.ChangeType, path string) bool {
	if !f.isEnabled() || f.strategy.Allows(t) {
		return true
	}
	f.logger.Debug().
		Str("path", path).
		Str("change", string(t)).
		Str("strategy", string(f.strategy)).
		Msg("Change suppressed by strategy")
	return false
}
