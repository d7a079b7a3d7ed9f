// Package bulkedit edits FactoryTalk Batch recipes in bulk through a
// spreadsheet. It exports a parent recipe and every child it references to
// a workbook, then reconciles the edited workbook back onto the recipe
// files.
//
// Example usage:
//
//	c, err := bulkedit.New(bulkedit.WithHistoryDSN(""))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	// Export the recipe tree for editing
//	if _, err := c.Export(ctx, "Main.PXML", "Main.xlsx"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Preview the edits, then apply them
//	changes, err := c.Diff(ctx, "Main.PXML", "Main.xlsx")
//	result, err := c.Import(ctx, "Main.PXML", "Main.xlsx",
//	    bulkedit.ImportWithStrategy("additive"))
//	fmt.Println(result.Summary(), result.OutputDir)
package bulkedit

import (
	"context"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/recipefile"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client exports recipes to a workbook and applies workbook edits back.
type Client interface {

	// Exporter writes recipes to a workbook
	Exporter

	// Importer applies workbook edits to recipes
	Importer

	// Differ previews workbook edits without applying them
	Differ

	// Historian lists previously applied imports
	Historian

	// Hooks provides access to event callback registration
	Hooks

	// Close releases any history store the client opened
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// history is nil when recording is disabled
	history     history.Store
	ownsHistory bool

	hooks *hooks // Event hooks for applied changes
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		history: o.history,
		hooks:   newHooks(),
	}

	if c.history == nil && o.historyDSN != nil {
		store, err := history.Open(context.Background(), *o.historyDSN)
		if err != nil {
			return nil, errors.WrapResource("open", "history", *o.historyDSN, err)
		}
		c.history = store
		c.ownsHistory = true
	}

	return c, nil
}

// Close releases the history store if the client opened it.
func (c *client) Close() error {
	if c.history == nil || !c.ownsHistory {
		return nil
	}
	if err := c.history.Close(); err != nil {
		return errors.WrapResource("close", "history", "", err)
	}
	return nil
}

// load reads the parent recipe and every child it references.
func (c *client) load(ctx context.Context, xmlPath string) ([]*recipe.Document, error) {
	loader := recipefile.NewLoader(recipefile.WithLoadProgress(c.options.progress))
	docs, err := loader.Load(ctx, xmlPath)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("path", xmlPath).Msg("Failed to load recipes")
		return nil, err
	}
	return docs, nil
}

// names returns each document's file name in load order.
func names(docs []*recipe.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name()
	}
	return out
}
