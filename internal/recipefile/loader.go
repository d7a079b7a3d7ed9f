// Package recipefile reads and writes FactoryTalk Batch recipe files.
//
// The Loader starts from a parent procedure and follows every StepRecipeID
// down to unit procedures and operations in the same directory. The Writer
// serializes documents into a timestamped output folder.
package recipefile

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// EventType identifies a progress event.
type EventType string

// Progress events emitted by the Loader and the Writer.
const (
	EventLoaded       EventType = "loaded"
	EventDiscovered   EventType = "discovered"
	EventMissingChild EventType = "missing_child"
	EventStart        EventType = "start"
	EventFileWritten  EventType = "file_written"
	EventFinished     EventType = "finished"
)

// Event reports progress. Only the fields relevant to the type are set.
type Event struct {
	Type          EventType
	Path          string
	Parent        string
	Loaded        int
	Total         int
	Parameters    int
	FormulaValues int
	Count         int // Occurrences of a missing child, or missing occurrences on finish
	Index         int
	OutputDir     string
}

// ProgressFunc receives progress events.
type ProgressFunc func(Event)

// childExtensions maps a recipe level to the extension of the level below.
var childExtensions = map[string]string{
	constants.ExtProcedure:     constants.ExtUnitProcedure,
	constants.ExtUnitProcedure: constants.ExtOperation,
}

// Loader loads a parent recipe and every child it references.
type Loader struct {
	progress ProgressFunc
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoadProgress sets the progress callback.
func WithLoadProgress(fn ProgressFunc) LoaderOption {
	return func(l *Loader) {
		l.progress = fn
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// loadState tracks one Load call.
type loadState struct {
	ctx        context.Context
	loaded     map[string]bool
	discovered map[string]bool
	missing    map[string]int
	docs       []*recipe.Document
}

// Load reads parent and, recursively, every child file named by a
// StepRecipeID. Each file is loaded once; the parent comes first and
// children follow in discovery order. Missing children are logged as
// warnings, never returned as errors.
func (l *Loader) Load(ctx context.Context, parent string) ([]*recipe.Document, error) {
	abs, err := filepath.Abs(parent)
	if err != nil {
		return nil, errors.WrapIO("resolve", parent, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("recipe file", abs)
		}
		return nil, errors.WrapIO("stat", abs, err)
	}

	st := &loadState{
		ctx:        ctx,
		loaded:     make(map[string]bool),
		discovered: map[string]bool{abs: true},
		missing:    make(map[string]int),
	}
	if err := l.load(st, abs); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	occurrences := 0
	for _, child := range sortedMissing(st.missing) {
		count := st.missing[child]
		occurrences += count
		logger.Warn().Str("path", child).Int("count", count).Msg("Child XML not found")
	}
	logger.Info().
		Int("loaded", len(st.loaded)).
		Int("discovered", len(st.discovered)).
		Int("missing_occurrences", occurrences).
		Msg("Parsed XML graph")

	l.emit(Event{
		Type:   EventFinished,
		Loaded: len(st.loaded),
		Total:  len(st.discovered),
		Count:  occurrences,
	})
	return st.docs, nil
}

func (l *Loader) load(st *loadState, path string) error {
	if st.loaded[path] {
		return nil
	}
	if err := st.ctx.Err(); err != nil {
		return errors.WrapResource("load", "recipe", path, err)
	}
	st.discovered[path] = true

	logger := logging.FromContext(st.ctx)
	logger.Debug().Str("path", path).Msg("Parsing XML")

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	doc, err := recipe.ParseDocument(path, data)
	if err != nil {
		return err
	}
	st.loaded[path] = true
	st.docs = append(st.docs, doc)

	logger.Debug().
		Str("file", doc.Name()).
		Int("parameters", len(doc.Parameters())).
		Int("formula_values", len(doc.FormulaValues())).
		Msg("Loaded recipe")
	l.emit(Event{
		Type:          EventLoaded,
		Path:          path,
		Loaded:        len(st.loaded),
		Total:         len(st.discovered),
		Parameters:    len(doc.Parameters()),
		FormulaValues: len(doc.FormulaValues()),
	})

	childExt, ok := childExtensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil
	}

	dir := filepath.Dir(path)
	for _, id := range doc.ChildRecipes() {
		child, found := resolveChild(dir, id, childExt)
		if !found {
			st.missing[child]++
			logger.Debug().Str("parent", doc.Name()).Str("path", child).Msg("Child XML not found")
			l.emit(Event{
				Type:   EventMissingChild,
				Path:   child,
				Parent: doc.Name(),
				Count:  st.missing[child],
			})
			continue
		}
		if !st.discovered[child] && !st.loaded[child] {
			st.discovered[child] = true
			l.emit(Event{
				Type:   EventDiscovered,
				Path:   child,
				Loaded: len(st.loaded),
				Total:  len(st.discovered),
			})
		}
		if err := l.load(st, child); err != nil {
			return err
		}
	}
	return nil
}

// resolveChild looks for id with the child extension in upper then lower
// case. When neither exists it returns the upper-case candidate.
func resolveChild(dir, id, ext string) (string, bool) {
	candidates := []string{
		filepath.Join(dir, id+strings.ToUpper(ext)),
		filepath.Join(dir, id+strings.ToLower(ext)),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return candidates[0], false
}

// sortedMissing orders missing children by descending count, then path.
func sortedMissing(missing map[string]int) []string {
	paths := make([]string, 0, len(missing))
	for p := range missing {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if missing[paths[i]] != missing[paths[j]] {
			return missing[paths[i]] > missing[paths[j]]
		}
		return paths[i] < paths[j]
	})
	return paths
}

func (l *Loader) emit(e Event) {
	if l.progress != nil {
		l.progress(e)
	}
}
