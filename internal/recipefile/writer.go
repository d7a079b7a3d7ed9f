package recipefile

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

const xmlDeclaration = `version="1.0" encoding="UTF-8"`

// Writer serializes documents into a timestamped output folder.
type Writer struct {
	progress ProgressFunc
	now      func() time.Time
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriteProgress sets the progress callback.
func WithWriteProgress(fn ProgressFunc) WriterOption {
	return func(w *Writer) {
		w.progress = fn
	}
}

// WithClock overrides the clock used to name the output folder.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a Writer.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OutputDir returns the folder Write would use. baseDir defaults to a
// converted-outputs folder next to the first document.
func (w *Writer) OutputDir(docs []*recipe.Document, baseDir string) string {
	root := baseDir
	if root == "" && len(docs) > 0 {
		root = filepath.Join(filepath.Dir(docs[0].Source()), constants.OutputDirName)
	}
	return filepath.Join(root, w.now().Format(constants.OutputTimestampLayout))
}

// Write serializes every document under the output folder using its
// original file name and returns the folder.
func (w *Writer) Write(ctx context.Context, docs []*recipe.Document, baseDir string) (string, error) {
	if len(docs) == 0 {
		return "", errors.NewValidationError("documents", nil, "nothing to write")
	}

	out := w.OutputDir(docs, baseDir)
	if err := os.MkdirAll(out, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("mkdir", out, err)
	}

	logger := logging.FromContext(ctx)
	w.emit(Event{Type: EventStart, Total: len(docs)})

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return out, errors.WrapResource("write", "recipe", doc.Name(), err)
		}
		data, err := Serialize(doc.Tree())
		if err != nil {
			return out, errors.WrapParse("xml", doc.Name(), err)
		}
		path := filepath.Join(out, doc.Name())
		if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
			return out, errors.WrapIO("write", path, err)
		}
		logger.Debug().Str("path", path).Msg("Wrote recipe")
		w.emit(Event{Type: EventFileWritten, Index: i + 1, Total: len(docs), Path: path})
	}

	logger.Info().Str("output_dir", out).Int("files", len(docs)).Msg("XML written")
	w.emit(Event{Type: EventFinished, Total: len(docs), OutputDir: out})
	return out, nil
}

// Serialize renders a tree with an XML declaration and two-space
// indentation. An existing declaration is kept.
func Serialize(tree *etree.Document) ([]byte, error) {
	ensureDeclaration(tree)
	tree.Indent(constants.XMLIndent)
	return tree.WriteToBytes()
}

func ensureDeclaration(tree *etree.Document) {
	for _, tok := range tree.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			return
		}
	}
	pi := tree.CreateProcInst("xml", xmlDeclaration)
	tree.RemoveChild(pi)
	tree.InsertChildAt(0, pi)
}

func (w *Writer) emit(e Event) {
	if w.progress != nil {
		w.progress(e)
	}
}
