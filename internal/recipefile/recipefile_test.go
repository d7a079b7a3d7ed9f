package recipefile_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/recipefile"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// recipeXML builds a recipe with one Parameter and one step per child id.
func recipeXML(id string, children ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<RecipeElement><RecipeElementID>%s</RecipeElementID><Parameter><Name>P</Name><Real>1</Real></Parameter><Steps>`, id)
	for i, c := range children {
		fmt.Fprintf(&b, `<Step><Name>S%d</Name><StepRecipeID>%s</StepRecipeID></Step>`, i, c)
	}
	b.WriteString(`</Steps></RecipeElement>`)
	return b.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fixture lays out a procedure with two unit procedures sharing one
// operation, plus one reference to a file that does not exist.
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Main.PXML", recipeXML("MAIN", "UP_A", "UP_B", "UP_MISSING"))
	writeFile(t, dir, "UP_A.UXML", recipeXML("UP_A", "OP_1", "OP_GONE"))
	writeFile(t, dir, "UP_B.uxml", recipeXML("UP_B", "OP_1", "OP_GONE"))
	writeFile(t, dir, "OP_1.OXML", recipeXML("OP_1", "IGNORED"))
	return filepath.Join(dir, "Main.PXML")
}

func names(docs []*recipe.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name()
	}
	return out
}

func TestLoaderRecursiveDiscovery(t *testing.T) {
	parent := fixture(t)
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	var events []recipefile.Event
	loader := recipefile.NewLoader(recipefile.WithLoadProgress(func(e recipefile.Event) {
		events = append(events, e)
	}))

	docs, err := loader.Load(ctx, parent)
	require.NoError(t, err)

	assert.Equal(t, []string{"Main.PXML", "UP_A.UXML", "OP_1.OXML", "UP_B.uxml"}, names(docs))
	assert.Equal(t, "MAIN", docs[0].RecipeID())

	var missing []recipefile.Event
	for _, e := range events {
		if e.Type == recipefile.EventMissingChild {
			missing = append(missing, e)
		}
	}
	require.Len(t, missing, 3)
	assert.Equal(t, "UP_A.UXML", missing[0].Parent)
	assert.True(t, strings.HasSuffix(missing[0].Path, "OP_GONE.OXML"))
	assert.Equal(t, 1, missing[0].Count)
	assert.Equal(t, "UP_B.uxml", missing[1].Parent)
	assert.Equal(t, 2, missing[1].Count, "a second reference to the same file counts again")
	assert.Equal(t, "Main.PXML", missing[2].Parent)
	assert.True(t, strings.HasSuffix(missing[2].Path, "UP_MISSING.UXML"))

	last := events[len(events)-1]
	assert.Equal(t, recipefile.EventFinished, last.Type)
	assert.Equal(t, 4, last.Loaded)
	assert.Equal(t, 3, last.Count)

	tl.AssertContains(t, "Child XML not found")
	tl.AssertContains(t, "Parsed XML graph")
}

func TestLoaderOperationsHaveNoChildren(t *testing.T) {
	dir := t.TempDir()
	op := writeFile(t, dir, "OP.OXML", recipeXML("OP", "SOMETHING"))

	var missing int
	loader := recipefile.NewLoader(recipefile.WithLoadProgress(func(e recipefile.Event) {
		if e.Type == recipefile.EventMissingChild {
			missing++
		}
	}))
	docs, err := loader.Load(context.Background(), op)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Zero(t, missing)
}

func TestLoaderErrors(t *testing.T) {
	t.Run("missing parent", func(t *testing.T) {
		_, err := recipefile.NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.pxml"))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("malformed xml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "Bad.PXML", "<RecipeElement id=></RecipeElement>")
		_, err := recipefile.NewLoader().Load(context.Background(), path)
		var parseErr *errors.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := recipefile.NewLoader().Load(ctx, fixture(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriter(t *testing.T) {
	docs, err := recipefile.NewLoader().Load(context.Background(), fixture(t))
	require.NoError(t, err)

	stamp := time.Date(2026, 3, 4, 9, 7, 0, 0, time.UTC)
	var events []recipefile.EventType
	w := recipefile.NewWriter(
		recipefile.WithClock(func() time.Time { return stamp }),
		recipefile.WithWriteProgress(func(e recipefile.Event) { events = append(events, e.Type) }),
	)

	out, err := w.Write(context.Background(), docs, "")
	require.NoError(t, err)

	wantDir := filepath.Join(filepath.Dir(docs[0].Source()), "converted-outputs", "2026-03-04-0907")
	assert.Equal(t, wantDir, out)
	assert.Equal(t, []recipefile.EventType{
		recipefile.EventStart,
		recipefile.EventFileWritten, recipefile.EventFileWritten,
		recipefile.EventFileWritten, recipefile.EventFileWritten,
		recipefile.EventFinished,
	}, events)

	data, err := os.ReadFile(filepath.Join(out, "Main.PXML"))
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, "\n  <RecipeElementID>MAIN</RecipeElementID>")
	assert.Contains(t, text, "\n    <Name>P</Name>")
	assert.Equal(t, 1, strings.Count(text, "<?xml"))

	reread, err := recipe.ParseDocument("Main.PXML", data)
	require.NoError(t, err)
	assert.Len(t, reread.Parameters(), 1)

	_, err = os.Stat(filepath.Join(out, "UP_B.uxml"))
	assert.NoError(t, err, "file names are kept")
}

func TestWriterBaseDirAndDeclaration(t *testing.T) {
	doc, err := recipe.ParseDocument("/nowhere/Bare.PXML", []byte(`<RecipeElement><RecipeElementID>B</RecipeElementID></RecipeElement>`))
	require.NoError(t, err)

	base := t.TempDir()
	w := recipefile.NewWriter(recipefile.WithClock(func() time.Time {
		return time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	}))
	out, err := w.Write(context.Background(), []*recipe.Document{doc}, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2026-01-02-1504"), out)

	data, err := os.ReadFile(filepath.Join(out, "Bare.PXML"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`))

	_, err = w.Write(context.Background(), nil, base)
	assert.True(t, errors.IsValidationError(err))
}
