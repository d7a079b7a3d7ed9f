package bulkedit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/recipefile"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
)

const mainXML = `<?xml version="1.0" encoding="UTF-8"?>
<RecipeElement>
  <RecipeElementID>MAIN</RecipeElementID>
  <Parameter><Name>Speed</Name><ERPAlias/><PLCReference>1</PLCReference><Real>12.5</Real><High>100</High><Low>0</Low><EngineeringUnits>rpm</EngineeringUnits><Scale>false</Scale></Parameter>
  <Steps>
    <Step>
      <Name>Mix</Name>
      <StepRecipeID>UP_MIX</StepRecipeID>
      <FormulaValue><Name>Time</Name><Display>false</Display><Defer>Speed</Defer><Real>0</Real><EngineeringUnits/></FormulaValue>
    </Step>
  </Steps>
</RecipeElement>
`

const mixXML = `<?xml version="1.0" encoding="UTF-8"?>
<RecipeElement>
  <RecipeElementID>UP_MIX</RecipeElementID>
  <Parameter><Name>Mode</Name><ERPAlias/><PLCReference>1</PLCReference><String>auto</String><EngineeringUnits/></Parameter>
  <Parameter><Name>Temp</Name><ERPAlias/><PLCReference>1</PLCReference><Integer>40</Integer><High>90</High><Low>10</Low><EngineeringUnits>C</EngineeringUnits><Scale>false</Scale></Parameter>
</RecipeElement>
`

const (
	pathSpeed = "MAIN/Parameter[Speed]"
	pathTemp  = "UP_MIX/Parameter[Temp]"
)

var fixedNow = time.Date(2026, 3, 4, 9, 7, 0, 0, time.UTC)

type fixture struct {
	dir      string
	parent   string
	workbook string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.PXML"), []byte(mainXML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "UP_MIX.UXML"), []byte(mixXML), 0o644))
	return fixture{
		dir:      dir,
		parent:   filepath.Join(dir, "Main.PXML"),
		workbook: filepath.Join(dir, "Main.xlsx"),
	}
}

func testContext(t *testing.T) (context.Context, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger(t)
	return logging.WithLogger(context.Background(), tl.Logger), tl
}

func newClient(t *testing.T, opts ...Option) *client {
	t.Helper()
	c, err := New(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c.(*client)
}

// editCell sets column of the row whose FullPath is path.
func editCell(t *testing.T, book, sheet, path, column, value string) {
	t.Helper()
	f, err := excelize.OpenFile(book)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	col := -1
	for i, h := range rows[0] {
		if h == column {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0, "no column %s", column)

	for i, r := range rows {
		if len(r) > 2 && r[2] == path {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
			require.NoError(t, f.Save())
			return
		}
	}
	t.Fatalf("no row for %s in %s", path, sheet)
}

// removeRow deletes the row whose FullPath is path.
func removeRow(t *testing.T, book, sheet, path string) {
	t.Helper()
	f, err := excelize.OpenFile(book)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	for i, r := range rows {
		if len(r) > 2 && r[2] == path {
			require.NoError(t, f.RemoveRow(sheet, i+1))
			require.NoError(t, f.Save())
			return
		}
	}
	t.Fatalf("no row for %s in %s", path, sheet)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExport(t *testing.T) {
	fx := newFixture(t)
	ctx, _ := testContext(t)
	c := newClient(t)

	res, err := c.Export(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)

	assert.Equal(t, []string{"Main.PXML", "UP_MIX.UXML"}, res.Documents)
	assert.Equal(t, []string{"Main.PXML", "UP_MIX.UXML"}, res.Sheets)
	assert.Equal(t, 2, res.Rows["Main.PXML"])
	assert.Equal(t, 2, res.Rows["UP_MIX.UXML"])
	assert.FileExists(t, fx.workbook)
}

func TestExportMissingParent(t *testing.T) {
	ctx, _ := testContext(t)
	c := newClient(t)

	_, err := c.Export(ctx, filepath.Join(t.TempDir(), "Nope.PXML"), "out.xlsx")
	assert.True(t, errors.IsNotFound(err))
}

func TestImportWithoutEditsWritesEveryDocument(t *testing.T) {
	fx := newFixture(t)
	ctx, _ := testContext(t)

	var events []recipefile.EventType
	c := newClient(t, WithProgress(func(e recipefile.Event) { events = append(events, e.Type) }))

	_, err := c.Export(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)

	res, err := c.Import(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)

	assert.False(t, res.HasChanges())
	assert.Equal(t, "Reconciliation completed. No changes detected.", res.Summary())

	want := filepath.Join(fx.dir, constants.OutputDirName, fixedNow.Format(constants.OutputTimestampLayout))
	assert.Equal(t, want, res.OutputDir)
	assert.FileExists(t, filepath.Join(want, "Main.PXML"))
	assert.FileExists(t, filepath.Join(want, "UP_MIX.UXML"))
	assert.Contains(t, events, recipefile.EventFileWritten)
	assert.Contains(t, events, recipefile.EventLoaded)
}

func TestImportAppliesEdits(t *testing.T) {
	fx := newFixture(t)
	ctx, tl := testContext(t)
	store := history.NewMemory()
	c := newClient(t, WithHistory(store), WithOutputDir(filepath.Join(fx.dir, "out")))

	var updated, deleted []string
	c.OnEntityUpdated(func(doc string, change differ.EntityChange) { updated = append(updated, doc+":"+change.Path) })
	c.OnEntityDeleted(func(doc string, change differ.EntityChange) { deleted = append(deleted, doc+":"+change.Path) })

	_, err := c.Export(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)
	editCell(t, fx.workbook, "Main.PXML", pathSpeed, "Real", "20")
	removeRow(t, fx.workbook, "UP_MIX.UXML", pathTemp)

	res, err := c.Import(ctx, fx.parent, fx.workbook, ImportWithRunID("run-1"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Totals.Updated)
	assert.Equal(t, 1, res.Totals.Deleted)
	assert.Equal(t, 0, res.Totals.Created)
	assert.Equal(t, []string{"Main.PXML:" + pathSpeed}, updated)
	assert.Equal(t, []string{"UP_MIX.UXML:" + pathTemp}, deleted)

	main := readFile(t, filepath.Join(res.OutputDir, "Main.PXML"))
	assert.Contains(t, main, "<Real>20</Real>")
	mix := readFile(t, filepath.Join(res.OutputDir, "UP_MIX.UXML"))
	assert.NotContains(t, mix, "<Name>Temp</Name>")
	assert.Contains(t, mix, "<Name>Mode</Name>")

	assert.Contains(t, readFile(t, fx.parent), "<Real>12.5</Real>", "source files are never overwritten")

	runs, err := c.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, res.OutputDir, runs[0].OutputDir)
	assert.Equal(t, fx.parent, runs[0].Source)
	assert.Equal(t, "all", runs[0].Strategy)
	assert.Equal(t, 2, runs[0].Documents)
	assert.Equal(t, 1, runs[0].Updated)
	assert.Equal(t, 1, runs[0].Deleted)

	tl.AssertContains(t, `"run_id":"run-1"`)
	tl.AssertContains(t, `"operation":"excel2xml"`)
}

func TestImportDryRun(t *testing.T) {
	fx := newFixture(t)
	ctx, _ := testContext(t)
	c := newClient(t, WithHistoryDSN(history.MemoryDSN))

	_, err := c.Export(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)
	editCell(t, fx.workbook, "Main.PXML", pathSpeed, "Real", "20")

	res, err := c.Import(ctx, fx.parent, fx.workbook, ImportWithDryRun(true))
	require.NoError(t, err)

	assert.Equal(t, "Dry run completed. Created=0 Updated=1 Deleted=0", res.Summary())
	assert.Empty(t, res.OutputDir)
	assert.NoDirExists(t, filepath.Join(fx.dir, constants.OutputDirName))

	runs, err := c.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs, "dry runs are not recorded")
}

func TestImportValidationFailureWritesNothing(t *testing.T) {
	fx := newFixture(t)
	ctx, _ := testContext(t)
	c := newClient(t)

	_, err := c.Export(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)
	editCell(t, fx.workbook, "Main.PXML", pathSpeed, "Integer", "7")

	res, err := c.Import(ctx, fx.parent, fx.workbook)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsTypeConflict(err))
	assert.NoDirExists(t, filepath.Join(fx.dir, constants.OutputDirName))
}

func TestImportStrategy(t *testing.T) {
	fx := newFixture(t)
	ctx, _ := testContext(t)
	c := newClient(t, WithStrategy("additive"))

	_, err := c.Export(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)
	removeRow(t, fx.workbook, "UP_MIX.UXML", pathTemp)

	res, err := c.Import(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Totals.Deleted)
	assert.Contains(t, readFile(t, filepath.Join(res.OutputDir, "UP_MIX.UXML")), "<Name>Temp</Name>")

	res, err = c.Import(ctx, fx.parent, fx.workbook, ImportWithStrategy("all"), ImportWithDryRun(true))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Totals.Deleted, "per-call strategy overrides the client default")
}

func TestDiff(t *testing.T) {
	fx := newFixture(t)
	ctx, _ := testContext(t)
	c := newClient(t)

	_, err := c.Export(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)

	changes, err := c.Diff(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)
	assert.Empty(t, changes)

	editCell(t, fx.workbook, "Main.PXML", pathSpeed, "Real", "20")
	changes, err = c.Diff(ctx, fx.parent, fx.workbook)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "Main.PXML", changes[0].Document)
	require.Len(t, changes[0].Parameters.Updated, 1)

	fc := changes[0].Parameters.Updated[0].Changes
	require.Len(t, fc, 1)
	assert.Equal(t, "Real", fc[0].Field)
	assert.Equal(t, "12.5", fc[0].OldValue)
	assert.Equal(t, "20", fc[0].NewValue)

	assert.NoDirExists(t, filepath.Join(fx.dir, constants.OutputDirName))
}

func TestOptionErrors(t *testing.T) {
	_, err := New(WithStrategy("bogus"))
	assert.Error(t, err)

	_, err = New(WithHistory(nil))
	assert.Error(t, err)

	_, err = New(WithClock(nil))
	assert.Error(t, err)

	c := newClient(t)
	_, err = c.Import(context.Background(), "x", "y", ImportWithRunID(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = c.Import(context.Background(), "x", "y", ImportWithStrategy("sometimes"))
	assert.Error(t, err)
}

func TestHistoryDisabled(t *testing.T) {
	c := newClient(t)
	runs, err := c.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, c.Close())
}
