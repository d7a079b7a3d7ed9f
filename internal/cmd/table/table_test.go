package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bulkedit "github.com/marcelo-6/ftbatch-recipe-bulk-edit"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/reconciler"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

func TestExportToTableData(t *testing.T) {
	data := ExportToTableData(&bulkedit.ExportResult{
		Documents: []string{"Main.PXML", "UP_A.UXML"},
		Sheets:    []string{"Main.PXML", "UP_A.UXML"},
		Rows:      map[string]int{"Main.PXML": 4, "UP_A.UXML": 0},
	})
	assert.Equal(t, [][]string{{"Main.PXML", "Main.PXML", "4"}, {"UP_A.UXML", "UP_A.UXML", "0"}}, data.Rows)
	assert.Len(t, data.ColumnAlignment, len(data.Headers))
}

func TestImportToTableData(t *testing.T) {
	res := reconciler.NewResult("r1")
	res.Documents = []*reconciler.DocumentResult{{
		Name:       "Main.PXML",
		Parameters: reconciler.Counts{Created: 1, Updated: 2},
		Steps: []*reconciler.StepResult{
			{Step: "Mix/Inner", Counts: reconciler.Counts{Deleted: 1}, Deferrals: 3},
		},
	}}
	res.Finalize()

	data := ImportToTableData(&bulkedit.ImportResult{Result: res})
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{"Main.PXML", "Parameters", "1", "2", "0", ""}, data.Rows[0])
	assert.Equal(t, []string{"Main.PXML", "Step Mix/Inner", "0", "0", "1", "3"}, data.Rows[1])
	assert.Equal(t, []string{"TOTAL", "", "1", "2", "1", ""}, data.Rows[2])
}

func TestChangesetsToTableData(t *testing.T) {
	cs := differ.NewChangeset("Main.PXML")
	cs.Record(differ.ChangeTypeUpdate, differ.EntityChange{
		Path: "R/Parameter[P]",
		Kind: recipe.KindParameter,
		Changes: []differ.FieldChange{
			{Field: "Real", OldValue: "1", NewValue: "2", Type: differ.ChangeTypeUpdate},
		},
	})
	cs.Record(differ.ChangeTypeRemove, differ.EntityChange{Path: "R/Steps/Step[S]/FormulaValue[F]", Kind: recipe.KindFormulaValue})

	data := ChangesetsToTableData([]*differ.Changeset{cs})
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"Main.PXML", "update", "Parameter", "R/Parameter[P]", `Real: "1" → "2"`}, data.Rows[0])
	assert.Equal(t, "remove", data.Rows[1][1])
	assert.Equal(t, "FormulaValue", data.Rows[1][2])
}

func TestRunsToTableData(t *testing.T) {
	data := RunsToTableData([]history.Run{{
		ID:        "run-1",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local),
		Strategy:  "all",
		Documents: 2,
		Created:   1,
		OutputDir: "/out",
	}})
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{"run-1", "2026-01-02 03:04:05", "all", "2", "1", "0", "0", "/out"}, data.Rows[0])
}
