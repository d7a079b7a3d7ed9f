package reconciler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

const recipeXML = `<?xml version="1.0" encoding="UTF-8"?>
<RecipeElement>
  <RecipeElementID>TEST</RecipeElementID>
  <Parameter>
    <Name>Param1</Name>
    <ERPAlias/>
    <PLCReference>1</PLCReference>
    <Real>0</Real>
    <High>100</High>
    <Low>0</Low>
    <EngineeringUnits/>
    <Scale>false</Scale>
  </Parameter>
  <Parameter>
    <Name>Param2</Name>
    <ERPAlias/>
    <PLCReference>1</PLCReference>
    <Integer>5</Integer>
    <High>10</High>
    <Low>1</Low>
    <EngineeringUnits/>
    <Scale>false</Scale>
  </Parameter>
  <Steps>
    <Step>
      <Name>Step1</Name>
      <FormulaValue>
        <Name>FV1</Name>
        <Display>false</Display>
        <Value/>
        <Integer>2</Integer>
        <EngineeringUnits/>
        <FormulaValueLimit Verification="No_Limits">
          <LowLowLowValue>0.</LowLowLowValue>
          <LowLowValue>0.</LowLowValue>
          <LowValue>0.</LowValue>
          <HighValue>0.</HighValue>
          <HighHighValue>0.</HighHighValue>
          <HighHighHighValue>0.</HighHighHighValue>
        </FormulaValueLimit>
      </FormulaValue>
      <FormulaValue>
        <Name>FV2</Name>
        <Display>false</Display>
        <Defer>Param1</Defer>
        <Real>0</Real>
        <EngineeringUnits/>
      </FormulaValue>
      <Steps>
        <Step>
          <Name>Inner</Name>
          <FormulaValue>
            <Name>FV3</Name>
            <Display>true</Display>
            <Value/>
            <String>abc</String>
          </FormulaValue>
        </Step>
      </Steps>
    </Step>
  </Steps>
</RecipeElement>
`

const (
	pathParam1 = "TEST/Parameter[Param1]"
	pathParam2 = "TEST/Parameter[Param2]"
	pathParam3 = "TEST/Parameter[Param3]"
	pathFV1    = "TEST/Steps/Step[Step1]/FormulaValue[FV1]"
	pathFV2    = "TEST/Steps/Step[Step1]/FormulaValue[FV2]"
	pathFV3    = "TEST/Steps/Step[Step1]/Steps/Step[Inner]/FormulaValue[FV3]"
)

func parse(t *testing.T) *recipe.Document {
	t.Helper()
	doc, err := recipe.ParseDocument("/plant/Main.PXML", []byte(recipeXML))
	require.NoError(t, err)
	return doc
}

// exportSheet projects a document the way the workbook exporter does,
// numbering rows from 2 below the header.
func exportSheet(doc *recipe.Document) recipe.Sheet {
	rows := doc.Rows()
	for i, r := range rows {
		r.Line = i + 2
	}
	return recipe.Sheet{Name: doc.Name(), Header: recipe.Header(rows), Rows: rows}
}

func rowFor(t *testing.T, sheet recipe.Sheet, path string) *recipe.Row {
	t.Helper()
	for _, r := range sheet.Rows {
		if r.FullPath() == path {
			return r
		}
	}
	t.Fatalf("no row for %s", path)
	return nil
}

func withoutRow(sheet recipe.Sheet, path string) recipe.Sheet {
	out := sheet
	out.Rows = nil
	for _, r := range sheet.Rows {
		if r.FullPath() != path {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func serialize(t *testing.T, doc *recipe.Document) string {
	t.Helper()
	s, err := doc.Tree().WriteToString()
	require.NoError(t, err)
	return s
}

func testContext(t *testing.T) (context.Context, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger(t)
	return logging.WithLogger(context.Background(), tl.Logger), tl
}
