package differ_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

const recipeXML = `<?xml version="1.0" encoding="UTF-8"?>
<RecipeElement>
  <RecipeElementID>R1</RecipeElementID>
  <Parameter>
    <Name>Speed</Name>
    <ERPAlias/>
    <PLCReference>1</PLCReference>
    <Real>10</Real>
    <High>100</High>
    <Low>0</Low>
    <EngineeringUnits>rpm</EngineeringUnits>
    <Scale>false</Scale>
  </Parameter>
  <Parameter>
    <Name>Count</Name>
    <ERPAlias/>
    <PLCReference>1</PLCReference>
    <Integer>3</Integer>
    <High>10</High>
    <Low>1</Low>
    <EngineeringUnits/>
    <Scale>false</Scale>
  </Parameter>
  <Steps>
    <Step>
      <Name>Mix</Name>
      <FormulaValue>
        <Name>Duration</Name>
        <Display>false</Display>
        <Value/>
        <Integer>5</Integer>
        <EngineeringUnits/>
      </FormulaValue>
    </Step>
  </Steps>
</RecipeElement>
`

const (
	pathSpeed    = "R1/Parameter[Speed]"
	pathCount    = "R1/Parameter[Count]"
	pathDuration = "R1/Steps/Step[Mix]/FormulaValue[Duration]"
)

func parse(t *testing.T) *recipe.Document {
	t.Helper()
	doc, err := recipe.ParseDocument("/batch/Main.PXML", []byte(recipeXML))
	require.NoError(t, err)
	return doc
}

func clone(t *testing.T, doc *recipe.Document) *recipe.Document {
	t.Helper()
	c, err := doc.Clone()
	require.NoError(t, err)
	return c
}
