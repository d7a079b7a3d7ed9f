package recipe_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<RecipeElement xmlns="urn:Rockwell/MasterRecipe">
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
      <StepRecipeID>CHILD_UP</StepRecipeID>
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
            <ParamExpression>x</ParamExpression>
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
	pathFV1    = "TEST/Steps/Step[Step1]/FormulaValue[FV1]"
	pathFV2    = "TEST/Steps/Step[Step1]/FormulaValue[FV2]"
	pathFV3    = "TEST/Steps/Step[Step1]/Steps/Step[Inner]/FormulaValue[FV3]"
)

func mustParse(t *testing.T, xml string) *recipe.Document {
	t.Helper()
	doc, err := recipe.ParseDocument("/recipes/Main.PXML", []byte(xml))
	require.NoError(t, err)
	return doc
}

func mustFind(t *testing.T, doc *recipe.Document, kind recipe.Kind, path string) *recipe.Entity {
	t.Helper()
	e := doc.Find(kind, path)
	require.NotNil(t, e, "entity %s not found", path)
	return e
}

func tags(el *etree.Element) []string {
	var out []string
	for _, c := range el.ChildElements() {
		out = append(out, c.Tag)
	}
	return out
}

func text(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return c.Text()
	}
	return "<missing>"
}

func serialize(t *testing.T, doc *recipe.Document) string {
	t.Helper()
	s, err := doc.Tree().WriteToString()
	require.NoError(t, err)
	return s
}
