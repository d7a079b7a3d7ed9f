package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

func paths(entities []*recipe.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Path())
	}
	return out
}

func TestExtract(t *testing.T) {
	doc := mustParse(t, sampleXML)

	assert.Equal(t, "Main.PXML", doc.Name())
	assert.Equal(t, "/recipes/Main.PXML", doc.Source())
	assert.Equal(t, "TEST", doc.RecipeID())
	assert.Equal(t, []string{pathParam1, pathParam2}, paths(doc.Parameters()))
	assert.Equal(t, []string{pathFV1, pathFV2, pathFV3}, paths(doc.FormulaValues()))

	assert.Equal(t, "Step1", mustFind(t, doc, recipe.KindFormulaValue, pathFV1).Step())
	assert.Equal(t, "Step1/Inner", mustFind(t, doc, recipe.KindFormulaValue, pathFV3).Step())
	assert.Equal(t, "", mustFind(t, doc, recipe.KindParameter, pathParam1).Step())
	assert.Equal(t, map[string]bool{"Param1": true, "Param2": true}, doc.ParameterNames())
	assert.Equal(t, []string{"CHILD_UP"}, doc.ChildRecipes())
}

func TestExtractEdgeCases(t *testing.T) {
	t.Run("unnamed step", func(t *testing.T) {
		doc := mustParse(t, `<RecipeElement><RecipeElementID>R</RecipeElementID>
<Steps><Step><FormulaValue><Name>F</Name></FormulaValue></Step></Steps></RecipeElement>`)
		assert.Equal(t, []string{"R/Steps/Step[UnknownStep]/FormulaValue[F]"}, paths(doc.FormulaValues()))
	})

	t.Run("duplicate path", func(t *testing.T) {
		_, err := recipe.ParseDocument("dup.pxml", []byte(`<RecipeElement><RecipeElementID>R</RecipeElementID>
<Parameter><Name>P</Name><Real>1</Real></Parameter>
<Parameter><Name>P</Name><Real>2</Real></Parameter></RecipeElement>`))
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := recipe.ParseDocument("bad.pxml", []byte(`<RecipeElement>`))
		require.Error(t, err)
		var parseErr *errors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := recipe.ParseDocument("empty.pxml", []byte(`<?xml version="1.0"?>`))
		require.Error(t, err)
		var parseErr *errors.ParseError
		assert.True(t, errors.IsStructure(err) || errors.As(err, &parseErr), err.Error())
	})
}

func TestFind(t *testing.T) {
	doc := mustParse(t, sampleXML)
	assert.NotNil(t, doc.Find(recipe.KindParameter, pathParam2))
	assert.Nil(t, doc.Find(recipe.KindFormulaValue, pathParam2))
	assert.Nil(t, doc.Find(recipe.KindParameter, "TEST/Parameter[Nope]"))
}

func TestCreateParameter(t *testing.T) {
	row := recipe.NewRow(
		"TagType", "Parameter",
		"Name", "Param3",
		"FullPath", "TEST/Parameter[Param3]",
		"Real", "1.5",
		"Defer", "",
	)

	t.Run("after last parameter", func(t *testing.T) {
		doc := mustParse(t, sampleXML)
		e, err := doc.Create(recipe.KindParameter, row)
		require.NoError(t, err)

		assert.Equal(t, "TEST/Parameter[Param3]", e.Path())
		assert.Equal(t, []string{
			"RecipeElementID", "Parameter", "Parameter", "Parameter", "Steps",
		}, tags(doc.Tree().Root()))
		assert.Same(t, e.Element(), doc.Tree().Root().ChildElements()[3])
		assert.Equal(t, []string{
			"Name", "ERPAlias", "PLCReference", "Real", "High", "Low", "EngineeringUnits", "Scale",
		}, tags(e.Element()))
		assert.Equal(t, "1.5", text(e.Element(), "Real"))
		assert.Same(t, e, doc.Find(recipe.KindParameter, "TEST/Parameter[Param3]"))
	})

	t.Run("before steps when no parameters", func(t *testing.T) {
		doc := mustParse(t, `<RecipeElement><RecipeElementID>TEST</RecipeElementID><Steps/></RecipeElement>`)
		_, err := doc.Create(recipe.KindParameter, row)
		require.NoError(t, err)
		assert.Equal(t, []string{"RecipeElementID", "Parameter", "Steps"}, tags(doc.Tree().Root()))
	})

	t.Run("appended when no anchor", func(t *testing.T) {
		doc := mustParse(t, `<RecipeElement><RecipeElementID>TEST</RecipeElementID></RecipeElement>`)
		_, err := doc.Create(recipe.KindParameter, row)
		require.NoError(t, err)
		assert.Equal(t, []string{"RecipeElementID", "Parameter"}, tags(doc.Tree().Root()))
	})

	t.Run("no data type", func(t *testing.T) {
		doc := mustParse(t, sampleXML)
		_, err := doc.Create(recipe.KindParameter, recipe.NewRow(
			"TagType", "Parameter", "Name", "P9", "FullPath", "TEST/Parameter[P9]",
		))
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestCreateFormulaValue(t *testing.T) {
	t.Run("nested step", func(t *testing.T) {
		doc := mustParse(t, sampleXML)
		path := "TEST/Steps/Step[Step1]/Steps/Step[Inner]/FormulaValue[FV4]"
		e, err := doc.Create(recipe.KindFormulaValue, recipe.NewRow(
			"TagType", "FormulaValue",
			"Name", "FV4",
			"FullPath", path,
			"Defer", "Param1",
			"Real", "0",
			"FormulaValueLimit_Verification", "",
		))
		require.NoError(t, err)

		assert.Equal(t, "Step1/Inner", e.Step())
		assert.Equal(t, []string{"Name", "Display", "Defer", "Real"}, tags(e.Element()))
		assert.Equal(t, "Inner", text(e.Element().Parent(), "Name"))
		assert.Equal(t, "FormulaValue", tags(e.Element().Parent())[len(tags(e.Element().Parent()))-1])
		assert.Len(t, doc.FormulaValues(), 4)
	})

	t.Run("missing step", func(t *testing.T) {
		doc := mustParse(t, sampleXML)
		_, err := doc.Create(recipe.KindFormulaValue, recipe.NewRow(
			"TagType", "FormulaValue",
			"Name", "FV9",
			"FullPath", "TEST/Steps/Step[Nope]/FormulaValue[FV9]",
			"Integer", "1",
		))
		require.Error(t, err)
		assert.True(t, errors.IsStructure(err))

		var structErr *errors.StructureError
		require.ErrorAs(t, err, &structErr)
		assert.Equal(t, "Nope", structErr.Step)
		assert.Len(t, doc.FormulaValues(), 3)
	})

	t.Run("malformed path", func(t *testing.T) {
		doc := mustParse(t, sampleXML)
		_, err := doc.Create(recipe.KindFormulaValue, recipe.NewRow(
			"FullPath", "TEST/FormulaValue[FV9]", "Integer", "1",
		))
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestDelete(t *testing.T) {
	doc := mustParse(t, sampleXML)
	e := mustFind(t, doc, recipe.KindParameter, pathParam2)

	require.NoError(t, doc.Delete(e))
	assert.Nil(t, doc.Find(recipe.KindParameter, pathParam2))
	assert.Equal(t, []string{pathParam1}, paths(doc.Parameters()))
	assert.Equal(t, []string{"RecipeElementID", "Parameter", "Steps"}, tags(doc.Tree().Root()))

	err := doc.Delete(e)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	fv := mustFind(t, doc, recipe.KindFormulaValue, pathFV3)
	require.NoError(t, doc.Delete(fv))
	assert.Equal(t, []string{pathFV1, pathFV2}, paths(doc.FormulaValues()))
}

func TestClone(t *testing.T) {
	doc := mustParse(t, sampleXML)
	before := serialize(t, doc)

	clone, err := doc.Clone()
	require.NoError(t, err)
	require.NoError(t, clone.Delete(mustFind(t, clone, recipe.KindParameter, pathParam1)))

	assert.Equal(t, before, serialize(t, doc))
	assert.Len(t, doc.Parameters(), 2)
	assert.Len(t, clone.Parameters(), 1)
}

func TestRows(t *testing.T) {
	doc := mustParse(t, sampleXML)
	rows := doc.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "Parameter", rows[0].TagType())
	assert.Equal(t, "FormulaValue", rows[4].TagType())
	assert.Equal(t, pathFV3, rows[4].FullPath())

	header := recipe.Header(rows)
	assert.Equal(t, "TagType", header[0])
	assert.Equal(t, "FormulaValueLimit_HighHighHighValue", header[17])
	assert.Equal(t, []string{
		"Display", "ERPAlias", "EngineeringUnits", "PLCReference", "ParamExpression", "Scale", "Value",
	}, header[18:])
}

func TestPathKind(t *testing.T) {
	tests := []struct {
		path string
		kind recipe.Kind
		ok   bool
	}{
		{"R/Parameter[P]", recipe.KindParameter, true},
		{"R/Parameter[a/b]", recipe.KindParameter, true},
		{"R/Steps/Step[S]/FormulaValue[F]", recipe.KindFormulaValue, true},
		{"R/Steps/Step[S]/Steps/Step[T]/FormulaValue[F]", recipe.KindFormulaValue, true},
		{"R/FormulaValue[F]", recipe.KindFormulaValue, false},
		{"R/Steps/Parameter[P]", recipe.KindParameter, false},
		{"R/Step[S]/Steps/FormulaValue[F]", recipe.KindFormulaValue, false},
		{"Parameter[P]", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := recipe.PathKind(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := recipe.ParseKind("Parameter")
	require.NoError(t, err)
	assert.Equal(t, recipe.KindParameter, k)

	k, err = recipe.ParseKind("FormulaValue")
	require.NoError(t, err)
	assert.Equal(t, recipe.KindFormulaValue, k)
	assert.Equal(t, "FormulaValue", k.String())

	_, err = recipe.ParseKind("Widget")
	assert.True(t, errors.IsValidationError(err))
}
