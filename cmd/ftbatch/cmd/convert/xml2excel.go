// Package convert provides the xml2excel, excel2xml and diff commands.
package convert

import (
	"github.com/spf13/cobra"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/appcontext"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/output"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/table"
)

// pathFlags are the input files every conversion command takes.
type pathFlags struct {
	xml   string
	excel string
}

func addPathFlags(cmd *cobra.Command, f *pathFlags, excelUsage string) {
	cmd.Flags().StringVar(&f.xml, "xml", "", "parent recipe file (.pxml, .uxml or .oxml)")
	cmd.Flags().StringVar(&f.excel, "excel", "", excelUsage)
	_ = cmd.MarkFlagRequired("xml")
	_ = cmd.MarkFlagRequired("excel")
}

// NewXML2ExcelCommand creates the xml2excel command.
func NewXML2ExcelCommand(app appcontext.Interface) *cobra.Command {
	var flags pathFlags

	cmd := &cobra.Command{
		Use:     "xml2excel",
		GroupID: constants.GroupCore,
		Short:   "Export a recipe tree to an Excel workbook",
		Long: `xml2excel loads the parent recipe and every child recipe it references
through StepRecipeID (.pxml → .uxml → .oxml), then writes one sheet per
recipe file. Each row is a Parameter or FormulaValue.

Edit the workbook and apply it with excel2xml.`,
		Example: `  ftbatch xml2excel --xml Main.PXML --excel Main.xlsx
  ftbatch xml2excel --xml Main.PXML --excel Main.xlsx -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			res, err := client.Export(cmd.Context(), flags.xml, flags.excel)
			if err != nil {
				return err
			}
			if err := output.Print(cmd.OutOrStdout(), app.OutputFormat(), table.ExportToTableData(res), res); err != nil {
				return err
			}
			app.Logger().Info().Str("path", flags.excel).Int("sheets", len(res.Sheets)).Msg("Export complete")
			return nil
		},
	}

	addPathFlags(cmd, &flags, "workbook to write (.xlsx)")
	return cmd
}
