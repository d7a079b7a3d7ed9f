package convert

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/appcontext"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/emoji"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/output"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/table"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand(app appcontext.Interface) *cobra.Command {
	var (
		flags   pathFlags
		details bool
	)

	cmd := &cobra.Command{
		Use:     "diff",
		GroupID: constants.GroupCore,
		Short:   "Show what excel2xml would change",
		Long: `diff runs the same validation and reconciliation as excel2xml without
writing anything, and lists every Parameter and FormulaValue that would be
created, updated or deleted.`,
		Example: `  ftbatch diff --xml Main.PXML --excel Main.xlsx
  ftbatch diff --xml Main.PXML --excel Main.xlsx --details`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			changes, err := client.Diff(cmd.Context(), flags.xml, flags.excel)
			if err != nil {
				reportImportError(cmd.ErrOrStderr(), err)
				return err
			}

			out := cmd.OutOrStdout()
			format := app.OutputFormat()
			if output.DetectFormat(format) != output.FormatTable {
				return output.Print(out, format, table.Data{}, changes)
			}
			if len(changes) == 0 {
				fmt.Fprintln(out, emoji.Success+" No changes detected.")
				return nil
			}
			if details {
				for _, cs := range changes {
					cs.Print(out)
					fmt.Fprintln(out)
				}
				return nil
			}
			return output.Print(out, format, table.ChangesetsToTableData(changes), changes)
		},
	}

	addPathFlags(cmd, &flags, "edited workbook (.xlsx)")
	cmd.Flags().BoolVar(&details, "details", false, "print each document's changes grouped by type")
	return cmd
}
