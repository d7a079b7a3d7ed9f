package convert

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	bulkedit "github.com/marcelo-6/ftbatch-recipe-bulk-edit"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/appcontext"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/emoji"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/output"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/table"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	pkgerrors "github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// importFlags holds the excel2xml flags.
type importFlags struct {
	pathFlags
	outDir   string
	strategy string
	dryRun   bool
}

// NewExcel2XMLCommand creates the excel2xml command.
func NewExcel2XMLCommand(app appcontext.Interface) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:     "excel2xml",
		GroupID: constants.GroupCore,
		Short:   "Apply an edited workbook to the recipe files",
		Long: `excel2xml reconciles each sheet of the workbook onto the recipe file of
the same name:

• Rows whose FullPath exists update that Parameter or FormulaValue
• Rows with a new FullPath create one
• Entities with no row are deleted

Every row is validated first. If any row is invalid, the errors are listed
and nothing is written. Otherwise every recipe file is written to a new
timestamped folder; the source files are never modified.`,
		Example: `  ftbatch excel2xml --xml Main.PXML --excel Main.xlsx
  ftbatch excel2xml --xml Main.PXML --excel Main.xlsx --dry-run
  ftbatch excel2xml --xml Main.PXML --excel Main.xlsx --strategy additive
  ftbatch excel2xml --xml Main.PXML --excel Main.xlsx --out-dir ./converted`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd, app, flags)
		},
	}

	addPathFlags(cmd, &flags.pathFlags, "edited workbook (.xlsx)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "base folder for written recipes (default: converted-outputs next to --xml)")
	cmd.Flags().StringVar(&flags.strategy, "strategy", "", "changes to apply: "+strategyNames())
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report changes without writing files")
	return cmd
}

func runImport(cmd *cobra.Command, app appcontext.Interface, flags importFlags) error {
	client, err := app.Client()
	if err != nil {
		return err
	}

	opts := []bulkedit.ImportOption{bulkedit.ImportWithDryRun(flags.dryRun)}
	if flags.strategy != "" {
		opts = append(opts, bulkedit.ImportWithStrategy(flags.strategy))
	}
	if flags.outDir != "" {
		opts = append(opts, bulkedit.ImportWithOutputDir(flags.outDir))
	}

	res, err := client.Import(cmd.Context(), flags.xml, flags.excel, opts...)
	if err != nil {
		reportImportError(cmd.ErrOrStderr(), err)
		return err
	}

	out := cmd.OutOrStdout()
	if err := output.Print(out, app.OutputFormat(), table.ImportToTableData(res), res); err != nil {
		return err
	}
	if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
		printSummary(out, res)
	}
	return nil
}

// reportImportError lists every invalid row of a rejected workbook.
func reportImportError(w io.Writer, err error) {
	var importErr *pkgerrors.ImportError
	if !errors.As(err, &importErr) {
		return
	}
	fmt.Fprintf(w, "%s %d invalid row(s), nothing was written:\n", emoji.Error, len(importErr.Errors))
	fmt.Fprintln(w, importErr.Details())
}

func printSummary(w io.Writer, res *bulkedit.ImportResult) {
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "%s  %s\n", emoji.Warning, warning)
	}
	fmt.Fprintln(w, res.Summary())
	if res.OutputDir != "" {
		fmt.Fprintf(w, "%s Output: %s\n", emoji.Output, res.OutputDir)
	}
}

func strategyNames() string {
	names := make([]string, len(differ.Strategies))
	for i, s := range differ.Strategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
