// Package history provides the history command.
package history

import (
	"github.com/spf13/cobra"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/appcontext"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/output"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/table"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// NewCommand creates the history command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		GroupID: constants.GroupManagement,
		Short:   "List applied imports",
		Long: `history lists the excel2xml runs recorded in the history store, newest
first. Recording is enabled with history_enabled (FTBATCH_HISTORY_ENABLED);
history_dsn selects the store: a SQLite path (default ~/.ftbatch/history.db)
or a postgres:// URL.`,
		Example: `  ftbatch history
  ftbatch history --limit 5 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return errors.NewValidationError("limit", limit, "must not be negative")
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			runs, err := client.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), app.OutputFormat(), table.RunsToTableData(runs), runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 for all)")
	return cmd
}
