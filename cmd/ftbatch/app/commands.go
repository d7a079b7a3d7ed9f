package app

import (
	"github.com/spf13/cobra"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/cmd/ftbatch/cmd/convert"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/cmd/ftbatch/cmd/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/constants"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(convert.NewXML2ExcelCommand(a))
	rootCmd.AddCommand(convert.NewExcel2XMLCommand(a))
	rootCmd.AddCommand(convert.NewDiffCommand(a))

	// Management commands
	rootCmd.AddCommand(history.NewCommand(a))
	rootCmd.AddCommand(a.CreateVersionCommand())
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: constants.GroupManagement,
		Short:   "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("ftbatch %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
