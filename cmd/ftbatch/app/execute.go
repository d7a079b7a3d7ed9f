package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/output"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
)

// Execute runs the ftbatch CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ftbatch",
		Short:   "Bulk edit FactoryTalk Batch recipes through Excel",
		Version: a.version,
		Long: `ftbatch exports a FactoryTalk Batch recipe and every child recipe it
references to an Excel workbook, and applies the edited workbook back onto
the recipe files.

Parameters and FormulaValues are addressed by their FullPath, so rows can
be edited, added or removed in the workbook.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: constants.GroupCore, Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: constants.GroupManagement, Title: "Management Commands:"})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.ftbatch.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("ftbatch {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	// An explicit config file is read after flag parsing
	if file := mustGetString(cmd, "config"); cmd.Flags().Changed("config") {
		cfg, err := LoadConfig(file)
		if err != nil {
			return err
		}
		a.config = cfg
	}
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
