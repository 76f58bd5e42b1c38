// Package commands implements the CLI commands for the prefab tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/prefab/internal/adapters/config"
	"go.trai.ch/prefab/internal/app"
	"go.trai.ch/prefab/internal/build"
)

// CLI represents the command line interface for prefab.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Show(ctx context.Context, names []string, opts app.Options, w io.Writer) error
	Types(ctx context.Context, opts app.Options, w io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "prefab",
		Short:         "Synthesise distinct example values for Go types",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Path to the prefab configuration file")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().Bool("trace", false, "Log the duration of every synthesis step")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newTypesCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func options(cmd *cobra.Command) app.Options {
	path, _ := cmd.Flags().GetString("config")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	trace, _ := cmd.Flags().GetBool("trace")
	return app.Options{
		ConfigPath: path,
		JSONLogs:   jsonLogs,
		Trace:      trace,
	}
}
