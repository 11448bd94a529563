// Package commands implements the CLI commands for jmodel.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/jmodel/internal/app"
	"go.trai.ch/jmodel/internal/build"
	"go.trai.ch/jmodel/internal/core/ports"
)

// CLI represents the command line interface for jmodel.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	workspace string
	json      bool
	trace     bool
	shutdown  func(context.Context) error
}

// Application represents the application logic interface.
type Application interface {
	Open(dir string) error
	EnableTracing() func(context.Context) error
	SetJSONLogs(enable bool)
	Resolve(ctx context.Context, opts app.ResolveOptions) ([]app.ProjectClasspath, error)
	Validate(ctx context.Context, project string) ([]app.ProjectStatus, error)
	FormatClasspath(ctx context.Context, project string) (bool, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
	Watch(ctx context.Context, listener ports.DeltaListener) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "jmodel",
		Short:         "Resolve and watch the classpaths of a Java workspace",
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

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.workspace, "workspace", "w", ".", "Directory inside the workspace")
	flags.BoolVar(&c.json, "json", false, "Print results and logs as JSON")
	flags.BoolVar(&c.trace, "trace", false, "Report slow and failed operations")

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newValidateCmd())
	rootCmd.AddCommand(c.newClasspathCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.shutdown != nil {
		_ = c.shutdown(context.WithoutCancel(ctx))
		c.shutdown = nil
	}
	return err
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

// open applies the global flags and opens the workspace. Commands working on
// the workspace call it first.
func (c *CLI) open() error {
	c.app.SetJSONLogs(c.json)
	if c.trace && c.shutdown == nil {
		c.shutdown = c.app.EnableTracing()
	}
	return c.app.Open(c.workspace)
}
