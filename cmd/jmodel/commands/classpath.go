package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newClasspathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classpath",
		Short: "Work with classpath files",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "fmt <project>",
		Short: "Rewrite the classpath file of a project in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(); err != nil {
				return err
			}
			changed, err := c.app.FormatClasspath(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.json {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"project": args[0], "changed": changed})
			}
			if changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "formatted %s\n", args[0])
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s already formatted\n", args[0])
			}
			return nil
		},
	})
	return cmd
}
