package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jmodel/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [project]",
		Short: "Print the resolved classpath of a project or of every Java project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(); err != nil {
				return err
			}
			expanded, _ := cmd.Flags().GetBool("expanded")

			opts := app.ResolveOptions{Expanded: expanded}
			if len(args) == 1 {
				opts.Project = args[0]
			}
			classpaths, err := c.app.Resolve(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if c.json {
				return renderClasspathsJSON(cmd.OutOrStdout(), classpaths)
			}
			renderClasspaths(cmd.OutOrStdout(), classpaths)
			return nil
		},
	}
	cmd.Flags().BoolP("expanded", "e", false, "Include the exported entries of referenced projects")
	return cmd
}
