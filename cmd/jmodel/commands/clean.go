package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jmodel/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the index manifest of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.open(); err != nil {
				return err
			}
			return c.app.Clean(cmd.Context(), app.CleanOptions{Index: true})
		},
	}
}
