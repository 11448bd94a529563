package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/jmodel/internal/core/domain"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project]",
		Short: "Check the classpath of a project or of every Java project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(); err != nil {
				return err
			}
			var project string
			if len(args) == 1 {
				project = args[0]
			}

			statuses, err := c.app.Validate(cmd.Context(), project)
			if err != nil && !errors.Is(err, domain.ErrValidationFailed) {
				return err
			}
			if c.json {
				if jsonErr := renderStatusesJSON(cmd.OutOrStdout(), statuses); jsonErr != nil {
					return jsonErr
				}
				return err
			}
			renderStatuses(cmd.OutOrStdout(), statuses)
			return err
		},
	}
}
