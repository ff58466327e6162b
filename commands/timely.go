package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTimelyAuthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timely-auth",
		Short: "Authorize weekclock to read your Timely events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.timelyClient()
			if err != nil {
				return err
			}

			err = c.Authorize(cmd.Context(), app.In, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("timely.Authorize: %w", err)
			}
			return nil
		},
	}
}
