package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Relay domain events",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Publish pending outbox events to Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Events == nil {
				return fmt.Errorf("event relay is not configured: set STRATA_REDIS_URL")
			}
			n, err := app.Events.Flush(cmd.Context())
			if err != nil {
				return fmt.Errorf("flushing events (%d published before failure): %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d event(s).\n", n)
			return nil
		},
	})
	return cmd
}
