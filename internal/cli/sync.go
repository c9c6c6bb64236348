package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command, which runs one headless cycle.
func NewSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			report := a.pipe.Run(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())

			// Non-zero exit for a failed cycle so cron jobs notice.
			return report.Err
		},
	}
}
