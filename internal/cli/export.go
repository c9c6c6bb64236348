package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command, which writes the CSV
// snapshot to a file or stdout.
func NewExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the CSV snapshot of the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if out == "" {
				out = fmt.Sprintf("businesses_%s.csv", time.Now().Format("20060102"))
			}
			if out == "-" {
				return a.store.ExportCSV(ctx, cmd.OutOrStdout())
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer func() { _ = f.Close() }()

			if err := a.store.ExportCSV(ctx, f); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `output file (default "businesses_YYYYMMDD.csv", "-" for stdout)`)
	return cmd
}
