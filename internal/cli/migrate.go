package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "ok", "driver": s.db.Driver()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", s.db.Driver())
			return nil
		},
	}
}
