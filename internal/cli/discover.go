package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cookingapp/internal/discovery"
	"cookingapp/internal/user"
)

func NewDiscoverCommand(opts *RootOptions) *cobra.Command {
	var (
		city   string
		userID int64
	)
	cmd := &cobra.Command{
		Use:   "discover <ingredient>",
		Short: "Check which supermarkets of a city list an ingredient",
		Long: `Probe the supermarkets stored for a city, or its configured fallback
markets when none are stored yet, for an ingredient. Fallback markets that
list it are saved for the city.`,
		Example: `  chefctl discover --city Bangkok "fish sauce"
  chefctl discover --user 7 tamarind --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			svc, closeCache, err := discovery.NewFromConfig(s.cfg.Discovery, discovery.NewRepo(s.db), user.NewRepo(s.db), nil)
			if err != nil {
				return err
			}
			defer closeCache()

			var uid *int64
			if cmd.Flags().Changed("user") {
				uid = &userID
			}
			results, err := svc.Discover(s.ctx, uid, city, strings.Join(args, " "))
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no supermarkets known for this city")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MATCH\tSUPERMARKET\tSOURCE\tURL")
			for _, r := range results {
				mark := "-"
				if r.IngredientMatched {
					mark = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, r.SupermarketName, r.DiscoverySource, r.CatalogSearchURL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city to search in")
	cmd.Flags().Int64Var(&userID, "user", 0, "use the stored city of this user when --city is empty")
	return cmd
}
