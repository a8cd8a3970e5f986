package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cookingapp/internal/discovery"
	"cookingapp/pkg/models"
)

var marketColumns = []string{"city", "supermarket_name", "official_website", "catalog_search_url", "notes"}

func NewImportMarketsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-markets <file.csv>",
		Short: "Seed supermarkets from a CSV file",
		Long: `Import supermarkets from a CSV file with the columns
city, supermarket_name, official_website, catalog_search_url, notes.

Markets already stored for a city (compared case-insensitively) are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			markets, err := readMarkets(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			added, err := discovery.NewRepo(s.db).SaveAll(s.ctx, markets)
			if err != nil {
				return err
			}
			s.log.Debug("markets imported", zap.Int("rows", len(markets)), zap.Int("added", added))

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"rows": len(markets), "added": added})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d markets\n", added, len(markets))
			return nil
		},
	}
}

func readMarkets(path string) ([]models.Market, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var out []models.Market
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		m := models.Market{
			City:             valueAt(header, row, "city"),
			Name:             valueAt(header, row, "supermarket_name"),
			OfficialWebsite:  valueAt(header, row, "official_website"),
			CatalogSearchURL: valueAt(header, row, "catalog_search_url"),
			Notes:            valueAt(header, row, "notes"),
		}
		if m.City == "" || m.Name == "" {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func NewExportMarketsCommand(opts *RootOptions) *cobra.Command {
	var (
		city string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "export-markets",
		Short: "Write stored supermarkets as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			markets, err := discovery.NewRepo(s.db).List(s.ctx, city)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return err
				}
				f, err := os.Create(filepath.Clean(out))
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeMarkets(w, markets)
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "only export markets of this city")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func writeMarkets(w io.Writer, markets []models.Market) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(marketColumns); err != nil {
		return err
	}
	for _, m := range markets {
		if err := cw.Write([]string{m.City, m.Name, m.OfficialWebsite, m.CatalogSearchURL, m.Notes}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
