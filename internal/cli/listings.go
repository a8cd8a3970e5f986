package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cookingapp/internal/ingredient"
	"cookingapp/pkg/models"
)

func NewImportListingsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-listings <file.csv>",
		Short: "Load store price listings for ingredients from a CSV file",
		Long: `Import store listings from a CSV file with the columns
ingredient_id, store_name, store_address, store_place_id, latitude, longitude,
price, currency, in_stock, distance_km, source_provider, expires_at.

Empty numeric cells are stored as unknown. expires_at is RFC 3339.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			listings, err := readListings(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			repo := ingredient.NewRepo(s.db)
			for i := range listings {
				l := &listings[i]
				ing, err := repo.FindByID(s.ctx, l.IngredientID)
				if err != nil {
					return err
				}
				if ing == nil {
					return fmt.Errorf("row %d: ingredient %d does not exist", i+2, l.IngredientID)
				}
				if err := repo.AddListing(s.ctx, l); err != nil {
					return err
				}
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"imported": len(listings)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d listings\n", len(listings))
			return nil
		},
	}
}

func readListings(path string) ([]models.StoreListing, error) {
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

	var out []models.StoreListing
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		l, err := parseListing(header, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if l.StoreName == "" {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func parseListing(header map[string]int, row []string) (models.StoreListing, error) {
	l := models.StoreListing{
		StoreName:      valueAt(header, row, "store_name"),
		StoreAddress:   valueAt(header, row, "store_address"),
		StorePlaceID:   valueAt(header, row, "store_place_id"),
		Currency:       valueAt(header, row, "currency"),
		SourceProvider: valueAt(header, row, "source_provider"),
	}

	id, err := strconv.ParseInt(valueAt(header, row, "ingredient_id"), 10, 64)
	if err != nil {
		return l, fmt.Errorf("parse ingredient_id: %w", err)
	}
	l.IngredientID = id

	floats := []struct {
		col string
		dst **float64
	}{
		{"latitude", &l.Latitude},
		{"longitude", &l.Longitude},
		{"price", &l.Price},
		{"distance_km", &l.DistanceKm},
	}
	for _, f := range floats {
		v, err := parseOptionalFloat(valueAt(header, row, f.col))
		if err != nil {
			return l, fmt.Errorf("parse %s: %w", f.col, err)
		}
		*f.dst = v
	}

	switch strings.ToLower(valueAt(header, row, "in_stock")) {
	case "", "true", "yes", "1":
		l.InStock = true
	}

	l.ExpiresAt, err = parseOptionalTime(valueAt(header, row, "expires_at"))
	if err != nil {
		return l, fmt.Errorf("parse expires_at: %w", err)
	}
	return l, nil
}
