package discovery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cookingapp/pkg/database"
	"cookingapp/pkg/models"
)

// Repo is the SQL market store.
type Repo struct {
	DB *database.DB
}

func NewRepo(db *database.DB) *Repo {
	return &Repo{DB: db}
}

const marketColumns = `
	SELECT id, city, name, official_website, catalog_search_url, notes
	FROM markets
`

func (r *Repo) FindByCity(ctx context.Context, city string) ([]models.Market, error) {
	return r.query(ctx, marketColumns+` WHERE city_key = ? ORDER BY id`, models.FoldKey(city))
}

// List returns every stored market, or those of city when it is not blank.
func (r *Repo) List(ctx context.Context, city string) ([]models.Market, error) {
	if strings.TrimSpace(city) != "" {
		return r.FindByCity(ctx, city)
	}
	return r.query(ctx, marketColumns+` ORDER BY city_key, name_key`)
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]models.Market, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query markets: %w", err)
	}
	defer rows.Close()

	out := []models.Market{}
	for rows.Next() {
		var m models.Market
		if err := rows.Scan(&m.ID, &m.City, &m.Name, &m.OfficialWebsite, &m.CatalogSearchURL, &m.Notes); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) ExistsByCityAndName(ctx context.Context, city, name string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM markets WHERE city_key = ? AND name_key = ?`,
		models.FoldKey(city), models.FoldKey(name),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check market: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) Insert(ctx context.Context, m *models.Market) (bool, error) {
	return insertMarket(ctx, r.DB, m)
}

// SaveAll inserts markets in one transaction and returns how many were new.
func (r *Repo) SaveAll(ctx context.Context, markets []models.Market) (int, error) {
	added := 0
	err := r.DB.WithTx(ctx, func(tx *database.Tx) error {
		added = 0
		for i := range markets {
			ok, err := insertMarket(ctx, tx, &markets[i])
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	return added, err
}

// insertMarket leaves m.ID untouched when the unique (city, name) index
// rejects the row.
func insertMarket(ctx context.Context, q database.Querier, m *models.Market) (bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO markets (city, city_key, name, name_key, official_website, catalog_search_url, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (city_key, name_key) DO NOTHING
		RETURNING id
	`, m.City, models.FoldKey(m.City), m.Name, models.FoldKey(m.Name),
		m.OfficialWebsite, m.CatalogSearchURL, m.Notes,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert market %s: %w", m.Name, err)
	}
	m.ID = id
	return true, nil
}
