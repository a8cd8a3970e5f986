package ingredient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cookingapp/internal/apperr"
	"cookingapp/pkg/database"
	"cookingapp/pkg/models"
)

type Repo struct {
	DB *database.DB
}

func NewRepo(db *database.DB) *Repo {
	return &Repo{DB: db}
}

const ingredientColumns = `
	SELECT id, name, category, description, serving_amount, serving_unit
	FROM ingredients
`

func scanIngredient(sc interface{ Scan(...any) error }) (*models.Ingredient, error) {
	var (
		ing  models.Ingredient
		unit string
	)
	if err := sc.Scan(&ing.ID, &ing.Name, &ing.Category, &ing.Description, &ing.ServingAmount, &unit); err != nil {
		return nil, err
	}
	u, ok := models.ParseUnit(unit)
	if !ok {
		return nil, apperr.UnsupportedValue("serving unit", unit)
	}
	ing.ServingUnit = u
	ing.Nutrition = []*models.Nutrition{}
	return &ing, nil
}

// FindByID loads the ingredient and its nutrition facts. Store listings are
// loaded separately.
func (r *Repo) FindByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ing, err := scanIngredient(r.DB.QueryRowContext(ctx, ingredientColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ingredient: %w", err)
	}
	if err := r.loadNutrition(ctx, []*models.Ingredient{ing}); err != nil {
		return nil, err
	}
	return ing, nil
}

func (r *Repo) List(ctx context.Context) ([]*models.Ingredient, error) {
	return r.query(ctx, ingredientColumns+` ORDER BY name_key`)
}

// SearchByName matches a case-insensitive substring of the name.
func (r *Repo) SearchByName(ctx context.Context, term string) ([]*models.Ingredient, error) {
	return r.query(ctx, ingredientColumns+` WHERE name_key LIKE ? ORDER BY name_key`,
		"%"+models.FoldKey(term)+"%")
}

// SearchByNutrient returns ingredients whose value for nutrient is strictly
// greater than min, highest first.
func (r *Repo) SearchByNutrient(ctx context.Context, nutrient models.Nutrient, minValue float64) ([]*models.Ingredient, error) {
	return r.query(ctx, `
		SELECT i.id, i.name, i.category, i.description, i.serving_amount, i.serving_unit
		FROM ingredients i
		JOIN nutrition n ON n.ingredient_id = i.id
		WHERE n.nutrient = ? AND n.value > ?
		ORDER BY n.value DESC, i.id
	`, string(nutrient), minValue)
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]*models.Ingredient, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	out := []*models.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	if err := r.loadNutrition(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) loadNutrition(ctx context.Context, ings []*models.Ingredient) error {
	if len(ings) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Ingredient, len(ings))
	args := make([]any, 0, len(ings))
	marks := ""
	for i, ing := range ings {
		byID[ing.ID] = ing
		args = append(args, ing.ID)
		if i > 0 {
			marks += ","
		}
		marks += "?"
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, ingredient_id, nutrient, value, unit
		FROM nutrition
		WHERE ingredient_id IN (`+marks+`)
		ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("load nutrition: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n   models.Nutrition
			raw string
		)
		if err := rows.Scan(&n.ID, &n.IngredientID, &raw, &n.Value, &n.Unit); err != nil {
			return fmt.Errorf("scan nutrition: %w", err)
		}
		nutrient, ok := models.ParseNutrient(raw)
		if !ok {
			return apperr.UnsupportedValue("nutrient", raw)
		}
		n.Nutrient = nutrient
		ing := byID[n.IngredientID]
		ing.Nutrition = append(ing.Nutrition, &n)
	}
	return rows.Err()
}

// ExistsByName reports whether another ingredient already has name,
// compared case-insensitively.
func (r *Repo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ingredients WHERE name_key = ? AND id <> ?`, models.FoldKey(name), excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check ingredient name: %w", err)
	}
	return n > 0, nil
}

// Save persists one aggregate in its own transaction.
func (r *Repo) Save(ctx context.Context, ing *models.Ingredient) error {
	return r.DB.WithTx(ctx, func(tx *database.Tx) error {
		return save(ctx, tx, ing)
	})
}

// SaveAll persists every aggregate or none.
func (r *Repo) SaveAll(ctx context.Context, ings []*models.Ingredient) error {
	return r.DB.WithTx(ctx, func(tx *database.Tx) error {
		for _, ing := range ings {
			if err := save(ctx, tx, ing); err != nil {
				return err
			}
		}
		return nil
	})
}

func save(ctx context.Context, tx *database.Tx, ing *models.Ingredient) error {
	if ing.ID == 0 {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO ingredients (name, name_key, category, description, serving_amount, serving_unit)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`, ing.Name, models.FoldKey(ing.Name), ing.Category, ing.Description, ing.ServingAmount, ing.ServingUnit.Abbreviation()).Scan(&ing.ID)
		if err != nil {
			return fmt.Errorf("insert ingredient: %w", err)
		}
	} else {
		_, err := tx.ExecContext(ctx, `
			UPDATE ingredients
			SET name = ?, name_key = ?, category = ?, description = ?, serving_amount = ?, serving_unit = ?
			WHERE id = ?
		`, ing.Name, models.FoldKey(ing.Name), ing.Category, ing.Description, ing.ServingAmount, ing.ServingUnit.Abbreviation(), ing.ID)
		if err != nil {
			return fmt.Errorf("update ingredient: %w", err)
		}
	}
	return saveNutrition(ctx, tx, ing)
}

func saveNutrition(ctx context.Context, tx *database.Tx, ing *models.Ingredient) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM nutrition WHERE ingredient_id = ?`, ing.ID)
	if err != nil {
		return fmt.Errorf("load nutrition ids: %w", err)
	}
	stored := map[int64]struct{}{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan nutrition id: %w", err)
		}
		stored[id] = struct{}{}
	}
	rows.Close()

	kept := map[int64]struct{}{}
	for _, n := range ing.Nutrition {
		if n.ID != 0 {
			kept[n.ID] = struct{}{}
		}
	}
	for id := range stored {
		if _, ok := kept[id]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM nutrition WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete nutrition %d: %w", id, err)
		}
	}

	for _, n := range ing.Nutrition {
		n.IngredientID = ing.ID
		if n.ID != 0 {
			_, err := tx.ExecContext(ctx,
				`UPDATE nutrition SET value = ?, unit = ? WHERE id = ? AND ingredient_id = ?`,
				n.Value, n.Unit, n.ID, ing.ID)
			if err != nil {
				return fmt.Errorf("update nutrition %d: %w", n.ID, err)
			}
			continue
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO nutrition (ingredient_id, nutrient, value, unit)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, ing.ID, string(n.Nutrient), n.Value, n.Unit).Scan(&n.ID)
		if err != nil {
			return fmt.Errorf("insert nutrition: %w", err)
		}
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}

func (r *Repo) UsedInRecipes(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipe_ingredients WHERE ingredient_id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("count recipe usage: %w", err)
	}
	return n > 0, nil
}

// Listings returns every stored listing of the ingredient, expired ones included.
func (r *Repo) Listings(ctx context.Context, ingredientID int64) ([]models.StoreListing, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, ingredient_id, store_name, store_address, store_place_id,
		       latitude, longitude, price, currency, in_stock, distance_km,
		       source_provider, captured_at, expires_at
		FROM store_listings
		WHERE ingredient_id = ?
		ORDER BY captured_at DESC, id
	`, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("list store listings: %w", err)
	}
	defer rows.Close()

	out := []models.StoreListing{}
	for rows.Next() {
		var (
			l                   models.StoreListing
			lat, lng, price, km sql.NullFloat64
			expires             sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.IngredientID, &l.StoreName, &l.StoreAddress, &l.StorePlaceID,
			&lat, &lng, &price, &l.Currency, &l.InStock, &km,
			&l.SourceProvider, &l.CapturedAt, &expires); err != nil {
			return nil, fmt.Errorf("scan store listing: %w", err)
		}
		l.Latitude = nullFloat(lat)
		l.Longitude = nullFloat(lng)
		l.Price = nullFloat(price)
		l.DistanceKm = nullFloat(km)
		if expires.Valid {
			t := expires.Time
			l.ExpiresAt = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) AddListing(ctx context.Context, l *models.StoreListing) error {
	if l.CapturedAt.IsZero() {
		l.CapturedAt = time.Now().UTC()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO store_listings (ingredient_id, store_name, store_address, store_place_id,
			latitude, longitude, price, currency, in_stock, distance_km,
			source_provider, captured_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, l.IngredientID, l.StoreName, l.StoreAddress, l.StorePlaceID,
		l.Latitude, l.Longitude, l.Price, l.Currency, l.InStock, l.DistanceKm,
		l.SourceProvider, l.CapturedAt.UTC(), utcPtr(l.ExpiresAt)).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert store listing: %w", err)
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
