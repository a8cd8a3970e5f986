package food

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cookingapp/pkg/database"
	"cookingapp/pkg/models"
)

type Repo struct {
	DB *database.DB
}

func NewRepo(db *database.DB) *Repo {
	return &Repo{DB: db}
}

const foodColumns = `
	SELECT f.id, f.name, f.category, f.image_url,
	       (SELECT COUNT(*) FROM recipes r WHERE r.food_id = f.id)
	FROM foods f
`

func scanFood(sc interface{ Scan(...any) error }) (*models.Food, error) {
	var f models.Food
	if err := sc.Scan(&f.ID, &f.Name, &f.Category, &f.ImageURL, &f.RecipeCount); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByID returns nil, nil when the food does not exist.
func (r *Repo) FindByID(ctx context.Context, id int64) (*models.Food, error) {
	f, err := scanFood(r.DB.QueryRowContext(ctx, foodColumns+` WHERE f.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan food: %w", err)
	}
	return f, nil
}

func (r *Repo) List(ctx context.Context) ([]*models.Food, error) {
	rows, err := r.DB.QueryContext(ctx, foodColumns+` ORDER BY f.name_key`)
	if err != nil {
		return nil, fmt.Errorf("query foods: %w", err)
	}
	defer rows.Close()

	out := []*models.Food{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM foods WHERE name_key = ? AND id <> ?`,
		models.FoldKey(name), excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check food name: %w", err)
	}
	return n > 0, nil
}

// SaveTx inserts the food when its id is zero and updates it otherwise.
func (r *Repo) SaveTx(ctx context.Context, tx *database.Tx, f *models.Food) error {
	if f.ID == 0 {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO foods (name, name_key, category, image_url)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, f.Name, models.FoldKey(f.Name), f.Category, f.ImageURL).Scan(&f.ID)
		if err != nil {
			return fmt.Errorf("insert food: %w", err)
		}
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE foods SET name = ?, name_key = ?, category = ?, image_url = ?
		WHERE id = ?
	`, f.Name, models.FoldKey(f.Name), f.Category, f.ImageURL, f.ID)
	if err != nil {
		return fmt.Errorf("update food: %w", err)
	}
	return nil
}

// Delete reports whether a row was removed. Recipes of the food are kept
// and lose their food reference.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete food: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
