package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const recipeColumns = `
	SELECT r.id, r.title, r.description, r.version, r.food_id, f.name
	FROM recipes r
	LEFT JOIN foods f ON f.id = r.food_id
`

func scanRecipe(sc interface{ Scan(...any) error }) (*models.Recipe, error) {
	var (
		rec      models.Recipe
		version  sql.NullString
		foodID   sql.NullInt64
		foodName sql.NullString
	)
	if err := sc.Scan(&rec.ID, &rec.Title, &rec.Description, &version, &foodID, &foodName); err != nil {
		return nil, err
	}
	if version.Valid {
		v := version.String
		rec.Version = &v
	}
	if foodID.Valid {
		id := foodID.Int64
		rec.FoodID = &id
	}
	rec.FoodName = foodName.String
	rec.Ingredients = []*models.RecipeIngredient{}
	rec.Instructions = []*models.Instruction{}
	return &rec, nil
}

// FindByID loads the recipe with both child collections.
func (r *Repo) FindByID(ctx context.Context, id int64) (*models.Recipe, error) {
	rec, err := scanRecipe(r.DB.QueryRowContext(ctx, recipeColumns+` WHERE r.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan recipe: %w", err)
	}

	if err := r.loadChildren(ctx, map[int64]*models.Recipe{rec.ID: rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Repo) List(ctx context.Context) ([]*models.Recipe, error) {
	return r.list(ctx, recipeColumns+` ORDER BY r.id`)
}

func (r *Repo) ListByFood(ctx context.Context, foodID int64) ([]*models.Recipe, error) {
	return r.list(ctx, recipeColumns+` WHERE r.food_id = ? ORDER BY r.id`, foodID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	out := []*models.Recipe{}
	byID := map[int64]*models.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, rec)
		byID[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.loadChildren(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func inClause(ids map[int64]*models.Recipe) (string, []any) {
	marks := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for id := range ids {
		marks = append(marks, "?")
		args = append(args, id)
	}
	return "(" + strings.Join(marks, ",") + ")", args
}

func (r *Repo) loadChildren(ctx context.Context, byID map[int64]*models.Recipe) error {
	in, args := inClause(byID)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT ri.id, ri.recipe_id, ri.ingredient_id, i.name, ri.quantity, ri.unit, ri.note
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN `+in+`
		ORDER BY ri.id`, args...)
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	for rows.Next() {
		var (
			ri   models.RecipeIngredient
			unit string
		)
		if err := rows.Scan(&ri.ID, &ri.RecipeID, &ri.IngredientID, &ri.IngredientName, &ri.Quantity, &unit, &ri.Note); err != nil {
			rows.Close()
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		u, ok := models.ParseUnit(unit)
		if !ok {
			rows.Close()
			return apperr.UnsupportedValue("unit", unit)
		}
		ri.Unit = u
		byID[ri.RecipeID].Ingredients = append(byID[ri.RecipeID].Ingredients, &ri)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("rows err: %w", err)
	}
	rows.Close()

	rows, err = r.DB.QueryContext(ctx, `
		SELECT id, recipe_id, step, description, tutorial_video_url
		FROM instructions
		WHERE recipe_id IN `+in+`
		ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("load instructions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ins models.Instruction
		if err := rows.Scan(&ins.ID, &ins.RecipeID, &ins.Step, &ins.Description, &ins.TutorialVideoURL); err != nil {
			return fmt.Errorf("scan instruction: %w", err)
		}
		byID[ins.RecipeID].Instructions = append(byID[ins.RecipeID].Instructions, &ins)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows err: %w", err)
	}
	return nil
}

// Save writes the recipe and both child collections in one transaction.
// Stored children whose id is no longer in the aggregate are deleted,
// retained ones updated and id-less ones inserted; new ids are written back.
func (r *Repo) Save(ctx context.Context, rec *models.Recipe) error {
	return r.DB.WithTx(ctx, func(tx *database.Tx) error {
		return r.SaveTx(ctx, tx, rec)
	})
}

// SaveTx is Save inside a transaction owned by the caller.
func (r *Repo) SaveTx(ctx context.Context, tx *database.Tx, rec *models.Recipe) error {
	if rec.ID == 0 {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO recipes (title, description, version, food_id)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, rec.Title, rec.Description, rec.Version, rec.FoodID).Scan(&rec.ID)
		if err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
	} else {
		_, err := tx.ExecContext(ctx, `
			UPDATE recipes SET title = ?, description = ?, version = ?, food_id = ?
			WHERE id = ?
		`, rec.Title, rec.Description, rec.Version, rec.FoodID, rec.ID)
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
	}

	if err := saveIngredients(ctx, tx, rec); err != nil {
		return err
	}
	return saveInstructions(ctx, tx, rec)
}

func storedIDs(ctx context.Context, tx *database.Tx, table string, recipeID int64) (map[int64]struct{}, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM `+table+` WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load %s ids: %w", table, err)
	}
	defer rows.Close()

	ids := map[int64]struct{}{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", table, err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func deleteOrphans(ctx context.Context, tx *database.Tx, table string, stored map[int64]struct{}, kept map[int64]struct{}) error {
	for id := range stored {
		if _, ok := kept[id]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete %s %d: %w", table, id, err)
		}
	}
	return nil
}

func saveIngredients(ctx context.Context, tx *database.Tx, rec *models.Recipe) error {
	stored, err := storedIDs(ctx, tx, "recipe_ingredients", rec.ID)
	if err != nil {
		return err
	}
	kept := map[int64]struct{}{}
	for _, ri := range rec.Ingredients {
		if ri.ID != 0 {
			kept[ri.ID] = struct{}{}
		}
	}
	if err := deleteOrphans(ctx, tx, "recipe_ingredients", stored, kept); err != nil {
		return err
	}

	upd, err := tx.PrepareContext(ctx, `UPDATE recipe_ingredients SET quantity = ?, unit = ?, note = ? WHERE id = ? AND recipe_id = ?`)
	if err != nil {
		return fmt.Errorf("prepare update: %w", err)
	}
	defer upd.Close()

	for _, ri := range rec.Ingredients {
		ri.RecipeID = rec.ID
		if ri.ID != 0 {
			if _, err := upd.ExecContext(ctx, ri.Quantity, ri.Unit.Abbreviation(), ri.Note, ri.ID, rec.ID); err != nil {
				return fmt.Errorf("update recipe ingredient %d: %w", ri.ID, err)
			}
			continue
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit, note)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id
		`, rec.ID, ri.IngredientID, ri.Quantity, ri.Unit.Abbreviation(), ri.Note).Scan(&ri.ID)
		if err != nil {
			return fmt.Errorf("insert recipe ingredient: %w", err)
		}
	}
	return nil
}

func saveInstructions(ctx context.Context, tx *database.Tx, rec *models.Recipe) error {
	stored, err := storedIDs(ctx, tx, "instructions", rec.ID)
	if err != nil {
		return err
	}
	kept := map[int64]struct{}{}
	for _, ins := range rec.Instructions {
		if ins.ID != 0 {
			kept[ins.ID] = struct{}{}
		}
	}
	if err := deleteOrphans(ctx, tx, "instructions", stored, kept); err != nil {
		return err
	}

	for _, ins := range rec.Instructions {
		ins.RecipeID = rec.ID
		if ins.ID != 0 {
			_, err := tx.ExecContext(ctx, `
				UPDATE instructions SET description = ?, tutorial_video_url = ?
				WHERE id = ? AND recipe_id = ?
			`, ins.Description, ins.TutorialVideoURL, ins.ID, rec.ID)
			if err != nil {
				return fmt.Errorf("update instruction %d: %w", ins.ID, err)
			}
			continue
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO instructions (recipe_id, step, description, tutorial_video_url)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, rec.ID, ins.Step, ins.Description, ins.TutorialVideoURL).Scan(&ins.ID)
		if err != nil {
			return fmt.Errorf("insert instruction: %w", err)
		}
	}
	return nil
}

// Delete removes the recipe; children go with it through ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) CountByFood(ctx context.Context, foodID int64) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE food_id = ?`, foodID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recipes by food: %w", err)
	}
	return n, nil
}

// ExistsByVersion reports whether another recipe already uses version.
func (r *Repo) ExistsByVersion(ctx context.Context, version string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes WHERE version = ? AND id <> ?`, version, excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check recipe version: %w", err)
	}
	return n > 0, nil
}
