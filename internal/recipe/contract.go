package recipe

import (
	"context"

	"cookingapp/pkg/models"
)

// Store persists the recipe aggregate. FindByID returns nil, nil when the
// recipe does not exist.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context) ([]*models.Recipe, error)
	ListByFood(ctx context.Context, foodID int64) ([]*models.Recipe, error)
	Save(ctx context.Context, r *models.Recipe) error
	Delete(ctx context.Context, id int64) (bool, error)
	ExistsByVersion(ctx context.Context, version string, excludeID int64) (bool, error)
}

// IngredientResolver looks up ingredients referenced by recipe lines.
type IngredientResolver interface {
	FindByID(ctx context.Context, id int64) (*models.Ingredient, error)
}

type FoodResolver interface {
	FindByID(ctx context.Context, id int64) (*models.Food, error)
}
