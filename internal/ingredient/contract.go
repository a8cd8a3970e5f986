package ingredient

import (
	"context"

	"cookingapp/pkg/models"
)

// Store is the ingredient aggregate store. FindByID returns nil, nil when
// the ingredient does not exist.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Ingredient, error)
	List(ctx context.Context) ([]*models.Ingredient, error)
	SearchByName(ctx context.Context, term string) ([]*models.Ingredient, error)
	SearchByNutrient(ctx context.Context, nutrient models.Nutrient, minValue float64) ([]*models.Ingredient, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Save(ctx context.Context, ing *models.Ingredient) error
	SaveAll(ctx context.Context, ings []*models.Ingredient) error
	Delete(ctx context.Context, id int64) error
	UsedInRecipes(ctx context.Context, id int64) (bool, error)
	Listings(ctx context.Context, ingredientID int64) ([]models.StoreListing, error)
}

// Discoverer runs a supermarket discovery for an ingredient name.
type Discoverer interface {
	Discover(ctx context.Context, userID *int64, city, term string) ([]models.DiscoveryResult, error)
}
