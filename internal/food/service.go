package food

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cookingapp/internal/apperr"
	"cookingapp/internal/events"
	"cookingapp/internal/logger"
	"cookingapp/internal/merge"
	"cookingapp/internal/recipe"
	"cookingapp/pkg/database"
	"cookingapp/pkg/models"
)

const (
	msgHasRecipe = "Recipes are available for this food"
	msgNoRecipe  = "There is no recipe for this food yet, create one"
)

// Service writes a food and its nested recipe versions in one transaction.
type Service struct {
	db          *database.DB
	foods       *Repo
	recipes     *recipe.Service
	recipeStore *recipe.Repo
	events      events.Publisher
}

func NewService(db *database.DB, foods *Repo, recipes *recipe.Service, recipeStore *recipe.Repo, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{db: db, foods: foods, recipes: recipes, recipeStore: recipeStore, events: pub}
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Food, error) {
	return s.write(ctx, &models.Food{}, in)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*models.Food, error) {
	f, err := s.foods.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.NotFound("Food", id)
	}
	return s.write(ctx, f, in)
}

// write validates the food and every nested recipe before anything is
// stored, then saves them together.
func (s *Service) write(ctx context.Context, f *models.Food, in Input) (*models.Food, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Business("Food name is required")
	}
	taken, err := s.foods.ExistsByName(ctx, name, f.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Food", "name", name)
	}
	f.Name = name
	f.Category = strings.TrimSpace(in.Category)
	f.ImageURL = strings.TrimSpace(in.ImageURL)

	var versioned []string
	for _, v := range in.Recipes {
		if v.Version != nil && strings.TrimSpace(*v.Version) != "" {
			versioned = append(versioned, strings.TrimSpace(*v.Version))
		}
	}
	if _, err := merge.CheckUnique(versioned, func(v string) string { return v }, "version"); err != nil {
		return nil, err
	}

	recs := make([]*models.Recipe, 0, len(in.Recipes))
	for _, v := range in.Recipes {
		rec, err := s.recipes.Prepare(ctx, v.input(name))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := s.foods.SaveTx(ctx, tx, f); err != nil {
			return err
		}
		for _, rec := range recs {
			id := f.ID
			rec.FoodID = &id
			rec.FoodName = f.Name
			if err := s.recipeStore.SaveTx(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save food: %w", err)
	}

	logger.FromContext(ctx).Debug("food saved",
		zap.Int64("food_id", f.ID),
		zap.Int("new_recipes", len(recs)),
	)
	s.events.Publish(ctx, events.Event{Type: events.FoodSaved, ID: f.ID})
	for _, rec := range recs {
		s.events.Publish(ctx, events.Event{Type: events.RecipeSaved, ID: rec.ID})
	}
	return s.Get(ctx, f.ID)
}

// AddRecipe creates one more recipe version for an existing food.
func (s *Service) AddRecipe(ctx context.Context, id int64, v RecipeVersion) (*models.Recipe, error) {
	f, err := s.foods.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.NotFound("Food", id)
	}
	in := v.input(f.Name)
	in.FoodID = &f.ID
	return s.recipes.Create(ctx, in)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Food, error) {
	f, err := s.foods.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.NotFound("Food", id)
	}
	return f, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Food, error) {
	return s.foods.List(ctx)
}

// Recipes lists every recipe version attached to the food.
func (s *Service) Recipes(ctx context.Context, id int64) ([]*models.Recipe, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.recipes.ListByFood(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.foods.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Food", id)
	}
	s.events.Publish(ctx, events.Event{Type: events.FoodDeleted, ID: id})
	return nil
}

func (s *Service) RecipeStatus(ctx context.Context, id int64) (*models.FoodRecipeStatus, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := &models.FoodRecipeStatus{
		FoodID:    f.ID,
		FoodName:  f.Name,
		HasRecipe: f.RecipeCount > 0,
		Message:   msgNoRecipe,
	}
	if st.HasRecipe {
		st.Message = msgHasRecipe
	}
	return st, nil
}
