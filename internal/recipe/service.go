package recipe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"cookingapp/internal/apperr"
	"cookingapp/internal/events"
	"cookingapp/internal/logger"
	"cookingapp/pkg/models"
)

type Service struct {
	store      Store
	foods      FoodResolver
	reconciler *Reconciler
	events     events.Publisher
}

func NewService(store Store, ingredients IngredientResolver, foods FoodResolver, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store:      store,
		foods:      foods,
		reconciler: NewReconciler(ingredients),
		events:     pub,
	}
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Recipe, error) {
	rec := &models.Recipe{
		Ingredients:  []*models.RecipeIngredient{},
		Instructions: []*models.Instruction{},
	}
	return s.write(ctx, rec, in)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*models.Recipe, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if rec == nil {
		return nil, apperr.NotFound("Recipe", id)
	}
	return s.write(ctx, rec, in)
}

// Prepare builds a new recipe from in without saving it. Callers that
// persist it together with other rows use Repo.SaveTx.
func (s *Service) Prepare(ctx context.Context, in Input) (*models.Recipe, error) {
	rec := &models.Recipe{
		Ingredients:  []*models.RecipeIngredient{},
		Instructions: []*models.Instruction{},
	}
	if err := s.apply(ctx, rec, in); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) apply(ctx context.Context, rec *models.Recipe, in Input) error {
	if err := checkText(in); err != nil {
		return err
	}
	if err := s.populateScalars(ctx, rec, in); err != nil {
		return err
	}
	return s.reconciler.Reconcile(ctx, rec, in.Ingredients, in.Instructions)
}

// write applies in to rec entirely in memory and saves the aggregate once.
func (s *Service) write(ctx context.Context, rec *models.Recipe, in Input) (*models.Recipe, error) {
	if err := s.apply(ctx, rec, in); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save recipe: %w", err)
	}

	logger.FromContext(ctx).Debug("recipe saved",
		zap.Int64("recipe_id", rec.ID),
		zap.Int("ingredients", len(rec.Ingredients)),
		zap.Int("instructions", len(rec.Instructions)),
	)
	s.events.Publish(ctx, events.Event{Type: events.RecipeSaved, ID: rec.ID})

	sortForRead(rec)
	return rec, nil
}

func (s *Service) populateScalars(ctx context.Context, rec *models.Recipe, in Input) error {
	rec.Title = strings.TrimSpace(in.Title)
	rec.Description = in.Description

	rec.Version = nil
	if in.Version != nil {
		if v := strings.TrimSpace(*in.Version); v != "" {
			taken, err := s.store.ExistsByVersion(ctx, v, rec.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Recipe", "version", v)
			}
			rec.Version = &v
		}
	}

	rec.FoodID = nil
	rec.FoodName = ""
	if in.FoodID != nil {
		food, err := s.foods.FindByID(ctx, *in.FoodID)
		if err != nil {
			return fmt.Errorf("resolve food: %w", err)
		}
		if food == nil {
			return apperr.NotFound("Food", *in.FoodID)
		}
		id := food.ID
		rec.FoodID = &id
		rec.FoodName = food.Name
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if rec == nil {
		return nil, apperr.NotFound("Recipe", id)
	}
	sortForRead(rec)
	return rec, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Recipe, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		sortForRead(rec)
	}
	return recs, nil
}

// ListByFood returns the recipe versions attached to foodID.
func (s *Service) ListByFood(ctx context.Context, foodID int64) ([]*models.Recipe, error) {
	recs, err := s.store.ListByFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		sortForRead(rec)
	}
	return recs, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Recipe", id)
	}
	s.events.Publish(ctx, events.Event{Type: events.RecipeDeleted, ID: id})
	return nil
}

// sortForRead orders ingredients by name (blank names last) and
// instructions by step. Storage order is never relied upon.
func sortForRead(rec *models.Recipe) {
	sort.SliceStable(rec.Ingredients, func(i, j int) bool {
		a, b := rec.Ingredients[i].IngredientName, rec.Ingredients[j].IngredientName
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
	sort.SliceStable(rec.Instructions, func(i, j int) bool {
		return rec.Instructions[i].Step < rec.Instructions[j].Step
	})
}
