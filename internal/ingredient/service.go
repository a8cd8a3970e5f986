package ingredient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"cookingapp/internal/apperr"
	"cookingapp/internal/events"
	"cookingapp/internal/logger"
	"cookingapp/pkg/models"
)

type Service struct {
	store  Store
	events events.Publisher
	now    func() time.Time
}

func NewService(store Store, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: store, events: pub, now: time.Now}
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Ingredient, error) {
	if err := checkText(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	taken, err := s.store.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Ingredient", "name", name)
	}

	ing := &models.Ingredient{Nutrition: []*models.Nutrition{}}
	if err := apply(ing, in); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ing); err != nil {
		return nil, fmt.Errorf("save ingredient: %w", err)
	}
	s.events.Publish(ctx, events.Event{Type: events.IngredientSaved, ID: ing.ID})
	return ing, nil
}

// CreateBulk stores every ingredient or none. Names must be unique inside
// the payload and not yet stored.
func (s *Service) CreateBulk(ctx context.Context, ins []Input) ([]*models.Ingredient, error) {
	seen := make(map[string]struct{}, len(ins))
	for _, in := range ins {
		if err := checkText(in); err != nil {
			return nil, err
		}
		key := models.FoldKey(in.Name)
		if _, dup := seen[key]; dup {
			return nil, apperr.Business("Duplicate ingredient name in bulk payload: %s", in.Name)
		}
		seen[key] = struct{}{}

		taken, err := s.store.ExistsByName(ctx, in.Name, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Business("Ingredient already exists: %s", in.Name)
		}
	}

	out := make([]*models.Ingredient, 0, len(ins))
	for _, in := range ins {
		ing := &models.Ingredient{Nutrition: []*models.Nutrition{}}
		if err := apply(ing, in); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	if err := s.store.SaveAll(ctx, out); err != nil {
		return nil, fmt.Errorf("save ingredients: %w", err)
	}
	for _, ing := range out {
		s.events.Publish(ctx, events.Event{Type: events.IngredientSaved, ID: ing.ID})
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*models.Ingredient, error) {
	ing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load ingredient: %w", err)
	}
	if ing == nil {
		return nil, apperr.NotFound("Ingredient", id)
	}
	if err := checkText(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	taken, err := s.store.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Ingredient", "name", name)
	}

	if in.Nutrition == nil && len(ing.Nutrition) > 0 {
		logger.FromContext(ctx).Warn("nutrition_list absent on update; clearing stored nutrition facts",
			zap.Int64("ingredient_id", id),
			zap.Int("cleared", len(ing.Nutrition)),
		)
	}
	if err := apply(ing, in); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ing); err != nil {
		return nil, fmt.Errorf("save ingredient: %w", err)
	}
	s.events.Publish(ctx, events.Event{Type: events.IngredientSaved, ID: ing.ID})
	return ing, nil
}

// apply copies scalars and reconciles nutrition. Nothing is written to ing
// when the nutrition list is invalid.
func apply(ing *models.Ingredient, in Input) error {
	if err := MergeNutrition(ing, in.Nutrition); err != nil {
		return err
	}
	ing.Name = strings.TrimSpace(in.Name)
	ing.Category = in.Category
	ing.Description = in.Description
	ing.ServingAmount = in.ServingAmount
	ing.ServingUnit = in.ServingUnit
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Ingredient, error) {
	ing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load ingredient: %w", err)
	}
	if ing == nil {
		return nil, apperr.NotFound("Ingredient", id)
	}
	listings, err := s.store.Listings(ctx, id)
	if err != nil {
		return nil, err
	}
	SortByDistance(listings)
	ing.StoreListings = listings
	return ing, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Ingredient, error) {
	return s.store.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load ingredient: %w", err)
	}
	if ing == nil {
		return apperr.NotFound("Ingredient", id)
	}
	used, err := s.store.UsedInRecipes(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apperr.Business("Cannot delete ingredient '%s' because it is used in one or more recipes.", ing.Name)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Type: events.IngredientDeleted, ID: id})
	return nil
}

// SearchByName returns every ingredient for a blank term.
func (s *Service) SearchByName(ctx context.Context, term string) ([]*models.Ingredient, error) {
	if strings.TrimSpace(term) == "" {
		return s.store.List(ctx)
	}
	return s.store.SearchByName(ctx, term)
}

func (s *Service) SearchByNutrient(ctx context.Context, rawNutrient string, minValue *float64) ([]*models.Ingredient, error) {
	if strings.TrimSpace(rawNutrient) == "" {
		return nil, apperr.Business("Nutrient parameter is required")
	}
	nutrient, ok := models.ParseNutrient(rawNutrient)
	if !ok {
		return nil, apperr.Business("Invalid nutrient: %s. Valid values: %v", rawNutrient, models.Nutrients())
	}
	floor := 0.0
	if minValue != nil {
		floor = *minValue
	}
	return s.store.SearchByNutrient(ctx, nutrient, floor)
}

// StoreLocations returns the active listings of the ingredient, nearest
// first and listings without a distance last.
func (s *Service) StoreLocations(ctx context.Context, id int64) ([]models.StoreListing, error) {
	ing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load ingredient: %w", err)
	}
	if ing == nil {
		return nil, apperr.NotFound("Ingredient", id)
	}

	all, err := s.store.Listings(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := make([]models.StoreListing, 0, len(all))
	for _, l := range all {
		if l.ExpiresAt == nil || l.ExpiresAt.After(now) {
			active = append(active, l)
		}
	}
	SortByDistance(active)
	return active, nil
}

// SortByDistance orders listings by ascending distance with unknown
// distances last. Ties keep their incoming order.
func SortByDistance(ls []models.StoreListing) {
	sort.SliceStable(ls, func(i, j int) bool {
		a, b := ls[i].DistanceKm, ls[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
