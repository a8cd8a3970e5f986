package food

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookingapp/internal/apperr"
	"cookingapp/internal/events"
	"cookingapp/internal/ingredient"
	"cookingapp/internal/recipe"
	"cookingapp/pkg/database"
	"cookingapp/pkg/database/dbtest"
	"cookingapp/pkg/models"
)

type recordingPublisher struct {
	got []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.got = append(p.got, ev)
}

func seedIngredient(t *testing.T, db *database.DB, name string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO ingredients (name, name_key, serving_amount, serving_unit) VALUES (?, ?, 100, 'g') RETURNING id`,
		name, models.FoldKey(name),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func newService(t *testing.T) (*Service, *database.DB, *recordingPublisher) {
	t.Helper()
	db := dbtest.Open(t)
	foods := NewRepo(db)
	recipes := recipe.NewRepo(db)
	pub := &recordingPublisher{}
	recipeSvc := recipe.NewService(recipes, ingredient.NewRepo(db), foods, nil)
	return NewService(db, foods, recipeSvc, recipes, pub), db, pub
}

func ptr[T any](v T) *T { return &v }

func version(ingredientID int64, v string) RecipeVersion {
	return RecipeVersion{
		Version:      ptr(v),
		Ingredients:  []recipe.IngredientLine{{IngredientID: ingredientID, Quantity: 200, Unit: models.UnitG}},
		Instructions: []recipe.InstructionLine{{Step: 1, Description: "Cook"}},
	}
}

func TestService_CreateWithNestedRecipes(t *testing.T) {
	ctx := context.Background()
	svc, db, pub := newService(t)
	noodles := seedIngredient(t, db, "Rice noodles")

	f, err := svc.Create(ctx, Input{
		Name:     "  Pad Thai ",
		Category: "Noodles",
		Recipes:  []RecipeVersion{version(noodles, "street"), version(noodles, "home")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", f.Name)
	assert.Equal(t, 2, f.RecipeCount)

	recs, err := svc.Recipes(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Pad Thai (street)", recs[0].Title)
	assert.Equal(t, f.ID, *recs[0].FoodID)

	types := []string{}
	for _, ev := range pub.got {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{events.FoodSaved, events.RecipeSaved, events.RecipeSaved}, types)
}

func TestService_CreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Create(ctx, Input{Name: "Som Tam"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Input{Name: "som tam"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, "Food already exists with name: 'som tam'", err.Error())
}

func TestService_NestedFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	svc, db, pub := newService(t)
	noodles := seedIngredient(t, db, "Rice noodles")

	_, err := svc.Create(ctx, Input{
		Name:    "Pad See Ew",
		Recipes: []RecipeVersion{version(noodles, "v1"), version(999, "v2")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	foods, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, foods)
	assert.Empty(t, pub.got)

	_, err = svc.Create(ctx, Input{
		Name:    "Pad See Ew",
		Recipes: []RecipeVersion{version(noodles, "v1"), version(noodles, "v1")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey))
}

func TestService_UpdateAddsVersions(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)
	noodles := seedIngredient(t, db, "Rice noodles")

	f, err := svc.Create(ctx, Input{Name: "Khao Soi"})
	require.NoError(t, err)
	assert.Zero(t, f.RecipeCount)

	f, err = svc.Update(ctx, f.ID, Input{
		Name:    "Khao Soi Gai",
		Recipes: []RecipeVersion{version(noodles, "chiang-mai")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Khao Soi Gai", f.Name)
	assert.Equal(t, 1, f.RecipeCount)

	_, err = svc.Update(ctx, 404, Input{Name: "Nothing"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestService_RecipeStatus(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)
	noodles := seedIngredient(t, db, "Rice noodles")

	f, err := svc.Create(ctx, Input{Name: "Boat noodles"})
	require.NoError(t, err)

	st, err := svc.RecipeStatus(ctx, f.ID)
	require.NoError(t, err)
	assert.False(t, st.HasRecipe)
	assert.Equal(t, msgNoRecipe, st.Message)

	rec, err := svc.AddRecipe(ctx, f.ID, version(noodles, "ayutthaya"))
	require.NoError(t, err)
	assert.Equal(t, "Boat noodles (ayutthaya)", rec.Title)

	st, err = svc.RecipeStatus(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, st.HasRecipe)
	assert.Equal(t, "Recipes are available for this food", st.Message)
}

func TestService_RecipesSortedForRead(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)
	zucchini := seedIngredient(t, db, "Zucchini")
	apple := seedIngredient(t, db, "Apple")

	f, err := svc.Create(ctx, Input{Name: "Garden salad", Recipes: []RecipeVersion{{
		Ingredients: []recipe.IngredientLine{
			{IngredientID: zucchini, Quantity: 1, Unit: models.UnitPiece},
			{IngredientID: apple, Quantity: 1, Unit: models.UnitPiece},
		},
		Instructions: []recipe.InstructionLine{{Step: 3, Description: "Toss"}, {Step: 1, Description: "Slice"}},
	}}})
	require.NoError(t, err)

	recs, err := svc.Recipes(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Len(t, recs[0].Ingredients, 2)
	assert.Equal(t, "Apple", recs[0].Ingredients[0].IngredientName)
	assert.Equal(t, "Zucchini", recs[0].Ingredients[1].IngredientName)
	require.Len(t, recs[0].Instructions, 2)
	assert.Equal(t, 1, recs[0].Instructions[0].Step)
	assert.Equal(t, 3, recs[0].Instructions[1].Step)
}

func TestService_RejectsBlankName(t *testing.T) {
	svc, _, pub := newService(t)

	_, err := svc.Create(context.Background(), Input{Name: "  "})
	require.ErrorIs(t, err, apperr.ErrBusiness)
	assert.EqualError(t, err, "Food name is required")
	assert.Empty(t, pub.got)
}

func TestService_DeleteKeepsRecipes(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)
	noodles := seedIngredient(t, db, "Rice noodles")

	f, err := svc.Create(ctx, Input{Name: "Rad Na", Recipes: []RecipeVersion{version(noodles, "gravy")}})
	require.NoError(t, err)
	recs, err := svc.Recipes(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, svc.Delete(ctx, f.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, f.ID), apperr.ErrNotFound))

	orphan, err := svc.recipeStore.FindByID(ctx, recs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, orphan)
	assert.Nil(t, orphan.FoodID)
}
