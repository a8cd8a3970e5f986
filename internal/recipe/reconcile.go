package recipe

import (
	"context"
	"fmt"

	"cookingapp/internal/apperr"
	"cookingapp/internal/merge"
	"cookingapp/pkg/models"
)

// Reconciler merges submitted ingredient and instruction lists into a loaded
// recipe. It works purely in memory; the caller saves the aggregate once
// both merges succeeded.
type Reconciler struct {
	Ingredients IngredientResolver
}

func NewReconciler(ingredients IngredientResolver) *Reconciler {
	return &Reconciler{Ingredients: ingredients}
}

func ingredientKey(l IngredientLine) int64 { return l.IngredientID }
func stepKey(l InstructionLine) int        { return l.Step }

// Reconcile validates key uniqueness of both lists before resolving any
// reference, then merges ingredients and instructions. On error rec is
// unchanged.
func (rc *Reconciler) Reconcile(ctx context.Context, rec *models.Recipe, ings []IngredientLine, steps []InstructionLine) error {
	if _, err := merge.CheckUnique(ings, ingredientKey, "ingredient_id"); err != nil {
		return err
	}
	if _, err := merge.CheckUnique(steps, stepKey, "step"); err != nil {
		return err
	}

	merged, err := rc.mergeIngredients(ctx, rec, ings)
	if err != nil {
		return err
	}
	instructions, err := mergeInstructions(rec, steps)
	if err != nil {
		return err
	}

	rec.Ingredients = merged
	rec.Instructions = instructions
	return nil
}

// MergeIngredients resolves every referenced ingredient and merges the lines
// keyed by ingredient id.
func (rc *Reconciler) MergeIngredients(ctx context.Context, rec *models.Recipe, lines []IngredientLine) error {
	merged, err := rc.mergeIngredients(ctx, rec, lines)
	if err != nil {
		return err
	}
	rec.Ingredients = merged
	return nil
}

// MergeInstructions merges the lines keyed by step number. Steps are caller
// supplied and may have gaps.
func (rc *Reconciler) MergeInstructions(rec *models.Recipe, lines []InstructionLine) error {
	merged, err := mergeInstructions(rec, lines)
	if err != nil {
		return err
	}
	rec.Instructions = merged
	return nil
}

func (rc *Reconciler) mergeIngredients(ctx context.Context, rec *models.Recipe, lines []IngredientLine) ([]*models.RecipeIngredient, error) {
	if _, err := merge.CheckUnique(lines, ingredientKey, "ingredient_id"); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(lines))
	for _, l := range lines {
		ing, err := rc.Ingredients.FindByID(ctx, l.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("resolve ingredient %d: %w", l.IngredientID, err)
		}
		if ing == nil {
			return nil, apperr.NotFound("Ingredient", l.IngredientID)
		}
		names[l.IngredientID] = ing.Name
	}

	// Apply mutates retained records, so work on copies until every step
	// has succeeded.
	existing := cloneIngredients(rec.Ingredients)
	m := merge.Merger[int64, models.RecipeIngredient, IngredientLine]{
		KeyName:     "ingredient_id",
		RecordKey:   func(ri *models.RecipeIngredient) int64 { return ri.IngredientID },
		IncomingKey: ingredientKey,
		Apply: func(ri *models.RecipeIngredient, l IngredientLine) {
			ri.Quantity = l.Quantity
			ri.Unit = l.Unit
			ri.Note = l.Note
			ri.IngredientName = names[l.IngredientID]
		},
		New: func(l IngredientLine) *models.RecipeIngredient {
			return &models.RecipeIngredient{
				RecipeID:       rec.ID,
				IngredientID:   l.IngredientID,
				IngredientName: names[l.IngredientID],
				Quantity:       l.Quantity,
				Unit:           l.Unit,
				Note:           l.Note,
			}
		},
	}
	res, err := m.Merge(existing, lines)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func mergeInstructions(rec *models.Recipe, lines []InstructionLine) ([]*models.Instruction, error) {
	existing := cloneInstructions(rec.Instructions)
	m := merge.Merger[int, models.Instruction, InstructionLine]{
		KeyName:     "step",
		RecordKey:   func(in *models.Instruction) int { return in.Step },
		IncomingKey: stepKey,
		Apply: func(in *models.Instruction, l InstructionLine) {
			in.Description = l.Description
			in.TutorialVideoURL = l.TutorialVideoURL
		},
		New: func(l InstructionLine) *models.Instruction {
			return &models.Instruction{
				RecipeID:         rec.ID,
				Step:             l.Step,
				Description:      l.Description,
				TutorialVideoURL: l.TutorialVideoURL,
			}
		},
	}
	res, err := m.Merge(existing, lines)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func cloneIngredients(in []*models.RecipeIngredient) []*models.RecipeIngredient {
	out := make([]*models.RecipeIngredient, len(in))
	for i, ri := range in {
		c := *ri
		out[i] = &c
	}
	return out
}

func cloneInstructions(in []*models.Instruction) []*models.Instruction {
	out := make([]*models.Instruction, len(in))
	for i, ins := range in {
		c := *ins
		out[i] = &c
	}
	return out
}
