package ingredient

import (
	"strings"

	"cookingapp/internal/merge"
	"cookingapp/pkg/models"
)

func nutritionMerger(ingredientID int64) merge.Merger[models.Nutrient, models.Nutrition, NutritionLine] {
	return merge.Merger[models.Nutrient, models.Nutrition, NutritionLine]{
		KeyName:     "nutrient",
		RecordKey:   func(n *models.Nutrition) models.Nutrient { return n.Nutrient },
		IncomingKey: func(l NutritionLine) models.Nutrient { return l.Nutrient },
		Apply: func(n *models.Nutrition, l NutritionLine) {
			n.Value = l.Value
			n.Unit = strings.TrimSpace(l.Unit)
		},
		New: func(l NutritionLine) *models.Nutrition {
			return &models.Nutrition{
				IngredientID: ingredientID,
				Nutrient:     l.Nutrient,
				Value:        l.Value,
				Unit:         strings.TrimSpace(l.Unit),
			}
		},
	}
}

// MergeNutrition replaces ing's nutrition facts with lines, keyed by
// nutrient. Retained facts keep their row id. A nil or empty lines clears
// the collection. On a duplicate nutrient ing is left as it was.
func MergeNutrition(ing *models.Ingredient, lines []NutritionLine) error {
	existing := make([]*models.Nutrition, len(ing.Nutrition))
	for i, n := range ing.Nutrition {
		c := *n
		existing[i] = &c
	}

	res, err := nutritionMerger(ing.ID).Merge(existing, lines)
	if err != nil {
		return err
	}
	ing.Nutrition = res.Records
	return nil
}
