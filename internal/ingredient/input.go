package ingredient

import (
	"strings"

	"cookingapp/internal/apperr"
	"cookingapp/pkg/models"
)

// Input is a complete ingredient write. A missing or null nutrition_list
// clears every stored nutrition fact.
type Input struct {
	Name          string          `json:"name" binding:"notblank,max=120"`
	Category      string          `json:"category" binding:"max=80"`
	Description   string          `json:"description" binding:"max=2000"`
	ServingAmount float64         `json:"serving_amount" binding:"gt=0"`
	ServingUnit   models.Unit     `json:"serving_unit" binding:"required"`
	Nutrition     []NutritionLine `json:"nutrition_list" binding:"omitempty,dive"`
}

type NutritionLine struct {
	Nutrient models.Nutrient `json:"nutrient" binding:"required"`
	Value    float64         `json:"value" binding:"gt=0"`
	Unit     string          `json:"unit" binding:"notblank,max=20"`
}

func checkText(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Business("Name is required")
	}
	for _, l := range in.Nutrition {
		if strings.TrimSpace(l.Unit) == "" {
			return apperr.Business("Unit is required for nutrient %s", l.Nutrient)
		}
	}
	return nil
}
