package recipe

import (
	"strings"

	"cookingapp/internal/apperr"
	"cookingapp/pkg/models"
)

// Input is a complete recipe write. The ingredient and instruction lists are
// authoritative: anything stored but missing here is removed.
type Input struct {
	Title        string            `json:"title" binding:"notblank,max=200"`
	Description  string            `json:"description" binding:"max=2000"`
	Version      *string           `json:"version" binding:"omitempty,max=80"`
	FoodID       *int64            `json:"food_id" binding:"omitempty,gt=0"`
	Ingredients  []IngredientLine  `json:"ingredients" binding:"required,min=1,dive"`
	Instructions []InstructionLine `json:"instructions" binding:"required,min=1,dive"`
}

type IngredientLine struct {
	IngredientID int64       `json:"ingredient_id" binding:"required,gt=0"`
	Quantity     float64     `json:"quantity" binding:"gt=0"`
	Unit         models.Unit `json:"unit" binding:"required"`
	Note         string      `json:"note" binding:"max=255"`
}

type InstructionLine struct {
	Step             int    `json:"step" binding:"gte=1"`
	Description      string `json:"description" binding:"notblank,max=4000"`
	TutorialVideoURL string `json:"tutorial_video_url" binding:"omitempty,http_url"`
}

// checkText rejects whitespace-only title and step descriptions. Callers
// that bypass request binding go through it too.
func checkText(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.Business("Title is required")
	}
	for _, l := range in.Instructions {
		if strings.TrimSpace(l.Description) == "" {
			return apperr.Business("Instruction description is required (step %d)", l.Step)
		}
	}
	return nil
}
