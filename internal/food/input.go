package food

import (
	"strings"

	"cookingapp/internal/recipe"
)

type Input struct {
	Name     string          `json:"name" binding:"notblank,max=180"`
	Category string          `json:"category" binding:"max=80"`
	ImageURL string          `json:"image_url" binding:"omitempty,http_url"`
	Recipes  []RecipeVersion `json:"recipes" binding:"omitempty,dive"`
}

// RecipeVersion is a recipe created together with its food. A blank title
// defaults to the food name.
type RecipeVersion struct {
	Title        string                   `json:"title" binding:"max=200"`
	Description  string                   `json:"description"`
	Version      *string                  `json:"version" binding:"omitempty,max=80"`
	Ingredients  []recipe.IngredientLine  `json:"ingredients" binding:"required,min=1,dive"`
	Instructions []recipe.InstructionLine `json:"instructions" binding:"required,min=1,dive"`
}

func (v RecipeVersion) input(foodName string) recipe.Input {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		title = foodName
		if v.Version != nil && *v.Version != "" {
			title += " (" + *v.Version + ")"
		}
	}
	return recipe.Input{
		Title:        title,
		Description:  v.Description,
		Version:      v.Version,
		Ingredients:  v.Ingredients,
		Instructions: v.Instructions,
	}
}
