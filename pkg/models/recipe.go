package models

// Recipe owns its ingredient lines and instructions. Children reference the
// recipe by RecipeID only; the recipe store loads and saves them as a unit.
type Recipe struct {
	ID           int64               `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Version      *string             `json:"version,omitempty"`
	FoodID       *int64              `json:"food_id,omitempty"`
	FoodName     string              `json:"food_name,omitempty"`
	Ingredients  []*RecipeIngredient `json:"ingredients"`
	Instructions []*Instruction      `json:"instructions"`
}

type RecipeIngredient struct {
	ID             int64   `json:"id"`
	RecipeID       int64   `json:"-"`
	IngredientID   int64   `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name,omitempty"`
	Quantity       float64 `json:"quantity"`
	Unit           Unit    `json:"unit"`
	Note           string  `json:"note,omitempty"`
}

type Instruction struct {
	ID               int64  `json:"id"`
	RecipeID         int64  `json:"-"`
	Step             int    `json:"step"`
	Description      string `json:"description"`
	TutorialVideoURL string `json:"tutorial_video_url,omitempty"`
}
