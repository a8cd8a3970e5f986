package models

type Food struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	RecipeCount int    `json:"recipe_count"`
}

type FoodRecipeStatus struct {
	FoodID    int64  `json:"food_id"`
	FoodName  string `json:"food_name"`
	HasRecipe bool   `json:"has_recipe"`
	Message   string `json:"message"`
}
