// Package events fans change notifications out to connected websocket and
// TCP subscribers. Delivery is best effort; nothing is queued for clients
// that connect later.
package events

import (
	"context"
	"time"
)

const (
	RecipeSaved       = "recipe.saved"
	RecipeDeleted     = "recipe.deleted"
	IngredientSaved   = "ingredient.saved"
	IngredientDeleted = "ingredient.deleted"
	FoodSaved         = "food.saved"
	FoodDeleted       = "food.deleted"
	MarketsPromoted   = "markets.promoted"
)

type Event struct {
	Type  string    `json:"type"`
	ID    int64     `json:"id,omitempty"`
	City  string    `json:"city,omitempty"`
	Names []string  `json:"names,omitempty"`
	At    time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
