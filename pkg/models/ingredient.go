package models

import "time"

// Ingredient owns its nutrition facts. Nutrition values are per
// ServingAmount of ServingUnit.
type Ingredient struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Category      string         `json:"category,omitempty"`
	Description   string         `json:"description,omitempty"`
	ServingAmount float64        `json:"serving_amount"`
	ServingUnit   Unit           `json:"serving_unit"`
	Nutrition     []*Nutrition   `json:"nutrition_list"`
	StoreListings []StoreListing `json:"nearby_store_listings,omitempty"`
}

type Nutrition struct {
	ID           int64    `json:"id"`
	IngredientID int64    `json:"-"`
	Nutrient     Nutrient `json:"nutrient"`
	Value        float64  `json:"value"`
	Unit         string   `json:"unit"`
}

// StoreListing is a cached, location-aware price observation for an ingredient.
type StoreListing struct {
	ID             int64      `json:"id"`
	IngredientID   int64      `json:"ingredient_id"`
	StoreName      string     `json:"store_name"`
	StoreAddress   string     `json:"store_address,omitempty"`
	StorePlaceID   string     `json:"store_place_id,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	Currency       string     `json:"currency,omitempty"`
	InStock        bool       `json:"in_stock"`
	DistanceKm     *float64   `json:"distance_km"`
	SourceProvider string     `json:"source_provider,omitempty"`
	CapturedAt     time.Time  `json:"captured_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}
