package discovery

import (
	"context"

	"cookingapp/pkg/models"
)

// MarketStore persists markets that proved useful for a city.
type MarketStore interface {
	FindByCity(ctx context.Context, city string) ([]models.Market, error)
	ExistsByCityAndName(ctx context.Context, city, name string) (bool, error)
	// Insert reports false when an equal (city, name) row already exists.
	Insert(ctx context.Context, m *models.Market) (bool, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Fetcher returns the visible text of the page at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ResultCache remembers probe outcomes. Implementations swallow their own
// failures and report a miss instead.
type ResultCache interface {
	Get(ctx context.Context, key string) (matched, ok bool)
	Set(ctx context.Context, key string, matched bool)
}
