package discovery

import (
	"context"
	"fmt"
	"strings"

	"cookingapp/internal/apperr"
	"cookingapp/pkg/models"
)

// Resolver decides which city a discovery runs for and which markets are
// probed there.
type Resolver struct {
	Users     UserFinder
	Markets   MarketStore
	Fallbacks []models.Market
}

// ResolveCity prefers an explicit city over the stored city of userID.
func (r *Resolver) ResolveCity(ctx context.Context, userID *int64, city string) (string, error) {
	if c := strings.TrimSpace(city); c != "" {
		return c, nil
	}
	if userID == nil {
		return "", apperr.Business("City is required when userId is not provided")
	}

	u, err := r.Users.FindByID(ctx, *userID)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return "", apperr.NotFound("User", *userID)
	}
	c := strings.TrimSpace(u.City)
	if c == "" {
		return "", apperr.Business("User city is not set for user id: %d", *userID)
	}
	return c, nil
}

// LoadMarkets returns the persisted markets of city, or the configured
// fallback seeds for it when none are stored yet. A city without seeds
// yields an empty FALLBACK list.
func (r *Resolver) LoadMarkets(ctx context.Context, city string) ([]models.Market, models.DiscoverySource, error) {
	city = strings.TrimSpace(city)
	stored, err := r.Markets.FindByCity(ctx, city)
	if err != nil {
		return nil, "", err
	}
	if len(stored) > 0 {
		return stored, models.SourceDB, nil
	}

	out := []models.Market{}
	for _, m := range r.Fallbacks {
		if !models.SameKey(m.City, city) {
			continue
		}
		m.ID = 0
		m.City = city
		out = append(out, m)
	}
	return out, models.SourceFallback, nil
}
