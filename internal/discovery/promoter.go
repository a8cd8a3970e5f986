package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cookingapp/internal/logger"
	"cookingapp/pkg/models"
)

// Promoter persists fallback markets that produced a match so later runs
// for the city read them from storage.
type Promoter struct {
	Markets MarketStore
}

// Promote stores every market in matched that is not yet known for city
// and returns the ones it added. The unique (city, name) index makes a
// concurrent duplicate insert a no-op.
func (p *Promoter) Promote(ctx context.Context, city string, matched []models.Market) ([]models.Market, error) {
	added := []models.Market{}
	for _, m := range matched {
		exists, err := p.Markets.ExistsByCityAndName(ctx, city, m.Name)
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}

		fresh := models.Market{
			City:             city,
			Name:             m.Name,
			OfficialWebsite:  m.OfficialWebsite,
			CatalogSearchURL: m.CatalogSearchURL,
			Notes:            m.Notes,
		}
		ok, err := p.Markets.Insert(ctx, &fresh)
		if err != nil {
			return added, fmt.Errorf("promote market: %w", err)
		}
		if !ok {
			logger.FromContext(ctx).Debug("market promoted concurrently",
				zap.String("city", city),
				zap.String("market", m.Name),
			)
			continue
		}
		added = append(added, fresh)
	}
	return added, nil
}
