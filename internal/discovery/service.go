package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cookingapp/internal/apperr"
	"cookingapp/internal/events"
	"cookingapp/internal/logger"
	"cookingapp/internal/metrics"
	"cookingapp/pkg/models"
)

const defaultWorkers = 4

// Service finds which supermarkets of a city list an ingredient.
type Service struct {
	resolver *Resolver
	probe    *Probe
	promoter *Promoter
	workers  int
	events   events.Publisher
	now      func() time.Time
}

func NewService(resolver *Resolver, probe *Probe, promoter *Promoter, workers int, pub events.Publisher) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		resolver: resolver,
		probe:    probe,
		promoter: promoter,
		workers:  workers,
		events:   pub,
		now:      time.Now,
	}
}

// Discover probes every market of the resolved city for term. Results keep
// market order. Matched fallback markets are promoted once all probes are
// done.
func (s *Service) Discover(ctx context.Context, userID *int64, city, term string) ([]models.DiscoveryResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Business("Ingredient name is required for supermarket discovery")
	}

	city, err := s.resolver.ResolveCity(ctx, userID, city)
	if err != nil {
		return nil, err
	}
	markets, source, err := s.resolver.LoadMarkets(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("load markets: %w", err)
	}

	log := logger.FromContext(ctx).With(
		zap.String("city", city),
		zap.String("term", term),
		zap.String("source", string(source)),
	)
	log.Debug("discovery started", zap.Int("markets", len(markets)))

	results := make([]models.DiscoveryResult, len(markets))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, m := range markets {
		g.Go(func() error {
			target := CrawlTarget(m, term)
			matched := s.probe.Matches(ctx, target, term)
			results[i] = models.DiscoveryResult{
				City:              city,
				SupermarketName:   m.Name,
				OfficialWebsite:   m.OfficialWebsite,
				CatalogSearchURL:  target,
				IngredientMatched: matched,
				MatchSource:       matchSource(matched),
				DiscoverySource:   source,
				CheckedAt:         s.now().UTC(),
			}
			return nil
		})
	}
	_ = g.Wait()

	if source == models.SourceFallback {
		var matched []models.Market
		for i, r := range results {
			if r.IngredientMatched {
				matched = append(matched, markets[i])
			}
		}
		if len(matched) > 0 {
			added, err := s.promoter.Promote(ctx, city, matched)
			if err != nil {
				return nil, err
			}
			if len(added) > 0 {
				metrics.AddPromotions(len(added))
				names := make([]string, len(added))
				for i, m := range added {
					names[i] = m.Name
				}
				log.Info("markets promoted", zap.Strings("markets", names))
				s.events.Publish(ctx, events.Event{Type: events.MarketsPromoted, City: city, Names: names})
			}
		}
	}
	return results, nil
}

func matchSource(matched bool) string {
	if matched {
		return models.MatchOfficialWebCrawl
	}
	return models.MatchNoMatchOnCrawl
}
