package discovery

import (
	"fmt"

	"cookingapp/internal/config"
	"cookingapp/internal/events"
)

// NewFromConfig assembles a Service backed by markets and users. The
// returned close func releases the probe cache.
func NewFromConfig(cfg config.DiscoveryConfig, markets *Repo, users UserFinder, pub events.Publisher) (*Service, func(), error) {
	cache, closeCache, err := NewCache(cfg.Cache.Driver, cfg.Cache.Addrs, cfg.Cache.TTL())
	if err != nil {
		return nil, nil, fmt.Errorf("probe cache: %w", err)
	}
	svc := NewService(
		&Resolver{Users: users, Markets: markets, Fallbacks: cfg.FallbackMarkets},
		&Probe{
			Fetcher: NewHTMLFetcher(cfg.UserAgent, cfg.Timeout()),
			Timeout: cfg.Timeout(),
			Cache:   cache,
		},
		&Promoter{Markets: markets},
		cfg.Workers,
		pub,
	)
	return svc, closeCache, nil
}
