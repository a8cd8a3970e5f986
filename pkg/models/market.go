package models

import "time"

// Market is a supermarket known for a city. ID is zero for fallback seeds
// that have not been promoted to storage yet.
type Market struct {
	ID               int64  `json:"id,omitempty" yaml:"-"`
	City             string `json:"city" yaml:"city"`
	Name             string `json:"supermarket_name" yaml:"supermarket_name"`
	OfficialWebsite  string `json:"official_website,omitempty" yaml:"official_website"`
	CatalogSearchURL string `json:"catalog_search_url,omitempty" yaml:"catalog_search_url"`
	Notes            string `json:"notes,omitempty" yaml:"notes"`
}

// DiscoverySource tells where the markets of a discovery run came from.
type DiscoverySource string

const (
	SourceDB       DiscoverySource = "DB"
	SourceFallback DiscoverySource = "FALLBACK"
)

const (
	MatchOfficialWebCrawl = "OFFICIAL_WEB_CRAWL"
	MatchNoMatchOnCrawl   = "NO_MATCH_ON_CRAWL"
)

// DiscoveryResult is returned to callers and never stored.
type DiscoveryResult struct {
	City              string          `json:"city"`
	SupermarketName   string          `json:"supermarket_name"`
	OfficialWebsite   string          `json:"official_website,omitempty"`
	CatalogSearchURL  string          `json:"catalog_search_url,omitempty"`
	IngredientMatched bool            `json:"ingredient_matched"`
	MatchSource       string          `json:"match_source"`
	DiscoverySource   DiscoverySource `json:"discovery_source"`
	CheckedAt         time.Time       `json:"checked_at"`
}
