package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cookingapp/pkg/models"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		term string
		want string
	}{
		{"placeholder", "https://x.com/search/{ingredient}", "Soy Sauce", "https://x.com/search/Soy+Sauce"},
		{"placeholder trims term", "https://x.com/s?k={ingredient}&page=1", "  tofu ", "https://x.com/s?k=tofu&page=1"},
		{"existing query", "https://www.lotuss.com/th/search?lang=en", "fish sauce", "https://www.lotuss.com/th/search?lang=en&q=fish+sauce"},
		{"no query", "https://www.lotuss.com/th/search", "nam pla", "https://www.lotuss.com/th/search?q=nam+pla"},
		{"escapes reserved", "https://x.com/search", "salt & pepper", "https://x.com/search?q=salt+%26+pepper"},
		{"blank template", "   ", "tofu", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildURL(models.Market{CatalogSearchURL: tc.tmpl}, tc.term)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCrawlTarget_FallsBackToWebsite(t *testing.T) {
	m := models.Market{OfficialWebsite: "https://www.gourmetmarketthailand.com"}
	assert.Equal(t, "https://www.gourmetmarketthailand.com", CrawlTarget(m, "lemongrass"))

	m.CatalogSearchURL = "https://www.gourmetmarketthailand.com/search"
	assert.Equal(t, "https://www.gourmetmarketthailand.com/search?q=lemongrass", CrawlTarget(m, "lemongrass"))
}

type fakeFetcher struct {
	pages map[string]string
	calls int
	delay time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	page, ok := f.pages[url]
	if !ok {
		return "", errors.New("connection refused")
	}
	return page, nil
}

func TestProbe_Matches(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{pages: map[string]string{
		"https://bigc.test/search?q=fish+sauce": "Squid Brand FISH SAUCE 700ml ฿45",
		"https://tops.test/":                    "Fresh produce and more",
	}}
	p := &Probe{Fetcher: f}

	assert.True(t, p.Matches(ctx, "https://bigc.test/search?q=fish+sauce", "Fish Sauce"))
	assert.False(t, p.Matches(ctx, "https://tops.test/", "fish sauce"))
	assert.False(t, p.Matches(ctx, "https://down.test/", "fish sauce"))
	assert.False(t, p.Matches(ctx, "", "fish sauce"))
	assert.False(t, p.Matches(ctx, "https://tops.test/", "  "))
	assert.Equal(t, 3, f.calls)
}

func TestProbe_TimeoutIsNoMatch(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{"https://slow.test/": "tamarind paste"},
		delay: time.Second,
	}
	p := &Probe{Fetcher: f, Timeout: 20 * time.Millisecond}

	start := time.Now()
	assert.False(t, p.Matches(context.Background(), "https://slow.test/", "tamarind"))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestProbe_UsesCache(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{pages: map[string]string{"https://tops.test/": "Galangal root 100g"}}
	p := &Probe{Fetcher: f, Cache: NewMemoryCache(time.Minute)}

	assert.True(t, p.Matches(ctx, "https://tops.test/", "galangal"))
	assert.True(t, p.Matches(ctx, "https://tops.test/", "GALANGAL"))
	assert.Equal(t, 1, f.calls)

	assert.False(t, p.Matches(ctx, "https://gone.test/", "galangal"))
	assert.False(t, p.Matches(ctx, "https://gone.test/", "galangal"))
	assert.Equal(t, 3, f.calls, "failures are not cached")
}
