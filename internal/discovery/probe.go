package discovery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"cookingapp/internal/logger"
	"cookingapp/internal/metrics"
	"cookingapp/pkg/models"
)

const placeholder = "{ingredient}"

// BuildURL turns the catalog search template of m into a search URL for
// term. A blank template yields "" and callers crawl the official website
// instead.
func BuildURL(m models.Market, term string) string {
	tmpl := strings.TrimSpace(m.CatalogSearchURL)
	if tmpl == "" {
		return ""
	}
	q := url.QueryEscape(strings.TrimSpace(term))
	switch {
	case strings.Contains(tmpl, placeholder):
		return strings.ReplaceAll(tmpl, placeholder, q)
	case strings.Contains(tmpl, "?"):
		return tmpl + "&q=" + q
	default:
		return tmpl + "?q=" + q
	}
}

// CrawlTarget is the page probed for m.
func CrawlTarget(m models.Market, term string) string {
	if u := BuildURL(m, term); u != "" {
		return u
	}
	return strings.TrimSpace(m.OfficialWebsite)
}

// Probe checks whether a market page mentions an ingredient. It never
// returns an error: every failure counts as no match.
type Probe struct {
	Fetcher Fetcher
	Timeout time.Duration
	Cache   ResultCache
}

func (p *Probe) Matches(ctx context.Context, target, term string) bool {
	needle := models.FoldKey(term)
	target = strings.TrimSpace(target)
	if target == "" || needle == "" {
		return false
	}

	key := target + "\x00" + needle
	if p.Cache != nil {
		if matched, ok := p.Cache.Get(ctx, key); ok {
			metrics.ObserveProbe(metrics.OutcomeCached)
			return matched
		}
	}

	fetchCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	text, err := p.Fetcher.Fetch(fetchCtx, target)
	if err != nil {
		logger.FromContext(ctx).Debug("probe failed",
			zap.String("target", target),
			zap.Error(err),
		)
		metrics.ObserveProbe(metrics.OutcomeError)
		return false
	}

	matched := strings.Contains(models.FoldKey(text), needle)
	if matched {
		metrics.ObserveProbe(metrics.OutcomeMatch)
	} else {
		metrics.ObserveProbe(metrics.OutcomeNoMatch)
	}
	if p.Cache != nil {
		p.Cache.Set(ctx, key, matched)
	}
	return matched
}
