// Package sitescrape extracts business signals from restaurant websites.
// The primary browser-automation scraper and the plain HTTP fallback both
// produce a model.SiteRecord; the Cascade tries them in priority order.
package sitescrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tablescout/profiler-cli/internal/model"
)

// Scraper fetches a single URL and returns the extracted site record.
// Implementations must return typed errors from the resilience taxonomy and
// never panic across the boundary.
type Scraper interface {
	Name() string
	IsAvailable() bool
	Scrape(ctx context.Context, url string) (*model.SiteRecord, error)
}

// Cascade tries scrapers in priority order, returning the first success.
type Cascade struct {
	scrapers []Scraper
}

// NewCascade creates a Cascade. Scrapers are tried in the order given; an
// unavailable scraper is skipped without counting as a failure.
func NewCascade(scrapers ...Scraper) *Cascade {
	return &Cascade{scrapers: scrapers}
}

// Name implements Scraper.
func (c *Cascade) Name() string { return "cascade" }

// IsAvailable reports whether any underlying scraper is usable.
func (c *Cascade) IsAvailable() bool {
	for _, s := range c.scrapers {
		if s.IsAvailable() {
			return true
		}
	}
	return false
}

// Scrape tries each available scraper in order for the URL. Returns the
// first successful record, or the last error when all fail.
func (c *Cascade) Scrape(ctx context.Context, url string) (*model.SiteRecord, error) {
	var lastErr error
	for _, s := range c.scrapers {
		if !s.IsAvailable() {
			zap.L().Debug("sitescrape: scraper unavailable, skipping",
				zap.String("scraper", s.Name()),
			)
			continue
		}
		rec, err := s.Scrape(ctx, url)
		if err == nil && rec != nil {
			return rec, nil
		}
		if err != nil {
			zap.L().Warn("sitescrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", url),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, eris.Errorf("sitescrape: no scraper available for %s", url)
}
