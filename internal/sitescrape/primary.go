package sitescrape

import (
	"context"

	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/resilience"
	"github.com/tablescout/profiler-cli/pkg/browser"
)

// BrowserScraper adapts the browser-automation client to the Scraper
// interface. The underlying session may be absent (no browser installed) or
// fail at any time; the cascade then falls through to the HTTP fallback.
type BrowserScraper struct {
	client browser.Client
}

// NewBrowserScraper wraps a browser client. A nil client yields a scraper
// that is never available.
func NewBrowserScraper(client browser.Client) *BrowserScraper {
	return &BrowserScraper{client: client}
}

// Name implements Scraper.
func (b *BrowserScraper) Name() string { return "browser" }

// IsAvailable implements Scraper.
func (b *BrowserScraper) IsAvailable() bool {
	return b.client != nil && b.client.Available()
}

// Scrape renders the page in the shared browser session and extracts a
// SiteRecord from the rendered DOM.
func (b *BrowserScraper) Scrape(ctx context.Context, url string) (*model.SiteRecord, error) {
	page, err := b.client.Render(ctx, url)
	if err != nil {
		return nil, resilience.Classify("browser: render "+url, err)
	}
	rec, err := ParseSite(url, page.HTML)
	if err != nil {
		return nil, err
	}
	if rec.SEOTitle == "" {
		rec.SEOTitle = page.Title
	}
	rec.Source = "browser"
	return rec, nil
}
