package sitescrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/resilience"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 2 << 20 // 2 MiB is plenty for a landing page
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) profiler-cli/1.0"
)

// FallbackExtractor is the plain-HTTP extractor used when the primary
// browser-automation scraper is unavailable or fails. It follows redirects,
// bounds the fetch with a timeout, and returns typed failures.
type FallbackExtractor struct {
	http *http.Client
}

// FallbackOption configures the extractor.
type FallbackOption func(*FallbackExtractor)

// WithTimeout overrides the default fetch timeout.
func WithTimeout(d time.Duration) FallbackOption {
	return func(f *FallbackExtractor) {
		f.http.Timeout = d
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) FallbackOption {
	return func(f *FallbackExtractor) {
		f.http = hc
	}
}

// NewFallbackExtractor creates the fallback extractor.
func NewFallbackExtractor(opts ...FallbackOption) *FallbackExtractor {
	f := &FallbackExtractor{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Name implements Scraper.
func (f *FallbackExtractor) Name() string { return "fallback" }

// IsAvailable implements Scraper. The fallback needs nothing beyond net/http.
func (f *FallbackExtractor) IsAvailable() bool { return true }

// Scrape fetches the URL and extracts a best-effort SiteRecord. Failures are
// returned as typed errors (timeout, http_status, parse_error) and never
// escape as panics.
func (f *FallbackExtractor) Scrape(ctx context.Context, url string) (*model.SiteRecord, error) {
	op := fmt.Sprintf("fallback: fetch %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fallback: create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, resilience.Classify(op, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, resilience.FromHTTPStatus(op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resilience.Classify(op, err)
	}

	rec, err := ParseSite(url, string(body))
	if err != nil {
		return nil, err
	}
	rec.Source = "fallback"
	return rec, nil
}
