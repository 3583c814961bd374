package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tablescout/profiler-cli/internal/competitor"
	"github.com/tablescout/profiler-cli/internal/cost"
	"github.com/tablescout/profiler-cli/internal/pipeline"
	"github.com/tablescout/profiler-cli/internal/sitescrape"
	"github.com/tablescout/profiler-cli/internal/store"
	"github.com/tablescout/profiler-cli/pkg/browser"
	"github.com/tablescout/profiler-cli/pkg/insights"
	"github.com/tablescout/profiler-cli/pkg/places"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "profiler.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initPlaces() places.Client {
	if cfg.Places.Key == "" {
		zap.L().Warn("no places API key configured, provider phases will be skipped")
		return nil
	}
	opts := []places.Option{}
	if cfg.Places.BaseURL != "" {
		opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	if cfg.Places.RequestsPerSec > 0 {
		opts = append(opts, places.WithRateLimit(cfg.Places.RequestsPerSec, cfg.Places.Burst))
	}
	return places.NewClient(cfg.Places.Key, opts...)
}

// initScraper builds the browser-first scrape cascade. The browser session
// is returned so the caller can shut it down.
func initScraper() (sitescrape.Scraper, browser.Client) {
	browserCfg := browser.DefaultConfig()
	browserCfg.Disabled = cfg.Browser.Disabled
	browserCfg.ExecPath = cfg.Browser.ExecPath
	if cfg.Browser.RenderTimeoutSecs > 0 {
		browserCfg.RenderTimeout = time.Duration(cfg.Browser.RenderTimeoutSecs) * time.Second
	}
	if cfg.Browser.SettleDelayMs > 0 {
		browserCfg.SettleDelay = time.Duration(cfg.Browser.SettleDelayMs) * time.Millisecond
	}
	session := browser.NewSession(browserCfg)

	var fallbackOpts []sitescrape.FallbackOption
	if cfg.Scrape.TimeoutSecs > 0 {
		fallbackOpts = append(fallbackOpts, sitescrape.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second))
	}

	cascade := sitescrape.NewCascade(
		sitescrape.NewBrowserScraper(session),
		sitescrape.NewFallbackExtractor(fallbackOpts...),
	)
	return cascade, session
}

func initInsights() insights.Client {
	if cfg.Anthropic.Key == "" {
		zap.L().Warn("no anthropic API key configured, analysis phase will be skipped")
		return nil
	}
	opts := []insights.Option{}
	if cfg.Anthropic.Model != "" {
		opts = append(opts, insights.WithModel(cfg.Anthropic.Model))
	}
	return insights.NewClient(cfg.Anthropic.Key, opts...)
}

func configRates() cost.Rates {
	rates := cost.DefaultRates()
	p := cfg.Pricing
	if p.PlacesTextSearch > 0 {
		rates.PlacesTextSearch = p.PlacesTextSearch
	}
	if p.PlacesNearby > 0 {
		rates.PlacesNearby = p.PlacesNearby
	}
	if p.PlacesDetails > 0 {
		rates.PlacesDetails = p.PlacesDetails
	}
	if p.PlacesGeocode > 0 {
		rates.PlacesGeocode = p.PlacesGeocode
	}
	if p.PlacesReviewPage > 0 {
		rates.PlacesReviewPage = p.PlacesReviewPage
	}
	if p.BrowserRender > 0 {
		rates.BrowserRender = p.BrowserRender
	}
	return rates
}

// pipelineEnv bundles the wired extractor with the resources it owns.
type pipelineEnv struct {
	Extractor *pipeline.Extractor
	Store     store.Store
	browser   browser.Client
}

func (e *pipelineEnv) Close() {
	if e.browser != nil {
		e.browser.Shutdown()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	scraper, session := initScraper()

	opts := []pipeline.Option{
		pipeline.WithStore(st),
		pipeline.WithRates(configRates()),
		pipeline.WithDiscoveryConfig(competitor.DiscoveryConfig{
			TargetPoolSize: cfg.Discovery.TargetPoolSize,
			TopN:           cfg.Discovery.TopN,
			ChainKeywords:  cfg.Discovery.ChainKeywords,
		}),
		pipeline.WithEnrichConfig(competitor.EnrichConfig{
			BatchSize: cfg.Enrich.BatchSize,
		}),
		pipeline.WithReviewsConfig(pipeline.ReviewsConfig{
			MaxPages:  cfg.Reviews.MaxPages,
			PageDelay: time.Duration(cfg.Reviews.PageDelayMs) * time.Millisecond,
		}),
	}
	if insightsClient := initInsights(); insightsClient != nil {
		opts = append(opts, pipeline.WithInsights(insightsClient))
	}

	extractor := pipeline.New(scraper, initPlaces(), opts...)

	return &pipelineEnv{
		Extractor: extractor,
		Store:     st,
		browser:   session,
	}, nil
}
