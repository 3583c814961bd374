// Package pipeline orchestrates the restaurant profile extraction run:
// own-site scrape, places lookup, competitor discovery and enrichment,
// strategic analysis, and final assembly. Every phase is tracked with
// duration, cost, and outcome; a failed phase is recorded and skipped, never
// retried, and the assembled profile is returned regardless.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tablescout/profiler-cli/internal/competitor"
	"github.com/tablescout/profiler-cli/internal/cost"
	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/resilience"
	"github.com/tablescout/profiler-cli/internal/sitescrape"
	"github.com/tablescout/profiler-cli/internal/store"
	"github.com/tablescout/profiler-cli/pkg/insights"
	"github.com/tablescout/profiler-cli/pkg/places"
)

// ExtractResult is the outcome of a single run: the assembled profile plus
// per-phase accounting.
type ExtractResult struct {
	RunID   string
	Profile *model.BusinessProfile
	Phases  []model.PhaseResult
}

// Extractor runs the extraction pipeline. Any of scraper, places, or
// insights may be nil; the corresponding phases are skipped.
type Extractor struct {
	store     store.Store
	scraper   sitescrape.Scraper
	places    places.Client
	insights  insights.Client
	rates     cost.Rates
	discovery competitor.DiscoveryConfig
	enrich    competitor.EnrichConfig
	reviews   ReviewsConfig
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStore enables run persistence.
func WithStore(st store.Store) Option {
	return func(e *Extractor) { e.store = st }
}

// WithInsights enables the strategic-analysis phase.
func WithInsights(client insights.Client) Option {
	return func(e *Extractor) { e.insights = client }
}

// WithRates overrides the default cost rates.
func WithRates(rates cost.Rates) Option {
	return func(e *Extractor) { e.rates = rates }
}

// WithDiscoveryConfig overrides competitor-discovery tuning.
func WithDiscoveryConfig(cfg competitor.DiscoveryConfig) Option {
	return func(e *Extractor) { e.discovery = cfg }
}

// WithEnrichConfig overrides competitor-enrichment tuning.
func WithEnrichConfig(cfg competitor.EnrichConfig) Option {
	return func(e *Extractor) { e.enrich = cfg }
}

// WithReviewsConfig overrides review-aggregation tuning.
func WithReviewsConfig(cfg ReviewsConfig) Option {
	return func(e *Extractor) { e.reviews = cfg }
}

// New creates an Extractor.
func New(scraper sitescrape.Scraper, placesClient places.Client, opts ...Option) *Extractor {
	e := &Extractor{
		scraper:   scraper,
		places:    placesClient,
		rates:     cost.DefaultRates(),
		discovery: competitor.DefaultDiscoveryConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the full extraction pipeline for a single request. The
// returned profile is always non-nil: phases that fail leave their fields
// empty and the quality score reflects what was actually collected.
func (e *Extractor) Run(ctx context.Context, req model.ExtractRequest) (*ExtractResult, error) {
	log := zap.L().With(zap.String("url", req.URL))
	log.Info("pipeline: starting extraction")

	start := time.Now()
	calc := cost.NewCalculator(e.rates)
	gate := resilience.NewProviderGate()

	profile := &model.BusinessProfile{URL: req.URL}
	result := &ExtractResult{Profile: profile}

	var runID string
	if e.store != nil {
		run, err := e.store.CreateRun(ctx, req)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		runID = run.ID
		result.RunID = runID
	}

	setStatus := func(status model.RunStatus) {
		if e.store == nil {
			return
		}
		if err := e.store.UpdateRunStatus(ctx, runID, status); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
	}

	trackPhase := func(name string, fn func() (*model.PhaseResult, error)) *model.PhaseResult {
		var phase *model.RunPhase
		if e.store != nil {
			var phaseErr error
			phase, phaseErr = e.store.CreatePhase(ctx, runID, name)
			if phaseErr != nil {
				log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(phaseErr))
			}
		}

		costBefore := calc.Total()
		phaseStart := time.Now()
		phaseResult, fnErr := fn()
		duration := time.Since(phaseStart).Milliseconds()

		if phaseResult == nil {
			phaseResult = &model.PhaseResult{}
		}
		phaseResult.Name = name
		phaseResult.Duration = duration
		phaseResult.CostUSD = calc.Total() - costBefore

		switch {
		case fnErr != nil:
			phaseResult.Status = model.PhaseStatusFailed
			phaseResult.Error = fnErr.Error()
			log.Error("pipeline: phase failed",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		case phaseResult.Status == model.PhaseStatusSkipped:
			log.Info("pipeline: phase skipped", zap.String("phase", name))
		default:
			phaseResult.Status = model.PhaseStatusComplete
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", duration),
			)
		}

		if phase != nil {
			_ = e.store.CompletePhase(ctx, phase.ID, phaseResult)
		}
		result.Phases = append(result.Phases, *phaseResult)
		return phaseResult
	}

	metered := e.meteredClient(calc, gate)

	// ===== Phase 1: own-site scrape =====
	setStatus(model.RunStatusScraping)
	var siteRec *model.SiteRecord

	pr := trackPhase(string(model.PhaseOwnSiteScrape), func() (*model.PhaseResult, error) {
		if e.scraper == nil || !e.scraper.IsAvailable() {
			return &model.PhaseResult{Status: model.PhaseStatusSkipped}, nil
		}
		rec, err := e.scraper.Scrape(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		siteRec = rec
		if rec.Source == "browser" {
			calc.Add(e.rates.BrowserRender, 1)
		} else {
			calc.Add(e.rates.FallbackFetch, 1)
		}
		return &model.PhaseResult{
			Metadata: map[string]any{
				"source":     rec.Source,
				"menu_items": len(rec.MenuItems),
			},
		}, nil
	})
	if pr.Status == model.PhaseStatusComplete {
		applySiteRecord(profile, siteRec)
		profile.Metadata.CompletePhase(model.PhaseOwnSiteScrape)
	}

	// ===== Phase 2: places lookup =====
	setStatus(model.RunStatusPlaces)
	var placeID string

	name := firstNonEmpty(req.Name, profile.Name)
	address := firstNonEmpty(req.Address, profile.Address)

	pr = trackPhase(string(model.PhasePlacesLookup), func() (*model.PhaseResult, error) {
		if e.places == nil {
			return &model.PhaseResult{Status: model.PhaseStatusSkipped}, nil
		}
		if name == "" && address == "" {
			return nil, eris.New("pipeline: no business name or address to search with")
		}

		candidate, err := places.FindPlace(ctx, metered, name, address)
		if err != nil {
			return nil, err
		}
		placeID = candidate.PlaceID

		details, err := metered.PlaceDetails(ctx, candidate.PlaceID)
		if err != nil {
			return nil, err
		}
		applyPlaceDetails(profile, details)

		summary, pages, err := BuildReviewSummary(ctx, metered, candidate.PlaceID, e.reviews)
		if err != nil {
			zap.L().Warn("pipeline: review aggregation failed",
				zap.String("place_id", candidate.PlaceID),
				zap.Error(err),
			)
		}
		profile.Reviews = summary

		return &model.PhaseResult{
			Metadata: map[string]any{
				"place_id":     candidate.PlaceID,
				"review_pages": pages,
			},
		}, nil
	})
	if pr.Status == model.PhaseStatusComplete {
		profile.Metadata.CompletePhase(model.PhasePlacesLookup)
	}

	// ===== Phase 3: competitor discovery =====
	setStatus(model.RunStatusDiscovering)
	var (
		candidates []competitor.Candidate
		coord      *model.Coordinate
	)

	locationText := firstNonEmpty(profile.Address, address)

	pr = trackPhase(string(model.PhaseCompetitorDiscovery), func() (*model.PhaseResult, error) {
		if e.places == nil {
			return &model.PhaseResult{Status: model.PhaseStatusSkipped}, nil
		}
		if locationText == "" {
			return nil, eris.New("pipeline: no location to discover competitors around")
		}

		discoverer := competitor.NewDiscoverer(metered, e.discovery)
		found, c, err := discoverer.Discover(ctx, locationText, nil)
		if err != nil && len(found) == 0 {
			return nil, err
		}
		candidates = excludeSelf(found, placeID)
		coord = c
		if coord != nil && profile.Coordinate == nil {
			profile.Coordinate = coord
		}

		return &model.PhaseResult{
			Metadata: map[string]any{
				"candidates":       len(candidates),
				"geocode_fallback": coord == nil,
			},
		}, nil
	})
	if pr.Status == model.PhaseStatusComplete {
		profile.Metadata.CompletePhase(model.PhaseCompetitorDiscovery)
	}

	// ===== Phase 4: competitor enrichment =====
	setStatus(model.RunStatusEnriching)

	pr = trackPhase(string(model.PhaseCompetitorEnrichment), func() (*model.PhaseResult, error) {
		if len(candidates) == 0 {
			return &model.PhaseResult{Status: model.PhaseStatusSkipped}, nil
		}
		enrichAt := profile.Coordinate
		if enrichAt == nil {
			// Geocode-fallback candidates carry no distance reference; they
			// are retained with minimal fields and never enriched.
			profile.Competitors = competitor.MinimalRecords(candidates)
			return &model.PhaseResult{
				Metadata: map[string]any{
					"competitors":      len(profile.Competitors),
					"geocode_fallback": true,
				},
			}, nil
		}

		enricher := competitor.NewEnricher(metered, e.scraper, e.enrich)
		profile.Competitors = enricher.Enrich(ctx, *enrichAt, candidates)
		return &model.PhaseResult{
			Metadata: map[string]any{
				"competitors": len(profile.Competitors),
			},
		}, nil
	})
	if pr.Status == model.PhaseStatusComplete {
		profile.Metadata.CompletePhase(model.PhaseCompetitorEnrichment)
	}

	// ===== Phase 5: strategic analysis =====
	setStatus(model.RunStatusAnalyzing)

	pr = trackPhase(string(model.PhaseStrategicAnalysis), func() (*model.PhaseResult, error) {
		if e.insights == nil {
			return &model.PhaseResult{Status: model.PhaseStatusSkipped}, nil
		}

		profileJSON, err := json.Marshal(profile)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: marshal profile for analysis")
		}

		report, err := e.insights.GenerateReport(ctx, insights.ReportRequest{
			System:  analysisSystemPrompt,
			Profile: string(profileJSON),
		})
		if err != nil {
			return nil, err
		}

		reportCost := report.EstimateCost()
		calc.AddOther(reportCost)
		profile.Metadata.Analysis = &model.StrategicReport{
			Narrative: report.Narrative,
			Model:     report.Model,
			CostUSD:   reportCost,
		}
		return &model.PhaseResult{
			Metadata: map[string]any{
				"model":         report.Model,
				"input_tokens":  report.InputTokens,
				"output_tokens": report.OutputTokens,
			},
		}, nil
	})
	if pr.Status == model.PhaseStatusComplete {
		profile.Metadata.CompletePhase(model.PhaseStrategicAnalysis)
	}

	// ===== Assembly =====
	profile.Metadata.EstimatedCostUSD = calc.Total()
	profile.Metadata.Duration = time.Since(start)
	profile.Metadata.QualityScore = QualityScore(profile)
	profile.Metadata.CompletePhase(model.PhaseAssembled)

	if e.store != nil {
		if err := e.store.SaveProfile(ctx, runID, profile); err != nil {
			log.Warn("pipeline: failed to persist profile", zap.Error(err))
		}
	}

	log.Info("pipeline: extraction complete",
		zap.Float64("quality_score", profile.Metadata.QualityScore),
		zap.Float64("cost_usd", profile.Metadata.EstimatedCostUSD),
		zap.Duration("duration", profile.Metadata.Duration),
		zap.Int("competitors", len(profile.Competitors)),
	)
	return result, nil
}

// meteredClient wraps the places client for this run, or returns nil when
// places lookups are disabled.
func (e *Extractor) meteredClient(calc *cost.Calculator, gate *resilience.ProviderGate) places.Client {
	if e.places == nil {
		return nil
	}
	return newMeteredPlaces(e.places, calc, gate)
}

const analysisSystemPrompt = `You are a restaurant industry analyst. Given a JSON business profile with competitor data, reviews, and digital presence signals, write a concise strategic assessment: market position, digital gaps versus nearby competitors, and the two or three highest-leverage improvements. Plain prose, no headings.`

// applySiteRecord seeds the profile from the scraped site. Scraped values
// are authoritative for the target business.
func applySiteRecord(p *model.BusinessProfile, rec *model.SiteRecord) {
	if rec == nil {
		return
	}
	p.Name = firstNonEmpty(p.Name, rec.Name)
	p.Address = firstNonEmpty(p.Address, rec.Address)
	p.Contact = p.Contact.Merge(model.ContactInfo{Email: rec.Email, Phone: rec.Phone})
	if len(rec.SocialLinks) > 0 {
		p.SocialLinks = rec.SocialLinks
	}
	if len(rec.MenuItems) > 0 {
		p.MenuItems = rec.MenuItems
	}
}

// applyPlaceDetails fills profile gaps from the provider record. Scraped
// values win; provider values only fill what the scrape missed.
func applyPlaceDetails(p *model.BusinessProfile, d *places.Details) {
	if d == nil {
		return
	}
	p.Name = firstNonEmpty(p.Name, d.Name)
	p.Address = firstNonEmpty(p.Address, d.Address)
	p.Contact = p.Contact.Merge(model.ContactInfo{Phone: d.Phone})
	if p.Coordinate == nil && d.Location != nil {
		p.Coordinate = &model.Coordinate{Lat: d.Location.Lat, Lng: d.Location.Lng}
	}
}

// excludeSelf drops the target business from its own competitor list.
func excludeSelf(candidates []competitor.Candidate, placeID string) []competitor.Candidate {
	if placeID == "" {
		return candidates
	}
	out := candidates[:0]
	for _, c := range candidates {
		if c.PlaceID != placeID {
			out = append(out, c)
		}
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
