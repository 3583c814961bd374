package competitor

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tablescout/profiler-cli/internal/digital"
	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/sitescrape"
	"github.com/tablescout/profiler-cli/pkg/places"
)

// nonPrimaryDomains are hosts that never represent a competitor's own
// website: social networks, delivery marketplaces, and review aggregators.
var nonPrimaryDomains = []string{
	"facebook.com", "instagram.com", "twitter.com", "x.com", "tiktok.com",
	"doordash.com", "ubereats.com", "grubhub.com", "seamless.com",
	"postmates.com", "yelp.com", "tripadvisor.com", "opentable.com",
	"google.com",
}

// IsPrimaryWebsite reports whether the URL plausibly points at the
// business's own site rather than a marketplace or social profile.
func IsPrimaryWebsite(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	for _, domain := range nonPrimaryDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return false
		}
	}
	return true
}

// EnrichConfig tunes the enrichment pass.
type EnrichConfig struct {
	// BatchSize bounds how many candidates are in flight at once. Batches
	// run sequentially; tasks within a batch run concurrently.
	BatchSize int
}

// Enricher turns ranked candidates into full competitor records.
type Enricher struct {
	client  places.Client
	scraper sitescrape.Scraper
	cfg     EnrichConfig
}

// NewEnricher creates an Enricher. A nil scraper disables the website
// digital-strategy sub-step. BatchSize defaults to 3.
func NewEnricher(client places.Client, scraper sitescrape.Scraper, cfg EnrichConfig) *Enricher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 3
	}
	return &Enricher{client: client, scraper: scraper, cfg: cfg}
}

// Enrich fetches place details for each candidate, computes the distance
// from the target coordinate, and assesses the competitor's digital
// strategy. Candidates whose detail lookup fails are dropped with a warning;
// one candidate's failure never affects its batch siblings. Batch N+1 does
// not start before every task in batch N has settled.
func (e *Enricher) Enrich(ctx context.Context, target model.Coordinate, candidates []Candidate) []model.CompetitorRecord {
	records := make([]model.CompetitorRecord, 0, len(candidates))
	var mu sync.Mutex

	for start := 0; start < len(candidates); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(candidates))
		batch := candidates[start:end]

		g, gCtx := errgroup.WithContext(ctx)
		for _, cand := range batch {
			g.Go(func() error {
				rec, ok := e.enrichOne(gCtx, target, cand)
				if !ok {
					return nil // dropped; siblings unaffected
				}
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	return records
}

// enrichOne enriches a single candidate. The digital-strategy sub-step is
// best-effort: its failure leaves an empty assessment on the record.
func (e *Enricher) enrichOne(ctx context.Context, target model.Coordinate, cand Candidate) (model.CompetitorRecord, bool) {
	details, err := e.client.PlaceDetails(ctx, cand.PlaceID)
	if err != nil {
		zap.L().Warn("competitor: dropping candidate, detail lookup failed",
			zap.String("place_id", cand.PlaceID),
			zap.String("name", cand.Name),
			zap.Error(err),
		)
		return model.CompetitorRecord{}, false
	}

	rec := model.CompetitorRecord{
		PlaceID:     cand.PlaceID,
		Name:        firstNonEmpty(details.Name, cand.Name),
		Address:     firstNonEmpty(details.Address, cand.Address),
		Website:     details.Website,
		Rating:      model.ClampRating(firstNonZero(details.Rating, cand.Rating)),
		ReviewCount: max(details.ReviewCount, cand.ReviewCount),
		PriceTier:   model.ClampPriceTier(details.PriceTier),
		Contact:     model.ContactInfo{Phone: details.Phone},
	}

	if details.Location != nil {
		rec.DistanceKM = HaversineKM(target, model.Coordinate{
			Lat: details.Location.Lat,
			Lng: details.Location.Lng,
		})
	} else if cand.Location != nil {
		rec.DistanceKM = HaversineKM(target, *cand.Location)
	}

	if e.scraper != nil && IsPrimaryWebsite(details.Website) {
		site, scrapeErr := e.scraper.Scrape(ctx, details.Website)
		if scrapeErr != nil {
			zap.L().Warn("competitor: website scrape failed, recording empty digital strategy",
				zap.String("place_id", cand.PlaceID),
				zap.String("website", details.Website),
				zap.Error(scrapeErr),
			)
		} else {
			rec.Digital = digital.Analyze(site)
			rec.Contact = rec.Contact.Merge(model.ContactInfo{Email: site.Email, Phone: site.Phone})
		}
	}

	if !rec.Valid() {
		zap.L().Warn("competitor: dropping record missing name or address",
			zap.String("place_id", cand.PlaceID),
		)
		return model.CompetitorRecord{}, false
	}
	return rec, true
}

// MinimalRecords converts fallback candidates directly into records without
// enrichment, preserving the geocode-fallback marker.
func MinimalRecords(candidates []Candidate) []model.CompetitorRecord {
	records := make([]model.CompetitorRecord, 0, len(candidates))
	for _, cand := range candidates {
		rec := model.CompetitorRecord{
			PlaceID:         cand.PlaceID,
			Name:            cand.Name,
			Address:         cand.Address,
			Rating:          cand.Rating,
			ReviewCount:     cand.ReviewCount,
			PriceTier:       cand.PriceTier,
			GeocodeFallback: cand.GeocodeFallback,
		}
		if rec.Valid() {
			records = append(records, rec)
		}
	}
	return records
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonZero(a, b float64) float64 {
	if a != 0 {
		return a
	}
	return b
}
