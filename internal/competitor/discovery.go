// Package competitor discovers and enriches nearby competing restaurants.
// Discovery geocodes the target location and fans out over an ordered set of
// nearby-search strategies, with a pure text-search fallback when geocoding
// fails. Enrichment runs in bounded concurrent batches.
package competitor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/resilience"
	"github.com/tablescout/profiler-cli/pkg/places"
)

// SearchStrategy is a single (radius, type) nearby-search pass.
type SearchStrategy struct {
	RadiusMeters int    `mapstructure:"radius_meters"`
	PlaceType    string `mapstructure:"place_type"`
}

// DefaultStrategies is the ordered nearby-search plan: tight restaurant
// search first, then wider, then general food.
func DefaultStrategies() []SearchStrategy {
	return []SearchStrategy{
		{RadiusMeters: 1500, PlaceType: "restaurant"},
		{RadiusMeters: 3000, PlaceType: "restaurant"},
		{RadiusMeters: 1500, PlaceType: "food"},
	}
}

// textQueryTemplates is the ordered fallback plan when geocoding fails.
var textQueryTemplates = []string{
	"restaurants near %s",
	"local restaurants %s",
	"food %s",
}

// Candidate is a competitor found during discovery, prior to enrichment.
type Candidate struct {
	PlaceID         string
	Name            string
	Address         string
	Rating          float64
	ReviewCount     int
	PriceTier       int
	Types           []string
	Location        *model.Coordinate
	GeocodeFallback bool
}

// DiscoveryConfig tunes the discovery pass.
type DiscoveryConfig struct {
	Strategies     []SearchStrategy
	TargetPoolSize int
	TopN           int
	ChainKeywords  []string
}

// DefaultDiscoveryConfig returns the standard tuning.
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Strategies:     DefaultStrategies(),
		TargetPoolSize: 20,
		TopN:           8,
	}
}

// Discoverer finds competitor candidates around a location.
type Discoverer struct {
	client places.Client
	cfg    DiscoveryConfig
	chains *ChainFilter
}

// NewDiscoverer creates a Discoverer. Zero config fields fall back to
// defaults.
func NewDiscoverer(client places.Client, cfg DiscoveryConfig) *Discoverer {
	def := DefaultDiscoveryConfig()
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = def.Strategies
	}
	if cfg.TargetPoolSize == 0 {
		cfg.TargetPoolSize = def.TargetPoolSize
	}
	if cfg.TopN == 0 {
		cfg.TopN = def.TopN
	}
	return &Discoverer{
		client: client,
		cfg:    cfg,
		chains: NewChainFilter(cfg.ChainKeywords),
	}
}

// Discover geocodes the location text and runs the nearby-search plan. When
// geocoding fails the text-search fallback produces minimal-field candidates
// marked GeocodeFallback. The returned coordinate is nil on the fallback
// path.
func (d *Discoverer) Discover(ctx context.Context, locationText string, cuisineHints []string) ([]Candidate, *model.Coordinate, error) {
	loc, err := d.client.Geocode(ctx, locationText)
	if err != nil {
		if resilience.ShortCircuits(err) {
			return nil, nil, err
		}
		zap.L().Warn("competitor: geocoding failed, falling back to text search",
			zap.String("location", locationText),
			zap.Error(err),
		)
		candidates, textErr := d.DiscoverByText(ctx, locationText)
		return candidates, nil, textErr
	}

	coord := &model.Coordinate{Lat: loc.Lat, Lng: loc.Lng}
	candidates, err := d.discoverNearby(ctx, *loc, cuisineHints)
	return candidates, coord, err
}

// discoverNearby accumulates unique candidates across the strategy plan
// until the target pool size is reached or strategies are exhausted, then
// filters and ranks.
func (d *Discoverer) discoverNearby(ctx context.Context, loc places.LatLng, cuisineHints []string) ([]Candidate, error) {
	seen := make(map[string]struct{})
	var pool []Candidate

	for _, strategy := range d.cfg.Strategies {
		if len(pool) >= d.cfg.TargetPoolSize {
			break
		}

		results, err := d.client.NearbySearch(ctx, loc, strategy.RadiusMeters, strategy.PlaceType)
		if err != nil {
			if resilience.ShortCircuits(err) {
				return rank(pool, d.cfg.TopN), err
			}
			zap.L().Warn("competitor: nearby search strategy failed",
				zap.Int("radius_m", strategy.RadiusMeters),
				zap.String("type", strategy.PlaceType),
				zap.Error(err),
			)
			continue
		}

		for _, c := range results {
			if _, dup := seen[c.PlaceID]; dup || c.PlaceID == "" {
				continue
			}
			seen[c.PlaceID] = struct{}{}

			if d.chains.IsChain(c.Name) {
				continue
			}
			if !hasRelevantType(c.Types) {
				continue
			}
			if len(cuisineHints) > 0 && !matchesCuisine(c, cuisineHints) {
				continue
			}
			pool = append(pool, fromPlaces(c, false))
		}
	}

	return rank(pool, d.cfg.TopN), nil
}

// DiscoverByText is the geocode-fallback path: ordered text-search templates
// produce minimal-field candidates that carry the fallback marker and skip
// enrichment.
func (d *Discoverer) DiscoverByText(ctx context.Context, locationText string) ([]Candidate, error) {
	seen := make(map[string]struct{})
	var pool []Candidate

	for _, tmpl := range textQueryTemplates {
		if len(pool) >= d.cfg.TargetPoolSize {
			break
		}

		query := fmt.Sprintf(tmpl, locationText)
		results, err := d.client.TextSearch(ctx, query)
		if err != nil {
			if resilience.ShortCircuits(err) {
				return rank(pool, d.cfg.TopN), err
			}
			zap.L().Warn("competitor: text search template failed",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		for _, c := range results {
			if _, dup := seen[c.PlaceID]; dup || c.PlaceID == "" {
				continue
			}
			seen[c.PlaceID] = struct{}{}
			if d.chains.IsChain(c.Name) {
				continue
			}
			pool = append(pool, fromPlaces(c, true))
		}
	}

	return rank(pool, d.cfg.TopN), nil
}

func fromPlaces(c places.Candidate, fallback bool) Candidate {
	cand := Candidate{
		PlaceID:         c.PlaceID,
		Name:            c.Name,
		Address:         c.Address,
		Rating:          model.ClampRating(c.Rating),
		ReviewCount:     c.ReviewCount,
		PriceTier:       model.ClampPriceTier(c.PriceTier),
		Types:           c.Types,
		GeocodeFallback: fallback,
	}
	if c.Location != nil {
		cand.Location = &model.Coordinate{Lat: c.Location.Lat, Lng: c.Location.Lng}
	}
	return cand
}

func matchesCuisine(c places.Candidate, hints []string) bool {
	name := strings.ToLower(c.Name)
	for _, hint := range hints {
		h := strings.ToLower(strings.TrimSpace(hint))
		if h == "" {
			continue
		}
		if strings.Contains(name, h) {
			return true
		}
		for _, t := range c.Types {
			if strings.Contains(strings.ToLower(t), h) {
				return true
			}
		}
	}
	return false
}

// rank sorts candidates by rating descending, review count breaking ties,
// and truncates to topN.
func rank(pool []Candidate, topN int) []Candidate {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Rating != pool[j].Rating {
			return pool[i].Rating > pool[j].Rating
		}
		return pool[i].ReviewCount > pool[j].ReviewCount
	})
	if len(pool) > topN {
		pool = pool[:topN]
	}
	return pool
}
