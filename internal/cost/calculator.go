package cost

import "sync"

// Rates holds flat per-call cost estimates in USD. The pipeline uses a
// single cost model: every provider operation carries a fixed estimate, and
// run cost is the sum over calls actually made.
type Rates struct {
	PlacesTextSearch float64 `yaml:"places_text_search" mapstructure:"places_text_search"`
	PlacesNearby     float64 `yaml:"places_nearby" mapstructure:"places_nearby"`
	PlacesDetails    float64 `yaml:"places_details" mapstructure:"places_details"`
	PlacesGeocode    float64 `yaml:"places_geocode" mapstructure:"places_geocode"`
	PlacesReviewPage float64 `yaml:"places_review_page" mapstructure:"places_review_page"`
	FallbackFetch    float64 `yaml:"fallback_fetch" mapstructure:"fallback_fetch"`
	BrowserRender    float64 `yaml:"browser_render" mapstructure:"browser_render"`
}

// DefaultRates returns provider list pricing as of early 2026.
func DefaultRates() Rates {
	return Rates{
		PlacesTextSearch: 0.032,
		PlacesNearby:     0.032,
		PlacesDetails:    0.017,
		PlacesGeocode:    0.005,
		PlacesReviewPage: 0.017,
		FallbackFetch:    0,
		BrowserRender:    0.001,
	}
}

// Calculator accumulates estimated run cost. Safe for concurrent use by the
// enrichment batches.
type Calculator struct {
	rates Rates

	mu    sync.Mutex
	total float64
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Add accumulates n calls at the given per-call rate and returns the
// increment.
func (c *Calculator) Add(rate float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	inc := rate * float64(n)
	c.mu.Lock()
	c.total += inc
	c.mu.Unlock()
	return inc
}

// AddOther accumulates an externally computed cost (e.g. language-model
// token pricing reported by the analysis step).
func (c *Calculator) AddOther(usd float64) {
	if usd <= 0 {
		return
	}
	c.mu.Lock()
	c.total += usd
	c.mu.Unlock()
}

// Rates exposes the configured per-call rates.
func (c *Calculator) Rates() Rates { return c.rates }

// Total returns the accumulated estimate.
func (c *Calculator) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
