package model

import (
	"time"
)

// Phase identifies a pipeline stage whose completion is tracked independently.
type Phase string

const (
	PhaseOwnSiteScrape         Phase = "own_site_scrape"
	PhasePlacesLookup          Phase = "places_lookup"
	PhaseCompetitorDiscovery   Phase = "competitor_discovery"
	PhaseCompetitorEnrichment  Phase = "competitor_enrichment"
	PhaseStrategicAnalysis     Phase = "strategic_analysis"
	PhaseAssembled             Phase = "assembled"
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ContactInfo holds contact details for a business. Either field may be empty.
// When both a scraped value and a provider value exist, the scraped value wins
// for the target business; provider fallback is acceptable for competitors.
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Merge returns c with empty fields filled in from other. Existing values
// are never overwritten.
func (c ContactInfo) Merge(other ContactInfo) ContactInfo {
	if c.Email == "" {
		c.Email = other.Email
	}
	if c.Phone == "" {
		c.Phone = other.Phone
	}
	return c
}

// Review is a single provider review.
type Review struct {
	Author string    `json:"author"`
	Rating float64   `json:"rating"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

// ReviewSummary aggregates provider reviews for a single place. Built once
// per run from up to three paginated provider calls.
type ReviewSummary struct {
	Rating       float64  `json:"rating"`
	TotalReviews int      `json:"total_reviews"`
	AvgSentiment float64  `json:"avg_sentiment"`
	Reviews      []Review `json:"reviews,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty"`
	PhotoRefs    []string `json:"photo_refs,omitempty"`
}

// NewReviewSummary builds a summary with rating, sentiment, and count clamped
// to their valid ranges.
func NewReviewSummary(rating float64, total int, sentiment float64) ReviewSummary {
	if total < 0 {
		total = 0
	}
	return ReviewSummary{
		Rating:       ClampRating(rating),
		TotalReviews: total,
		AvgSentiment: ClampSentiment(sentiment),
	}
}

// DigitalStrategy is a qualitative assessment of a business's online presence.
type DigitalStrategy struct {
	HasEmailCapture   bool   `json:"has_email_capture"`
	SocialLinkCount   int    `json:"social_link_count"`
	HasOnlineMenu     bool   `json:"has_online_menu"`
	HasOnlineOrdering bool   `json:"has_online_ordering"`
	WebsiteQuality    string `json:"website_quality,omitempty"` // "basic" or "high"
	DigitalMaturity   string `json:"digital_maturity,omitempty"` // "developing" or "advanced"
}

// CompetitorRecord is a nearby competing business. Created with minimal
// fields during discovery, filled in during enrichment. Records missing a
// name or address are discarded rather than retained.
type CompetitorRecord struct {
	PlaceID         string          `json:"place_id"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	Contact         ContactInfo     `json:"contact"`
	Website         string          `json:"website,omitempty"`
	Rating          float64         `json:"rating"`
	ReviewCount     int             `json:"review_count"`
	PriceTier       int             `json:"price_tier"`
	DistanceKM      float64         `json:"distance_km"`
	Digital         DigitalStrategy `json:"digital"`
	GeocodeFallback bool            `json:"geocode_fallback,omitempty"`
}

// Valid reports whether the record carries the fields required for retention.
func (c CompetitorRecord) Valid() bool {
	return c.Name != "" && c.Address != ""
}

// StrategicReport is the narrative output of the language-model analysis
// step. A missing report is represented by a nil pointer, never an error.
type StrategicReport struct {
	Narrative string  `json:"narrative"`
	Model     string  `json:"model,omitempty"`
	CostUSD   float64 `json:"cost_usd,omitempty"`
}

// ExtractionMetadata records phase completion, cost, duration, and the final
// quality score for a run. Append-only while the run executes, frozen at
// completion.
type ExtractionMetadata struct {
	PhasesCompleted  []Phase          `json:"phases_completed"`
	EstimatedCostUSD float64          `json:"estimated_cost_usd"`
	Duration         time.Duration    `json:"duration_ns"`
	QualityScore     float64          `json:"quality_score"`
	Analysis         *StrategicReport `json:"analysis,omitempty"`
}

// CompletePhase appends a phase to the completion list. Each phase is
// recorded at most once.
func (m *ExtractionMetadata) CompletePhase(p Phase) {
	for _, existing := range m.PhasesCompleted {
		if existing == p {
			return
		}
	}
	m.PhasesCompleted = append(m.PhasesCompleted, p)
}

// PhaseCompleted reports whether the given phase finished successfully.
func (m *ExtractionMetadata) PhaseCompleted(p Phase) bool {
	for _, existing := range m.PhasesCompleted {
		if existing == p {
			return true
		}
	}
	return false
}

// BusinessProfile is the unified record assembled by the extraction pipeline.
// Progressively filled by each phase, immutable once returned to the caller.
type BusinessProfile struct {
	Name        string             `json:"name,omitempty"`
	URL         string             `json:"url,omitempty"`
	Address     string             `json:"address,omitempty"`
	Coordinate  *Coordinate        `json:"coordinate,omitempty"`
	Contact     ContactInfo        `json:"contact"`
	SocialLinks map[string]string  `json:"social_links,omitempty"` // platform -> url
	MenuItems   []MenuItem         `json:"menu_items,omitempty"`
	Competitors []CompetitorRecord `json:"competitors,omitempty"`
	Reviews     ReviewSummary      `json:"reviews"`
	Metadata    ExtractionMetadata `json:"metadata"`
}

// SiteRecord is the raw output of scraping a single website, either via the
// browser-automation service or the HTML fallback extractor.
type SiteRecord struct {
	URL             string            `json:"url"`
	Name            string            `json:"name,omitempty"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Address         string            `json:"address,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	MenuItems       []MenuItem        `json:"menu_items,omitempty"`
	SEOTitle        string            `json:"seo_title,omitempty"`
	MetaDescription string            `json:"meta_description,omitempty"`
	HasEmailCapture bool              `json:"has_email_capture"`
	HasOnlineMenu   bool              `json:"has_online_menu"`
	HasOrdering     bool              `json:"has_ordering"`
	Source          string            `json:"source,omitempty"` // "browser" or "fallback"
}

// ClampRating bounds a provider rating to [0, 5].
func ClampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// ClampPriceTier bounds a provider price level to [0, 4].
func ClampPriceTier(v int) int {
	if v < 0 {
		return 0
	}
	if v > 4 {
		return 4
	}
	return v
}

// ClampSentiment bounds a polarity score to [-1, 1].
func ClampSentiment(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
