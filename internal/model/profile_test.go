package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactInfoMerge(t *testing.T) {
	scraped := ContactInfo{Email: "hello@bistro.example"}
	provider := ContactInfo{Email: "other@bistro.example", Phone: "(312) 555-0142"}

	merged := scraped.Merge(provider)

	assert.Equal(t, "hello@bistro.example", merged.Email, "existing value must win")
	assert.Equal(t, "(312) 555-0142", merged.Phone, "empty field filled from other")
}

func TestClamps(t *testing.T) {
	assert.Equal(t, 5.0, ClampRating(9.2))
	assert.Equal(t, 0.0, ClampRating(-1))
	assert.Equal(t, 4.3, ClampRating(4.3))

	assert.Equal(t, 4, ClampPriceTier(7))
	assert.Equal(t, 0, ClampPriceTier(-2))
	assert.Equal(t, 2, ClampPriceTier(2))

	assert.Equal(t, 1.0, ClampSentiment(3.5))
	assert.Equal(t, -1.0, ClampSentiment(-2))
	assert.Equal(t, 0.42, ClampSentiment(0.42))
}

func TestNewReviewSummary_ClampsInputs(t *testing.T) {
	s := NewReviewSummary(6.1, -4, 2.0)

	assert.Equal(t, 5.0, s.Rating)
	assert.Equal(t, 0, s.TotalReviews)
	assert.Equal(t, 1.0, s.AvgSentiment)
}

func TestExtractionMetadata_CompletePhaseDeduplicates(t *testing.T) {
	var m ExtractionMetadata

	m.CompletePhase(PhaseOwnSiteScrape)
	m.CompletePhase(PhasePlacesLookup)
	m.CompletePhase(PhaseOwnSiteScrape)

	assert.Equal(t, []Phase{PhaseOwnSiteScrape, PhasePlacesLookup}, m.PhasesCompleted)
	assert.True(t, m.PhaseCompleted(PhasePlacesLookup))
	assert.False(t, m.PhaseCompleted(PhaseAssembled))
}

func TestCompetitorRecordValid(t *testing.T) {
	assert.True(t, CompetitorRecord{Name: "Luigi's", Address: "12 Oak St"}.Valid())
	assert.False(t, CompetitorRecord{Name: "Luigi's"}.Valid())
	assert.False(t, CompetitorRecord{Address: "12 Oak St"}.Valid())
}
