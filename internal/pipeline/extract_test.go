package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescout/profiler-cli/internal/competitor"
	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/resilience"
	"github.com/tablescout/profiler-cli/internal/store"
	"github.com/tablescout/profiler-cli/pkg/insights"
	"github.com/tablescout/profiler-cli/pkg/places"
)

// fakeScraper returns a scripted site record.
type fakeScraper struct {
	rec *model.SiteRecord
	err error
}

func (f *fakeScraper) Name() string      { return "fake" }
func (f *fakeScraper) IsAvailable() bool { return true }
func (f *fakeScraper) Scrape(context.Context, string) (*model.SiteRecord, error) {
	return f.rec, f.err
}

// scriptedPlaces is a full places.Client fake with per-method counters.
type scriptedPlaces struct {
	mu sync.Mutex

	textResults  []places.Candidate
	textErr      error
	textCalls    int
	geocodeLoc   *places.LatLng
	geocodeErr   error
	geocodeCalls int
	nearby       []places.Candidate
	nearbyCalls  int
	details      map[string]*places.Details
	reviewPages  map[string]*places.ReviewPage
	reviewCalls  int
}

func (s *scriptedPlaces) TextSearch(context.Context, string) ([]places.Candidate, error) {
	s.mu.Lock()
	s.textCalls++
	s.mu.Unlock()
	if s.textErr != nil {
		return nil, s.textErr
	}
	return s.textResults, nil
}

func (s *scriptedPlaces) NearbySearch(context.Context, places.LatLng, int, string) ([]places.Candidate, error) {
	s.mu.Lock()
	s.nearbyCalls++
	s.mu.Unlock()
	return s.nearby, nil
}

func (s *scriptedPlaces) PlaceDetails(_ context.Context, placeID string) (*places.Details, error) {
	d, ok := s.details[placeID]
	if !ok {
		return nil, resilience.NotFound("places: details " + placeID)
	}
	return d, nil
}

func (s *scriptedPlaces) Geocode(context.Context, string) (*places.LatLng, error) {
	s.mu.Lock()
	s.geocodeCalls++
	s.mu.Unlock()
	if s.geocodeErr != nil {
		return nil, s.geocodeErr
	}
	return s.geocodeLoc, nil
}

func (s *scriptedPlaces) Reviews(_ context.Context, placeID, token string) (*places.ReviewPage, error) {
	s.mu.Lock()
	s.reviewCalls++
	s.mu.Unlock()
	page, ok := s.reviewPages[token]
	if !ok {
		return nil, resilience.NotFound("places: reviews " + placeID)
	}
	return page, nil
}

// fakeInsights returns a canned report.
type fakeInsights struct {
	report *insights.Report
	err    error
}

func (f *fakeInsights) GenerateReport(context.Context, insights.ReportRequest) (*insights.Report, error) {
	return f.report, f.err
}

func testStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "pipeline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func happyPlaces() *scriptedPlaces {
	return &scriptedPlaces{
		textResults: []places.Candidate{{
			PlaceID: "self", Name: "Luigi's Trattoria", Address: "12 Oak St, Chicago, IL",
			Rating: 4.6, ReviewCount: 212,
			Location: &places.LatLng{Lat: 41.88, Lng: -87.63},
		}},
		geocodeLoc: &places.LatLng{Lat: 41.88, Lng: -87.63},
		nearby: []places.Candidate{
			{PlaceID: "self", Name: "Luigi's Trattoria", Address: "12 Oak St", Rating: 4.6, Types: []string{"restaurant"}},
			{PlaceID: "c1", Name: "Thai Garden", Address: "30 Oak St", Rating: 4.4, ReviewCount: 150, Types: []string{"restaurant"}},
			{PlaceID: "c2", Name: "Oak Bistro", Address: "44 Oak St", Rating: 4.1, ReviewCount: 80, Types: []string{"restaurant"}},
		},
		details: map[string]*places.Details{
			"self": {
				PlaceID: "self", Name: "Luigi's Trattoria", Address: "12 Oak St, Chicago, IL",
				Phone:    "(312) 555-0142",
				Location: &places.LatLng{Lat: 41.88, Lng: -87.63},
			},
			"c1": {
				PlaceID: "c1", Name: "Thai Garden", Address: "30 Oak St",
				Rating: 4.4, Location: &places.LatLng{Lat: 41.885, Lng: -87.63},
			},
			"c2": {
				PlaceID: "c2", Name: "Oak Bistro", Address: "44 Oak St",
				Rating: 4.1, Location: &places.LatLng{Lat: 41.875, Lng: -87.63},
			},
		},
		reviewPages: map[string]*places.ReviewPage{
			"": {
				Rating:      4.6,
				ReviewCount: 212,
				Reviews: []places.Review{
					{Author: "Dana", Rating: 5, Text: "Wonderful pasta, great service!"},
				},
				OpeningHours: []string{"Monday: 11AM-10PM"},
			},
		},
	}
}

func happyScraper() *fakeScraper {
	return &fakeScraper{rec: &model.SiteRecord{
		URL:     "https://luigis.example",
		Name:    "Luigi's Trattoria",
		Email:   "hello@luigis.example",
		Address: "12 Oak St, Chicago, IL",
		SocialLinks: map[string]string{
			"facebook": "https://facebook.com/luigis",
		},
		MenuItems: []model.MenuItem{{Name: "Tagliatelle al Ragu"}},
		SEOTitle:  "Luigi's Trattoria",
		Source:    "fallback",
	}}
}

func TestRun_FullPipeline(t *testing.T) {
	st := testStore(t)
	client := happyPlaces()

	e := New(happyScraper(), client,
		WithStore(st),
		WithInsights(&fakeInsights{report: &insights.Report{
			Narrative:    "Strong local position with digital gaps.",
			Model:        "claude-haiku-4-5-20251001",
			InputTokens:  1200,
			OutputTokens: 300,
		}}),
		WithReviewsConfig(ReviewsConfig{MaxPages: 1, PageDelay: time.Millisecond}),
	)

	result, err := e.Run(context.Background(), model.ExtractRequest{URL: "https://luigis.example"})
	require.NoError(t, err)

	profile := result.Profile
	require.NotNil(t, profile)

	// Scraped values win; provider fills the gaps.
	assert.Equal(t, "Luigi's Trattoria", profile.Name)
	assert.Equal(t, "hello@luigis.example", profile.Contact.Email)
	assert.Equal(t, "(312) 555-0142", profile.Contact.Phone)
	require.NotNil(t, profile.Coordinate)

	// The target business never appears in its own competitor list.
	require.Len(t, profile.Competitors, 2)
	for _, c := range profile.Competitors {
		assert.NotEqual(t, "self", c.PlaceID)
		assert.Greater(t, c.DistanceKM, 0.0)
	}

	assert.InDelta(t, 4.6, profile.Reviews.Rating, 0.001)
	assert.Greater(t, profile.Reviews.AvgSentiment, 0.0)

	require.NotNil(t, profile.Metadata.Analysis)
	assert.Greater(t, profile.Metadata.Analysis.CostUSD, 0.0)

	for _, phase := range []model.Phase{
		model.PhaseOwnSiteScrape,
		model.PhasePlacesLookup,
		model.PhaseCompetitorDiscovery,
		model.PhaseCompetitorEnrichment,
		model.PhaseStrategicAnalysis,
		model.PhaseAssembled,
	} {
		assert.True(t, profile.Metadata.PhaseCompleted(phase), string(phase))
	}

	assert.Greater(t, profile.Metadata.EstimatedCostUSD, 0.0)
	assert.Greater(t, profile.Metadata.QualityScore, 0.5)

	// Persisted run carries the final profile.
	stored, err := st.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, stored.Status)
	require.NotNil(t, stored.Profile)
	assert.Equal(t, profile.Name, stored.Profile.Name)
}

func TestRun_EverythingFailsStillReturnsProfile(t *testing.T) {
	e := New(&fakeScraper{err: eris.New("site unreachable")}, nil,
		WithReviewsConfig(ReviewsConfig{MaxPages: 1, PageDelay: time.Millisecond}),
	)

	result, err := e.Run(context.Background(), model.ExtractRequest{URL: "https://dead.example"})
	require.NoError(t, err, "phase failures never fail the run")

	profile := result.Profile
	require.NotNil(t, profile)
	assert.Equal(t, "https://dead.example", profile.URL)
	assert.Empty(t, profile.Competitors)
	assert.Less(t, profile.Metadata.QualityScore, 0.15)

	assert.True(t, profile.Metadata.PhaseCompleted(model.PhaseAssembled))
	assert.False(t, profile.Metadata.PhaseCompleted(model.PhaseOwnSiteScrape))
	assert.False(t, profile.Metadata.PhaseCompleted(model.PhasePlacesLookup))

	byName := make(map[string]model.PhaseResult)
	for _, p := range result.Phases {
		byName[p.Name] = p
	}
	assert.Equal(t, model.PhaseStatusFailed, byName[string(model.PhaseOwnSiteScrape)].Status)
	assert.Equal(t, model.PhaseStatusSkipped, byName[string(model.PhasePlacesLookup)].Status)
	assert.Equal(t, model.PhaseStatusSkipped, byName[string(model.PhaseStrategicAnalysis)].Status)
}

func TestRun_QuotaClosesProviderForRemainderOfRun(t *testing.T) {
	client := happyPlaces()
	client.textErr = resilience.QuotaExceeded("places: text search")

	e := New(happyScraper(), client,
		WithReviewsConfig(ReviewsConfig{MaxPages: 1, PageDelay: time.Millisecond}),
	)

	result, err := e.Run(context.Background(), model.ExtractRequest{URL: "https://luigis.example"})
	require.NoError(t, err)

	byName := make(map[string]model.PhaseResult)
	for _, p := range result.Phases {
		byName[p.Name] = p
	}
	assert.Equal(t, model.PhaseStatusFailed, byName[string(model.PhasePlacesLookup)].Status)
	assert.Equal(t, model.PhaseStatusFailed, byName[string(model.PhaseCompetitorDiscovery)].Status)

	assert.Equal(t, 1, client.textCalls, "no retries after the quota error")
	assert.Zero(t, client.geocodeCalls, "gated provider is never called again")

	assert.True(t, result.Profile.Metadata.PhaseCompleted(model.PhaseOwnSiteScrape))
	assert.Empty(t, result.Profile.Competitors)
}

func TestRun_GeocodeFallbackKeepsMinimalCompetitors(t *testing.T) {
	client := happyPlaces()
	client.geocodeErr = resilience.NotFound("places: geocode")
	// Without a detail coordinate the run has no distance reference, so the
	// fallback candidates stay minimal.
	client.details["self"].Location = nil
	// Text search serves both the lookup and the discovery fallback.
	client.textResults = []places.Candidate{
		{PlaceID: "self", Name: "Luigi's Trattoria", Address: "12 Oak St", Types: []string{"restaurant"}},
		{PlaceID: "c1", Name: "Thai Garden", Address: "30 Oak St", Rating: 4.4, Types: []string{"restaurant"}},
	}

	e := New(happyScraper(), client,
		WithReviewsConfig(ReviewsConfig{MaxPages: 1, PageDelay: time.Millisecond}),
	)

	result, err := e.Run(context.Background(), model.ExtractRequest{URL: "https://luigis.example"})
	require.NoError(t, err)

	profile := result.Profile
	require.NotEmpty(t, profile.Competitors)
	for _, c := range profile.Competitors {
		assert.NotEqual(t, "self", c.PlaceID)
		assert.True(t, c.GeocodeFallback)
		assert.Zero(t, c.DistanceKM, "fallback candidates are never enriched")
	}
	assert.Zero(t, client.nearbyCalls)
}

func TestRun_DiscoveryConfigRespected(t *testing.T) {
	client := happyPlaces()

	e := New(happyScraper(), client,
		WithDiscoveryConfig(competitor.DiscoveryConfig{TopN: 1}),
		WithReviewsConfig(ReviewsConfig{MaxPages: 1, PageDelay: time.Millisecond}),
	)

	result, err := e.Run(context.Background(), model.ExtractRequest{URL: "https://luigis.example"})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Profile.Competitors), 1)
}
