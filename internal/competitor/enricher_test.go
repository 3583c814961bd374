package competitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/pkg/places"
)

func TestIsPrimaryWebsite(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://luigis.example", true},
		{"https://www.facebook.com/luigis", false},
		{"https://www.doordash.com/store/luigis", false},
		{"https://luigis.square.site", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPrimaryWebsite(tt.url), tt.url)
	}
}

func detailsFor(id, name string, lat, lng float64) *places.Details {
	return &places.Details{
		PlaceID:  id,
		Name:     name,
		Address:  id + " Main St",
		Phone:    "(312) 555-0100",
		Rating:   4.2,
		Location: &places.LatLng{Lat: lat, Lng: lng},
	}
}

func TestEnrich_FillsRecordsAndDistance(t *testing.T) {
	client := &fakePlaces{
		details: map[string]*places.Details{
			"p1": detailsFor("p1", "Thai Garden", 41.89, -87.63),
		},
	}

	e := NewEnricher(client, nil, EnrichConfig{})
	records := e.Enrich(context.Background(), model.Coordinate{Lat: 41.88, Lng: -87.63}, []Candidate{
		{PlaceID: "p1", Name: "Thai Garden"},
	})

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Thai Garden", rec.Name)
	assert.Equal(t, "(312) 555-0100", rec.Contact.Phone)
	assert.InDelta(t, 1.11, rec.DistanceKM, 0.05, "0.01 degrees of latitude is about 1.11 km")
}

func TestEnrich_DropsFailedLookupsWithoutAffectingSiblings(t *testing.T) {
	client := &fakePlaces{
		details: map[string]*places.Details{
			"p1": detailsFor("p1", "Thai Garden", 41.89, -87.63),
			"p3": detailsFor("p3", "Oak Bistro", 41.87, -87.64),
		},
	}

	e := NewEnricher(client, nil, EnrichConfig{BatchSize: 3})
	records := e.Enrich(context.Background(), model.Coordinate{Lat: 41.88, Lng: -87.63}, []Candidate{
		{PlaceID: "p1", Name: "Thai Garden"},
		{PlaceID: "p2", Name: "Gone Missing"}, // details lookup fails
		{PlaceID: "p3", Name: "Oak Bistro"},
	})

	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.ElementsMatch(t, []string{"Thai Garden", "Oak Bistro"}, names)
}

func TestEnrich_ConcurrencyBoundedByBatchSize(t *testing.T) {
	details := make(map[string]*places.Details)
	var candidates []Candidate
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		details[id] = detailsFor(id, "Place "+id, 41.88, -87.63)
		candidates = append(candidates, Candidate{PlaceID: id, Name: "Place " + id})
	}

	client := &fakePlaces{details: details, detailsDelay: 10 * time.Millisecond}

	e := NewEnricher(client, nil, EnrichConfig{BatchSize: 2})
	records := e.Enrich(context.Background(), model.Coordinate{Lat: 41.88, Lng: -87.63}, candidates)

	assert.Len(t, records, 7)
	assert.LessOrEqual(t, client.maxInFlight, 2, "no more than one batch in flight at a time")
}

func TestEnrich_EmptyInput(t *testing.T) {
	e := NewEnricher(&fakePlaces{}, nil, EnrichConfig{})
	records := e.Enrich(context.Background(), model.Coordinate{}, nil)
	assert.Empty(t, records)
}
