package pipeline

import (
	"context"

	"github.com/tablescout/profiler-cli/internal/cost"
	"github.com/tablescout/profiler-cli/internal/resilience"
	"github.com/tablescout/profiler-cli/pkg/places"
)

const placesProvider = "places"

// meteredPlaces wraps a places client so every call charges the cost
// calculator and reports its outcome to the provider gate. Quota and auth
// failures close the gate for the rest of the run.
type meteredPlaces struct {
	inner places.Client
	calc  *cost.Calculator
	gate  *resilience.ProviderGate
}

func newMeteredPlaces(inner places.Client, calc *cost.Calculator, gate *resilience.ProviderGate) *meteredPlaces {
	return &meteredPlaces{inner: inner, calc: calc, gate: gate}
}

func (m *meteredPlaces) TextSearch(ctx context.Context, query string) ([]places.Candidate, error) {
	if err := m.gate.Allow(placesProvider); err != nil {
		return nil, err
	}
	m.calc.Add(m.calc.Rates().PlacesTextSearch, 1)
	results, err := m.inner.TextSearch(ctx, query)
	m.gate.Record(placesProvider, err)
	return results, err
}

func (m *meteredPlaces) NearbySearch(ctx context.Context, loc places.LatLng, radiusMeters int, placeType string) ([]places.Candidate, error) {
	if err := m.gate.Allow(placesProvider); err != nil {
		return nil, err
	}
	m.calc.Add(m.calc.Rates().PlacesNearby, 1)
	results, err := m.inner.NearbySearch(ctx, loc, radiusMeters, placeType)
	m.gate.Record(placesProvider, err)
	return results, err
}

func (m *meteredPlaces) PlaceDetails(ctx context.Context, placeID string) (*places.Details, error) {
	if err := m.gate.Allow(placesProvider); err != nil {
		return nil, err
	}
	m.calc.Add(m.calc.Rates().PlacesDetails, 1)
	details, err := m.inner.PlaceDetails(ctx, placeID)
	m.gate.Record(placesProvider, err)
	return details, err
}

func (m *meteredPlaces) Geocode(ctx context.Context, address string) (*places.LatLng, error) {
	if err := m.gate.Allow(placesProvider); err != nil {
		return nil, err
	}
	m.calc.Add(m.calc.Rates().PlacesGeocode, 1)
	loc, err := m.inner.Geocode(ctx, address)
	m.gate.Record(placesProvider, err)
	return loc, err
}

func (m *meteredPlaces) Reviews(ctx context.Context, placeID, pageToken string) (*places.ReviewPage, error) {
	if err := m.gate.Allow(placesProvider); err != nil {
		return nil, err
	}
	m.calc.Add(m.calc.Rates().PlacesReviewPage, 1)
	page, err := m.inner.Reviews(ctx, placeID, pageToken)
	m.gate.Record(placesProvider, err)
	return page, err
}
