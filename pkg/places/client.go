// Package places wraps the geographic places provider: text search, place
// details, geocoding, nearby search, and paginated review retrieval. All
// calls are rate limited and provider status codes are converted into the
// pipeline's typed error taxonomy.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/tablescout/profiler-cli/internal/resilience"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client defines the places provider operations used by the pipeline.
type Client interface {
	TextSearch(ctx context.Context, query string) ([]Candidate, error)
	NearbySearch(ctx context.Context, loc LatLng, radiusMeters int, placeType string) ([]Candidate, error)
	PlaceDetails(ctx context.Context, placeID string) (*Details, error)
	Geocode(ctx context.Context, address string) (*LatLng, error)
	Reviews(ctx context.Context, placeID, pageToken string) (*ReviewPage, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a places provider client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, query string) ([]Candidate, error) {
	op := fmt.Sprintf("places: text search %q", query)
	params := url.Values{"query": {query}}

	var resp searchResponse
	if err := c.get(ctx, op, "/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(op, resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, p := range resp.Results {
		candidates = append(candidates, p.candidate())
	}
	return candidates, nil
}

func (c *httpClient) NearbySearch(ctx context.Context, loc LatLng, radiusMeters int, placeType string) ([]Candidate, error) {
	op := fmt.Sprintf("places: nearby search %.5f,%.5f r=%dm type=%s", loc.Lat, loc.Lng, radiusMeters, placeType)
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", loc.Lat, loc.Lng)},
		"radius":   {strconv.Itoa(radiusMeters)},
	}
	if placeType != "" {
		params.Set("type", placeType)
	}

	var resp searchResponse
	if err := c.get(ctx, op, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(op, resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, p := range resp.Results {
		candidates = append(candidates, p.candidate())
	}
	return candidates, nil
}

func (c *httpClient) PlaceDetails(ctx context.Context, placeID string) (*Details, error) {
	op := fmt.Sprintf("places: details %s", placeID)
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"place_id,name,formatted_address,formatted_phone_number,website,rating,user_ratings_total,price_level,types,geometry,opening_hours,photos"},
	}

	var resp detailsResponse
	if err := c.get(ctx, op, "/place/details/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(op, resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	return resp.Result.details(), nil
}

func (c *httpClient) Geocode(ctx context.Context, address string) (*LatLng, error) {
	op := fmt.Sprintf("places: geocode %q", address)
	params := url.Values{"address": {address}}

	var resp geocodeResponse
	if err := c.get(ctx, op, "/geocode/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(op, resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, resilience.NotFound(op)
	}

	loc := resp.Results[0].Geometry.Location
	return &LatLng{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// Reviews fetches one page of reviews for a place. Pass the token from the
// previous page to continue; the provider requires a delay before a freshly
// issued token becomes valid, which is the caller's responsibility.
func (c *httpClient) Reviews(ctx context.Context, placeID, pageToken string) (*ReviewPage, error) {
	op := fmt.Sprintf("places: reviews %s", placeID)
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"rating,user_ratings_total,reviews,opening_hours,photos"},
	}
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var resp detailsResponse
	if err := c.get(ctx, op, "/place/details/json", params, &resp); err != nil {
		return nil, err
	}
	if err := statusError(op, resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	return resp.Result.reviewPage(resp.NextPageToken), nil
}

func (c *httpClient) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "places: rate limiter wait")
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "places: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return resilience.Classify(op, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "places: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return resilience.FromHTTPStatus(op, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resilience.Parse(op, err)
	}

	return nil
}

// statusError maps the provider's envelope status to the error taxonomy.
// "OK" yields nil; "ZERO_RESULTS" is a typed not-found so callers must
// handle the no-data case explicitly.
func statusError(op, status, message string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return resilience.NotFound(op)
	case "OVER_QUERY_LIMIT", "RESOURCE_EXHAUSTED":
		return resilience.QuotaExceeded(op)
	case "REQUEST_DENIED":
		return resilience.AuthError(op)
	case "INVALID_REQUEST":
		return resilience.Parse(op, eris.Errorf("provider rejected request: %s", message))
	default:
		return resilience.Parse(op, eris.Errorf("unexpected provider status %s: %s", status, message))
	}
}
