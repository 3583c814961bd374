package places

import (
	"time"

	"github.com/tablescout/profiler-cli/internal/model"
)

// LatLng is a latitude/longitude pair as returned by the provider.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is a place returned by text or nearby search. Rating and price
// level are clamped to provider-documented bounds on ingestion.
type Candidate struct {
	PlaceID     string
	Name        string
	Address     string
	Rating      float64
	ReviewCount int
	PriceTier   int
	Types       []string
	Location    *LatLng
}

// Details is the full place record from a details lookup.
type Details struct {
	PlaceID      string
	Name         string
	Address      string
	Phone        string
	Website      string
	Rating       float64
	ReviewCount  int
	PriceTier    int
	Types        []string
	Location     *LatLng
	OpeningHours []string
	PhotoRefs    []string
}

// Review is a single provider review. Reviews without text are returned
// as-is; sentiment handling is the caller's concern.
type Review struct {
	Author string
	Rating float64
	Text   string
	Time   time.Time
}

// ReviewPage is one page of paginated reviews. A non-empty NextPageToken
// permits fetching the following page after the provider's mandatory delay.
type ReviewPage struct {
	Reviews       []Review
	Rating        float64
	ReviewCount   int
	OpeningHours  []string
	PhotoRefs     []string
	NextPageToken string
}

// --- wire format ---

type wireLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type wireGeometry struct {
	Location wireLocation `json:"location"`
}

type wirePlace struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Vicinity         string        `json:"vicinity"`
	Rating           float64       `json:"rating"`
	UserRatingsTotal int           `json:"user_ratings_total"`
	PriceLevel       int           `json:"price_level"`
	Types            []string      `json:"types"`
	Geometry         *wireGeometry `json:"geometry"`
}

type wireReview struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	TimeUnix   int64   `json:"time"`
}

type wirePhoto struct {
	PhotoReference string `json:"photo_reference"`
}

type wireDetails struct {
	wirePlace
	FormattedPhoneNumber string       `json:"formatted_phone_number"`
	Website              string       `json:"website"`
	OpeningHours         *wireHours   `json:"opening_hours"`
	Photos               []wirePhoto  `json:"photos"`
	Reviews              []wireReview `json:"reviews"`
}

type wireHours struct {
	WeekdayText []string `json:"weekday_text"`
}

type searchResponse struct {
	Status        string      `json:"status"`
	ErrorMessage  string      `json:"error_message"`
	Results       []wirePlace `json:"results"`
	NextPageToken string      `json:"next_page_token"`
}

type detailsResponse struct {
	Status        string      `json:"status"`
	ErrorMessage  string      `json:"error_message"`
	Result        wireDetails `json:"result"`
	NextPageToken string      `json:"next_page_token"`
}

type geocodeResult struct {
	Geometry wireGeometry `json:"geometry"`
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

func (p wirePlace) candidate() Candidate {
	c := Candidate{
		PlaceID:     p.PlaceID,
		Name:        p.Name,
		Address:     p.FormattedAddress,
		Rating:      model.ClampRating(p.Rating),
		ReviewCount: max(p.UserRatingsTotal, 0),
		PriceTier:   model.ClampPriceTier(p.PriceLevel),
		Types:       p.Types,
	}
	if c.Address == "" {
		c.Address = p.Vicinity
	}
	if p.Geometry != nil {
		c.Location = &LatLng{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng}
	}
	return c
}

func (d wireDetails) details() *Details {
	c := d.candidate()
	det := &Details{
		PlaceID:     c.PlaceID,
		Name:        c.Name,
		Address:     c.Address,
		Phone:       d.FormattedPhoneNumber,
		Website:     d.Website,
		Rating:      c.Rating,
		ReviewCount: c.ReviewCount,
		PriceTier:   c.PriceTier,
		Types:       c.Types,
		Location:    c.Location,
	}
	if d.OpeningHours != nil {
		det.OpeningHours = d.OpeningHours.WeekdayText
	}
	for _, ph := range d.Photos {
		det.PhotoRefs = append(det.PhotoRefs, ph.PhotoReference)
	}
	return det
}

func (d wireDetails) reviewPage(token string) *ReviewPage {
	page := &ReviewPage{
		Rating:        model.ClampRating(d.Rating),
		ReviewCount:   max(d.UserRatingsTotal, 0),
		NextPageToken: token,
	}
	if d.OpeningHours != nil {
		page.OpeningHours = d.OpeningHours.WeekdayText
	}
	for _, ph := range d.Photos {
		page.PhotoRefs = append(page.PhotoRefs, ph.PhotoReference)
	}
	for _, r := range d.Reviews {
		page.Reviews = append(page.Reviews, Review{
			Author: r.AuthorName,
			Rating: model.ClampRating(r.Rating),
			Text:   r.Text,
			Time:   time.Unix(r.TimeUnix, 0).UTC(),
		})
	}
	return page
}
