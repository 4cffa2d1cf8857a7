// Package neo proxies the NASA near-earth-object feed and derives a simple
// risk score per object for the UI.
package neo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUpstream is returned when the NASA API cannot be reached or replies
// with a non-200 status.
var ErrUpstream = errors.New("asteroid feed unavailable")

// DefaultFeedURL is the NASA NEO feed endpoint.
const DefaultFeedURL = "https://api.nasa.gov/neo/rest/v1/feed"

// AnalyzedNEO is one near-earth object with its derived risk score.
// Numeric fields are pre-formatted strings because the UI renders them as-is.
type AnalyzedNEO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DiameterKM     string `json:"diameter_km"`
	VelocityKPH    string `json:"velocity_kph"`
	MissDistanceKM string `json:"miss_distance_km"`
	IsHazardous    bool   `json:"is_hazardous"`
	RiskScore      int    `json:"risk_score"`
	ApproachDate   string `json:"approach_date"`
}

// feedResponse mirrors the slice of the NASA payload we consume.
type feedResponse struct {
	NearEarthObjects map[string][]feedObject `json:"near_earth_objects"`
}

type feedObject struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	EstimatedDiameter struct {
		Kilometers struct {
			EstimatedDiameterMax float64 `json:"estimated_diameter_max"`
		} `json:"kilometers"`
	} `json:"estimated_diameter"`
	IsPotentiallyHazardous bool `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData      []struct {
		CloseApproachDateFull string `json:"close_approach_date_full"`
		RelativeVelocity      struct {
			KilometersPerHour string `json:"kilometers_per_hour"`
		} `json:"relative_velocity"`
		MissDistance struct {
			Kilometers string `json:"kilometers"`
		} `json:"miss_distance"`
	} `json:"close_approach_data"`
}

// Client fetches and analyzes the NEO feed.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a feed client. baseURL falls back to DefaultFeedURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultFeedURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchFeed retrieves the feed for the given date range and scores each
// object. Empty dates default to today.
func (c *Client) FetchFeed(ctx context.Context, startDate, endDate string) ([]AnalyzedNEO, error) {
	today := time.Now().Format("2006-01-02")
	if startDate == "" {
		startDate = today
	}
	if endDate == "" {
		endDate = today
	}

	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	return analyze(feed), nil
}

func analyze(feed feedResponse) []AnalyzedNEO {
	analyzed := make([]AnalyzedNEO, 0)
	for _, objects := range feed.NearEarthObjects {
		for _, obj := range objects {
			if len(obj.CloseApproachData) == 0 {
				continue
			}
			approach := obj.CloseApproachData[0]
			diameter := obj.EstimatedDiameter.Kilometers.EstimatedDiameterMax
			velocity, _ := strconv.ParseFloat(approach.RelativeVelocity.KilometersPerHour, 64)
			missDistance, _ := strconv.ParseFloat(approach.MissDistance.Kilometers, 64)

			analyzed = append(analyzed, AnalyzedNEO{
				ID:             obj.ID,
				Name:           obj.Name,
				DiameterKM:     strconv.FormatFloat(diameter, 'f', 3, 64),
				VelocityKPH:    strconv.FormatFloat(velocity, 'f', 0, 64),
				MissDistanceKM: strconv.FormatFloat(missDistance, 'f', 0, 64),
				IsHazardous:    obj.IsPotentiallyHazardous,
				RiskScore:      RiskScore(obj.IsPotentiallyHazardous, diameter, missDistance, velocity),
				ApproachDate:   approach.CloseApproachDateFull,
			})
		}
	}
	return analyzed
}

// RiskScore grades an object 0-100: +50 if flagged hazardous, +20 for a
// diameter above 0.1 km, +20 for a miss distance under 7.5M km, +10 for a
// velocity above 50,000 km/h.
func RiskScore(hazardous bool, diameterKM, missDistanceKM, velocityKPH float64) int {
	score := 0
	if hazardous {
		score += 50
	}
	if diameterKM > 0.1 {
		score += 20
	}
	if missDistanceKM < 7_500_000 {
		score += 20
	}
	if velocityKPH > 50_000 {
		score += 10
	}
	return score
}
