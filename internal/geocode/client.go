// Package geocode resolves coordinates to a human-readable place name via the
// LocationIQ reverse geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/erickhangati/mapty/internal/workout"
)

// DefaultBaseURL is the LocationIQ reverse geocoding endpoint.
const DefaultBaseURL = "https://us1.locationiq.com/v1/reverse"

// ErrNoAddress is returned when the provider answers without an address.
var ErrNoAddress = errors.New("no address for coordinates")

// Place is the resolved location of a coordinate pair.
type Place struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// String formats the place as "City, Country", dropping whichever part is
// missing.
func (p Place) String() string {
	switch {
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.City != "":
		return p.City
	default:
		return p.Country
	}
}

// Client calls the reverse geocoding API, waiting on a shared rate limiter
// before each request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client. perSecond bounds the request rate; a
// non-positive value disables limiting.
func NewClient(baseURL, apiKey string, timeout time.Duration, perSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type reverseResponse struct {
	Address *struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// Reverse looks up the place at coords.
func (c *Client) Reverse(ctx context.Context, coords workout.Coords) (Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Place{}, fmt.Errorf("geocode: rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("lat", strconv.FormatFloat(coords.Lat(), 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lng(), 'f', -1, 64))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("geocode: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocode: reverse: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Place{}, fmt.Errorf("geocode: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("geocode: reverse returned %d: %s", resp.StatusCode, body)
	}

	var out reverseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Place{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if out.Address == nil {
		return Place{}, ErrNoAddress
	}

	city := out.Address.City
	if city == "" {
		city = out.Address.Town
	}
	if city == "" {
		city = out.Address.Village
	}
	p := Place{City: city, Country: out.Address.Country}
	if p.City == "" && p.Country == "" {
		return Place{}, ErrNoAddress
	}
	return p, nil
}
