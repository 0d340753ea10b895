// Package nominatim geocodes free-form addresses via the OpenStreetMap Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/gregorizeidler/urbansight/internal/resilience"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Client resolves free-form addresses to coordinates.
type Client interface {
	// Geocode geocodes a single address.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
	City        string
	State       string
	Country     string
	Postcode    string
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithBaseURL overrides the Nominatim endpoint.
func WithBaseURL(base string) Option {
	return func(g *geocoder) {
		g.baseURL = base
	}
}

// WithUserAgent sets the identifying User-Agent sent on every request. The
// Nominatim usage policy rejects requests without one.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithRateLimit sets the requests-per-second limit for search calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetry overrides the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(g *geocoder) {
		g.retry = cfg
	}
}

type geocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// NewClient creates a Nominatim geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  "UrbanSight/3.0",
		limiter:    rate.NewLimiter(1, 1), // usage policy: 1 req/s
		retry:      resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode geocodes a single address, retrying transient failures. A search
// that finds nothing returns an unmatched Result, not an error.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	cfg := g.retry
	cfg.OnRetry = resilience.RetryLogger("nominatim", "search")

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*Result, error) {
		return g.search(ctx, address)
	})
}

// searchPlace is one entry of the Nominatim /search response. Coordinates
// arrive as JSON strings.
type searchPlace struct {
	Lat         string        `json:"lat"`
	Lon         string        `json:"lon"`
	DisplayName string        `json:"display_name"`
	Address     searchAddress `json:"address"`
}

type searchAddress struct {
	City     string `json:"city"`
	Town     string `json:"town"`
	Village  string `json:"village"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
}

// locality returns the most city-like component. Smaller places report
// town or village instead of city.
func (a searchAddress) locality() string {
	if a.City != "" {
		return a.City
	}
	if a.Town != "" {
		return a.Town
	}
	return a.Village
}

func (g *geocoder) search(ctx context.Context, address string) (*Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limiter")
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	reqURL := g.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: create request")
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "nominatim: search request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("nominatim: search returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read response")
	}

	var places []searchPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}

	// No places found. This is not an error, just unmatched.
	if len(places) == 0 {
		return &Result{Matched: false}, nil
	}

	place := places[0]
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "nominatim: parse lat %q", place.Lat)
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "nominatim: parse lon %q", place.Lon)
	}

	return &Result{
		Lat:         lat,
		Lon:         lon,
		DisplayName: place.DisplayName,
		City:        place.Address.locality(),
		State:       place.Address.State,
		Country:     place.Address.Country,
		Postcode:    place.Address.Postcode,
		Matched:     true,
	}, nil
}
