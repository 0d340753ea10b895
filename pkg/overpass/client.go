// Package overpass collects OpenStreetMap features around a point via the
// Overpass API.
package overpass

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	osm "github.com/serjvanilla/go-overpass"

	"github.com/gregorizeidler/urbansight/internal/model"
	"github.com/gregorizeidler/urbansight/internal/resilience"
)

const defaultEndpoint = "https://overpass-api.de/api/interpreter"

// Client fetches map data around a property.
type Client interface {
	// CollectFeatures returns raw POI candidates within radiusM of origin.
	CollectFeatures(ctx context.Context, origin model.Point, radiusM float64) ([]model.Feature, error)

	// CollectPedestrian returns walking infrastructure within radiusM of origin.
	CollectPedestrian(ctx context.Context, origin model.Point, radiusM float64) (model.PedestrianInfra, error)

	// CollectDetails returns best-effort building and landuse context at origin.
	CollectDetails(ctx context.Context, origin model.Point) (model.PropertyDetails, error)
}

// Option configures the client.
type Option func(*apiClient)

// WithEndpoint overrides the Overpass interpreter endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *apiClient) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *apiClient) {
		c.httpClient = hc
	}
}

// WithMaxParallel bounds concurrent requests against the endpoint.
func WithMaxParallel(n int) Option {
	return func(c *apiClient) {
		c.maxParallel = n
	}
}

// WithQueryTimeout sets the server-side [timeout:] header on queries.
func WithQueryTimeout(secs int) Option {
	return func(c *apiClient) {
		c.queryTimeoutSecs = secs
	}
}

// WithTimeout bounds the total time spent on one collect call, retries
// included.
func WithTimeout(d time.Duration) Option {
	return func(c *apiClient) {
		c.timeout = d
	}
}

// WithRetry overrides the retry policy for failed queries.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *apiClient) {
		c.retry = cfg
	}
}

// WithCircuitBreaker shares or tunes the breaker guarding the endpoint.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *apiClient) {
		c.breaker = cb
	}
}

type apiClient struct {
	api              *osm.Client
	endpoint         string
	httpClient       *http.Client
	maxParallel      int
	queryTimeoutSecs int
	timeout          time.Duration
	retry            resilience.RetryConfig
	breaker          *resilience.CircuitBreaker
}

// NewClient creates an Overpass Client with the given options.
func NewClient(opts ...Option) Client {
	c := &apiClient{
		endpoint:         defaultEndpoint,
		maxParallel:      2,
		queryTimeoutSecs: 25,
		timeout:          60 * time.Second,
		retry:            resilience.DefaultRetryConfig(),
		breaker:          resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	api := osm.NewWithSettings(c.endpoint, c.maxParallel, c.httpClient)
	c.api = &api
	return c
}

// executeQuery runs one Overpass query through the circuit breaker with
// retries. All query failures are treated as transient; an open breaker
// stops the retry loop immediately.
func (c *apiClient) executeQuery(ctx context.Context, operation, query string) (*osm.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := c.retry
	cfg.OnRetry = resilience.RetryLogger("overpass", operation)

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*osm.Result, error) {
		return resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (*osm.Result, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result, err := c.api.Query(query)
			if err != nil {
				return nil, resilience.NewTransientError(eris.Wrapf(err, "overpass: %s query", operation), 0)
			}
			return &result, nil
		})
	})
}
