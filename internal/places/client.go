// Package places talks to the geocoding and nearby-search providers.
// It returns raw candidates; ranking lives in package ranker.
package places

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coffee-tournament/internal/common/errors"
	commonhttp "coffee-tournament/internal/common/http"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/metrics"
	"coffee-tournament/internal/models"
)

const (
	endpointGeocode = "geocode"
	endpointNearby  = "nearby"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type Client struct {
	config Config
	http   *commonhttp.Client
	key    KeyFunc
	cache  *Cache
	logger logger.Logger
}

// NewClient builds a client. key defaults to EnvKey and cache may be nil.
func NewClient(cfg Config, httpClient *commonhttp.Client, key KeyFunc, cache *Cache, log logger.Logger) *Client {
	cfg = cfg.withDefaults()
	if httpClient == nil {
		httpClient = commonhttp.NewClient(cfg.Timeout)
	}
	if key == nil {
		key = EnvKey
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		config: cfg,
		http:   httpClient,
		key:    key,
		cache:  cache,
		logger: log.With(map[string]interface{}{"component": "places"}),
	}
}

// DefaultRadius is the search radius used when a caller passes none.
func (c *Client) DefaultRadius() int {
	return c.config.DefaultRadius
}

// ResolveLocation geocodes query and returns the first result.
func (c *Client) ResolveLocation(ctx context.Context, query string) (*models.LocationResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidArgumentError("Location is required")
	}

	apiKey, err := c.key()
	if err != nil {
		return nil, err
	}

	cacheKey := geocodeKey(query)
	var cached models.LocationResult
	if c.cache.get(ctx, endpointGeocode, cacheKey, &cached) {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", apiKey)

	var resp geocodeResponse
	if err := c.fetch(ctx, endpointGeocode, c.config.GeocodeURL, params, &resp, "Failed to geocode location"); err != nil {
		return nil, err
	}

	if resp.Status != statusOK || len(resp.Results) == 0 {
		return nil, errors.NewLocationNotFoundError(query, resp.Status)
	}

	first := resp.Results[0]
	result := &models.LocationResult{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}
	c.cache.set(ctx, cacheKey, result)

	return result, nil
}

// FindNearbyCafes returns the provider's cafés around (lat, lng) verbatim.
// A radius of zero or less means the configured default.
func (c *Client) FindNearbyCafes(ctx context.Context, lat, lng float64, radius int) ([]Candidate, error) {
	if radius <= 0 {
		radius = c.config.DefaultRadius
	}

	apiKey, err := c.key()
	if err != nil {
		return nil, err
	}

	cacheKey := nearbyKey(lat, lng, radius)
	var cached []Candidate
	if c.cache.get(ctx, endpointNearby, cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("location", formatFloat(lat)+","+formatFloat(lng))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("type", "cafe")
	params.Set("keyword", "coffee")
	params.Set("key", apiKey)

	var resp nearbyResponse
	if err := c.fetch(ctx, endpointNearby, c.config.NearbyURL, params, &resp, "Failed to fetch coffee shops"); err != nil {
		return nil, err
	}

	if resp.Status != statusOK && resp.Status != statusZeroResults {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, errors.NewProviderError(endpointNearby,
			fmt.Sprintf("Google Places API error: %s - %s", resp.Status, msg), nil).
			WithMetadata("status", resp.Status)
	}

	candidates := resp.Results
	if candidates == nil {
		candidates = []Candidate{}
	}
	c.cache.set(ctx, cacheKey, candidates)

	return candidates, nil
}

// PhotoURL synthesizes a photo link for ref. It returns "" when ref is empty
// or no key is configured.
func (c *Client) PhotoURL(ref string) string {
	if ref == "" {
		return ""
	}
	apiKey, err := c.key()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s?maxwidth=%d&photo_reference=%s&key=%s",
		c.config.PhotoURL, c.config.PhotoMaxWidth, url.QueryEscape(ref), url.QueryEscape(apiKey))
}

func (c *Client) fetch(ctx context.Context, endpoint, rawURL string, params url.Values, out interface{ providerStatus() string }, failPrefix string) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	err := c.http.GetJSON(ctx, rawURL, params, out)
	metrics.PlacesRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PlacesRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return c.mapTransportError(ctx, endpoint, err, failPrefix)
	}

	status := out.providerStatus()
	metrics.PlacesRequests.WithLabelValues(endpoint, status).Inc()
	c.logger.Debug("provider responded", map[string]interface{}{
		"endpoint":   endpoint,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return nil
}

func (c *Client) mapTransportError(ctx context.Context, endpoint string, err error, failPrefix string) error {
	if stderrors.Is(err, context.DeadlineExceeded) && stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewProviderTimeoutError(endpoint, c.config.Timeout)
	}

	var statusErr *commonhttp.StatusError
	if stderrors.As(err, &statusErr) {
		return errors.NewProviderError(endpoint, fmt.Sprintf("%s: %s", failPrefix, statusErr.Status), err).
			WithMetadata("httpStatus", statusErr.StatusCode)
	}

	return errors.NewProviderError(endpoint, fmt.Sprintf("%s: %s", failPrefix, err.Error()), err)
}

func (r *geocodeResponse) providerStatus() string { return r.Status }
func (r *nearbyResponse) providerStatus() string  { return r.Status }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
