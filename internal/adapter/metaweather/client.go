package metaweather

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/observability"
)

const (
	endpointSearch   = "search"
	endpointLocation = "location"
)

// Client implements domain.WeatherService using the MetaWeather API.
// Each call makes exactly one request and never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a MetaWeather client rooted at baseURL,
// e.g. "https://www.metaweather.com/api".
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// ResolveLocations searches for locations matching query and applies the
// ambiguity rules of domain.SelectLocations.
func (c *Client) ResolveLocations(ctx context.Context, query string, maxMatches int) ([]domain.Location, error) {
	params := url.Values{"query": {query}}
	u := fmt.Sprintf("%s/location/search/?%s", c.baseURL, params.Encode())

	var locations []domain.Location
	if err := c.fetch(ctx, u, endpointSearch, &locations); err != nil {
		return nil, err
	}

	c.logger.Debug("location search", "query", query, "matches", len(locations), "limit", maxMatches)
	return domain.SelectLocations(locations, maxMatches)
}

// TodaysForecast fetches the forecast bundle for woeid and extracts the day
// record for the location's local date.
func (c *Client) TodaysForecast(ctx context.Context, woeid int64) (domain.LocationInfo, domain.DayForecast, error) {
	u := fmt.Sprintf("%s/location/%d/", c.baseURL, woeid)

	var bundle domain.ForecastBundle
	if err := c.fetch(ctx, u, endpointLocation, &bundle); err != nil {
		return domain.LocationInfo{}, domain.DayForecast{}, err
	}

	c.logger.Debug("forecast fetched", "woeid", woeid, "local_time", bundle.Time, "days", len(bundle.ConsolidatedWeather))
	return domain.ExtractToday(&bundle)
}

func (c *Client) fetch(ctx context.Context, fullURL, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return &domain.RemoteServiceError{Message: endpoint + " request", Err: err}
	}
	defer resp.Body.Close()

	if err := decodeResponse(resp, v); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "remote_error").Inc()
		c.logger.Warn("metaweather request failed",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"error", err,
		)
		return err
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}
