package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"weather-cache/internal/config"
	"weather-cache/internal/models"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// apiResponse mirrors the upstream forecast endpoint payload. Only the
// fields this service consumes are mapped.
type apiResponse struct {
	Current struct {
		TempC       float64 `json:"temp_c"`
		TempF       float64 `json:"temp_f"`
		LastUpdated string  `json:"last_updated"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MinTempC float64 `json:"mintemp_c"`
				MaxTempC float64 `json:"maxtemp_c"`
				AvgTempC float64 `json:"avgtemp_c"`
				MinTempF float64 `json:"mintemp_f"`
				MaxTempF float64 `json:"maxtemp_f"`
				AvgTempF float64 `json:"avgtemp_f"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Client is a rate-limited HTTP Gateway implementation
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	baseURL      string
	apiKey       string
	forecastDays int
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
}

// NewClient creates a new upstream weather client from configuration
func NewClient(cfg config.WeatherConfig, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		forecastDays: cfg.ForecastDays,
		logger:       logger,
		metrics:      metricsCollector,
	}
}

// Fetch retrieves current and forecast weather for the given coordinates.
// Failures are classified into FetchError kinds; only transport-level
// failures count as network-unavailable.
func (c *Client) Fetch(ctx context.Context, coords models.Coordinates) (*WeatherPayload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Kind: KindOther, Err: err}
	}

	requestURL := c.buildURL(coords)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindOther, Err: err}
	}

	timer := c.metrics.NewTimer(c.metrics.FetchDuration)
	resp, err := c.httpClient.Do(req)
	timer.ObserveDuration()

	if err != nil {
		kind := classifyTransportError(err)
		c.metrics.RecordFetch(kind.String())
		c.logger.Warn(ctx, "[WEATHER_FETCH] Upstream request failed", logging.Fields{
			"kind":      kind.String(),
			"latitude":  coords.Latitude,
			"longitude": coords.Longitude,
		})
		return nil, &FetchError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordFetch(KindServerError.String())
		c.logger.Warn(ctx, "[WEATHER_FETCH] Upstream returned non-OK status", logging.Fields{
			"status":    resp.StatusCode,
			"latitude":  coords.Latitude,
			"longitude": coords.Longitude,
		})
		return nil, &FetchError{
			Kind: KindServerError,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.metrics.RecordFetch(KindDecodeError.String())
		return nil, &FetchError{Kind: KindDecodeError, Err: err}
	}

	c.metrics.RecordFetch("success")

	payload := &WeatherPayload{
		Current: CurrentConditions{
			TemperatureCelsius:    body.Current.TempC,
			TemperatureFahrenheit: body.Current.TempF,
			LastUpdatedLabel:      body.Current.LastUpdated,
		},
	}

	for _, day := range body.Forecast.ForecastDay {
		payload.Forecasts = append(payload.Forecasts, ForecastDay{
			DateLabel:                day.Date,
			MinTemperatureCelsius:    day.Day.MinTempC,
			MaxTemperatureCelsius:    day.Day.MaxTempC,
			AvgTemperatureCelsius:    day.Day.AvgTempC,
			MinTemperatureFahrenheit: day.Day.MinTempF,
			MaxTemperatureFahrenheit: day.Day.MaxTempF,
			AvgTemperatureFahrenheit: day.Day.AvgTempF,
		})
	}

	return payload, nil
}

func (c *Client) buildURL(coords models.Coordinates) string {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
		strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
	))
	params.Set("days", strconv.Itoa(c.forecastDays))

	return fmt.Sprintf("%s/forecast.json?%s", c.baseURL, params.Encode())
}

// classifyTransportError maps an http.Client error to a FetchError kind.
// Every transport-level failure (DNS, refused connection, timeout, dropped
// link) means the upstream is unreachable from here, which is the one
// condition the cache fallback covers.
func classifyTransportError(err error) ErrorKind {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetworkUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetworkUnavailable
	}

	return KindOther
}
