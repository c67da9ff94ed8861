package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-cache/internal/config"
	"weather-cache/internal/models"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

const forecastBody = `{
	"current": {
		"temp_c": 23.45,
		"temp_f": 74.21,
		"last_updated": "2023-12-14 10:30"
	},
	"forecast": {
		"forecastday": [
			{
				"date": "2023-12-14",
				"day": {
					"mintemp_c": 10.0, "maxtemp_c": 20.0, "avgtemp_c": 15.0,
					"mintemp_f": 50.0, "maxtemp_f": 68.0, "avgtemp_f": 59.0
				}
			},
			{
				"date": "2023-12-15",
				"day": {
					"mintemp_c": 11.0, "maxtemp_c": 21.0, "avgtemp_c": 16.0,
					"mintemp_f": 51.8, "maxtemp_f": 69.8, "avgtemp_f": 60.8
				}
			}
		]
	}
}`

func newTestClient(baseURL string) *Client {
	cfg := config.WeatherConfig{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		Timeout:           2 * time.Second,
		RequestsPerSecond: 100,
		Burst:             10,
		ForecastDays:      7,
	}
	collector := metrics.NewCollector("test", prometheus.NewRegistry())
	return NewClient(cfg, logging.NewNop(), collector)
}

func TestFetchMapsUpstreamPayload(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	payload, err := client.Fetch(context.Background(), models.Coordinates{Latitude: 23.45, Longitude: 33.11})
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.Equal(t, 23.45, payload.Current.TemperatureCelsius)
	assert.Equal(t, 74.21, payload.Current.TemperatureFahrenheit)
	assert.Equal(t, "2023-12-14 10:30", payload.Current.LastUpdatedLabel)

	require.Len(t, payload.Forecasts, 2)
	assert.Equal(t, "2023-12-14", payload.Forecasts[0].DateLabel)
	assert.Equal(t, 10.0, payload.Forecasts[0].MinTemperatureCelsius)
	assert.Equal(t, 21.0, payload.Forecasts[1].MaxTemperatureCelsius)
	assert.Equal(t, 60.8, payload.Forecasts[1].AvgTemperatureFahrenheit)

	assert.Contains(t, gotQuery, "q=23.45%2C33.11")
	assert.Contains(t, gotQuery, "days=7")
	assert.Contains(t, gotQuery, "key=test-key")
}

func TestFetchServerErrorKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background(), models.Coordinates{})
	require.Error(t, err)

	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindServerError, fetchErr.Kind)
	assert.False(t, IsNetworkUnavailable(err))
}

func TestFetchDecodeErrorKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background(), models.Coordinates{})
	require.Error(t, err)

	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindDecodeError, fetchErr.Kind)
}

func TestFetchNetworkUnavailableKind(t *testing.T) {
	// A server that is shut down before the request leaves a refused
	// connection behind.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := newTestClient(serverURL)
	_, err := client.Fetch(context.Background(), models.Coordinates{})
	require.Error(t, err)

	assert.True(t, IsNetworkUnavailable(err))
}
