package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-cache/internal/gateway"
	"weather-cache/internal/models"
	"weather-cache/internal/service"
	"weather-cache/internal/store"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// stubGateway returns a fixed payload or error
type stubGateway struct {
	payload *gateway.WeatherPayload
	err     error
}

func (g *stubGateway) Fetch(ctx context.Context, coords models.Coordinates) (*gateway.WeatherPayload, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.payload, nil
}

// stubSeedSource serves a fixed document
type stubSeedSource struct {
	doc *models.SeedDocument
}

func (s *stubSeedSource) Load(ctx context.Context) (*models.SeedDocument, error) {
	return s.doc, nil
}

type handlerFixture struct {
	router  *mux.Router
	gateway *stubGateway
	cache   *store.MemoryTemperatureCache
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	locations := store.NewMemoryLocationStore()
	require.NoError(t, locations.Seed(context.Background(), []*models.Location{
		{
			ID:   "100",
			Name: "Boston",
			Coordinates: models.Coordinates{
				Latitude:  23.45,
				Longitude: 33.11,
			},
		},
	}))

	cache := store.NewMemoryTemperatureCache()
	gw := &stubGateway{
		payload: &gateway.WeatherPayload{
			Current: gateway.CurrentConditions{
				TemperatureCelsius:    23.45,
				TemperatureFahrenheit: 74.21,
				LastUpdatedLabel:      "2023-12-14 10:30",
			},
			Forecasts: []gateway.ForecastDay{
				{DateLabel: "2023-12-14", MinTemperatureCelsius: 10, MaxTemperatureCelsius: 20, AvgTemperatureCelsius: 15},
			},
		},
	}

	logger := logging.NewNop()
	collector := metrics.NewCollector("test", prometheus.NewRegistry())

	temps := service.NewTemperatureService(gw, cache, logger, collector)
	favorites := service.NewFavoritesService(locations, temps, logger, collector)
	seed := service.NewSeedService(locations, &stubSeedSource{doc: &models.SeedDocument{ListID: "unused"}}, logger, collector)

	h := NewWeatherHandlers(locations, seed, temps, favorites, logger, collector)
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	return &handlerFixture{router: router, gateway: gw, cache: cache}
}

func (f *handlerFixture) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListLocations(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/api/locations")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Locations []*models.Location `json:"locations"`
		Count     int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Boston", resp.Locations[0].Name)
}

func TestGetWeatherCelsiusSections(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/api/locations/100/weather")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Unit     string           `json:"unit"`
		Sections []models.Section `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Celsius", resp.Unit)
	require.Len(t, resp.Sections, 2)
	assert.Equal(t, models.SectionCurrentTemperature, resp.Sections[0].Kind)
	require.NotNil(t, resp.Sections[0].Current)
	assert.Equal(t, "Last Updated : 2023-12-14 10:30", resp.Sections[0].Current.LastUpdatedLabel)
	assert.Equal(t, models.SectionForecast, resp.Sections[1].Kind)
	require.Len(t, resp.Sections[1].Forecasts, 1)
	assert.Equal(t, "Forecast for: 2023-12-14", resp.Sections[1].Forecasts[0].DateLabel)
}

func TestGetWeatherFahrenheitUnit(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/api/locations/100/weather?unit=fahrenheit")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Unit string `json:"unit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Fahrenheit", resp.Unit)
}

func TestGetWeatherUnknownLocation(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/api/locations/999/weather")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetWeatherOfflineWithoutCache(t *testing.T) {
	f := newHandlerFixture(t)
	f.gateway.err = &gateway.FetchError{Kind: gateway.KindNetworkUnavailable, Err: errors.New("no route to host")}

	rec := f.do(http.MethodGet, "/api/locations/100/weather")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "network_unavailable", resp.Code)
}

func TestGetWeatherOfflineServesCache(t *testing.T) {
	f := newHandlerFixture(t)

	// Warm the cache through the favorite toggle, then go offline.
	rec := f.do(http.MethodPost, "/api/locations/100/favorite")
	require.Equal(t, http.StatusOK, rec.Code)

	f.gateway.err = &gateway.FetchError{Kind: gateway.KindNetworkUnavailable, Err: errors.New("no route to host")}

	rec = f.do(http.MethodGet, "/api/locations/100/weather")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sections []models.Section `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sections, 2)
	require.NotNil(t, resp.Sections[0].Current)
	assert.Equal(t, "Last Updated : 2023-12-14 10:30", resp.Sections[0].Current.LastUpdatedLabel)
}

func TestToggleFavoriteLifecycle(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodPost, "/api/locations/100/favorite")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		IsFavorite bool   `json:"isFavorite"`
		Warning    string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsFavorite)
	assert.Empty(t, resp.Warning)

	current, _, err := f.cache.GetBoth(context.Background(), "100")
	require.NoError(t, err)
	assert.NotNil(t, current)

	rec = f.do(http.MethodPost, "/api/locations/100/favorite")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsFavorite)

	current, _, err = f.cache.GetBoth(context.Background(), "100")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestToggleFavoriteOfflineReturnsWarning(t *testing.T) {
	f := newHandlerFixture(t)
	f.gateway.err = &gateway.FetchError{Kind: gateway.KindNetworkUnavailable, Err: errors.New("no route to host")}

	rec := f.do(http.MethodPost, "/api/locations/100/favorite")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		IsFavorite bool   `json:"isFavorite"`
		Warning    string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsFavorite)
	assert.NotEmpty(t, resp.Warning)
}

func TestHealthCheck(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}
