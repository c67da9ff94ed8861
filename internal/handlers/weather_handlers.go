package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"weather-cache/internal/gateway"
	"weather-cache/internal/models"
	"weather-cache/internal/service"
	"weather-cache/internal/store"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// WeatherHandlers exposes the location list, the temperature details view,
// and the favorite toggle over HTTP.
type WeatherHandlers struct {
	locations    store.LocationStore
	seed         *service.SeedService
	temperatures *service.TemperatureService
	favorites    *service.FavoritesService
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
}

// NewWeatherHandlers creates the HTTP handler set
func NewWeatherHandlers(
	locations store.LocationStore,
	seed *service.SeedService,
	temperatures *service.TemperatureService,
	favorites *service.FavoritesService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *WeatherHandlers {
	return &WeatherHandlers{
		locations:    locations,
		seed:         seed,
		temperatures: temperatures,
		favorites:    favorites,
		logger:       logger,
		metrics:      metricsCollector,
	}
}

// RegisterRoutes attaches all routes to the router
func (h *WeatherHandlers) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/locations", h.ListLocations).Methods(http.MethodGet)
	api.HandleFunc("/locations/{id}/weather", h.GetWeather).Methods(http.MethodGet)
	api.HandleFunc("/locations/{id}/favorite", h.ToggleFavorite).Methods(http.MethodPost)

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// locationsResponse wraps the location list
type locationsResponse struct {
	Locations []*models.Location `json:"locations"`
	Count     int                `json:"count"`
}

// weatherResponse is the temperature details view payload
type weatherResponse struct {
	Location *models.Location `json:"location"`
	Unit     string           `json:"unit"`
	Sections []models.Section `json:"sections"`
}

// favoriteResponse is the toggle outcome payload. Warning carries the
// user-facing message when favoriting succeeded but the snapshot could
// not be cached.
type favoriteResponse struct {
	Location   *models.Location `json:"location"`
	IsFavorite bool             `json:"isFavorite"`
	Warning    string           `json:"warning,omitempty"`
}

// ListLocations handles GET /api/locations
func (h *WeatherHandlers) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.seed.LoadLocations(r.Context())
	if err != nil {
		h.metrics.RecordAPIError("seed_failure", "/api/locations")
		h.logger.Error(r.Context(), "[API] Failed to load locations", logging.Fields{}, err)
		h.sendError(w, http.StatusServiceUnavailable, "unable to load locations", "locations_unavailable")
		return
	}

	h.sendJSON(w, http.StatusOK, locationsResponse{
		Locations: locations,
		Count:     len(locations),
	})
}

// GetWeather handles GET /api/locations/{id}/weather?unit=celsius|fahrenheit
func (h *WeatherHandlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	unit := models.ParseTemperatureUnit(r.URL.Query().Get("unit"))

	location, err := h.locations.Get(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			h.sendError(w, http.StatusNotFound, "location not found", "location_not_found")
			return
		}
		h.metrics.RecordAPIError("store_failure", "/api/locations/{id}/weather")
		h.logger.Error(r.Context(), "[API] Failed to load location", logging.Fields{
			"location_id": id,
		}, err)
		h.sendError(w, http.StatusInternalServerError, "unable to load location", "store_failure")
		return
	}

	info, err := h.temperatures.LoadWeatherInformation(r.Context(), location)
	if err != nil {
		status := http.StatusBadGateway
		code := "fetch_failed"
		message := "unable to fetch weather data"

		if fetchErr, ok := gateway.AsFetchError(err); ok {
			message = fetchErr.Message()
			if fetchErr.Kind == gateway.KindNetworkUnavailable {
				status = http.StatusServiceUnavailable
				code = "network_unavailable"
			}
		}

		h.metrics.RecordAPIError(code, "/api/locations/{id}/weather")
		h.sendError(w, status, message, code)
		return
	}

	sections := models.NewSectionSet(*info).SectionsFor(unit)

	h.sendJSON(w, http.StatusOK, weatherResponse{
		Location: location,
		Unit:     unit.DisplayTitle(),
		Sections: sections,
	})
}

// ToggleFavorite handles POST /api/locations/{id}/favorite
func (h *WeatherHandlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	location, err := h.locations.Get(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			h.sendError(w, http.StatusNotFound, "location not found", "location_not_found")
			return
		}
		h.metrics.RecordAPIError("store_failure", "/api/locations/{id}/favorite")
		h.sendError(w, http.StatusInternalServerError, "unable to load location", "store_failure")
		return
	}

	result, err := h.favorites.ToggleFavorite(r.Context(), location)
	if err != nil {
		if store.IsNotFound(err) {
			h.sendError(w, http.StatusNotFound, "location not found", "location_not_found")
			return
		}
		h.metrics.RecordAPIError("toggle_failure", "/api/locations/{id}/favorite")
		h.sendError(w, http.StatusInternalServerError, "unable to update favorite", "toggle_failure")
		return
	}

	resp := favoriteResponse{
		Location:   result.Location,
		IsFavorite: result.IsFavorite,
	}

	if result.WarmErr != nil {
		resp.Warning = "Weather data could not be cached for offline use."
		if fetchErr, ok := gateway.AsFetchError(result.WarmErr); ok {
			resp.Warning = fetchErr.Message()
		}
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health
func (h *WeatherHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.locations.HealthCheck(r.Context()); err != nil {
		h.sendJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *WeatherHandlers) sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error(context.Background(), "[API] Failed to encode response", logging.Fields{}, err)
	}
}

func (h *WeatherHandlers) sendError(w http.ResponseWriter, status int, message, code string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
