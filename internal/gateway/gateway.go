package gateway

import (
	"context"
	"errors"
	"fmt"

	"weather-cache/internal/models"
)

// ErrorKind classifies upstream fetch failures. Only KindNetworkUnavailable
// is recoverable via the local cache; every other kind is terminal for the
// request.
type ErrorKind int

const (
	KindNetworkUnavailable ErrorKind = iota
	KindServerError
	KindDecodeError
	KindOther
)

// String returns the metric/log label for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindServerError:
		return "server_error"
	case KindDecodeError:
		return "decode_error"
	default:
		return "other"
	}
}

// FetchError is a typed upstream failure
type FetchError struct {
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather fetch failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("weather fetch failed (%s)", e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message returns a human-readable description suitable for surfacing to
// the user.
func (e *FetchError) Message() string {
	switch e.Kind {
	case KindNetworkUnavailable:
		return "The network is unavailable. Please check your connection and try again."
	case KindServerError:
		return "The weather service returned an error. Please try again later."
	case KindDecodeError:
		return "The weather service returned an unexpected response."
	default:
		return "An unexpected error occurred while fetching weather data."
	}
}

// AsFetchError extracts a FetchError from err, if present
func AsFetchError(err error) (*FetchError, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr, true
	}
	return nil, false
}

// IsNetworkUnavailable reports whether err is a network-unavailable fetch failure
func IsNetworkUnavailable(err error) bool {
	fetchErr, ok := AsFetchError(err)
	return ok && fetchErr.Kind == KindNetworkUnavailable
}

// CurrentConditions is the "now" half of a weather payload, dual-stored in
// both units so unit switching never recomputes.
type CurrentConditions struct {
	TemperatureCelsius    float64
	TemperatureFahrenheit float64
	LastUpdatedLabel      string
}

// ForecastDay is one day-ahead entry of a weather payload
type ForecastDay struct {
	DateLabel                string
	MinTemperatureCelsius    float64
	MaxTemperatureCelsius    float64
	AvgTemperatureCelsius    float64
	MinTemperatureFahrenheit float64
	MaxTemperatureFahrenheit float64
	AvgTemperatureFahrenheit float64
}

// WeatherPayload is the full current+forecast response for one coordinate pair
type WeatherPayload struct {
	Current   CurrentConditions
	Forecasts []ForecastDay
}

// Gateway fetches current and forecast weather for coordinates. A single
// call per invocation; retry policy, if any, belongs to callers (none is
// implemented: one failed attempt is terminal for the request).
type Gateway interface {
	Fetch(ctx context.Context, coords models.Coordinates) (*WeatherPayload, error)
}
