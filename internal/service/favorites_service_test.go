package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-cache/internal/gateway"
	"weather-cache/internal/models"
	"weather-cache/internal/store"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

type favoritesFixture struct {
	locations *store.MemoryLocationStore
	cache     *store.MemoryTemperatureCache
	gateway   *stubGateway
	service   *FavoritesService
}

func newFavoritesFixture(t *testing.T) *favoritesFixture {
	t.Helper()

	locations := store.NewMemoryLocationStore()
	require.NoError(t, locations.Seed(context.Background(), []*models.Location{testLocation()}))

	cache := store.NewMemoryTemperatureCache()
	gw := &stubGateway{payload: livePayload()}

	collector := metrics.NewCollector("test", prometheus.NewRegistry())
	temps := NewTemperatureService(gw, cache, logging.NewNop(), collector)

	return &favoritesFixture{
		locations: locations,
		cache:     cache,
		gateway:   gw,
		service:   NewFavoritesService(locations, temps, logging.NewNop(), collector),
	}
}

func TestToggleFavoriteWarmsCache(t *testing.T) {
	ctx := context.Background()
	f := newFavoritesFixture(t)

	loc := testLocation()
	result, err := f.service.ToggleFavorite(ctx, loc)
	require.NoError(t, err)

	assert.True(t, result.IsFavorite)
	assert.True(t, loc.IsFavorite)
	assert.NoError(t, result.WarmErr)

	current, forecasts, err := f.cache.GetBoth(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Last Updated : 2023-12-14 10:30", current.LastUpdatedLabel)
	assert.Len(t, forecasts, 2)

	stored, err := f.locations.Get(ctx, "100")
	require.NoError(t, err)
	assert.True(t, stored.IsFavorite)
}

func TestToggleUnfavoriteEvictsCache(t *testing.T) {
	ctx := context.Background()
	f := newFavoritesFixture(t)

	loc := testLocation()
	_, err := f.service.ToggleFavorite(ctx, loc)
	require.NoError(t, err)

	result, err := f.service.ToggleFavorite(ctx, loc)
	require.NoError(t, err)
	assert.False(t, result.IsFavorite)
	assert.False(t, loc.IsFavorite)

	current, forecasts, err := f.cache.GetBoth(ctx, "100")
	require.NoError(t, err)
	assert.Nil(t, current)
	assert.Nil(t, forecasts)
}

func TestToggleFavoriteWarmFailureKeepsFlag(t *testing.T) {
	ctx := context.Background()
	f := newFavoritesFixture(t)
	f.gateway.err = offlineErr()

	loc := testLocation()
	result, err := f.service.ToggleFavorite(ctx, loc)
	require.NoError(t, err)

	// The flag flips even though the warm failed; the failure is surfaced
	// separately so the caller can notify.
	assert.True(t, result.IsFavorite)
	assert.Error(t, result.WarmErr)

	stored, err := f.locations.Get(ctx, "100")
	require.NoError(t, err)
	assert.True(t, stored.IsFavorite)

	current, _, err := f.cache.GetBoth(ctx, "100")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestToggleFavoriteUnknownLocation(t *testing.T) {
	ctx := context.Background()
	f := newFavoritesFixture(t)

	_, err := f.service.ToggleFavorite(ctx, &models.Location{ID: "missing"})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
	assert.Zero(t, f.gateway.calls)
}

func TestWarmAfterReconnectStoresFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFavoritesFixture(t)
	f.gateway.err = offlineErr()

	loc := testLocation()
	result, err := f.service.ToggleFavorite(ctx, loc)
	require.NoError(t, err)
	require.Error(t, result.WarmErr)
	assert.True(t, gateway.IsNetworkUnavailable(result.WarmErr))

	// Back online: un-favorite then favorite again warms successfully.
	f.gateway.err = nil

	_, err = f.service.ToggleFavorite(ctx, loc)
	require.NoError(t, err)

	result, err = f.service.ToggleFavorite(ctx, loc)
	require.NoError(t, err)
	assert.True(t, result.IsFavorite)
	assert.NoError(t, result.WarmErr)

	current, _, err := f.cache.GetBoth(ctx, "100")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 23.45, current.TemperatureCelsius)
}
