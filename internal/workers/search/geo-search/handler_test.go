package geosearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-search/internal/common/logger"
	"dining-search/internal/models"
)

type fakeDirectory struct {
	rows  []models.RestaurantRecord
	err   error
	calls int
	last  models.RestaurantQuery
}

func (f *fakeDirectory) FindNear(ctx context.Context, q models.RestaurantQuery) ([]models.RestaurantRecord, error) {
	f.calls++
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.RestaurantRecord, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

var apollo = models.Coordinates{Latitude: 51.5115, Longitude: -0.1334}

func ptr(f float64) *float64 { return &f }

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, DefaultLimit: 200}
}

func TestSearch_OrdersByDistanceThenRating(t *testing.T) {
	dir := &fakeDirectory{rows: []models.RestaurantRecord{
		{ID: "far", CuisineType: "Italian", DistanceFromVenue: 900, Rating: ptr(4.9)},
		{ID: "near-low", CuisineType: "Italian", DistanceFromVenue: 120, Rating: ptr(3.1)},
		{ID: "near-unrated", CuisineType: "Italian", DistanceFromVenue: 120},
		{ID: "near-high", CuisineType: "Italian", DistanceFromVenue: 120, Rating: ptr(4.5)},
		{ID: "mid", CuisineType: "Italian", DistanceFromVenue: 300},
	}}
	e := NewExecutor(createTestConfig(), dir, logger.NewTestLogger(t))

	got, err := e.Search(context.Background(), apollo, models.EmptyPreferences(), models.TimeWindow{}, 0)
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"near-high", "near-low", "near-unrated", "mid", "far"}, ids)
	assert.Equal(t, 200, dir.last.Limit)
}

func TestSearch_CuisineFilters(t *testing.T) {
	dir := &fakeDirectory{rows: []models.RestaurantRecord{
		{ID: "1", CuisineType: "italian", DistanceFromVenue: 10},
		{ID: "2", CuisineType: "French", DistanceFromVenue: 20},
		{ID: "3", CuisineType: "ITALIAN", DistanceFromVenue: 30},
		{ID: "4", CuisineType: "Steakhouse", DistanceFromVenue: 40},
	}}
	e := NewExecutor(createTestConfig(), dir, logger.NewTestLogger(t))

	prefs := models.EmptyPreferences()
	prefs.CuisineTypes = []string{"Italian"}
	got, err := e.Search(context.Background(), apollo, prefs, models.TimeWindow{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Contains(t, []string{"1", "3"}, r.ID)
	}
	assert.Equal(t, []string{"Italian"}, dir.last.CuisineTypes)

	prefs = models.EmptyPreferences()
	prefs.ExcludedCuisines = []string{"french", "STEAKHOUSE"}
	got, err = e.Search(context.Background(), apollo, prefs, models.TimeWindow{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Equal(t, []string{"French", "Steakhouse"}, dir.last.ExcludedCuisines)
}

func TestSearch_ConflictingFiltersYieldNothing(t *testing.T) {
	dir := &fakeDirectory{rows: []models.RestaurantRecord{{ID: "1", CuisineType: "Italian", DistanceFromVenue: 10}}}
	e := NewExecutor(createTestConfig(), dir, logger.NewTestLogger(t))

	prefs := models.EmptyPreferences()
	prefs.CuisineTypes = []string{"Italian"}
	prefs.ExcludedCuisines = []string{"italian"}

	got, err := e.Search(context.Background(), apollo, prefs, models.TimeWindow{}, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, dir.calls)
}

func TestSearch_PassesWindowAndTruncates(t *testing.T) {
	dir := &fakeDirectory{rows: []models.RestaurantRecord{
		{ID: "a", DistanceFromVenue: 3},
		{ID: "b", DistanceFromVenue: 1},
		{ID: "c", DistanceFromVenue: 2},
	}}
	e := NewExecutor(createTestConfig(), dir, logger.NewTestLogger(t))

	window := models.TimeWindow{StartDate: "2025-06-10", EndDate: "2025-06-10", StartTime: "19:00", EndTime: "21:00"}
	got, err := e.Search(context.Background(), apollo, models.EmptyPreferences(), window, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Equal(t, "2025-06-10", dir.last.StartDate)
	assert.Equal(t, "21:00", dir.last.EndTime)
	assert.Equal(t, apollo, dir.last.Origin)
}

func TestSearch_ComputesMissingDistance(t *testing.T) {
	dir := &fakeDirectory{rows: []models.RestaurantRecord{
		{ID: "soho", Latitude: 51.5136, Longitude: -0.1365},
		{ID: "here", Latitude: apollo.Latitude, Longitude: apollo.Longitude, DistanceFromVenue: 0.5},
	}}
	e := NewExecutor(createTestConfig(), dir, logger.NewTestLogger(t))

	got, err := e.Search(context.Background(), apollo, models.EmptyPreferences(), models.TimeWindow{}, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "here", got[0].ID)
	assert.InDelta(t, 318, got[1].DistanceFromVenue, 15)
}

func TestSearch_EmptyIsSuccess(t *testing.T) {
	e := NewExecutor(createTestConfig(), &fakeDirectory{}, logger.NewTestLogger(t))

	got, err := e.Search(context.Background(), apollo, models.EmptyPreferences(), models.TimeWindow{}, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_Errors(t *testing.T) {
	e := NewExecutor(createTestConfig(), &fakeDirectory{err: errors.New("connection refused")}, logger.NewTestLogger(t))

	_, err := e.Search(context.Background(), apollo, models.EmptyPreferences(), models.TimeWindow{}, 0)
	assert.ErrorIs(t, err, ErrSearchFailed)

	_, err = e.Search(context.Background(), models.Coordinates{}, models.EmptyPreferences(), models.TimeWindow{}, 0)
	assert.ErrorIs(t, err, ErrInvalidOrigin)

	_, err = e.Search(context.Background(), models.Coordinates{Latitude: 91, Longitude: 0}, models.EmptyPreferences(), models.TimeWindow{}, 0)
	assert.ErrorIs(t, err, ErrInvalidOrigin)
}

func TestHaversine(t *testing.T) {
	assert.Zero(t, haversine(apollo, apollo))

	paris := models.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	london := models.Coordinates{Latitude: 51.5074, Longitude: -0.1278}
	assert.InDelta(t, 343_500, haversine(london, paris), 2_000)
	assert.InDelta(t, haversine(paris, london), haversine(london, paris), 1e-6)
}
