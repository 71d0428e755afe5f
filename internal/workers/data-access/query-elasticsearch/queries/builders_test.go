package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-search/internal/models"
)

func TestBuildRestaurantQuery_NoFilters(t *testing.T) {
	body := buildRestaurantQuery(models.RestaurantQuery{
		Origin: models.Coordinates{Latitude: 51.5, Longitude: -0.12},
	})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Empty(t, boolQuery["filter"])
	assert.Empty(t, boolQuery["must_not"])
}

func TestAvailabilityFilter(t *testing.T) {
	assert.Nil(t, availabilityFilter(models.RestaurantQuery{}))

	f := availabilityFilter(models.RestaurantQuery{StartTime: "12:00"})
	require.NotNil(t, f)
	nested := f["nested"].(map[string]interface{})
	assert.Equal(t, "availability", nested["path"])
	ranges := nested["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	require.Len(t, ranges, 1)
	slot := ranges[0].(map[string]interface{})["range"].(map[string]interface{})["availability.time_slot"].(map[string]interface{})
	assert.Equal(t, "12:00", slot["gte"])
	assert.NotContains(t, slot, "lte")
}

func TestCuisineTerms_CaseInsensitive(t *testing.T) {
	terms := cuisineTerms([]string{"Italian", "Thai"})
	require.Len(t, terms, 2)
	term := terms[0].(map[string]interface{})["term"].(map[string]interface{})["cuisine_type"].(map[string]interface{})
	assert.Equal(t, "Italian", term["value"])
	assert.Equal(t, true, term["case_insensitive"])
}

func TestBuildRestaurantSearch_Validation(t *testing.T) {
	_, err := BuildRestaurantSearch("", models.RestaurantQuery{Origin: models.Coordinates{Latitude: 1, Longitude: 1}})
	assert.ErrorIs(t, err, ErrMissingIndex)

	_, err = BuildRestaurantSearch("restaurants", models.RestaurantQuery{})
	assert.ErrorIs(t, err, ErrMissingOrigin)
}
