package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCuisineSet_CaseInsensitive(t *testing.T) {
	s := NewCuisineSet("Indian", "indian", " INDIAN ", "french")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"Indian", "French"}, s.Values())
	assert.True(t, s.Contains("FRENCH"))
	assert.False(t, s.Contains("Thai"))
}

func TestCuisineSet_MultiWord(t *testing.T) {
	s := NewCuisineSet("middle eastern", "Middle Eastern", "STEAKHOUSE")
	assert.Equal(t, []string{"Middle Eastern", "Steakhouse"}, s.Values())
}

func TestDietarySet_IgnoresBlank(t *testing.T) {
	s := NewDietarySet("Vegetarian", "", "  ", "halal", "VEGETARIAN")
	assert.Equal(t, []string{"halal", "vegetarian"}, s.Sorted())
}

func TestParseMealTime(t *testing.T) {
	assert.Equal(t, MealTimeDinner, ParseMealTime("dinner"))
	assert.Equal(t, MealTimeBreakfast, ParseMealTime("brunch"))
	assert.Equal(t, MealTimeNone, ParseMealTime("supper"))
}

func TestParseVenueType(t *testing.T) {
	vt, ok := ParseVenueType("cinema")
	assert.True(t, ok)
	assert.Equal(t, VenueTypeCinema, vt)

	_, ok = ParseVenueType("Cinema")
	assert.False(t, ok)
	_, ok = ParseVenueType("stadium")
	assert.False(t, ok)
}
