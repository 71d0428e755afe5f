package preferenceresolver

import "dining-search/internal/common/validation"

const systemPrompt = `You extract dining preferences from a restaurant search.
Look for a group written with @ (e.g. @family), cuisines the diner wants,
cuisines the diner rules out, and the meal.
Respond with one JSON object and nothing else:
{
  "group": "group name without the @, or null",
  "cuisine_types": ["cuisines asked for"],
  "excluded_cuisines": ["cuisines ruled out, e.g. 'not French' gives French"],
  "meal_time": "breakfast, lunch, dinner, or null"
}`

var fieldsSchema = validation.MustCompile("preferences", validation.Object(map[string][]string{
	"group":             {"string"},
	"cuisine_types":     {"array"},
	"excluded_cuisines": {"array"},
	"meal_time":         {"string"},
}))

type preferenceFields struct {
	Group            *string  `json:"group"`
	CuisineTypes     []string `json:"cuisine_types"`
	ExcludedCuisines []string `json:"excluded_cuisines"`
	MealTime         *string  `json:"meal_time"`
}
