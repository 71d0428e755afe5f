package datetimeresolver

import (
	"fmt"
	"time"

	"dining-search/internal/common/validation"
)

const systemPrompt = `You extract when a diner wants to eat.
Respond with one JSON object and nothing else:
{
  "start_date": "YYYY-MM-DD or empty",
  "end_date": "YYYY-MM-DD or empty",
  "start_time": "HH:MM in 24-hour format or empty",
  "end_time": "HH:MM in 24-hour format or empty",
  "day_context": "one of today, tonight, tomorrow, this weekend, next week, this month, a weekday name such as friday, next <weekday>, or empty",
  "time_context": "one of breakfast, lunch, dinner, or empty",
  "confidence": number between 0 and 1,
  "is_specific_date": boolean,
  "is_specific_time": boolean
}
Prefer day_context over dates for relative wording such as "tomorrow".
Use the next occurrence of any named date. Leave fields empty when not mentioned.`

// userText prefixes the query with the anchor so named dates resolve to the
// right year.
func userText(query string, anchor time.Time) string {
	return fmt.Sprintf("Today is %s (%s).\n%s", anchor.Format(dateLayout), anchor.Weekday(), query)
}

var fieldsSchema = validation.MustCompile("datetime", validation.Object(map[string][]string{
	"start_date":       {"string"},
	"end_date":         {"string"},
	"start_time":       {"string"},
	"end_time":         {"string"},
	"day_context":      {"string"},
	"time_context":     {"string"},
	"confidence":       {"number"},
	"is_specific_date": {"boolean"},
	"is_specific_time": {"boolean"},
}))

type datetimeFields struct {
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	DayContext     string  `json:"day_context"`
	TimeContext    string  `json:"time_context"`
	Confidence     float64 `json:"confidence"`
	IsSpecificDate bool    `json:"is_specific_date"`
	IsSpecificTime bool    `json:"is_specific_time"`
}
