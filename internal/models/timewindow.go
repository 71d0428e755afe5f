package models

// MealTime is the coarse meal bucket a query refers to.
type MealTime string

const (
	MealTimeBreakfast MealTime = "breakfast"
	MealTimeLunch     MealTime = "lunch"
	MealTimeDinner    MealTime = "dinner"
	MealTimeNone      MealTime = ""
)

// ParseMealTime maps free text to a meal bucket; unknown values map to MealTimeNone.
func ParseMealTime(s string) MealTime {
	switch MealTime(s) {
	case MealTimeBreakfast, MealTimeLunch, MealTimeDinner:
		return MealTime(s)
	case "brunch":
		return MealTimeBreakfast
	default:
		return MealTimeNone
	}
}

// TimeWindow is the validated temporal facet of a query. Dates are
// YYYY-MM-DD and times HH:MM; any field may be empty.
type TimeWindow struct {
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	IsSpecificDate bool    `json:"is_specific_date"`
	IsSpecificTime bool    `json:"is_specific_time"`
	DayContext     string  `json:"day_context"`
	TimeContext    string  `json:"time_context"`
	Confidence     float64 `json:"confidence"`
}

// HasDates reports whether any date bound is set.
func (w TimeWindow) HasDates() bool {
	return w.StartDate != "" || w.EndDate != ""
}

// HasTimes reports whether any time bound is set.
func (w TimeWindow) HasTimes() bool {
	return w.StartTime != "" || w.EndTime != ""
}

// IsEmpty reports whether the window restricts nothing.
func (w TimeWindow) IsEmpty() bool {
	return !w.HasDates() && !w.HasTimes()
}
