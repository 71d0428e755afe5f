package datetimeresolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayRange(t *testing.T) {
	tests := []struct {
		name      string
		day       string
		anchor    string
		wantStart string
		wantEnd   string
	}{
		{"today", DayToday, "2025-06-10", "2025-06-10", "2025-06-10"},
		{"tonight", DayTonight, "2025-06-10", "2025-06-10", "2025-06-10"},
		{"tomorrow", DayTomorrow, "2025-06-10", "2025-06-11", "2025-06-11"},
		{"tomorrow across month", DayTomorrow, "2025-06-30", "2025-07-01", "2025-07-01"},
		{"next week from tuesday", DayNextWeek, "2025-06-10", "2025-06-16", "2025-06-22"},
		{"next week from monday rolls forward", DayNextWeek, "2025-06-09", "2025-06-16", "2025-06-22"},
		{"next week from sunday", DayNextWeek, "2025-06-15", "2025-06-16", "2025-06-22"},
		{"weekend from tuesday", DayThisWeekend, "2025-06-10", "2025-06-14", "2025-06-15"},
		{"weekend from saturday rolls forward", DayThisWeekend, "2025-06-14", "2025-06-21", "2025-06-22"},
		{"weekend from friday", DayThisWeekend, "2025-06-13", "2025-06-14", "2025-06-15"},
		{"this month", DayThisMonth, "2025-06-10", "2025-06-10", "2025-06-30"},
		{"this month february leap year", DayThisMonth, "2024-02-03", "2024-02-03", "2024-02-29"},
		{"this month on last day", DayThisMonth, "2025-12-31", "2025-12-31", "2025-12-31"},
		{"friday from tuesday", "friday", "2025-06-10", "2025-06-13", "2025-06-13"},
		{"tuesday on a tuesday is today", "tuesday", "2025-06-10", "2025-06-10", "2025-06-10"},
		{"monday across week", "monday", "2025-06-10", "2025-06-16", "2025-06-16"},
		{"next tuesday on a tuesday", "next tuesday", "2025-06-10", "2025-06-17", "2025-06-17"},
		{"next friday from tuesday", "next friday", "2025-06-10", "2025-06-13", "2025-06-13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := dayRange(tt.day, date(tt.anchor))
			assert.True(t, ok)
			assert.Equal(t, tt.wantStart, start.Format(dateLayout))
			assert.Equal(t, tt.wantEnd, end.Format(dateLayout))
		})
	}

	_, _, ok := dayRange("someday", date("2025-06-10"))
	assert.False(t, ok)
}

func TestDayRange_IgnoresClockAndZone(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	anchor := time.Date(2025, 6, 10, 23, 30, 0, 0, london)
	start, end, ok := dayRange(DayTonight, anchor)
	assert.True(t, ok)
	assert.Equal(t, "2025-06-10", start.Format(dateLayout))
	assert.Equal(t, "2025-06-10", end.Format(dateLayout))
}

func TestCanonicalDay(t *testing.T) {
	assert.Equal(t, DayThisWeekend, canonicalDay("This  Weekend"))
	assert.Equal(t, DayThisWeekend, canonicalDay("weekend"))
	assert.Equal(t, DayNextWeek, canonicalDay("next week"))
	assert.Equal(t, "", canonicalDay("January 2025"))
	assert.Equal(t, "friday", canonicalDay("Friday"))
	assert.Equal(t, "friday", canonicalDay("on Friday"))
	assert.Equal(t, "next sunday", canonicalDay("Next  Sunday"))
	assert.Equal(t, "", canonicalDay("next fortnight"))
}

func TestClampDates(t *testing.T) {
	anchor := date("2025-06-10")
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{
		{"inside window", "2025-06-12", "2025-06-14", "2025-06-12", "2025-06-14"},
		{"start before anchor raised", "2025-06-01", "2025-06-14", "2025-06-10", "2025-06-14"},
		{"end before start collapses", "2025-07-10", "2025-07-01", "2025-07-10", "2025-07-10"},
		{"end past ceiling lowered", "2025-07-01", "2026-03-01", "2025-07-01", "2025-12-10"},
		{"start past ceiling collapses both", "2026-01-05", "2026-02-01", "2025-12-10", "2025-12-10"},
		{"lone start is one day", "2025-06-20", "", "2025-06-20", "2025-06-20"},
		{"lone end starts at anchor", "", "2025-06-20", "2025-06-10", "2025-06-20"},
		{"malformed start dropped", "June 12", "2025-06-14", "2025-06-10", "2025-06-14"},
		{"both malformed", "soon", "later", "", ""},
		{"both empty", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := clampDates(tt.start, tt.end, anchor, 6)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestClampTimes(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{
		{"pair kept", "18:00", "20:30", "18:00", "20:30"},
		{"seconds accepted", "19:00:00", "21:15:00", "19:00", "21:15"},
		{"lone start gets two hours", "19:00", "", "19:00", "21:00"},
		{"end before start collapses", "20:00", "18:00", "20:00", "20:00"},
		{"late start capped at midnight", "23:00", "", "23:00", "23:59"},
		{"malformed start dropped", "7pm", "21:00", "", "21:00"},
		{"malformed end defaults", "12:00", "later", "12:00", "14:00"},
		{"nothing", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := clampTimes(tt.start, tt.end, 2*time.Hour)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestInferMealTime(t *testing.T) {
	assert.Equal(t, "breakfast", inferMealTime("Brunch near the Barbican"))
	assert.Equal(t, "lunch", inferMealTime("quick lunch before the matinee"))
	assert.Equal(t, "dinner", inferMealTime("somewhere tonight"))
	assert.Equal(t, "dinner", inferMealTime("Evening meal"))
	assert.Equal(t, "", inferMealTime("Italian near the Apollo"))
	assert.Equal(t, "", inferMealTime("dinnerware shop"))
}

func TestInferDay(t *testing.T) {
	assert.Equal(t, DayTonight, inferDay("dinner tonight at 7pm"))
	assert.Equal(t, DayTomorrow, inferDay("Tomorrow lunch"))
	assert.Equal(t, DayThisWeekend, inferDay("this weekend"))
	assert.Equal(t, "", inferDay("near the Apollo"))
	assert.Equal(t, "friday", inferDay("Italian on Friday near the Apollo"))
	assert.Equal(t, "next saturday", inferDay("lunch next Saturday"))
}
