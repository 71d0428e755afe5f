package datetimeresolver

import (
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

const (
	DayToday       = "today"
	DayTonight     = "tonight"
	DayTomorrow    = "tomorrow"
	DayNextWeek    = "next week"
	DayThisWeekend = "this weekend"
	DayThisMonth   = "this month"
)

var dayAliases = map[string]string{
	DayToday:       DayToday,
	DayTonight:     DayTonight,
	DayTomorrow:    DayTomorrow,
	DayNextWeek:    DayNextWeek,
	DayThisWeekend: DayThisWeekend,
	"weekend":      DayThisWeekend,
	"the weekend":  DayThisWeekend,
	DayThisMonth:   DayThisMonth,
}

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// canonicalDay maps a day_context to one of the Day* values, a weekday name
// or "next <weekday>", or "".
func canonicalDay(s string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if day, ok := dayAliases[norm]; ok {
		return day
	}
	for _, prefix := range []string{"on ", "this "} {
		norm = strings.TrimPrefix(norm, prefix)
	}
	name := strings.TrimPrefix(norm, "next ")
	if _, ok := weekdays[name]; ok {
		return norm
	}
	return ""
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayRange resolves a canonical day context relative to anchor.
func dayRange(day string, anchor time.Time) (start, end time.Time, ok bool) {
	anchor = dateOnly(anchor)
	switch day {
	case DayToday, DayTonight:
		return anchor, anchor, true
	case DayTomorrow:
		next := anchor.AddDate(0, 0, 1)
		return next, next, true
	case DayNextWeek:
		monday := anchor.AddDate(0, 0, daysUntil(anchor.Weekday(), time.Monday))
		return monday, monday.AddDate(0, 0, 6), true
	case DayThisWeekend:
		saturday := anchor.AddDate(0, 0, daysUntil(anchor.Weekday(), time.Saturday))
		return saturday, saturday.AddDate(0, 0, 1), true
	case DayThisMonth:
		lastDay := time.Date(anchor.Year(), anchor.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return anchor, lastDay, true
	default:
		return weekdayRange(day, anchor)
	}
}

// weekdayRange resolves "friday" to the next Friday on or after anchor and
// "next friday" to the next one strictly after it.
func weekdayRange(day string, anchor time.Time) (start, end time.Time, ok bool) {
	name := strings.TrimPrefix(day, "next ")
	target, known := weekdays[name]
	if !known {
		return time.Time{}, time.Time{}, false
	}
	days := daysUntil(anchor.Weekday(), target)
	if name == day && days == 7 {
		days = 0
	}
	d := anchor.AddDate(0, 0, days)
	return d, d, true
}

// daysUntil counts days to the next target weekday, never zero.
func daysUntil(from, target time.Weekday) int {
	days := (int(target) - int(from) + 7) % 7
	if days == 0 {
		days = 7
	}
	return days
}

// clampDates applies the absolute-date policy. Unparseable bounds are
// dropped; a lone start is treated as a single day, a lone end as
// anchor..end.
func clampDates(startStr, endStr string, anchor time.Time, maxMonths int) (string, string) {
	anchor = dateOnly(anchor)
	ceiling := anchor.AddDate(0, maxMonths, 0)

	start, startOK := parseDate(startStr)
	end, endOK := parseDate(endStr)
	switch {
	case !startOK && !endOK:
		return "", ""
	case !startOK:
		start = anchor
	case !endOK:
		end = start
	}

	if start.Before(anchor) {
		start = anchor
	}
	if end.Before(start) {
		end = start
	}
	if end.After(ceiling) {
		end = ceiling
	}
	if start.After(ceiling) {
		start, end = ceiling, ceiling
	}
	return start.Format(dateLayout), end.Format(dateLayout)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseClock accepts HH:MM or HH:MM:SS.
func parseClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"15:04:05", timeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// clampTimes applies the time policy and formats both bounds as HH:MM.
func clampTimes(startStr, endStr string, defaultDuration time.Duration) (string, string) {
	start, startOK := parseClock(startStr)
	end, endOK := parseClock(endStr)

	if !startOK {
		if endOK {
			return "", end.Format(timeLayout)
		}
		return "", ""
	}
	if !endOK {
		end = start.Add(defaultDuration)
		if end.Day() != start.Day() {
			end = time.Date(start.Year(), start.Month(), start.Day(), 23, 59, 0, 0, time.UTC)
		}
	}
	if end.Before(start) {
		end = start
	}
	return start.Format(timeLayout), end.Format(timeLayout)
}

var mealKeywords = []struct {
	bucket  string
	pattern *regexp.Regexp
}{
	{"breakfast", regexp.MustCompile(`\b(breakfast|brunch)\b`)},
	{"lunch", regexp.MustCompile(`\blunch\b`)},
	{"dinner", regexp.MustCompile(`\b(dinner|tonight|evening)\b`)},
}

// inferMealTime returns the meal bucket named by keywords in text.
func inferMealTime(text string) string {
	lower := strings.ToLower(text)
	for _, k := range mealKeywords {
		if k.pattern.MatchString(lower) {
			return k.bucket
		}
	}
	return ""
}

var dayKeywords = []struct {
	day     string
	pattern *regexp.Regexp
}{
	{DayTonight, regexp.MustCompile(`\btonight\b`)},
	{DayToday, regexp.MustCompile(`\btoday\b`)},
	{DayTomorrow, regexp.MustCompile(`\btomorrow\b`)},
	{DayThisWeekend, regexp.MustCompile(`\b(this )?weekend\b`)},
	{DayNextWeek, regexp.MustCompile(`\bnext week\b`)},
	{DayThisMonth, regexp.MustCompile(`\bthis month\b`)},
}

var weekdayKeyword = regexp.MustCompile(`\b(next )?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

// inferDay finds relative day wording in text when extraction gave none.
func inferDay(text string) string {
	lower := strings.ToLower(text)
	for _, k := range dayKeywords {
		if k.pattern.MatchString(lower) {
			return k.day
		}
	}
	return weekdayKeyword.FindString(lower)
}
