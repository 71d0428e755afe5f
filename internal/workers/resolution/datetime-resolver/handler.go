// Package datetimeresolver turns a dining query into a validated time window.
// It never fails: bad or missing input degrades to an empty window.
package datetimeresolver

import (
	"context"
	"strings"
	"time"

	"dining-search/internal/common/completion"
	"dining-search/internal/common/logger"
	"dining-search/internal/common/metrics"
	"dining-search/internal/models"
)

const (
	Component = "datetime-resolver"

	noInformationConfidence = 0.1
)

type Resolver struct {
	config    *Config
	extractor completion.NLExtractor
	decoder   *completion.Decoder
	logger    logger.Logger
}

func NewResolver(config *Config, extractor completion.NLExtractor, log logger.Logger) *Resolver {
	if config == nil {
		config = LoadConfig()
	}
	return &Resolver{
		config:    config,
		extractor: extractor,
		decoder:   completion.NewDecoder(fieldsSchema),
		logger:    logger.Component(log, Component),
	}
}

// Resolve extracts the time window for query relative to anchor.
func (r *Resolver) Resolve(ctx context.Context, query string, anchor time.Time) models.TimeWindow {
	start := time.Now()
	defer func() {
		metrics.ResolverDuration.WithLabelValues(Component).Observe(time.Since(start).Seconds())
	}()

	var fields datetimeFields
	if strings.TrimSpace(query) != "" {
		fields = r.extract(ctx, query, anchor)
	}

	window := r.build(fields, query, anchor)

	r.logger.Debug("datetime resolved", map[string]interface{}{
		"startDate":   window.StartDate,
		"endDate":     window.EndDate,
		"startTime":   window.StartTime,
		"endTime":     window.EndTime,
		"dayContext":  window.DayContext,
		"timeContext": window.TimeContext,
		"confidence":  window.Confidence,
	})
	return window
}

func (r *Resolver) extract(ctx context.Context, query string, anchor time.Time) datetimeFields {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	result := completion.Extract[datetimeFields](ctx, r.extractor, r.decoder, systemPrompt, userText(query, anchor))
	if result.IsMalformed() {
		metrics.ResolverDegraded.WithLabelValues(Component, "extraction").Inc()
		r.logger.Warn("datetime extraction degraded", map[string]interface{}{
			"error": result.Err().Error(),
		})
	}
	return result.OrDefault(datetimeFields{})
}

// build applies calendar resolution, the date and time policies, meal-time
// inference and the confidence floor. A recognised day context takes
// precedence over extracted absolute dates.
func (r *Resolver) build(fields datetimeFields, query string, anchor time.Time) models.TimeWindow {
	window := models.TimeWindow{
		IsSpecificDate: fields.IsSpecificDate,
		IsSpecificTime: fields.IsSpecificTime,
		DayContext:     strings.TrimSpace(fields.DayContext),
		Confidence:     clamp(fields.Confidence),
	}

	day := canonicalDay(fields.DayContext)
	if day == "" && fields.DayContext == "" && fields.StartDate == "" && fields.EndDate == "" {
		day = inferDay(query)
	}

	if startDay, endDay, ok := dayRange(day, anchor); ok {
		window.DayContext = day
		window.StartDate = startDay.Format(dateLayout)
		window.EndDate = endDay.Format(dateLayout)
	} else {
		window.StartDate, window.EndDate = clampDates(fields.StartDate, fields.EndDate, anchor, r.config.MaxWindowMonths)
		if (fields.StartDate != "" || fields.EndDate != "") && !window.HasDates() {
			r.logger.Debug("dropping unparseable dates", map[string]interface{}{
				"startDate": fields.StartDate,
				"endDate":   fields.EndDate,
			})
		}
	}

	window.StartTime, window.EndTime = clampTimes(fields.StartTime, fields.EndTime, r.config.DefaultDuration)
	if !window.HasTimes() {
		window.IsSpecificTime = false
	}
	if !window.HasDates() {
		window.IsSpecificDate = false
	}

	window.TimeContext = timeContext(fields.TimeContext, query)

	if !window.HasDates() && !window.HasTimes() && window.DayContext == "" && window.TimeContext == "" {
		window.Confidence = noInformationConfidence
	}
	return window
}

// timeContext keeps an extracted context, mapped to a meal bucket when it
// names one, and otherwise infers the bucket from the query.
func timeContext(extracted, query string) string {
	extracted = strings.ToLower(strings.TrimSpace(extracted))
	if extracted != "" {
		if bucket := inferMealTime(extracted); bucket != "" {
			return bucket
		}
		return extracted
	}
	return inferMealTime(query)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
