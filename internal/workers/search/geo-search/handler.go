// Package geosearch composes the resolved facets of a query into one
// restaurant directory lookup and orders the results by distance.
package geosearch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"dining-search/internal/common/logger"
	"dining-search/internal/common/metrics"
	"dining-search/internal/models"
)

const Component = "geo-search"

var (
	ErrSearchFailed  = errors.New("SEARCH_QUERY_FAILED")
	ErrInvalidOrigin = errors.New("INVALID_ORIGIN")
)

// RestaurantDirectory is implemented by the PostgreSQL and Elasticsearch stores.
type RestaurantDirectory interface {
	FindNear(ctx context.Context, q models.RestaurantQuery) ([]models.RestaurantRecord, error)
}

type Executor struct {
	config    *Config
	directory RestaurantDirectory
	logger    logger.Logger
}

func NewExecutor(config *Config, directory RestaurantDirectory, log logger.Logger) *Executor {
	if config == nil {
		config = LoadConfig()
	}
	return &Executor{
		config:    config,
		directory: directory,
		logger:    logger.Component(log, Component),
	}
}

// Search returns restaurants near origin that satisfy the preference and
// availability filters, nearest first. No matches is an empty, non-nil slice.
func (e *Executor) Search(ctx context.Context, origin models.Coordinates, prefs models.PreferenceSet, window models.TimeWindow, limit int) ([]models.RestaurantRecord, error) {
	start := time.Now()
	defer func() {
		metrics.ResolverDuration.WithLabelValues(Component).Observe(time.Since(start).Seconds())
	}()

	if !validOrigin(origin) {
		return nil, fmt.Errorf("%w: %.6f,%.6f", ErrInvalidOrigin, origin.Latitude, origin.Longitude)
	}
	if limit <= 0 {
		limit = e.config.DefaultLimit
	}

	excluded := models.NewCuisineSet(prefs.ExcludedCuisines...)
	included := models.NewCuisineSet()
	for _, c := range prefs.CuisineTypes {
		if !excluded.Contains(c) {
			included.Add(c)
		}
	}
	if len(prefs.CuisineTypes) > 0 && included.Len() == 0 {
		e.logger.Debug("requested cuisines are all excluded", map[string]interface{}{
			"cuisineTypes":     prefs.CuisineTypes,
			"excludedCuisines": prefs.ExcludedCuisines,
		})
		return []models.RestaurantRecord{}, nil
	}

	q := models.RestaurantQuery{
		Origin:           origin,
		ExcludedCuisines: excluded.Values(),
		CuisineTypes:     included.Values(),
		StartDate:        window.StartDate,
		EndDate:          window.EndDate,
		StartTime:        window.StartTime,
		EndTime:          window.EndTime,
		Limit:            limit,
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	rows, err := e.directory.FindNear(ctx, q)
	if err != nil {
		e.logger.Error("restaurant search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	results := make([]models.RestaurantRecord, 0, len(rows))
	for _, r := range rows {
		if excluded.Contains(r.CuisineType) {
			continue
		}
		if included.Len() > 0 && !included.Contains(r.CuisineType) {
			continue
		}
		if r.DistanceFromVenue <= 0 {
			r.DistanceFromVenue = haversine(origin, models.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude})
		}
		results = append(results, r)
	}

	sortByDistance(results)
	if len(results) > limit {
		results = results[:limit]
	}

	metrics.SearchResultsCount.Observe(float64(len(results)))
	e.logger.Info("restaurant search completed", map[string]interface{}{
		"returned":   len(rows),
		"kept":       len(results),
		"limit":      limit,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return results, nil
}

// sortByDistance orders nearest first, breaking ties by rating with unrated
// restaurants last.
func sortByDistance(rs []models.RestaurantRecord) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].DistanceFromVenue != rs[j].DistanceFromVenue {
			return rs[i].DistanceFromVenue < rs[j].DistanceFromVenue
		}
		return rating(rs[i]) > rating(rs[j])
	})
}

func rating(r models.RestaurantRecord) float64 {
	if r.Rating == nil {
		return -1
	}
	return *r.Rating
}

func validOrigin(c models.Coordinates) bool {
	if c.IsZero() {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
