// Package orchestrator runs the venue, datetime, and preference resolvers
// concurrently and feeds their facets into the restaurant search.
package orchestrator

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dining-search/internal/common/errors"
	"dining-search/internal/common/logger"
	"dining-search/internal/common/metrics"
	"dining-search/internal/common/observability"
	"dining-search/internal/models"
	venueresolver "dining-search/internal/workers/resolution/venue-resolver"
)

const (
	Component = "orchestrator"

	OutcomeSuccess        = "success"
	OutcomeDisambiguation = "disambiguation"
	OutcomeVenueNotFound  = "venue_not_found"
	OutcomeUnavailable    = "directory_unavailable"
	OutcomeSearchFailed   = "search_failed"
)

type VenueResolver interface {
	Resolve(ctx context.Context, query string) (*models.VenueCandidate, error)
}

type DateTimeResolver interface {
	Resolve(ctx context.Context, query string, anchor time.Time) models.TimeWindow
}

type PreferenceResolver interface {
	Resolve(ctx context.Context, query, userID string) (models.PreferenceSet, *models.GroupDisambiguation)
}

type Searcher interface {
	Search(ctx context.Context, origin models.Coordinates, prefs models.PreferenceSet, window models.TimeWindow, limit int) ([]models.RestaurantRecord, error)
}

type Orchestrator struct {
	config      *Config
	venues      VenueResolver
	datetimes   DateTimeResolver
	preferences PreferenceResolver
	searcher    Searcher
	obs         *observability.Observability
	now         func() time.Time
	logger      logger.Logger
}

type Option func(*Orchestrator)

// WithClock overrides the anchor used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithObservability(obs *observability.Observability) Option {
	return func(o *Orchestrator) { o.obs = obs }
}

func New(config *Config, venues VenueResolver, datetimes DateTimeResolver, preferences PreferenceResolver, searcher Searcher, log logger.Logger, opts ...Option) *Orchestrator {
	if config == nil {
		config = LoadConfig()
	}
	o := &Orchestrator{
		config:      config,
		venues:      venues,
		datetimes:   datetimes,
		preferences: preferences,
		searcher:    searcher,
		now:         time.Now,
		logger:      logger.Component(log, Component),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type facets struct {
	venue          *models.VenueCandidate
	venueErr       error
	window         models.TimeWindow
	prefs          models.PreferenceSet
	disambiguation *models.GroupDisambiguation
}

// Run resolves one query into a SearchResult. The only failures are venue
// resolution and the restaurant search itself; both come back as
// *errors.StandardError.
func (o *Orchestrator) Run(ctx context.Context, q models.Query) (*models.SearchResult, error) {
	start := time.Now()
	metrics.SearchesInFlight.Inc()
	defer metrics.SearchesInFlight.Dec()

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	ctx, span := o.obs.StartSpan(ctx, "orchestrator.run",
		attribute.String("request.id", q.RequestID),
		attribute.String("user.id", q.UserID),
	)
	defer span.End()

	log := o.logger.WithFields(map[string]interface{}{
		"requestId": q.RequestID,
		"userId":    q.UserID,
	})

	f := o.extract(ctx, q)

	if f.venueErr != nil {
		stdErr, outcome := classifyVenueError(f.venueErr)
		metrics.SearchRequests.WithLabelValues(outcome).Inc()
		span.SetStatus(codes.Error, string(stdErr.Code))
		fields := map[string]interface{}{
			"code":               stdErr.Code,
			"error":              f.venueErr.Error(),
			"datetimeConfidence": f.window.Confidence,
			"cuisineTypes":       f.prefs.CuisineTypes,
		}
		if outcome == OutcomeVenueNotFound {
			log.Info("venue not resolved", fields)
		} else {
			log.Error("venue directory unavailable", fields)
		}
		return nil, stdErr
	}

	result := &models.SearchResult{
		RequestID:   q.RequestID,
		Query:       q.Text,
		Venue:       f.venue,
		Preferences: f.prefs,
		DateTime:    f.window,
		Restaurants: []models.RestaurantRecord{},
	}

	if f.disambiguation != nil {
		result.GroupDisambiguation = f.disambiguation
		metrics.SearchRequests.WithLabelValues(OutcomeDisambiguation).Inc()
		log.Info("group disambiguation requested", map[string]interface{}{
			"groups": len(f.disambiguation.AvailableGroups),
		})
		return result, nil
	}

	restaurants, err := o.searcher.Search(ctx, f.venue.Coordinates(), f.prefs, f.window, o.config.SearchLimit)
	if err != nil {
		metrics.SearchRequests.WithLabelValues(OutcomeSearchFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errors.ErrCodeSearchQueryFailed))
		return nil, errors.NewSearchQueryFailedError(err)
	}
	result.Restaurants = restaurants

	metrics.SearchRequests.WithLabelValues(OutcomeSuccess).Inc()
	span.SetAttributes(attribute.Int("restaurants.count", len(restaurants)))
	log.Info("search completed", map[string]interface{}{
		"venue":       f.venue.Name,
		"venueSource": f.venue.Source,
		"restaurants": len(restaurants),
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return result, nil
}

// extract runs the three resolvers in parallel and waits for all of them,
// so partial facets are available even when the venue fails.
func (o *Orchestrator) extract(ctx context.Context, q models.Query) facets {
	var (
		f  facets
		wg sync.WaitGroup
	)
	anchor := o.now()

	wg.Add(3)
	go func() {
		defer wg.Done()
		ctx, span := o.obs.StartSpan(ctx, "resolve.venue")
		defer span.End()
		f.venue, f.venueErr = o.venues.Resolve(ctx, q.Text)
		if f.venueErr != nil {
			span.RecordError(f.venueErr)
		}
	}()
	go func() {
		defer wg.Done()
		ctx, span := o.obs.StartSpan(ctx, "resolve.datetime")
		defer span.End()
		f.window = o.datetimes.Resolve(ctx, q.Text, anchor)
	}()
	go func() {
		defer wg.Done()
		ctx, span := o.obs.StartSpan(ctx, "resolve.preferences")
		defer span.End()
		f.prefs, f.disambiguation = o.preferences.Resolve(ctx, q.Text, q.UserID)
	}()
	wg.Wait()

	if f.venueErr == nil && f.venue == nil {
		f.venueErr = venueresolver.ErrVenueNotFound
	}
	return f
}

func classifyVenueError(err error) (*errors.StandardError, string) {
	if stderrors.Is(err, venueresolver.ErrDirectoryUnavailable) {
		return errors.NewDirectoryUnavailableError("venue", err), OutcomeUnavailable
	}
	return errors.NewVenueNotFoundError(err), OutcomeVenueNotFound
}
