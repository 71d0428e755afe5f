// Package venueresolver turns a dining query into the single theatre or
// cinema it is anchored on.
package venueresolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dining-search/internal/common/completion"
	"dining-search/internal/common/logger"
	"dining-search/internal/common/metrics"
	"dining-search/internal/models"
)

const (
	Component = "venue-resolver"
)

var (
	ErrVenueNotFound        = errors.New("VENUE_NOT_FOUND")
	ErrDirectoryUnavailable = errors.New("DIRECTORY_UNAVAILABLE")
)

type Resolver struct {
	config     *Config
	extractor  completion.NLExtractor
	decoder    *completion.Decoder
	strategies []Strategy
	logger     logger.Logger
}

// NewResolver builds a resolver that tries strategies in order until one
// yields a venue.
func NewResolver(config *Config, extractor completion.NLExtractor, strategies []Strategy, log logger.Logger) *Resolver {
	if config == nil {
		config = LoadConfig()
	}
	return &Resolver{
		config:     config,
		extractor:  extractor,
		decoder:    completion.NewDecoder(fieldsSchema),
		strategies: strategies,
		logger:     logger.Component(log, Component),
	}
}

// Strategies returns the names of the fallback chain in evaluation order.
func (r *Resolver) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the venue named in query. It fails with ErrVenueNotFound
// when extraction is absent or below the confidence gate or nothing matches,
// and with ErrDirectoryUnavailable when a strategy failed and none matched.
func (r *Resolver) Resolve(ctx context.Context, query string) (*models.VenueCandidate, error) {
	start := time.Now()
	defer func() {
		metrics.ResolverDuration.WithLabelValues(Component).Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrVenueNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	lookup, err := r.extract(ctx, query)
	if err != nil {
		r.logger.Info("venue not identified", map[string]interface{}{
			"query":  query,
			"reason": err.Error(),
		})
		return nil, err
	}

	var lastErr error
	for _, s := range r.strategies {
		venue, err := s.Resolve(ctx, lookup)
		switch {
		case err != nil:
			metrics.VenueFallback.WithLabelValues(s.Name(), "error").Inc()
			r.logger.Warn("venue strategy failed", map[string]interface{}{
				"strategy": s.Name(),
				"error":    err.Error(),
			})
			lastErr = err
		case venue != nil:
			metrics.VenueFallback.WithLabelValues(s.Name(), "hit").Inc()
			r.logger.Info("venue resolved", map[string]interface{}{
				"strategy":   s.Name(),
				"venueId":    venue.ID,
				"name":       venue.Name,
				"similarity": venue.Similarity,
			})
			return venue, nil
		default:
			metrics.VenueFallback.WithLabelValues(s.Name(), "miss").Inc()
		}
	}

	if lastErr != nil {
		if errors.Is(lastErr, ErrDirectoryUnavailable) {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, lastErr)
	}
	return nil, fmt.Errorf("%w: no match for %q", ErrVenueNotFound, lookup.Text)
}

// Wait blocks until background work started by strategies has finished.
func (r *Resolver) Wait() {
	for _, s := range r.strategies {
		if w, ok := s.(interface{ Wait() }); ok {
			w.Wait()
		}
	}
}

// extract runs the completion call and applies the confidence gate.
func (r *Resolver) extract(ctx context.Context, query string) (Lookup, error) {
	result := completion.Extract[venueFields](ctx, r.extractor, r.decoder, systemPrompt, query)
	if result.IsMalformed() {
		metrics.ResolverDegraded.WithLabelValues(Component, "extraction").Inc()
		r.logger.Warn("venue extraction degraded", map[string]interface{}{
			"error": result.Err().Error(),
		})
	}
	fields := result.OrDefault(venueFields{})

	name := strings.TrimSpace(fields.VenueName)
	confidence := clamp(fields.Confidence)
	if name == "" || fields.VenueType == "" {
		return Lookup{}, fmt.Errorf("%w: no venue extracted", ErrVenueNotFound)
	}
	if confidence < r.config.MinConfidence {
		return Lookup{}, fmt.Errorf("%w: confidence %.2f below %.2f", ErrVenueNotFound, confidence, r.config.MinConfidence)
	}
	venueType, ok := models.ParseVenueType(fields.VenueType)
	if !ok {
		return Lookup{}, fmt.Errorf("%w: unsupported venue type %q", ErrVenueNotFound, fields.VenueType)
	}

	return Lookup{
		Name:            name,
		Type:            venueType,
		Text:            searchText(name, venueType),
		Chain:           detectChain(name),
		LocationContext: fields.LocationContext,
		Confidence:      confidence,
	}, nil
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
