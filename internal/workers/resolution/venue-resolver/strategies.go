package venueresolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dining-search/internal/common/events"
	"dining-search/internal/common/logger"
	"dining-search/internal/models"
)

const (
	StrategyDirectory = "directory"
	StrategyPlaces    = "places"
)

// Lookup is a gated extraction ready to be searched.
type Lookup struct {
	Name            string
	Type            models.VenueType
	Text            string
	Chain           string
	LocationContext string
	Confidence      float64
}

// Strategy is one step of the venue fallback chain. A nil candidate with a
// nil error means "no match, try the next strategy".
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, l Lookup) (*models.VenueCandidate, error)
}

type Directory interface {
	SearchVenues(ctx context.Context, venueType models.VenueType, text string) ([]models.VenueRow, error)
}

type PlacesSearcher interface {
	Search(ctx context.Context, text string, lat, lng float64) ([]models.PlaceCandidate, error)
}

type POIWriter interface {
	UpsertPointOfInterest(ctx context.Context, poi models.PointOfInterest) error
}

// DirectoryStrategy searches the venue directory by type.
type DirectoryStrategy struct {
	directory Directory
	logger    logger.Logger
}

func NewDirectoryStrategy(directory Directory, log logger.Logger) *DirectoryStrategy {
	return &DirectoryStrategy{directory: directory, logger: logger.Component(log, Component)}
}

func (s *DirectoryStrategy) Name() string { return StrategyDirectory }

func (s *DirectoryStrategy) Resolve(ctx context.Context, l Lookup) (*models.VenueCandidate, error) {
	rows, err := s.directory.SearchVenues(ctx, l.Type, l.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	for _, row := range rankRows(rows, l.Chain, l.Text) {
		lat, lng, err := decodeGeometry(row.Geometry)
		if err != nil {
			s.logger.Warn("skipping venue with unusable geometry", map[string]interface{}{
				"venueId": row.ID,
				"name":    row.Name,
			})
			continue
		}

		chain := row.Chain
		if chain == "" {
			chain = l.Chain
		}
		return &models.VenueCandidate{
			ID:              row.ID,
			Name:            row.Name,
			Type:            l.Type,
			Chain:           chain,
			Latitude:        lat,
			Longitude:       lng,
			Address:         row.Address,
			LocationContext: l.LocationContext,
			Similarity:      row.Similarity,
			Confidence:      l.Confidence,
			Source:          models.VenueSourceDirectory,
		}, nil
	}
	return nil, nil
}

// PlacesStrategy asks the external places service and writes any hit back to
// the directory in the background.
type PlacesStrategy struct {
	config    *Config
	places    PlacesSearcher
	writer    POIWriter
	publisher events.Publisher
	logger    logger.Logger

	pending sync.WaitGroup
}

func NewPlacesStrategy(config *Config, places PlacesSearcher, writer POIWriter, publisher events.Publisher, log logger.Logger) *PlacesStrategy {
	if config == nil {
		config = LoadConfig()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &PlacesStrategy{
		config:    config,
		places:    places,
		writer:    writer,
		publisher: publisher,
		logger:    logger.Component(log, Component),
	}
}

func (s *PlacesStrategy) Name() string { return StrategyPlaces }

func (s *PlacesStrategy) Resolve(ctx context.Context, l Lookup) (*models.VenueCandidate, error) {
	text := l.Name
	if l.LocationContext != "" {
		text += " " + l.LocationContext
	}

	candidates, err := s.places.Search(ctx, text, 0, 0)
	if err != nil {
		s.logger.Warn("places search failed", map[string]interface{}{
			"query": text,
			"error": err.Error(),
		})
		return nil, nil
	}
	place, ok := pickPlace(candidates, l.Type)
	if !ok {
		return nil, nil
	}

	venue := &models.VenueCandidate{
		ID:              place.ID,
		Name:            place.Name,
		Type:            l.Type,
		Chain:           detectChain(place.Name),
		Latitude:        place.Latitude,
		Longitude:       place.Longitude,
		Address:         place.Address,
		LocationContext: l.LocationContext,
		Similarity:      s.config.PlacesSimilarity,
		Confidence:      l.Confidence,
		Source:          models.VenueSourcePlaces,
	}

	s.writeBack(ctx, models.PointOfInterest{
		ExternalID: place.ID,
		Name:       place.Name,
		Type:       l.Type,
		Address:    place.Address,
		Latitude:   place.Latitude,
		Longitude:  place.Longitude,
		Source:     StrategyPlaces,
	})
	return venue, nil
}

// Wait blocks until background write-backs have finished.
func (s *PlacesStrategy) Wait() {
	s.pending.Wait()
}

func (s *PlacesStrategy) writeBack(ctx context.Context, poi models.PointOfInterest) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.WriteBackTimeout)
		defer cancel()

		if s.writer != nil {
			if err := s.writer.UpsertPointOfInterest(ctx, poi); err != nil {
				s.logger.Warn("venue write-back failed", map[string]interface{}{
					"externalId": poi.ExternalID,
					"error":      err.Error(),
				})
				return
			}
		}

		event := events.NewEvent(events.TypeVenueEnriched, poi.ExternalID, poi)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("venue enrichment event failed", map[string]interface{}{
				"externalId": poi.ExternalID,
				"error":      err.Error(),
			})
		}
	}()
}

var placeTypes = map[models.VenueType]string{
	models.VenueTypeCinema:  "movie_theater",
	models.VenueTypeTheatre: "performing_arts_theater",
}

// pickPlace prefers the first candidate tagged with the venue's place type.
func pickPlace(candidates []models.PlaceCandidate, venueType models.VenueType) (models.PlaceCandidate, bool) {
	if len(candidates) == 0 {
		return models.PlaceCandidate{}, false
	}
	want := placeTypes[venueType]
	for _, c := range candidates {
		for _, t := range c.Types {
			if strings.EqualFold(t, want) {
				return c, true
			}
		}
	}
	return candidates[0], true
}
