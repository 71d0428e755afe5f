// Package querypostgresql is the PostgreSQL-backed directory: venues,
// restaurants, user profiles and groups.
package querypostgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dining-search/internal/common/logger"
	"dining-search/internal/models"
	"dining-search/internal/workers/data-access/query-postgresql/queries"
)

const (
	Component = "query-postgresql"
)

var (
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
	ErrNotFound             = errors.New("NOT_FOUND")
)

type Store struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewStore(config *Config, db *sql.DB, log logger.Logger) *Store {
	if config == nil {
		config = LoadConfig()
	}
	return &Store{
		config: config,
		db:     db,
		logger: logger.Component(log, Component),
	}
}

// SearchVenues returns ranked venue rows for a normalized search text.
func (s *Store) SearchVenues(ctx context.Context, venueType models.VenueType, text string) ([]models.VenueRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	rows, err := queries.SearchVenues(ctx, s.db, venueType, text, s.config.VenueCandidates)
	if err != nil {
		qt, _ := queries.VenueSearch(venueType)
		return nil, s.wrap(ctx, string(qt), err)
	}

	s.logger.Debug("venue search complete", map[string]interface{}{
		"venueType": venueType,
		"text":      text,
		"rows":      len(rows),
	})
	return rows, nil
}

// FindNear runs the geospatial restaurant query.
func (s *Store) FindNear(ctx context.Context, q models.RestaurantQuery) ([]models.RestaurantRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	records, err := queries.FindRestaurantsNear(ctx, s.db, q)
	if err != nil {
		return nil, s.wrap(ctx, string(queries.QueryTypeFindRestaurants), err)
	}
	return records, nil
}

// GetProfile returns ErrNotFound when the user has no stored profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.MemberPreferences, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	profile, err := queries.UserProfile(ctx, s.db, userID)
	if err != nil {
		return nil, s.wrap(ctx, string(queries.QueryTypeUserProfile), err)
	}
	return profile, nil
}

// GetGroup looks a group up by id when the reference is a UUID, otherwise by name.
func (s *Store) GetGroup(ctx context.Context, nameOrID string) (*models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var (
		group *models.Group
		err   error
		qt    = queries.QueryTypeGroupByName
	)
	if _, parseErr := uuid.Parse(nameOrID); parseErr == nil {
		qt = queries.QueryTypeGroupByID
		group, err = queries.GroupByID(ctx, s.db, nameOrID)
	} else {
		group, err = queries.GroupByName(ctx, s.db, nameOrID)
	}
	if err != nil {
		return nil, s.wrap(ctx, string(qt), err)
	}
	return group, nil
}

func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	groups, err := queries.UserGroups(ctx, s.db, userID)
	if err != nil {
		return nil, s.wrap(ctx, string(queries.QueryTypeUserGroups), err)
	}
	return groups, nil
}

func (s *Store) UpsertPointOfInterest(ctx context.Context, poi models.PointOfInterest) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := queries.UpsertPointOfInterest(ctx, s.db, poi); err != nil {
		return s.wrap(ctx, string(queries.QueryTypeUpsertPOI), err)
	}
	return nil
}

func (s *Store) wrap(ctx context.Context, query string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case ctx.Err() == context.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrQueryTimeout, query)
	default:
		s.logger.Warn("query failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %s: %v", ErrQueryExecutionFailed, query, err)
	}
}
