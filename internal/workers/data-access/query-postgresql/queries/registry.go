// Package queries holds the SQL run against the dining directory. Venue and
// restaurant searches call stored functions provisioned by migrations.
package queries

import (
	"errors"
	"fmt"

	"dining-search/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownVenueType = errors.New("unknown venue type")
)

type QueryType string

const (
	QueryTypeSearchCinemas   QueryType = "search_cinemas"
	QueryTypeSearchTheatres  QueryType = "search_theatres"
	QueryTypeFindRestaurants QueryType = "find_restaurants_near_venue"
	QueryTypeUserProfile     QueryType = "user_profile"
	QueryTypeGroupByID       QueryType = "group_by_id"
	QueryTypeGroupByName     QueryType = "group_by_name"
	QueryTypeUserGroups      QueryType = "get_user_groups"
	QueryTypeUpsertPOI       QueryType = "upsert_point_of_interest"
)

// Registry maps each query type to its statement.
var Registry = map[QueryType]string{
	QueryTypeSearchCinemas: `
		SELECT id::text, name, COALESCE(address, ''), COALESCE(chain, ''), location::text, similarity
		FROM search_cinemas($1)
		LIMIT $2`,
	QueryTypeSearchTheatres: `
		SELECT place_id::text, name, COALESCE(address, ''), '', location::text, similarity
		FROM search_theatres($1)
		LIMIT $2`,
	QueryTypeFindRestaurants: `
		SELECT id::text, name, COALESCE(cuisine_type, ''), COALESCE(address, ''),
		       rating, price_level, latitude, longitude, distance_meters
		FROM find_restaurants_near_venue($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
	QueryTypeUserProfile: `
		SELECT dietary_requirements, excluded_cuisines
		FROM profiles
		WHERE id = $1`,
	QueryTypeGroupByID: `
		SELECT id::text, name, member_ids
		FROM groups
		WHERE id = $1`,
	QueryTypeGroupByName: `
		SELECT id::text, name, member_ids
		FROM groups
		WHERE lower(name) = lower($1)
		ORDER BY created_at DESC
		LIMIT 1`,
	QueryTypeUserGroups: `
		SELECT id::text, name
		FROM get_user_groups($1)`,
	QueryTypeUpsertPOI: `
		SELECT upsert_point_of_interest($1::jsonb)`,
}

// VenueSearch returns the directory function for a venue type.
func VenueSearch(venueType models.VenueType) (QueryType, error) {
	switch venueType {
	case models.VenueTypeCinema:
		return QueryTypeSearchCinemas, nil
	case models.VenueTypeTheatre:
		return QueryTypeSearchTheatres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVenueType, venueType)
	}
}
