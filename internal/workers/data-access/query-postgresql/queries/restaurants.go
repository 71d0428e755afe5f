package queries

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"dining-search/internal/models"
)

// FindRestaurantsNear calls the geospatial restaurant search. Empty filters
// are sent as NULL so the function skips them.
func FindRestaurantsNear(ctx context.Context, db *sql.DB, q models.RestaurantQuery) ([]models.RestaurantRecord, error) {
	rows, err := db.QueryContext(ctx, Registry[QueryTypeFindRestaurants],
		q.Origin.Latitude,
		q.Origin.Longitude,
		nullableArray(q.ExcludedCuisines),
		nullableArray(q.CuisineTypes),
		nullableString(q.StartDate),
		nullableString(q.EndDate),
		nullableString(q.StartTime),
		nullableString(q.EndTime),
		q.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.RestaurantRecord{}
	for rows.Next() {
		var r models.RestaurantRecord
		var rating sql.NullFloat64
		var price sql.NullInt64
		if err := rows.Scan(
			&r.ID, &r.Name, &r.CuisineType, &r.Address,
			&rating, &price,
			&r.Latitude, &r.Longitude, &r.DistanceFromVenue,
		); err != nil {
			return nil, err
		}
		if rating.Valid {
			v := rating.Float64
			r.Rating = &v
		}
		if price.Valid {
			v := int(price.Int64)
			r.PriceLevel = &v
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func nullableArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
