package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dining-search/internal/models"
)

// SearchVenues runs the trigram venue search for one type, best match first.
func SearchVenues(ctx context.Context, db *sql.DB, venueType models.VenueType, text string, limit int) ([]models.VenueRow, error) {
	if text == "" {
		return nil, ErrMissingParam
	}
	qt, err := VenueSearch(venueType)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, Registry[qt], text, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.VenueRow
	for rows.Next() {
		var r models.VenueRow
		var geometry sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.Chain, &geometry, &r.Similarity); err != nil {
			return nil, err
		}
		if geometry.Valid {
			r.Geometry = []byte(geometry.String)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// UpsertPointOfInterest stores an externally discovered venue for future searches.
func UpsertPointOfInterest(ctx context.Context, db *sql.DB, poi models.PointOfInterest) error {
	if poi.ExternalID == "" {
		return ErrMissingParam
	}
	payload, err := json.Marshal(poi)
	if err != nil {
		return fmt.Errorf("marshal poi: %w", err)
	}
	_, err = db.ExecContext(ctx, Registry[QueryTypeUpsertPOI], string(payload))
	return err
}
