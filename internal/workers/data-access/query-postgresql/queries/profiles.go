package queries

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"dining-search/internal/models"
)

// UserProfile loads one user's stored dietary profile.
func UserProfile(ctx context.Context, db *sql.DB, userID string) (*models.MemberPreferences, error) {
	if userID == "" {
		return nil, ErrMissingParam
	}

	var dietary, excluded pq.StringArray
	err := db.QueryRowContext(ctx, Registry[QueryTypeUserProfile], userID).Scan(&dietary, &excluded)
	if err != nil {
		return nil, err
	}

	return &models.MemberPreferences{
		UserID:              userID,
		DietaryRequirements: nonNil(dietary),
		ExcludedCuisines:    nonNil(excluded),
	}, nil
}

func GroupByID(ctx context.Context, db *sql.DB, id string) (*models.Group, error) {
	return scanGroup(db.QueryRowContext(ctx, Registry[QueryTypeGroupByID], id))
}

// GroupByName matches case-insensitively and prefers the newest group.
func GroupByName(ctx context.Context, db *sql.DB, name string) (*models.Group, error) {
	if name == "" {
		return nil, ErrMissingParam
	}
	return scanGroup(db.QueryRowContext(ctx, Registry[QueryTypeGroupByName], name))
}

func scanGroup(row *sql.Row) (*models.Group, error) {
	var g models.Group
	var members pq.StringArray
	if err := row.Scan(&g.ID, &g.Name, &members); err != nil {
		return nil, err
	}
	g.MemberIDs = nonNil(members)
	return &g, nil
}

// UserGroups lists the groups a user created or belongs to.
func UserGroups(ctx context.Context, db *sql.DB, userID string) ([]models.GroupSummary, error) {
	if userID == "" {
		return nil, ErrMissingParam
	}

	rows, err := db.QueryContext(ctx, Registry[QueryTypeUserGroups], userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []models.GroupSummary{}
	for rows.Next() {
		var g models.GroupSummary
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
