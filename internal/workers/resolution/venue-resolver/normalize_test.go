package venueresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-search/internal/models"
)

func TestSearchText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		venueType models.VenueType
		want      string
	}{
		{"odeon landmark cinema", "Odeon Leicester Square", models.VenueTypeCinema, "london leicester square"},
		{"landmark first ordering", "Leicester Square Odeon", models.VenueTypeCinema, "london leicester square"},
		{"odeon landmark theatre", "odeon leicester square", models.VenueTypeTheatre, "leicester square"},
		{"bare cineworld stripped", "Cineworld Leicester Square", models.VenueTypeCinema, "leicester square"},
		{"odeon other branch", "Odeon Tottenham Court Road", models.VenueTypeCinema, "tottenham court road"},
		{"chain only kept", "Odeon", models.VenueTypeCinema, "odeon"},
		{"whitespace collapsed", "  Apollo   Theatre ", models.VenueTypeTheatre, "apollo theatre"},
		{"other chains untouched", "Vue West End", models.VenueTypeCinema, "vue west end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchText(tt.input, tt.venueType))
		})
	}
}

func TestDetectChain(t *testing.T) {
	assert.Equal(t, "vue", detectChain("Vue West End"))
	assert.Equal(t, "picturehouse", detectChain("Picturehouse Central"))
	assert.Equal(t, "odeon", detectChain("Leicester Square ODEON"))
	assert.Equal(t, "", detectChain("Revue Bar"))
	assert.Equal(t, "", detectChain("Apollo Theatre"))
}

func TestRankRows_BoostsChainLandmarkMatch(t *testing.T) {
	rows := []models.VenueRow{
		{ID: "1", Name: "Vue Leicester Square", Chain: "vue", Similarity: 0.9},
		{ID: "2", Name: "ODEON LUXE London Leicester Square", Chain: "odeon_gb", Similarity: 0.7},
		{ID: "3", Name: "Empire Leicester Square", Similarity: 0.8},
	}

	ranked := rankRows(rows, "odeon", "london leicester square")
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"2", "1", "3"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
	assert.Equal(t, "1", rows[0].ID, "input is not reordered")

	rows[1].Name = "Odeon Luxe Leicester Square"
	ranked = rankRows(rows, "odeon", "london leicester square")
	assert.Equal(t, "2", ranked[0].ID, "landmark match without the city prefix is boosted")
}

func TestRankRows_SimilarityWithoutChain(t *testing.T) {
	rows := []models.VenueRow{
		{ID: "a", Similarity: 0.4},
		{ID: "b", Similarity: 0.95},
		{ID: "c", Similarity: 0.6},
	}
	ranked := rankRows(rows, "", "apollo")
	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, "c", ranked[1].ID)
}

func TestDecodeGeometry(t *testing.T) {
	lat, lng, err := decodeGeometry([]byte(`{"type":"Point","coordinates":[-0.1331,51.5116]}`))
	require.NoError(t, err)
	assert.Equal(t, 51.5116, lat)
	assert.Equal(t, -0.1331, lng)

	for _, raw := range []string{``, `null`, `{"coordinates":[1]}`, `{"coordinates":"x"}`, `{"coordinates":[200,10]}`} {
		_, _, err := decodeGeometry([]byte(raw))
		assert.ErrorIs(t, err, errBadGeometry, raw)
	}
}
