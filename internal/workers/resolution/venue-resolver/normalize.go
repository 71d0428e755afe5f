package venueresolver

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strings"

	"dining-search/internal/models"
)

var knownChains = []string{"odeon", "cineworld", "vue", "picturehouse", "everyman", "curzon"}

var chainPatterns = func() []*regexp.Regexp {
	p := make([]*regexp.Regexp, len(knownChains))
	for i, chain := range knownChains {
		p[i] = regexp.MustCompile(`\b` + chain + `\b`)
	}
	return p
}()

var (
	whitespace   = regexp.MustCompile(`\s+`)
	bareChainTok = regexp.MustCompile(`\b(odeon|cineworld)\b`)

	errBadGeometry = errors.New("venue geometry is not a [lon, lat] point")
)

const leicesterSquare = "leicester square"

// searchText rewrites an extracted venue name into the fragment searched in
// the directory. Chain and landmark orderings collapse to one string.
func searchText(name string, venueType models.VenueType) string {
	text := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")

	if strings.Contains(text, "odeon") && strings.Contains(text, leicesterSquare) {
		if venueType == models.VenueTypeCinema {
			return "london " + leicesterSquare
		}
		return leicesterSquare
	}

	stripped := strings.TrimSpace(whitespace.ReplaceAllString(bareChainTok.ReplaceAllString(text, ""), " "))
	if stripped == "" {
		return text
	}
	return stripped
}

// detectChain returns the first known chain named in text.
func detectChain(text string) string {
	lower := strings.ToLower(text)
	for i, re := range chainPatterns {
		if re.MatchString(lower) {
			return knownChains[i]
		}
	}
	return ""
}

// rankRows orders rows so that rows matching both the requested chain and the
// searched landmark come first, then by descending similarity.
func rankRows(rows []models.VenueRow, chain, text string) []models.VenueRow {
	ranked := make([]models.VenueRow, len(rows))
	copy(ranked, rows)
	landmark := strings.TrimPrefix(text, "london ")

	boosted := func(r models.VenueRow) bool {
		if chain == "" {
			return false
		}
		rowChain := strings.ToLower(r.Chain)
		if rowChain == "" {
			rowChain = detectChain(r.Name)
		}
		name := strings.ToLower(r.Name)
		return strings.HasPrefix(rowChain, chain) && (strings.Contains(name, text) || strings.Contains(name, landmark))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		bi, bj := boosted(ranked[i]), boosted(ranked[j])
		if bi != bj {
			return bi
		}
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"`
}

// decodeGeometry reads a GeoJSON-style {"coordinates":[lon, lat]} value.
func decodeGeometry(raw []byte) (lat, lng float64, err error) {
	if len(raw) == 0 {
		return 0, 0, errBadGeometry
	}
	var g geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return 0, 0, errBadGeometry
	}
	if len(g.Coordinates) != 2 {
		return 0, 0, errBadGeometry
	}
	lng, lat = g.Coordinates[0], g.Coordinates[1]
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, errBadGeometry
	}
	return lat, lng, nil
}
