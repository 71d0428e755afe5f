package models

// VenueType is the kind of venue the directory can resolve.
type VenueType string

const (
	VenueTypeTheatre VenueType = "theatre"
	VenueTypeCinema  VenueType = "cinema"
)

// ParseVenueType accepts exactly "theatre" or "cinema".
func ParseVenueType(s string) (VenueType, bool) {
	switch VenueType(s) {
	case VenueTypeTheatre, VenueTypeCinema:
		return VenueType(s), true
	default:
		return "", false
	}
}

// VenueSource records which strategy produced a candidate.
type VenueSource string

const (
	VenueSourceDirectory VenueSource = "directory"
	VenueSourcePlaces    VenueSource = "places"
)

// VenueCandidate is the single resolved venue anchoring a search.
type VenueCandidate struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            VenueType   `json:"type"`
	Chain           string      `json:"chain,omitempty"`
	Latitude        float64     `json:"latitude"`
	Longitude       float64     `json:"longitude"`
	Address         string      `json:"address"`
	LocationContext string      `json:"location_context,omitempty"`
	Similarity      float64     `json:"similarity"`
	Confidence      float64     `json:"confidence"`
	Source          VenueSource `json:"source"`
}

// Coordinates returns the venue's position.
func (v VenueCandidate) Coordinates() Coordinates {
	return Coordinates{Latitude: v.Latitude, Longitude: v.Longitude}
}

// VenueRow is one row returned by a venue directory search. Geometry is kept
// in its stored JSON form until the resolver decodes it.
type VenueRow struct {
	ID         string
	Name       string
	Address    string
	Chain      string
	Geometry   []byte
	Similarity float64
}

// PlaceCandidate is one result from the external places service.
type PlaceCandidate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Types     []string `json:"types,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
}

// PointOfInterest is the enrichment record written back to the venue directory.
type PointOfInterest struct {
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Type       VenueType `json:"type"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Source     string    `json:"source"`
}
