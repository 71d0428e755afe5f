package models

// Query is the raw search request: free text plus the requesting user.
type Query struct {
	Text      string `json:"query" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	RequestID string `json:"-"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether c is the zero point, used as "no coordinates".
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}
