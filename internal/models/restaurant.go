package models

// RestaurantRecord is a read-only projection of a directory restaurant.
type RestaurantRecord struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	CuisineType       string   `json:"cuisine_type"`
	Address           string   `json:"address"`
	Rating            *float64 `json:"rating,omitempty"`
	PriceLevel        *int     `json:"price_level,omitempty"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	DistanceFromVenue float64  `json:"distance_meters"`
}

// RestaurantQuery is the composed filter handed to a restaurant directory.
type RestaurantQuery struct {
	Origin           Coordinates
	ExcludedCuisines []string
	CuisineTypes     []string
	StartDate        string
	EndDate          string
	StartTime        string
	EndTime          string
	Limit            int
}
