package venueresolver

import "time"

type Config struct {
	Timeout       time.Duration
	MinConfidence float64
	// PlacesSimilarity is the similarity recorded for places-sourced venues.
	PlacesSimilarity float64
	WriteBackTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		MinConfidence:    0.5,
		PlacesSimilarity: 0.8,
		WriteBackTimeout: 10 * time.Second,
	}
}
