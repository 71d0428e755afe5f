package placesfallback

import "time"

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	Radius     float64
	CenterLat  float64
	CenterLng  float64
	MaxResults int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:    "https://places.googleapis.com",
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		Radius:     5000,
		CenterLat:  51.5074,
		CenterLng:  -0.1278,
		MaxResults: 5,
	}
}
