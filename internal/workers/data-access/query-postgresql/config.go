package querypostgresql

import "time"

type Config struct {
	Timeout time.Duration
	// VenueCandidates is how many ranked rows a venue search returns.
	VenueCandidates int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		VenueCandidates: 5,
	}
}
