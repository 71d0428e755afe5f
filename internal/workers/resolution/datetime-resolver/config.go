package datetimeresolver

import "time"

type Config struct {
	Timeout time.Duration
	// MaxWindowMonths bounds how far past the anchor a window may reach.
	MaxWindowMonths int
	// DefaultDuration is added to a lone start time to form the end time.
	DefaultDuration time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		MaxWindowMonths: 6,
		DefaultDuration: 2 * time.Hour,
	}
}
